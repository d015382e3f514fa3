package google

import (
	"strings"
	"testing"

	"github.com/pkg/errors"
)

func TestResponseFilter(t *testing.T) {
	res, err := DecodeResponse([]byte(`{"items":[{"link":"https://go.dev"},{"link":"https://example.com"}]}`))
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	filtered := res.Filter(func(item *Item) bool {
		return strings.Contains(item.Link, "go.dev")
	})

	if e, g := 1, len(filtered.Items); e != g {
		t.Fatalf("expected %d items, got %d", e, g)
	}

	if e, g := 2, len(res.Items); e != g {
		t.Errorf("expected original response to keep %d items, got %d", e, g)
	}

	if string(filtered.Raw()) != string(res.Raw()) {
		t.Errorf("expected raw body to be kept")
	}
}
