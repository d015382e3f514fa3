package search

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/bornholm/googlesearch/internal/command"
	"github.com/bornholm/googlesearch/pkg/render"
	"github.com/bornholm/googlesearch/pkg/search/google"
	"github.com/pkg/errors"
)

const responseBody = `{
	"items": [
		{"title": "Go", "link": "https://go.dev/", "snippet": "The Go programming language"},
		{"title": "Example", "link": "https://example.com/go", "snippet": "Another page"}
	],
	"searchInformation": {"totalResults": "2", "formattedTotalResults": "2"}
}`

func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer

	app := command.NewApp("googlesearch", "test", "", Search())
	app.Writer = &stdout
	app.ErrWriter = &stderr
	app.ExitErrHandler = nil

	err := app.Run(append([]string{"googlesearch", "--env-file", filepath.Join(t.TempDir(), "missing.env")}, args...))

	return stdout.String(), err
}

func TestSearchCommand(t *testing.T) {
	var requests atomic.Int32
	var rawQuery atomic.Value

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		rawQuery.Store(r.URL.RawQuery)
		w.Write([]byte(responseBody))
	}))
	defer server.Close()

	output, err := runApp(t,
		"search",
		"--engine-id", "engine",
		"--api-key", "secret",
		"--api-url", server.URL,
		"--param", "num=2",
		"--filter-link", "https://go.dev/*",
		"golang", "tutorial",
	)
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	if e, g := int32(1), requests.Load(); e != g {
		t.Errorf("expected %d requests, got %d", e, g)
	}

	query := rawQuery.Load().(string)
	for _, expected := range []string{"cx=engine&", "q=golang+tutorial", "num=2"} {
		if !strings.Contains(query, expected) {
			t.Errorf("expected '%s' in query '%s'", expected, query)
		}
	}

	if !strings.Contains(output, "1. Go") {
		t.Errorf("expected go.dev item in output:\n%s", output)
	}

	if strings.Contains(output, "example.com") {
		t.Errorf("expected example.com item to be filtered out:\n%s", output)
	}
}

func TestSearchCommandMissingCredentials(t *testing.T) {
	t.Setenv("GOOGLESEARCH_ENGINE_ID", "")
	t.Setenv("GOOGLESEARCH_API_KEY", "")

	_, err := runApp(t, "search", "golang")
	if err == nil {
		t.Fatal("expected an error")
	}

	if !errors.Is(err, google.ErrConfiguration) {
		t.Errorf("expected a configuration error, got %+v", err)
	}
}

func TestParseParams(t *testing.T) {
	params, err := ParseParams([]string{"num=5", "lr=lang_fr", "num=10", "q=a=b"})
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	if e, g := "10", params["num"]; e != g {
		t.Errorf("expected num '%s', got '%s'", e, g)
	}

	if e, g := "a=b", params["q"]; e != g {
		t.Errorf("expected q '%s', got '%s'", e, g)
	}

	if _, err := ParseParams([]string{"invalid"}); err == nil {
		t.Errorf("expected an error")
	}
}

func TestOutputFilename(t *testing.T) {
	if e, g := "hello-world.md", OutputFilename("Hello World!", render.FormatMarkdown); e != g {
		t.Errorf("expected '%s', got '%s'", e, g)
	}

	if e, g := "results.txt", OutputFilename("", render.FormatText); e != g {
		t.Errorf("expected '%s', got '%s'", e, g)
	}
}

func TestSearchCommandSave(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(responseBody))
	}))
	defer server.Close()

	workdir := t.TempDir()

	cwd, err := os.Getwd()
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}
	defer os.Chdir(cwd)

	_, err = runApp(t,
		"--workdir", workdir,
		"search",
		"--engine-id", "engine",
		"--api-key", "secret",
		"--api-url", server.URL,
		"--format", "json",
		"--save",
		"golang",
	)
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	data, err := os.ReadFile(filepath.Join(workdir, "golang.json"))
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	if !strings.Contains(string(data), `"link": "https://go.dev/"`) {
		t.Errorf("unexpected saved output:\n%s", data)
	}
}

type failingCloser struct {
	bytes.Buffer
	closed bool
}

func (f *failingCloser) Close() error {
	f.closed = true
	return errors.New("disk full")
}

func TestWriteAndCloseReportsCloseError(t *testing.T) {
	wc := &failingCloser{}

	err := WriteAndClose(wc, func(w io.Writer) error {
		_, err := io.WriteString(w, "results")
		return err
	})
	if err == nil || !strings.Contains(err.Error(), "disk full") {
		t.Fatalf("expected close error to be reported, got %v", err)
	}

	if !wc.closed {
		t.Errorf("expected writer to be closed")
	}
}

func TestWriteAndCloseOnRenderError(t *testing.T) {
	wc := &failingCloser{}

	err := WriteAndClose(wc, func(w io.Writer) error {
		return errors.New("render failed")
	})
	if err == nil || !strings.Contains(err.Error(), "render failed") {
		t.Fatalf("expected render error, got %v", err)
	}

	if !wc.closed {
		t.Errorf("expected writer to be closed")
	}
}

func TestSearchCommandBrief(t *testing.T) {
	var requests atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.Write([]byte(responseBody))
	}))
	defer server.Close()

	output, err := runApp(t,
		"search",
		"--engine-id", "engine",
		"--api-key", "secret",
		"--api-url", server.URL,
		"--brief",
		"--filter-link", "https://example.com/*",
		"golang",
	)
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	if e, g := int32(1), requests.Load(); e != g {
		t.Errorf("expected %d requests, got %d", e, g)
	}

	for _, expected := range []string{"# Search results", "## 1. Example", "**URL**: https://example.com/go"} {
		if !strings.Contains(output, expected) {
			t.Errorf("expected '%s' in output:\n%s", expected, output)
		}
	}

	if strings.Contains(output, "https://go.dev/") {
		t.Errorf("expected go.dev item to be filtered out:\n%s", output)
	}
}
