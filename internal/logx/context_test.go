package logx

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestContextHandler(t *testing.T) {
	var buff bytes.Buffer

	logger := slog.New(ContextHandler{
		Handler: slog.NewTextHandler(&buff, &slog.HandlerOptions{Level: slog.LevelDebug}),
	})

	ctx := WithAttrs(context.Background(), slog.String("phrase", "golang"))
	ctx = WithAttrs(ctx, slog.Int("num", 5))

	logger.DebugContext(ctx, "executing search")

	output := buff.String()

	for _, expected := range []string{"phrase=golang", "num=5", `msg="executing search"`} {
		if !strings.Contains(output, expected) {
			t.Errorf("expected '%s' in log output, got '%s'", expected, output)
		}
	}
}
