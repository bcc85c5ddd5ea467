package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newJSONSlog(t *testing.T, level slog.Level) (*SlogLogger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	h := slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: level})
	return NewSlogLogger(slog.New(h)), &buf
}

func records(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		rec := map[string]any{}
		require.NoError(t, json.Unmarshal([]byte(line), &rec))
		out = append(out, rec)
	}
	return out
}

func TestSlogLogger_Levels(t *testing.T) {
	log, buf := newJSONSlog(t, slog.LevelDebug)
	ctx := context.Background()

	log.Debug(ctx, "dbg", "a", 1)
	log.Info(ctx, "inf", "b", 2)
	log.Warn(ctx, "wrn", "c", 3)
	log.Error(ctx, "err", "d", 4)

	recs := records(t, buf)
	require.Len(t, recs, 4)

	tests := []struct {
		level, msg, key string
	}{
		{"DEBUG", "dbg", "a"},
		{"INFO", "inf", "b"},
		{"WARN", "wrn", "c"},
		{"ERROR", "err", "d"},
	}
	for i, tc := range tests {
		assert.Equal(t, tc.level, recs[i]["level"])
		assert.Equal(t, tc.msg, recs[i]["msg"])
		assert.Contains(t, recs[i], tc.key)
	}
}

func TestSlogLogger_FiltersBelowLevel(t *testing.T) {
	log, buf := newJSONSlog(t, slog.LevelWarn)
	ctx := WithAttrs(context.Background(), "request_id", "r-1")

	log.Debug(ctx, "hidden")
	log.Info(ctx, "hidden")
	log.Warn(ctx, "shown")

	recs := records(t, buf)
	require.Len(t, recs, 1)
	assert.Equal(t, "shown", recs[0]["msg"])
}

func TestSlogLogger_WithAndContextAttrs(t *testing.T) {
	log, buf := newJSONSlog(t, slog.LevelInfo)

	ctx := WithAttrs(context.Background(), "request_id", "r-42")
	ctx = WithAttrs(ctx, "user_id", "u-1")

	log.With("module", "account_service").Info(ctx, "user logged in", "email", "alice@example.com")

	recs := records(t, buf)
	require.Len(t, recs, 1)
	assert.Equal(t, "account_service", recs[0]["module"])
	assert.Equal(t, "r-42", recs[0]["request_id"])
	assert.Equal(t, "u-1", recs[0]["user_id"])
	assert.Equal(t, "alice@example.com", recs[0]["email"])
}

func TestSlogLogger_NilContext(t *testing.T) {
	log, buf := newJSONSlog(t, slog.LevelInfo)

	require.NotPanics(t, func() { log.Info(nil, "no ctx") })
	assert.Len(t, records(t, buf), 1)
}

func TestWithAttrs_DoesNotAlterParent(t *testing.T) {
	parent := WithAttrs(context.Background(), "a", 1)
	_ = WithAttrs(parent, "b", 2)

	assert.Equal(t, []any{"a", 1}, attrsFrom(parent))
	assert.Equal(t, context.Background(), WithAttrs(context.Background()))
}
