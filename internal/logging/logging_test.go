package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger_JSONWithContextAttrs(t *testing.T) {
	var buf bytes.Buffer
	l := Logger(&buf, true, slog.LevelInfo)

	ctx := AppendCtx(context.Background(), slog.String("app", "pixcore"))
	ctx = AppendCtx(ctx, slog.Int("worker", 3))
	l.InfoContext(ctx, "processed", "key", "banner")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "processed", rec["msg"])
	assert.Equal(t, "pixcore", rec["app"])
	assert.EqualValues(t, 3, rec["worker"])
	assert.Equal(t, "banner", rec["key"])
}

func TestLogger_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	l := Logger(&buf, false, slog.LevelWarn)
	l.Info("hidden")
	assert.Zero(t, buf.Len())
	l.Warn("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestAppendCtx_DoesNotLeakBetweenBranches(t *testing.T) {
	base := AppendCtx(context.Background(), slog.String("a", "1"))
	left := AppendCtx(base, slog.String("b", "2"))
	right := AppendCtx(base, slog.String("c", "3"))

	assert.Len(t, left.Value(ctxKey{}).([]slog.Attr), 2)
	assert.Len(t, right.Value(ctxKey{}).([]slog.Attr), 2)
	assert.Equal(t, "c", right.Value(ctxKey{}).([]slog.Attr)[1].Key)
}

func TestFileWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pixcore.log")
	w := FileWriter(path, 1, 1)
	l := Logger(w, false, slog.LevelDebug)
	l.Debug("to file")
	require.NoError(t, w.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "to file")
}
