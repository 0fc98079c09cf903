package log

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedLogger(buf *bytes.Buffer, level Level) *Logger {
	l := New(buf, level)
	l.now = func() time.Time { return time.Date(2025, 12, 6, 10, 45, 0, 0, time.UTC) }
	return l
}

func TestLogger_Format(t *testing.T) {
	var buf bytes.Buffer
	l := fixedLogger(&buf, LevelDebug)

	l.Error(CatItem, "Trying to load Station as solar system", "type_id", 5, "item_id", 30000142)

	assert.Equal(t,
		"2025-12-06T10:45:00 [ERROR] [item] Trying to load Station as solar system type_id=5 item_id=30000142\n",
		buf.String())
}

func TestLogger_OrphanKey(t *testing.T) {
	var buf bytes.Buffer
	l := fixedLogger(&buf, LevelDebug)

	l.Info(CatDB, "opened", "path")

	assert.True(t, strings.HasSuffix(buf.String(), " path=<missing>\n"))
}

func TestLogger_MinLevel(t *testing.T) {
	var buf bytes.Buffer
	l := fixedLogger(&buf, LevelWarn)

	l.Debug(CatCache, "hit")
	l.Info(CatCache, "miss")
	assert.Empty(t, buf.String())

	l.Warn(CatCache, "evicted")
	assert.Contains(t, buf.String(), "[WARN] [cache] evicted")

	buf.Reset()
	l.SetMinLevel(LevelDebug)
	l.Debug(CatCache, "hit")
	assert.Contains(t, buf.String(), "[DEBUG]")
}

func TestLogger_Disabled(t *testing.T) {
	var buf bytes.Buffer
	l := fixedLogger(&buf, LevelDebug)
	l.SetEnabled(false)

	l.Error(CatItem, "dropped")
	assert.Empty(t, buf.String())

	var nilLogger *Logger
	assert.NotPanics(t, func() { nilLogger.Error(CatItem, "dropped") })
	assert.NotPanics(t, func() { Discard().Error(CatItem, "dropped") })
}

func TestLogger_ErrorErr(t *testing.T) {
	var buf bytes.Buffer
	l := fixedLogger(&buf, LevelDebug)

	l.ErrorErr(CatImport, "import failed", errors.New("boom"), "file", "dump.json")
	assert.Contains(t, buf.String(), "file=dump.json error=boom")

	buf.Reset()
	l.ErrorErr(CatImport, "import failed", nil)
	assert.Contains(t, buf.String(), "error=<nil>")
}

func TestInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "universe.log")

	cleanup, err := Init(path, LevelInfo)
	require.NoError(t, err)

	Info(CatConfig, "loaded", "driver", "sqlite")
	Debug(CatConfig, "ignored")
	cleanup()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[INFO] [config] loaded driver=sqlite")
	assert.NotContains(t, string(data), "ignored")

	// default logger is discarded after cleanup
	assert.NotPanics(t, func() { Error(CatConfig, "after cleanup") })
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{in: "debug", want: LevelDebug},
		{in: "INFO", want: LevelInfo},
		{in: "", want: LevelInfo},
		{in: "warning", want: LevelWarn},
		{in: "error", want: LevelError},
		{in: "loud", want: LevelInfo, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}
