package logger

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"sizing-eval/internal/core/config"
)

func TestBuild_JSONAndLevel(t *testing.T) {
	var buf bytes.Buffer
	l, done := Build(Options{Level: "warn", JSON: true, Out: &buf})
	l.Info("hidden")
	l.Warn("shown")
	done()

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "shown", entry["msg"])
	assert.Contains(t, entry, "ts")
}

func TestBuild_BadLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	l, done := Build(Options{Level: "loud", JSON: true, Out: &buf})
	l.Debug("no")
	l.Info("yes")
	done()
	assert.NotContains(t, buf.String(), `"no"`)
	assert.Contains(t, buf.String(), `"yes"`)
}

func TestBuild_Rotate(t *testing.T) {
	file := filepath.Join(t.TempDir(), "app.log")
	var buf bytes.Buffer
	l, done := Build(Options{
		Level: "info", JSON: true, Out: &buf,
		Rotate: config.Rotate{Enable: true, Filename: file, MaxSizeMB: 1},
	})
	l.Info("to file")
	done()
	assert.FileExists(t, file)
}

func TestToWriter(t *testing.T) {
	var buf bytes.Buffer
	l, done := Build(Options{Level: "debug", JSON: true, Out: &buf})
	w := ToWriter(l, zapcore.InfoLevel)
	_, err := fmt.Fprintln(w, "[GIN-debug] route")
	require.NoError(t, err)
	done()
	assert.Contains(t, buf.String(), `"msg":"[GIN-debug] route"`)
}
