package logx

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandler_LabelsAndAttrs(t *testing.T) {
	var buf bytes.Buffer
	l := slog.New(NewHandler(&buf, &Options{Level: slog.LevelInfo}))
	l.Info("built in 0.512s")
	l.Warn("usr: 0.010")
	l.With("file", "a.cc").Error("build failed", "code", 1)
	l.Log(context.Background(), LevelFatal, "missing filename")
	l.Debug("hidden")

	want := " I built in 0.512s\n" +
		" W usr: 0.010\n" +
		" E build failed file=a.cc code=1\n" +
		" F missing filename\n"
	assert.Equal(t, want, buf.String())
}

func TestHandler_QuietKeepsErrorsOnly(t *testing.T) {
	var buf bytes.Buffer
	l := slog.New(NewHandler(&buf, &Options{Level: LevelFor(true)}))
	l.Info("init ok")
	l.Warn("rss: 1K (=0M)")
	l.Error("no such record")
	assert.Equal(t, " E no such record\n", buf.String())
}

func TestHandler_Groups(t *testing.T) {
	var buf bytes.Buffer
	l := slog.New(NewHandler(&buf, nil)).WithGroup("usage")
	l.Info("run", "rss", 12, slog.Group("cpu", "usr", "0.1"))
	assert.Equal(t, " I run usage.rss=12 usage.cpu.usr=0.1\n", buf.String())
}

func TestHandler_ColorWrapsLabel(t *testing.T) {
	var buf bytes.Buffer
	l := slog.New(NewHandler(&buf, &Options{Color: true}))
	l.Info("x")
	assert.Contains(t, buf.String(), "\x1b[")
	assert.True(t, strings.HasSuffix(buf.String(), " x\n"))
}

func TestSetup_FansOutToJSONFile(t *testing.T) {
	var stderr bytes.Buffer
	logFile := filepath.Join(t.TempDir(), "ev.log")
	l, cleanup := Setup(&stderr, slog.LevelError, logFile)
	l.Info("only in file")
	l.Log(context.Background(), LevelFatal, "boom")
	require.NoError(t, cleanup())

	assert.Equal(t, " F boom\n", stderr.String())
	b, err := os.ReadFile(logFile)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	require.Len(t, lines, 2)
	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &rec))
	assert.Equal(t, "FATAL", rec["level"])
	assert.Equal(t, "boom", rec["msg"])
}
