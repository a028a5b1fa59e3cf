package logger

import (
	"bytes"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	buf := new(bytes.Buffer)
	log.SetOutput(buf)
	color.NoColor = true
	t.Cleanup(func() {
		log.SetOutput(os.Stderr)
		isDebug = false
	})
	return buf
}

func TestDebugOnlyInDebugMode(t *testing.T) {
	buf := captureLog(t)

	Debug("hidden")
	assert.Empty(t, buf.String())

	isDebug = true
	Debug("visible", map[string]int{"ref": 12345})
	assert.Contains(t, buf.String(), "[DEBUG] visible")
	assert.Contains(t, buf.String(), `"ref": 12345`)
}

func TestCritExits(t *testing.T) {
	buf := captureLog(t)

	code := -1
	exit = func(c int) { code = c }
	t.Cleanup(func() { exit = os.Exit })

	Crit("boom")
	assert.Equal(t, 1, code)
	assert.Contains(t, buf.String(), "Critical error: boom")
}

func TestInitLoggerWritesFile(t *testing.T) {
	captureLog(t)

	dir := t.TempDir()
	cfg := filepath.Join(dir, "config.yml")
	logDir := filepath.Join(dir, "logs")
	require.NoError(t, os.WriteFile(cfg, []byte("logging:\n  enabled: true\n  directory: "+logDir+"\n  filename_format: bot\n"), 0o600))

	f := InitLogger(false, cfg)
	require.NotNil(t, f)
	defer f.Close()

	Info("hello")
	data, err := os.ReadFile(filepath.Join(logDir, "bot.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "[INFO] hello")
}

func TestInitLoggerWithoutConfig(t *testing.T) {
	captureLog(t)
	assert.Nil(t, InitLogger(true, filepath.Join(t.TempDir(), "absent.yml")))
	assert.True(t, IsDebug())
}
