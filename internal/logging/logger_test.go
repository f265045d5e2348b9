package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWritesToFile(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "logs", "archmeta.log")

	logger, err := New(Config{Level: "debug", OutputFile: logFile, JSONFormat: true})
	require.NoError(t, err)

	logger.Info("merge applied", "feedback_id", 7)

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"merge applied"`)
	assert.Contains(t, string(data), `"feedback_id":7`)
}

func TestNewBadFilePath(t *testing.T) {
	// A directory where the file should be.
	dir := t.TempDir()
	_, err := New(Config{OutputFile: dir})
	assert.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, parseLevel("WARN"))
	assert.Equal(t, slog.LevelError, parseLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLevel(""))
	assert.Equal(t, slog.LevelInfo, parseLevel("verbose"))
}
