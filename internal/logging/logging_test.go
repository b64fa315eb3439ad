package logging_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thomthomthomas/SMART-CAREER-Singapore/internal/logging"
)

func TestNewWithWriters_FansOut(t *testing.T) {
	var console, file bytes.Buffer
	logger := logging.NewWithWriters(&console, &file, logging.Options{Level: slog.LevelInfo})

	logger.Info("skill processed", "skill", "SQL", "videos", 2)
	logger.Debug("hidden")

	assert.Contains(t, console.String(), "skill processed")
	assert.Contains(t, console.String(), "skill=SQL")
	assert.NotContains(t, console.String(), "hidden")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(file.Bytes(), &rec))
	assert.Equal(t, "skill processed", rec["msg"])
	assert.Equal(t, "SQL", rec["skill"])
	assert.Equal(t, float64(2), rec["videos"])
}

func TestNewWithWriters_JSONConsole(t *testing.T) {
	var console, file bytes.Buffer
	logger := logging.NewWithWriters(&console, &file, logging.Options{Level: slog.LevelDebug, JSON: true})

	logger.Debug("retrying", "attempt", 1)

	line := strings.TrimSpace(console.String())
	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(line), &rec))
	assert.Equal(t, "retrying", rec["msg"])
}

func TestNew_WritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "career.log")
	logger, cleanup := logging.New(logging.Options{Level: slog.LevelInfo, File: path})

	logger.Warn("rate limited", "delay", "5s")
	require.NoError(t, cleanup())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"rate limited"`)
}

func TestNew_UnwritableFileFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "dir", "career.log")
	logger, cleanup := logging.New(logging.Options{Level: slog.LevelInfo, File: path})

	require.NotNil(t, logger)
	assert.NoError(t, cleanup())
}
