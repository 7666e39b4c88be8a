package config_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adcdata/go-pipeline/pkg/config"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path
}

func TestLoad(t *testing.T) {
	t.Parallel()

	path := writeFile(t, `
pipeline:
  - downcast: {signed_columns: [balance]}
  - drop_nan_rows:
database:
  name: warehouse
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	steps, ok := cfg["pipeline"].([]any)
	require.True(t, ok)
	assert.Len(t, steps, 2)

	db, ok := cfg["database"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "warehouse", db["name"])
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	_, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadInvalidYAML(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "pipeline: [unclosed")
	_, err := config.Load(path)
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	t.Parallel()

	path := writeFile(t, `
logging:
  level: debug
  format: text
`)

	logger, err := config.NewLogger(path)
	require.NoError(t, err)
	require.NotNil(t, logger)
	assert.True(t, logger.Enabled(t.Context(), slog.LevelDebug))
}

func TestNewLoggerWritesToFile(t *testing.T) {
	t.Parallel()

	logFile := filepath.Join(t.TempDir(), "app.log")
	path := writeFile(t, `
logging:
  level: info
  format: json
  file: `+logFile+`
`)

	logger, err := config.NewLogger(path)
	require.NoError(t, err)

	logger.Info("hello", "key", "value")

	raw, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"msg":"hello"`)
}

func TestNewLoggerFileOverride(t *testing.T) {
	t.Parallel()

	override := filepath.Join(t.TempDir(), "override.log")
	path := writeFile(t, `
logging:
  level: info
  format: text
  file: /nonexistent-dir/app.log
`)

	logger, err := config.NewLogger(path, config.WithLogFile(override))
	require.NoError(t, err)

	logger.Info("redirected")

	raw, err := os.ReadFile(override)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "redirected")
}

func TestNewLoggerMissingSection(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "pipeline: []")
	_, err := config.NewLogger(path)
	assert.ErrorIs(t, err, config.ErrMissingSection)
}

func TestNewLoggerBadLevel(t *testing.T) {
	t.Parallel()

	path := writeFile(t, `
logging:
  level: loud
`)
	_, err := config.NewLogger(path)
	assert.ErrorIs(t, err, config.ErrBadLevel)
}

func TestNewLoggerBadFormat(t *testing.T) {
	t.Parallel()

	path := writeFile(t, `
logging:
  format: xml
`)
	_, err := config.NewLogger(path)
	assert.ErrorIs(t, err, config.ErrBadFormat)
}
