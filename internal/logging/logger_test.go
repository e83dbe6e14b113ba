package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogLevelString(t *testing.T) {
	testCases := []struct {
		level    LogLevel
		expected string
	}{
		{LevelDebug, "DEBUG"},
		{LevelInfo, "INFO"},
		{LevelWarn, "WARN"},
		{LevelError, "ERROR"},
		{LogLevel(42), "UNKNOWN"},
	}

	for _, tc := range testCases {
		t.Run(tc.expected, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.level.String())
		})
	}
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LevelDebug, ParseLevel("debug"))
	assert.Equal(t, LevelWarn, ParseLevel("warn"))
	assert.Equal(t, LevelWarn, ParseLevel("warning"))
	assert.Equal(t, LevelError, ParseLevel("error"))
	assert.Equal(t, LevelInfo, ParseLevel("info"))
	assert.Equal(t, LevelInfo, ParseLevel(""))
	assert.Equal(t, LevelInfo, ParseLevel("bogus"))
}

func jsonLogger(level LogLevel) (*RenderLogger, *bytes.Buffer) {
	var buf bytes.Buffer
	logger := NewLogger(&LoggerConfig{Level: level, Format: "json", Output: &buf})
	return logger, &buf
}

func lastEntry(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.NotEmpty(t, lines)
	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[len(lines)-1], &entry))
	return entry
}

func TestLoggerWritesStructuredFields(t *testing.T) {
	logger, buf := jsonLogger(LevelInfo)

	logger.Info(context.Background(), "rendered template",
		"template", "urls.js",
		"destination", "static/urls.js",
	)

	entry := lastEntry(t, buf)
	assert.Equal(t, "rendered template", entry["msg"])
	assert.Equal(t, "urls.js", entry["template"])
	assert.Equal(t, "static/urls.js", entry["destination"])
}

func TestLoggerLevelFiltering(t *testing.T) {
	logger, buf := jsonLogger(LevelWarn)

	logger.Debug(context.Background(), "debug msg")
	logger.Info(context.Background(), "info msg")
	assert.Zero(t, buf.Len())

	logger.Warn(context.Background(), nil, "warn msg")
	assert.NotZero(t, buf.Len())
}

func TestLoggerErrorField(t *testing.T) {
	logger, buf := jsonLogger(LevelInfo)

	logger.Error(context.Background(), errors.New("manifest missing"), "load failed")

	entry := lastEntry(t, buf)
	assert.Equal(t, "load failed", entry["msg"])
	assert.Equal(t, "manifest missing", entry["error"])
}

func TestLoggerWithComponent(t *testing.T) {
	logger, buf := jsonLogger(LevelInfo)

	logger.WithComponent("engine").Info(context.Background(), "ready")

	entry := lastEntry(t, buf)
	assert.Equal(t, "engine", entry["component"])
}

func TestLoggerWithFields(t *testing.T) {
	logger, buf := jsonLogger(LevelInfo)

	scoped := logger.With("selector", "*.js").With("engine", "text")
	scoped.Info(context.Background(), "selecting")

	entry := lastEntry(t, buf)
	assert.Equal(t, "*.js", entry["selector"])
	assert.Equal(t, "text", entry["engine"])

	// the parent logger is unchanged
	buf.Reset()
	logger.Info(context.Background(), "plain")
	entry = lastEntry(t, buf)
	assert.NotContains(t, entry, "selector")
}

func TestNewLoggerDefaults(t *testing.T) {
	logger := NewLogger(nil)
	require.NotNil(t, logger)
	// usable without panicking
	logger.Debug(context.Background(), "ignored at default level")
}
