package logger

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelAttrReplacer(t *testing.T) {
	testcases := []struct {
		level    slog.Level
		expected string
	}{
		{slog.LevelInfo, "INFO"},
		{slog.LevelError, "ERROR"},
		{LevelCritical, "CRITICAL"},
		{LevelCritical + 1, "CRITICAL+1"},
		{LevelPanic, "PANIC"},
		{LevelFatal, "FATAL"},
		{LevelFatal + 2, "FATAL+2"},
	}
	for _, tc := range testcases {
		t.Run(tc.expected, func(t *testing.T) {
			attr := levelAttrReplacer(nil, slog.Any(LevelKey, tc.level))
			assert.Equal(t, tc.expected, attr.Value.String())
		})
	}
	t.Run("grouped key untouched", func(t *testing.T) {
		attr := levelAttrReplacer([]string{"request"}, slog.Any(LevelKey, LevelFatal))
		assert.Equal(t, LevelFatal, attr.Value.Any())
	})
}

func TestGCPSeverity(t *testing.T) {
	assert.Equal(t, "DEBUG", gcpSeverity(slog.LevelDebug))
	assert.Equal(t, "WARNING", gcpSeverity(slog.LevelWarn))
	assert.Equal(t, "CRITICAL", gcpSeverity(LevelCritical))
	assert.Equal(t, "EMERGENCY", gcpSeverity(LevelFatal))
}
