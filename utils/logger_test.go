package utils

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestResolveLevel(t *testing.T) {
	cases := []struct {
		raw      string
		fallback zapcore.Level
		want     zapcore.Level
	}{
		{"debug", zapcore.InfoLevel, zapcore.DebugLevel},
		{"warn", zapcore.InfoLevel, zapcore.WarnLevel},
		{"error", zapcore.DebugLevel, zapcore.ErrorLevel},
		{"", zapcore.InfoLevel, zapcore.InfoLevel},
		{"loud", zapcore.InfoLevel, zapcore.InfoLevel}, // unparseable falls back
	}
	for _, tc := range cases {
		if got := resolveLevel(tc.raw, tc.fallback); got != tc.want {
			t.Errorf("resolveLevel(%q, %v) = %v, want %v", tc.raw, tc.fallback, got, tc.want)
		}
	}
}
