package logger

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestNewDefaults(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")

	l := New()
	require.Equal(t, logrus.InfoLevel, l.GetLevel())
	require.IsType(t, &logrus.JSONFormatter{}, l.Formatter)
}

func TestNewLevelFromEnv(t *testing.T) {
	tests := []struct {
		env  string
		want logrus.Level
	}{
		{"debug", logrus.DebugLevel},
		{"warning", logrus.WarnLevel},
		{"error", logrus.ErrorLevel},
		{"trace", logrus.TraceLevel},
		{"  debug  ", logrus.DebugLevel},
		{"nonsense", logrus.InfoLevel},
	}

	for _, tt := range tests {
		t.Setenv("LOG_LEVEL", tt.env)
		require.Equal(t, tt.want, New().GetLevel(), tt.env)
	}
}
