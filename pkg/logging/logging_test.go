package logging_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/tablespec/pkg/logging"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"WARN", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"off", zerolog.Disabled},
		{"", zerolog.InfoLevel},
		{"loud", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, logging.ParseLevel(tt.in))
		})
	}
}

func TestNewLoggerFromConfig(t *testing.T) {
	originalLevel := zerolog.GlobalLevel()
	defer zerolog.SetGlobalLevel(originalLevel)

	path := filepath.Join(t.TempDir(), "tablespec.log")
	logger := logging.NewLoggerFromConfig(&logging.Config{
		Level:  "warn",
		Format: "json",
		Output: path,
	})

	logger.Info().Msg("hidden message")
	logger.Warn().Str("key", "showHeader").Msg("deprecated option")

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(content), "hidden message")
	assert.Contains(t, string(content), "deprecated option")
	assert.Contains(t, string(content), `"key":"showHeader"`)
}

func TestDefaultConfig(t *testing.T) {
	cfg := logging.DefaultConfig()
	assert.Equal(t, "info", cfg.Level)
	assert.Equal(t, "auto", cfg.Format)
	assert.Equal(t, "stderr", cfg.Output)
	assert.False(t, cfg.AddCaller)
}

func TestContextLogger(t *testing.T) {
	t.Run("falls back to default", func(t *testing.T) {
		assert.Same(t, logging.Default(), logging.FromContext(context.Background()))
	})

	t.Run("carries table id", func(t *testing.T) {
		tl := logging.NewTestLogger(t)
		ctx := logging.WithLogger(context.Background(), tl.Logger)
		ctx = logging.WithTableID(ctx, "totals")
		ctx = logging.WithOperation(ctx, "parse")

		logging.FromContext(ctx).Info().Msg("resolved")
		assert.True(t, tl.Contains(`"table_id":"totals"`))
		assert.True(t, tl.Contains(`"operation":"parse"`))
		assert.Equal(t, 1, tl.Count())
	})

	t.Run("nil table id leaves context untouched", func(t *testing.T) {
		ctx := context.Background()
		assert.Equal(t, ctx, logging.WithTableID(ctx, nil))
	})
}

func TestCaptureLoggingForTest(t *testing.T) {
	tl := logging.CaptureLoggingForTest(t)
	logging.Error().Msg("captured")
	logging.Debug().Msg("also captured")
	assert.True(t, tl.Contains("captured"))
	assert.Equal(t, 2, tl.Count())
}
