package app

import (
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stackpilot/stackpilot/internal/testutil"
)

func TestNewLogger_LevelsAndFormats(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name      string
		level     string
		format    string
		expectErr bool
	}{
		{name: "Text logger at debug", level: "debug", format: "text"},
		{name: "JSON logger at warn", level: "warn", format: "json"},
		{name: "Unknown level rejected", level: "verbose", format: "text", expectErr: true},
		{name: "Unknown format rejected", level: "info", format: "xml", expectErr: true},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			// --- Act ---
			logger, err := newLogger(tc.level, tc.format, &testutil.SafeBuffer{})

			// --- Assert ---
			if tc.expectErr {
				require.Error(t, err)
				require.Nil(t, logger)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, logger)
		})
	}
}

func TestNewLogger_HonorsConfiguredLevel(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	var buf testutil.SafeBuffer
	logger, err := newLogger("warn", "text", &buf)
	require.NoError(t, err)

	// --- Act ---
	logger.Info("hidden")
	logger.Warn("visible")

	// --- Assert ---
	require.False(t, logger.Enabled(context.Background(), slog.LevelInfo))
	out := buf.String()
	require.NotContains(t, out, "hidden")
	require.Contains(t, out, "visible")
}

func TestNewLogger_JSONFormat(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	var buf testutil.SafeBuffer
	logger, err := newLogger("info", "json", &buf)
	require.NoError(t, err)

	// --- Act ---
	logger.Info("structured")

	// --- Assert ---
	require.True(t, strings.HasPrefix(buf.String(), "{"))
}
