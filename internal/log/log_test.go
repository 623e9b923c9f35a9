package log_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ryantking/crules/internal/log"
)

func TestGetLevel(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		"debug":          {in: "debug", want: slog.LevelDebug},
		"upper case":     {in: "INFO", want: slog.LevelInfo},
		"warning alias":  {in: "warning", want: slog.LevelWarn},
		"error":          {in: "error", want: slog.LevelError},
		"unknown level":  {in: "verbose", wantErr: true},
		"empty is error": {in: "", wantErr: true},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := log.GetLevel(tc.in)
			if tc.wantErr {
				require.ErrorIs(t, err, log.ErrUnknownLogLevel)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestCreateHandlerWithStrings(t *testing.T) {
	t.Parallel()

	for _, format := range log.AllFormats {
		t.Run(format, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			h, err := log.CreateHandlerWithStrings(&buf, "info", format)
			require.NoError(t, err)

			slog.New(h).Info("project root found", slog.String("root", "/tmp/p"))
			assert.Contains(t, buf.String(), "project root found")
			assert.Contains(t, buf.String(), "/tmp/p")
		})
	}

	_, err := log.CreateHandlerWithStrings(&bytes.Buffer{}, "info", "xml")
	require.ErrorIs(t, err, log.ErrInvalidArgument)
	require.ErrorIs(t, err, log.ErrUnknownLogFormat)
}

func TestHandlerRespectsLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	h, err := log.CreateHandlerWithStrings(&buf, "warn", "json")
	require.NoError(t, err)

	logger := slog.New(h)
	logger.Info("hidden")
	logger.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}
