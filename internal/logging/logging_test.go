package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]zerolog.Level{
		"debug":   zerolog.DebugLevel,
		" WARN ":  zerolog.WarnLevel,
		"warning": zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"off":     zerolog.Disabled,
		"":        zerolog.InfoLevel,
		"verbose": zerolog.InfoLevel,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestNewJSONFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "warn", FormatJSON)

	logger.Info().Msg("dropped")
	logger.Warn().Str("provider", "TCGplayer").Msg("lookup failed")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "TCGplayer", entry["provider"])
	assert.Equal(t, "lookup failed", entry["message"])
	assert.Contains(t, entry, "time")
}

func TestNewAutoFormatIsJSONForBuffers(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "info", FormatAuto)
	logger.Info().Msg("hello")
	assert.True(t, json.Valid(bytes.TrimSpace(buf.Bytes())))
}

func TestNewConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "info", FormatConsole)
	logger.Info().Str("card", "Pikachu").Msg("imported")
	out := buf.String()
	assert.Contains(t, out, "imported")
	assert.Contains(t, out, "card=Pikachu")
	assert.False(t, json.Valid(bytes.TrimSpace(buf.Bytes())))
}

func TestConfigureSetsGlobalLogger(t *testing.T) {
	prevLogger, prevLevel := log.Logger, zerolog.GlobalLevel()
	t.Cleanup(func() {
		log.Logger = prevLogger
		zerolog.SetGlobalLevel(prevLevel)
	})

	var buf bytes.Buffer
	Configure(&buf, "error", FormatJSON)
	assert.Equal(t, zerolog.ErrorLevel, zerolog.GlobalLevel())

	log.Warn().Msg("dropped")
	assert.Zero(t, buf.Len())
	log.Error().Msg("kept")
	assert.Contains(t, buf.String(), "kept")
}
