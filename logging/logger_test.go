package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger("debug", false, &buf)

	log.Debug().Str("stage", "discovery").Msg("probe")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "debug", entry["level"])
	assert.Equal(t, "discovery", entry["stage"])
	assert.Equal(t, "probe", entry["message"])
	assert.Contains(t, entry, "time")
}

func TestNewLoggerLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger("warn", false, &buf)

	log.Info().Msg("suppressed")
	assert.Empty(t, buf.Bytes())

	log.Warn().Msg("visible")
	assert.NotEmpty(t, buf.Bytes())
}

func TestNewLoggerBadLevelFallsBack(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger("shouting", false, &buf)

	log.Debug().Msg("below info")
	assert.Empty(t, buf.Bytes())

	log.Info().Msg("at info")
	assert.NotEmpty(t, buf.Bytes())
}
