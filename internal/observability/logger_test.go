package observability

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, parseLevel("debug"))
	assert.Equal(t, zerolog.WarnLevel, parseLevel("warn"))
	assert.Equal(t, zerolog.WarnLevel, parseLevel("warning"))
	assert.Equal(t, zerolog.ErrorLevel, parseLevel("error"))
	assert.Equal(t, zerolog.InfoLevel, parseLevel("unknown"))
}

func TestNewLogger_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(LogConfig{
		Level:       "debug",
		Format:      "json",
		Output:      &buf,
		ServiceName: "scheme-engine-test",
	})

	log.Info().Str("state", "Goa").Int("schemes", 3).Msg("corpus loaded")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "scheme-engine-test", entry["service"])
	assert.Equal(t, "Goa", entry["state"])
	assert.Equal(t, float64(3), entry["schemes"])
	assert.Equal(t, "corpus loaded", entry["message"])
}

func TestWithOperation(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(LogConfig{
		Level:  "debug",
		Format: "json",
		Output: &buf,
	})

	log.WithOperation("dialog.process").Info().Msg("turn resolved")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "dialog.process", entry["operation"])
}

func TestNop_DiscardsEverything(t *testing.T) {
	log := Nop()
	log.Error().Str("k", "v").Msg("never seen")
	log.With().Str("k", "v").Logger().Warn().Send()
}
