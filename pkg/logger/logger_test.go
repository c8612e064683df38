package logx

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/bazi-agent/server/internal/core"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitProductionWritesJSONAtInfo(t *testing.T) {
	defer Init()

	var buf bytes.Buffer
	Init(LoggerOpts{Environment: core.Production, Output: &buf})

	Debug().Msg("hidden")
	Info().Str("bazi", "己巳 丙子 丙寅 戊子").Msg("computed")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)
	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "computed", entry["message"])
	assert.Equal(t, "己巳 丙子 丙寅 戊子", entry["bazi"])
}

func TestInitLevelOverride(t *testing.T) {
	defer Init()

	var buf bytes.Buffer
	Init(LoggerOpts{Environment: core.Production, Level: "WARN", Output: &buf})
	Info().Msg("hidden")
	Warn().Msg("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestConversationLogger(t *testing.T) {
	defer Init()

	var buf bytes.Buffer
	Init(LoggerOpts{Environment: core.Production, Output: &buf})
	Conversation("c-1").Info().Msg("turn")
	assert.Contains(t, buf.String(), `"conversation_id":"c-1"`)
	assert.Equal(t, log.Logger.GetLevel().String(), "info")
}
