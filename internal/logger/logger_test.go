package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStageLoggerMapsLevels(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Level: "debug", Format: "json", Writer: &buf})

	Stage(l).Log("RISK", "AI", "classifier failed", "timeout")

	var evt map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &evt))
	assert.Equal(t, "warn", evt["level"])
	assert.Equal(t, "AI", evt["stage"])
	assert.Equal(t, "timeout", evt["detail"])
	assert.Equal(t, "classifier failed", evt["message"])
}

func TestStageLoggerOmitsEmptyDetail(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Level: "info", Format: "json", Writer: &buf})

	Stage(l).Log("INFO", "BOOT", "started", "  ")

	var evt map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &evt))
	_, ok := evt["detail"]
	assert.False(t, ok)
}

func TestParseLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Level: "nonsense", Format: "json", Writer: &buf})
	l.Debug().Msg("hidden")
	assert.Empty(t, buf.String())
	l.Info().Msg("shown")
	assert.Contains(t, buf.String(), "shown")
}
