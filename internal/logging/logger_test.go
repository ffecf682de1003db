package logging

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitJSON(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "info", Format: FormatJSON, Output: &buf})
	t.Cleanup(func() { Init(DefaultConfig()) })

	Info().Int("skipped", 2).Msg("loaded history")
	Debug().Msg("hidden")

	out := buf.String()
	assert.Contains(t, out, `"level":"info"`)
	assert.Contains(t, out, `"skipped":2`)
	assert.Contains(t, out, `"message":"loaded history"`)
	assert.NotContains(t, out, "hidden")
	assert.NotContains(t, out, `"time"`)
}

func TestInitConsole(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "warn", Format: FormatConsole, Output: &buf, NoColor: true})
	t.Cleanup(func() { Init(DefaultConfig()) })

	Info().Msg("quiet")
	Warn().Str("file", "history.csv").Msg("skipped malformed rows")

	out := buf.String()
	require.NotEmpty(t, out)
	assert.Contains(t, out, "WRN")
	assert.Contains(t, out, "skipped malformed rows")
	assert.Contains(t, out, "file=history.csv")
	assert.NotContains(t, out, "quiet")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected zerolog.Level
	}{
		{"trace", zerolog.TraceLevel},
		{"debug", zerolog.DebugLevel},
		{"INFO", zerolog.InfoLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"off", zerolog.Disabled},
		{"bogus", zerolog.WarnLevel},
		{"", zerolog.WarnLevel},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseLevel(tt.input))
		})
	}
}

func TestValidLevel(t *testing.T) {
	assert.True(t, ValidLevel("Debug"))
	assert.False(t, ValidLevel("loud"))
	assert.False(t, ValidLevel(""))
}
