package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInitJSON(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "info", Format: "json", Output: &buf})
	defer Init(DefaultConfig())

	Info().Str("stage", "ingest").Msg("dataset loaded")
	out := buf.String()
	assert.Contains(t, out, `"level":"info"`)
	assert.Contains(t, out, `"stage":"ingest"`)
	assert.Contains(t, out, `"message":"dataset loaded"`)
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "warn", Format: "json", Output: &buf})
	defer Init(DefaultConfig())

	Debug().Msg("invisible")
	Info().Msg("also invisible")
	Warn().Msg("visible")

	out := buf.String()
	assert.NotContains(t, out, "invisible")
	assert.Contains(t, out, "visible")
	assert.Equal(t, 1, strings.Count(out, "\n"))
}

func TestParseLevelFallback(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "nonsense", Format: "json", Output: &buf})
	defer Init(DefaultConfig())

	Debug().Msg("filtered at default info level")
	assert.Empty(t, buf.String())
}
