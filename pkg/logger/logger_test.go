package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		value string
		env   string
		want  slog.Level
	}{
		{"debug", "production", slog.LevelDebug},
		{" WARN ", "production", slog.LevelWarn},
		{"fatal", "production", LevelCritical},
		{"", "development", slog.LevelDebug},
		{"", "production", slog.LevelInfo},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseLevel(tt.value, tt.env), "value=%q env=%q", tt.value, tt.env)
	}
}

func TestErrorHelpers(t *testing.T) {
	var out bytes.Buffer
	log := New(&out, slog.LevelDebug, "json").With("component", "residents")

	log.BusinessError("family_cards.create: failed", nil)
	assert.Empty(t, out.String())

	log.BusinessError("family_cards.create: failed", errors.New("no_kk taken"), "no_kk", "1111")
	var line map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &line))
	assert.Equal(t, "WARN", line["level"])
	assert.Equal(t, "no_kk taken", line["err"])
	assert.Equal(t, "1111", line["no_kk"])
	assert.Equal(t, "residents", line["component"])

	out.Reset()
	log.Critical("app: init failed")
	require.NoError(t, json.Unmarshal(out.Bytes(), &line))
	assert.Equal(t, "CRITICAL", line["level"])
}
