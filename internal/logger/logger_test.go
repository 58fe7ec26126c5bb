//go:build !integration

package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	return line
}

func TestInit_Levels(t *testing.T) {
	tests := []struct {
		level    string
		expected zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"trace", zerolog.TraceLevel},
		{"", zerolog.InfoLevel},
		{"verbose", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run("level="+tt.level, func(t *testing.T) {
			Init(Config{Level: tt.level, Output: &bytes.Buffer{}})
			assert.Equal(t, tt.expected, zerolog.GlobalLevel())
		})
	}
}

func TestInit_JSONCarriesServiceName(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "info", Output: &buf})

	log.Info().Str("invoice_id", "INV-1").Msg("packed")

	line := decodeLine(t, &buf)
	assert.Equal(t, ServiceName, line["service"])
	assert.Equal(t, "INV-1", line["invoice_id"])
	assert.Equal(t, "packed", line["message"])
	assert.Contains(t, line, "time")
}

func TestInit_Pretty(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "info", Pretty: true, Output: &buf})

	log.Info().Msg("box calculated")

	assert.Contains(t, buf.String(), "box calculated")
	assert.NotContains(t, buf.String(), `"message"`)
}

func TestFromContext(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "info", Output: &buf})

	t.Run("request logger", func(t *testing.T) {
		buf.Reset()
		ctx := WithRequestID(context.Background(), "req-42")
		FromContext(ctx).Info().Msg("reserved")

		line := decodeLine(t, &buf)
		assert.Equal(t, "req-42", line["request_id"])
		assert.Equal(t, ServiceName, line["service"])
	})

	t.Run("falls back to global logger", func(t *testing.T) {
		buf.Reset()
		FromContext(context.Background()).Info().Msg("released")

		line := decodeLine(t, &buf)
		assert.NotContains(t, line, "request_id")
		assert.Equal(t, "released", line["message"])
	})

	t.Run("nil context", func(t *testing.T) {
		//nolint:staticcheck // nil context is tolerated
		assert.NotNil(t, FromContext(nil))
	})
}
