package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := WithRunID(WithComponent(NewLogger("info", "json", &buf), "acquire"), "run-1")
	logger.Info("hello", "n", 3)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "hello", rec["msg"])
	assert.Equal(t, "acquire", rec["component"])
	assert.Equal(t, "run-1", rec["run_id"])
	assert.Equal(t, float64(3), rec["n"])
}

func TestNewLoggerLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger("warn", "text", &buf)
	logger.Info("dropped")
	assert.Empty(t, buf.String())

	logger.Warn("kept")
	assert.Contains(t, buf.String(), "kept")
}

func TestSanitizeSecret(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", "****"},
		{"short", "****"},
		{"12345678", "****"},
		{"abcdefghij", "ab...ij"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SanitizeSecret(tt.in), tt.in)
	}
}
