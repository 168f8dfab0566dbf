package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeKVs(t *testing.T) {
	in := []interface{}{"model", "gemini-2.5-flash", "GEMINI_API_KEY", "abc123", "aws_secret", "s3cr3t", "dangling"}

	out := sanitizeKVs(in)

	assert.Equal(t, []interface{}{
		"model", "gemini-2.5-flash",
		"GEMINI_API_KEY", "[REDACTED]",
		"aws_secret", "[REDACTED]",
		"dangling",
	}, out)
}

func TestNopLogger(t *testing.T) {
	log := NewNop().With("component", "test")
	assert.NotPanics(t, func() {
		log.Info("hello", "api_key", "x")
		log.Sync()
	})
}
