package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, key := range []string{
		"PORT", "APP_ENV", "GIN_MODE", "GEMINI_API_KEY", "GEMINI_MODEL",
		"INTERPRET_TEMPERATURE", "EXAMPLE_TEMPERATURE", "GENERATION_MAX_RETRIES",
		"HISTORY_BACKEND", "HISTORY_NAMESPACE", "HISTORY_LIMIT",
		"DATABASE_URL", "REDIS_ADDR", "MAX_UPLOAD_BYTES", "CORS_ORIGINS", "EXAMPLE_CACHE_SIZE",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	c, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", c.Port)
	assert.Equal(t, "gemini-2.5-flash", c.GeminiModel)
	assert.InDelta(t, 0.2, c.InterpretTemperature, 1e-6)
	assert.InDelta(t, 0.7, c.ExampleTemperature, 1e-6)
	assert.Equal(t, 3, c.GenerationMaxRetries)
	assert.Equal(t, HistoryBackendMemory, c.HistoryBackend)
	assert.Equal(t, "jurisHistory", c.HistoryNamespace)
	assert.Equal(t, 20, c.HistoryLimit)
	assert.Equal(t, int64(10*1024*1024), c.MaxUploadBytes)
	assert.Equal(t, []string{"http://localhost:3000", "http://localhost:5173"}, c.CORSOrigins)
	assert.False(t, c.IsProduction())
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("HISTORY_BACKEND", "Redis")
	t.Setenv("HISTORY_LIMIT", "5")
	t.Setenv("INTERPRET_TEMPERATURE", "0.1")
	t.Setenv("CORS_ORIGINS", " https://juspatria.app , ,")
	t.Setenv("APP_ENV", "production")

	c, err := Load()
	require.NoError(t, err)

	assert.Equal(t, HistoryBackendRedis, c.HistoryBackend)
	assert.Equal(t, 5, c.HistoryLimit)
	assert.InDelta(t, 0.1, c.InterpretTemperature, 1e-6)
	assert.Equal(t, []string{"https://juspatria.app"}, c.CORSOrigins)
	assert.True(t, c.IsProduction())
}

func TestLoad_Invalid(t *testing.T) {
	tests := map[string]string{
		"HISTORY_BACKEND":        "mongo",
		"HISTORY_LIMIT":          "0",
		"EXAMPLE_TEMPERATURE":    "warm",
		"GENERATION_MAX_RETRIES": "-1",
		"MAX_UPLOAD_BYTES":       "ten",
	}
	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(key, value)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}
