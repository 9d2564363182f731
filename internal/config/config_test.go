package config

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ModeLocal, cfg.Mode)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, "memory", cfg.StorageBackend)
	assert.Equal(t, "card-images", cfg.CardsBucket)
	assert.Equal(t, "blueprint-images", cfg.BlueprintsBucket)
	assert.True(t, cfg.UseMockLLM)
}

func TestLoad_CloudMode(t *testing.T) {
	t.Setenv("TAROT_MODE", "cloud")
	t.Setenv("TAROT_STORAGE_BACKEND", "firestore")
	t.Setenv("TAROT_GCP_PROJECT", "fortune-telling")
	t.Setenv("AZURE_OPENAI_ENDPOINT", "https://example.openai.azure.com")
	t.Setenv("AZURE_OPENAI_API_KEY", "secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ModeCloud, cfg.Mode)
	assert.Equal(t, "firestore", cfg.StorageBackend)
	assert.False(t, cfg.UseMockLLM)
	assert.Equal(t, "2024-10-21", cfg.AzureOpenAIAPIVersion)
	assert.Equal(t, "gpt-4o", cfg.AzureOpenAIDeployment)
}

func TestLoad_CloudModeRequiresProject(t *testing.T) {
	t.Setenv("TAROT_MODE", "cloud")
	t.Setenv("TAROT_STORAGE_BACKEND", "firestore")
	t.Setenv("TAROT_USE_MOCK_LLM", "true")

	_, err := Load()
	assert.ErrorContains(t, err, "TAROT_GCP_PROJECT")
}

func TestLoad_CloudModeRequiresCredentials(t *testing.T) {
	t.Setenv("TAROT_MODE", "cloud")

	_, err := Load()
	assert.ErrorContains(t, err, "AZURE_OPENAI_ENDPOINT")
}

func TestLoad_InvalidLogLevel(t *testing.T) {
	t.Setenv("TAROT_LOG_LEVEL", "chatty")

	_, err := Load()
	assert.ErrorContains(t, err, "TAROT_LOG_LEVEL")
}
