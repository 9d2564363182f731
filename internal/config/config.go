package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
)

type Mode string

const (
	ModeLocal Mode = "local"
	ModeCloud Mode = "cloud"
)

type Config struct {
	Mode Mode

	Port     string
	LogLevel slog.Level

	// Azure OpenAI deployment serving chat and vision completions.
	AzureOpenAIEndpoint   string
	AzureOpenAIAPIVersion string
	AzureOpenAIKey        string
	AzureOpenAIDeployment string

	GCPProjectID     string
	CardsBucket      string
	BlueprintsBucket string

	StorageBackend string // "memory" or "firestore"
	UseMockLLM     bool   // true = canned inference even in cloud mode
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getBoolEnv(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v == "1" || strings.EqualFold(v, "true")
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid TAROT_LOG_LEVEL %q", s)
	}
}

// Load reads all env vars and builds the config.
func Load() (*Config, error) {
	var mode Mode
	switch getEnv("TAROT_MODE", "local") {
	case "cloud":
		mode = ModeCloud
	default:
		mode = ModeLocal
	}

	cfg := &Config{
		Mode: mode,

		Port: getEnv("TAROT_PORT", "8080"),

		AzureOpenAIEndpoint:   getEnv("AZURE_OPENAI_ENDPOINT", ""),
		AzureOpenAIAPIVersion: getEnv("AZURE_OPENAI_API_VERSION", "2024-10-21"),
		AzureOpenAIKey:        getEnv("AZURE_OPENAI_API_KEY", ""),
		AzureOpenAIDeployment: getEnv("AZURE_OPENAI_DEPLOYMENT", "gpt-4o"),

		GCPProjectID:     getEnv("TAROT_GCP_PROJECT", ""),
		CardsBucket:      getEnv("TAROT_CARDS_BUCKET", "card-images"),
		BlueprintsBucket: getEnv("TAROT_BLUEPRINTS_BUCKET", "blueprint-images"),

		StorageBackend: getEnv("TAROT_STORAGE_BACKEND", "memory"),
		UseMockLLM:     getBoolEnv("TAROT_USE_MOCK_LLM", mode == ModeLocal),
	}

	level, err := parseLogLevel(getEnv("TAROT_LOG_LEVEL", "info"))
	if err != nil {
		return nil, err
	}
	cfg.LogLevel = level

	if cfg.Mode == ModeCloud {
		if cfg.StorageBackend == "firestore" && cfg.GCPProjectID == "" {
			return nil, fmt.Errorf("TAROT_GCP_PROJECT must be set for the firestore backend")
		}
		if !cfg.UseMockLLM && (cfg.AzureOpenAIEndpoint == "" || cfg.AzureOpenAIKey == "") {
			return nil, fmt.Errorf("AZURE_OPENAI_ENDPOINT and AZURE_OPENAI_API_KEY must be set in cloud mode")
		}
	}

	return cfg, nil
}
