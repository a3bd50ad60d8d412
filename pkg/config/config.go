// Package config loads mapagent settings from the environment, with .env
// support for local development.
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config carries every externally supplied setting. Values are read once
// at startup; components receive what they need from here instead of
// touching the environment themselves.
type Config struct {
	// Provider selects the model backend: "openai" (default), "gemini",
	// "ollama". DisableOpenAI forces the offline path for any provider
	// other than "ollama".
	Provider      string
	DisableOpenAI bool

	OpenAIKey   string
	OpenAIModel string

	GeminiKey   string
	GeminiModel string

	OllamaHost   string
	OllamaModel  string
	OllamaNumCtx int

	ORSKey       string
	CountryCodes string
	UserAgent    string
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// Load reads the configuration from the environment. A .env file in the
// working directory is merged in first when present; a missing file is
// not an error.
func Load() Config {
	_ = godotenv.Load()

	numCtx := 8192
	if v := os.Getenv("OLLAMA_NUM_CTX"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			numCtx = parsed
		}
	}

	openAIKey := os.Getenv("OPENAI_API_KEY")
	if openAIKey == "" {
		openAIKey = os.Getenv("OPENAI_KEY")
	}
	geminiKey := os.Getenv("GEMINI_API_KEY")
	if geminiKey == "" {
		geminiKey = os.Getenv("GOOGLE_API_KEY")
	}

	return Config{
		Provider:      strings.ToLower(envOr("MAP_AGENT_PROVIDER", "openai")),
		DisableOpenAI: os.Getenv("MAP_AGENT_DISABLE_OPENAI") != "",
		OpenAIKey:     openAIKey,
		OpenAIModel:   envOr("MAP_AGENT_MODEL", "gpt-4o"),
		GeminiKey:     strings.TrimSpace(geminiKey),
		GeminiModel:   envOr("GEMINI_MODEL", "gemini-2.0-flash"),
		OllamaHost:    envOr("OLLAMA_HOST", "http://localhost:11434"),
		OllamaModel:   envOr("OLLAMA_MODEL", "llama3.1:8b-instruct"),
		OllamaNumCtx:  numCtx,
		ORSKey:        os.Getenv("ORS_API_KEY"),
		CountryCodes:  os.Getenv("OSM_COUNTRYCODES"),
		UserAgent:     os.Getenv("OSM_USER_AGENT"),
	}
}
