package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"MAP_AGENT_PROVIDER", "MAP_AGENT_MODEL", "MAP_AGENT_DISABLE_OPENAI",
		"OPENAI_API_KEY", "OPENAI_KEY", "GEMINI_API_KEY", "GOOGLE_API_KEY",
		"GEMINI_MODEL", "OLLAMA_HOST", "OLLAMA_MODEL", "OLLAMA_NUM_CTX",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()

	if cfg.Provider != "openai" {
		t.Errorf("Provider = %q", cfg.Provider)
	}
	if cfg.DisableOpenAI {
		t.Error("DisableOpenAI should default to false")
	}
	if cfg.OpenAIModel != "gpt-4o" {
		t.Errorf("OpenAIModel = %q", cfg.OpenAIModel)
	}
	if cfg.GeminiModel != "gemini-2.0-flash" {
		t.Errorf("GeminiModel = %q", cfg.GeminiModel)
	}
	if cfg.OllamaHost != "http://localhost:11434" {
		t.Errorf("OllamaHost = %q", cfg.OllamaHost)
	}
	if cfg.OllamaModel != "llama3.1:8b-instruct" {
		t.Errorf("OllamaModel = %q", cfg.OllamaModel)
	}
	if cfg.OllamaNumCtx != 8192 {
		t.Errorf("OllamaNumCtx = %d", cfg.OllamaNumCtx)
	}
}

func TestLoadOverridesAndAliases(t *testing.T) {
	t.Setenv("MAP_AGENT_PROVIDER", "Gemini")
	t.Setenv("MAP_AGENT_DISABLE_OPENAI", "1")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("OPENAI_KEY", "sk-alias")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", " g-alias ")
	t.Setenv("OLLAMA_NUM_CTX", "4096")
	t.Setenv("OSM_COUNTRYCODES", "lb")

	cfg := Load()

	if cfg.Provider != "gemini" {
		t.Errorf("Provider = %q, want lower-cased", cfg.Provider)
	}
	if !cfg.DisableOpenAI {
		t.Error("DisableOpenAI should be set")
	}
	if cfg.OpenAIKey != "sk-alias" {
		t.Errorf("OpenAIKey = %q, want the OPENAI_KEY alias", cfg.OpenAIKey)
	}
	if cfg.GeminiKey != "g-alias" {
		t.Errorf("GeminiKey = %q, want the trimmed GOOGLE_API_KEY alias", cfg.GeminiKey)
	}
	if cfg.OllamaNumCtx != 4096 {
		t.Errorf("OllamaNumCtx = %d", cfg.OllamaNumCtx)
	}
	if cfg.CountryCodes != "lb" {
		t.Errorf("CountryCodes = %q", cfg.CountryCodes)
	}
}

func TestLoadIgnoresBadNumCtx(t *testing.T) {
	t.Setenv("OLLAMA_NUM_CTX", "many")
	if cfg := Load(); cfg.OllamaNumCtx != 8192 {
		t.Errorf("OllamaNumCtx = %d, want default", cfg.OllamaNumCtx)
	}
}
