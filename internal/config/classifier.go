package config

import (
	"os"
	"sync"
)

// ClassifierConfig selects the external scoring provider and its credentials.
// Provider is either "gemini" (default) or "openrouter".
type ClassifierConfig struct {
	Provider         string
	GeminiAPIKey     string
	GeminiModel      string
	OpenRouterAPIKey string
	OpenRouterModel  string
	OpenRouterURL    string
}

var (
	classifierConfig *ClassifierConfig
	classifierOnce   sync.Once
)

func LoadClassifierConfig() *ClassifierConfig {
	classifierOnce.Do(func() {
		provider := os.Getenv("CLASSIFIER_PROVIDER")
		if provider == "" {
			provider = "gemini"
		}
		geminiModel := os.Getenv("GEMINI_MODEL")
		if geminiModel == "" {
			geminiModel = "gemini-2.5-flash"
		}
		openRouterModel := os.Getenv("OPENROUTER_MODEL")
		if openRouterModel == "" {
			openRouterModel = "openai/gpt-4o-mini"
		}
		openRouterURL := os.Getenv("OPENROUTER_URL")
		if openRouterURL == "" {
			openRouterURL = "https://openrouter.ai/api/v1/chat/completions"
		}
		classifierConfig = &ClassifierConfig{
			Provider:         provider,
			GeminiAPIKey:     os.Getenv("GEMINI_API_KEY"),
			GeminiModel:      geminiModel,
			OpenRouterAPIKey: os.Getenv("OPENROUTER_API_KEY"),
			OpenRouterModel:  openRouterModel,
			OpenRouterURL:    openRouterURL,
		}
	})
	return classifierConfig
}

// Valid reports whether Provider names a supported classifier. A typo here
// must abort startup, not surface as a nil classifier at scoring time.
func (c *ClassifierConfig) Valid() bool {
	return c.Provider == "gemini" || c.Provider == "openrouter"
}
