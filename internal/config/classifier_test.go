package config

import "testing"

func TestClassifierConfigValid(t *testing.T) {
	tests := []struct {
		provider string
		want     bool
	}{
		{"gemini", true},
		{"openrouter", true},
		{"openai", false},
		{"Gemini", false},
		{"", false},
	}
	for _, tt := range tests {
		cfg := &ClassifierConfig{Provider: tt.provider}
		if got := cfg.Valid(); got != tt.want {
			t.Errorf("Valid() with provider %q = %t, want %t", tt.provider, got, tt.want)
		}
	}
}
