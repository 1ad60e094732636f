package config

import (
	"os"
	"sync"
)

// AuthConfig carries the JWT secret used to validate identities issued by the
// external identity provider, and the shared secret guarding the ingestion
// trigger endpoint.
type AuthConfig struct {
	JWTSecret    string
	TriggerToken string
}

var (
	authConfig *AuthConfig
	authOnce   sync.Once
)

func LoadAuthConfig() *AuthConfig {
	authOnce.Do(func() {
		authConfig = &AuthConfig{
			JWTSecret:    os.Getenv("JWT_SECRET"),
			TriggerToken: os.Getenv("INGEST_TRIGGER_TOKEN"),
		}
	})
	return authConfig
}
