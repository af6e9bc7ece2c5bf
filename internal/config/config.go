package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application settings.
type Config struct {
	// Server
	Port string
	Host string

	// Database
	DBPath string

	// External services
	PredictorURL       string
	RecommendationsURL string

	// Security
	SessionSecret string
	SessionTTL    time.Duration

	// Questionnaire
	QuestionnaireVersion string
}

// Load reads the configuration from environment variables.
func Load() (*Config, error) {
	// Pick up a .env file when present
	_ = godotenv.Load()

	config := &Config{
		Port:                 getEnv("PORT", "8080"),
		Host:                 getEnv("HOST", "0.0.0.0"),
		DBPath:               getEnv("DB_PATH", "/tmp/traitlens.db"),
		PredictorURL:         getEnv("PREDICTOR_URL", ""),
		RecommendationsURL:   getEnv("RECOMMENDATIONS_URL", ""),
		SessionSecret:        getEnv("SESSION_SECRET", "traitlens_secret_key_2025"),
		SessionTTL:           7 * 24 * time.Hour,
		QuestionnaireVersion: getEnv("QUESTIONNAIRE_VERSION", "v1"),
	}

	return config, nil
}

// getEnv returns an environment variable or the given default.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
