package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Config holds runtime configuration for the console, loaded from the
// environment with an optional .env file.
type Config struct {
	// MeetingBaaS API access
	MeetingBaaSAPIKey  string
	MeetingBaaSBaseURL string
	WebhookURL         string

	// Voice preview
	CartesiaAPIKey string
	AWSRegion      string
	GCPProjectID   string

	// Storage
	PersonasDir    string
	TranscriptsDir string
	RedisAddr      string

	// HTTP API
	Port int
}

// Load reads configuration from the environment. A .env file in the
// working directory is loaded first if present; real environment variables
// take precedence over it.
func Load() (*Config, error) {
	if err := godotenv.Load(); err == nil {
		log.Debug().Msg("Loaded .env file")
	}

	cfg := &Config{
		MeetingBaaSAPIKey:  os.Getenv("MEETING_BAAS_API_KEY"),
		MeetingBaaSBaseURL: getEnv("MEETING_BAAS_BASE_URL", "https://api.meetingbaas.com"),
		WebhookURL:         os.Getenv("WEBHOOK_URL"),
		CartesiaAPIKey:     os.Getenv("CARTESIA_API_KEY"),
		AWSRegion:          getEnv("AWS_REGION", "us-east-1"),
		GCPProjectID:       os.Getenv("GCP_PROJECT_ID"),
		PersonasDir:        getEnv("PERSONAS_DIR", "personas"),
		TranscriptsDir:     getEnv("TRANSCRIPTS_DIR", "transcripts"),
		RedisAddr:          getEnv("REDIS_ADDR", "localhost:6379"),
	}

	port, err := strconv.Atoi(getEnv("PORT", "8766"))
	if err != nil {
		return nil, fmt.Errorf("failed to parse PORT: %w", err)
	}
	cfg.Port = port

	if cfg.MeetingBaaSAPIKey == "" {
		log.Warn().Msg("MEETING_BAAS_API_KEY not set; bot launch will be unavailable")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
