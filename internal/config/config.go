package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	Environment string

	JWTSecret string

	GeminiAPIKey string
	GeminiModel  string

	// Optional backing stores. Empty values select the in-memory
	// implementations.
	DatabaseURL string
	RedisURL    string

	// Optional event pipeline. No brokers disables publishing.
	KafkaBrokers []string
	EventTopic   string

	CORSOrigins []string

	TesseractLang string
}

func LoadConfig() (*Config, error) {
	// A missing .env file is fine in containerized deployments where the
	// environment is injected directly.
	_ = godotenv.Load()

	return &Config{
		Port:          getEnv("PORT", "8080"),
		Environment:   getEnv("ENVIRONMENT", "development"),
		JWTSecret:     getEnv("JWT_SECRET", "supersecretkey"),
		GeminiAPIKey:  os.Getenv("GEMINI_API_KEY"),
		GeminiModel:   getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		RedisURL:      os.Getenv("REDIS_URL"),
		KafkaBrokers:  splitEnv("KAFKA_BROKERS"),
		EventTopic:    getEnv("EVENT_TOPIC", "study-service.events"),
		CORSOrigins:   splitEnvDefault("CORS_ORIGINS", "http://localhost:3000"),
		TesseractLang: getEnv("TESSERACT_LANG", "eng"),
	}, nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func splitEnv(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func splitEnvDefault(key, defaultValue string) []string {
	if out := splitEnv(key); out != nil {
		return out
	}
	return []string{defaultValue}
}
