package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config holds the runtime configuration read from the environment.
type Config struct {
	Port      string
	AWSRegion string
	JWTSecret string
	S3Bucket  string
}

// Load reads .env (when present) and the process environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Port:      getEnv("PORT", "8080"),
		AWSRegion: getEnv("AWS_REGION", "us-east-1"),
		JWTSecret: os.Getenv("JWT_SECRET"),
		S3Bucket:  os.Getenv("S3_BUCKET_NAME"),
	}

	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}
	return cfg
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
