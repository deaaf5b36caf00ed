package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	ServerPort string
	ServerHost string

	// Database configuration
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Redis configuration (session store)
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	// JWT configuration
	JWTSecret   string
	TokenExpiry time.Duration

	// Google OAuth configuration
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURI  string

	// Generative model configuration
	GeminiAPIKey string
	GeminiModel  string

	// Image search configuration
	UnsplashAccessKey string

	// Media storage configuration
	S3Bucket  string
	AWSRegion string
}

// Load builds a Config from environment variables. A .env file is honored
// when present so local development does not need exported variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	tokenExpiry := time.Hour
	if exp := os.Getenv("TOKEN_EXPIRY"); exp != "" {
		parsed, err := time.ParseDuration(exp)
		if err != nil {
			return nil, fmt.Errorf("invalid TOKEN_EXPIRY: %w", err)
		}
		tokenExpiry = parsed
	}

	redisDB := 0
	if dbStr := os.Getenv("REDIS_DB"); dbStr != "" {
		if db, err := strconv.Atoi(dbStr); err == nil {
			redisDB = db
		}
	}

	geminiKey, err := loadSecret("GEMINI_API_KEY")
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		ServerPort: getEnv("PORT", "8080"),
		ServerHost: getEnv("SERVER_HOST", "0.0.0.0"),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     getEnv("DB_NAME", "mealmuse"),
		DBSSLMode:  getEnv("DB_SSL_MODE", "disable"),

		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       redisDB,

		JWTSecret:   os.Getenv("JWT_SECRET"),
		TokenExpiry: tokenExpiry,

		GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		GoogleRedirectURI:  getEnv("GOOGLE_REDIRECT_URI", "http://localhost:8080/auth/google/callback"),

		GeminiAPIKey: geminiKey,
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-1.5-flash"),

		UnsplashAccessKey: os.Getenv("UNSPLASH_ACCESS_KEY"),

		S3Bucket:  getEnv("S3_BUCKET_NAME", "mealmuse-recipe-media"),
		AWSRegion: os.Getenv("AWS_REGION"),
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks the values the process cannot run without
func validate(cfg *Config) error {
	var missing []string

	if cfg.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if cfg.DBUser == "" {
		missing = append(missing, "DB_USER")
	}
	if cfg.DBPassword == "" {
		missing = append(missing, "DB_PASSWORD")
	}

	if len(missing) > 0 {
		return fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}

	return nil
}

// loadSecret reads a secret from NAME or, failing that, from the file
// named by NAME_FILE (Docker secrets style).
func loadSecret(name string) (string, error) {
	if value := os.Getenv(name); value != "" {
		return value, nil
	}

	file := os.Getenv(name + "_FILE")
	if file == "" {
		return "", nil
	}

	content, err := os.ReadFile(file)
	if err != nil {
		return "", fmt.Errorf("failed to read secret file for %s: %w", name, err)
	}

	value := strings.TrimSpace(string(content))
	if value == "" {
		return "", fmt.Errorf("secret file for %s is empty", name)
	}
	return value, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
