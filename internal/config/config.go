package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	AppEnv         string
	Port           string
	FrontendURL    string
	AllowedOrigins []string
	TLSHosts       []string // empty disables autocert TLS

	// Persistence / messaging
	MongoURI string
	NATSURL  string // empty disables event publishing

	// Security
	JWTSecret string

	// Classifier
	OpenAIKey         string
	OpenAIBaseURL     string
	ModelText         string
	ModelVision       string
	ClassifierTimeout time.Duration

	// Pipeline limits
	MaxTextChars          int
	MaxFileBytes          int64
	MaxExtractedTextChars int

	// Treat unreadable/uncertain content as fraud
	FailClosed bool

	// Per-IP requests per minute on the check endpoints
	RateLimit int
}

func Load() *Config {
	appEnv := getEnv("APP_ENV", "development")

	frontendURL := getEnv("FRONTEND_URL", "http://localhost:3000")
	origins := strings.Split(frontendURL, ",")

	// Automatically allow localhost:3000 in development
	if appEnv == "development" {
		origins = append(origins, "http://localhost:3000")
	}

	return &Config{
		AppEnv:         appEnv,
		Port:           getEnv("PORT", "8080"),
		FrontendURL:    frontendURL,
		AllowedOrigins: origins,
		TLSHosts:       splitNonEmpty(getEnv("TLS_HOSTS", "")),

		MongoURI: getEnv("MONGO_URI", "mongodb://mongo:27017"),
		NATSURL:  getEnv("NATS_URL", ""),

		JWTSecret: getEnv("JWT_SECRET", "super_secret_fraud_key_change_me"),

		OpenAIKey:         getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:     getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		ModelText:         getEnv("OPENAI_MODEL_TEXT", "gpt-4.1-mini"),
		ModelVision:       getEnv("OPENAI_MODEL_VISION", "gpt-4.1-mini"),
		ClassifierTimeout: time.Duration(getEnvInt("CLASSIFIER_TIMEOUT_SECONDS", 30)) * time.Second,

		MaxTextChars:          getEnvInt("MAX_TEXT_CHARS", 8000),
		MaxFileBytes:          int64(getEnvInt("MAX_FILE_BYTES", 10*1024*1024)),
		MaxExtractedTextChars: getEnvInt("MAX_EXTRACTED_TEXT_CHARS", 6000),

		FailClosed: getEnvBool("CONSERVATIVE_IF_UNCERTAIN", true),

		RateLimit: getEnvInt("RATE_LIMIT", 100),
	}
}

func splitNonEmpty(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		return strings.EqualFold(value, "true")
	}
	return fallback
}
