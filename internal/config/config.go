package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/valentinpelus/unicornfeedback/pkg/classifier"
	"github.com/valentinpelus/unicornfeedback/pkg/store"
)

// Config holds all application configuration
type Config struct {
	Port         string
	APIAuthToken string
	LogLevel     string // "debug", "info", "warn", "error"
	AWSRegion    string

	// Store configuration
	StoreBackend    string // "dynamodb", "postgres", "file", "memory"
	StoreLookupMode string // "scan" or "index"
	TableName       string
	DynamoIDIndex   string
	DynamoEndpoint  string
	DatabaseURL     string
	StoreFilePath   string

	// Classifier configuration
	SentimentProvider string // "comprehend", "bedrock", "ollama"
	SentimentLanguage string
	BedrockModel      string
	OllamaURL         string
	OllamaModel       string
	GenderProvider    string // "sagemaker"
	GenderEndpoint    string

	// LegacySilentErrors makes handlers log failures and return an empty
	// result instead of an error
	LegacySilentErrors bool
}

// LoadConfig loads configuration from environment variables, reading a .env
// file first when one exists
func LoadConfig() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:         getEnv("PORT", "8080"),
		APIAuthToken: getEnv("API_AUTH_TOKEN", ""),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		AWSRegion:    getEnv("AWS_REGION", "us-west-2"),
		// Store
		StoreBackend:    getEnv("STORE_BACKEND", "dynamodb"),
		StoreLookupMode: getEnv("STORE_LOOKUP_MODE", "scan"),
		TableName:       getEnv("TABLE_NAME", "UnicornFeedback"),
		DynamoIDIndex:   getEnv("DYNAMODB_ID_INDEX", "ID-index"),
		DynamoEndpoint:  getEnv("DYNAMODB_ENDPOINT", ""),
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		StoreFilePath:   getEnv("STORE_FILE_PATH", "/data/feedback.json"),
		// Classifiers
		SentimentProvider: getEnv("SENTIMENT_PROVIDER", "comprehend"),
		SentimentLanguage: getEnv("SENTIMENT_LANGUAGE", "en"),
		BedrockModel:      getEnv("BEDROCK_MODEL", "anthropic.claude-3-5-sonnet-20241022-v2:0"),
		OllamaURL:         getEnv("OLLAMA_URL", "http://localhost:11434"),
		OllamaModel:       getEnv("OLLAMA_MODEL", "llama3"),
		GenderProvider:    getEnv("GENDER_PROVIDER", "sagemaker"),
		GenderEndpoint:    getEnv("GENDER_ENDPOINT", "tf-names-2018-03-21-16-48-01-322"),

		LegacySilentErrors: getEnvBool("LEGACY_SILENT_ERRORS", false),
	}
}

// Validate checks values that would otherwise fail late, on first request
func (c *Config) Validate() error {
	switch c.StoreBackend {
	case "dynamodb", "file", "memory":
	case "postgres":
		if c.DatabaseURL == "" {
			return fmt.Errorf("STORE_BACKEND=postgres requires DATABASE_URL")
		}
	default:
		return fmt.Errorf("unknown STORE_BACKEND: %s", c.StoreBackend)
	}

	if _, err := store.ParseLookupMode(c.StoreLookupMode); err != nil {
		return err
	}

	switch c.SentimentProvider {
	case "comprehend", "bedrock", "ollama":
	default:
		return fmt.Errorf("unknown SENTIMENT_PROVIDER: %s", c.SentimentProvider)
	}

	if c.GenderProvider != "sagemaker" {
		return fmt.Errorf("unknown GENDER_PROVIDER: %s", c.GenderProvider)
	}

	return nil
}

// StoreConfig returns the store section
func (c *Config) StoreConfig() store.Config {
	mode, _ := store.ParseLookupMode(c.StoreLookupMode)
	return store.Config{
		Backend:     c.StoreBackend,
		LookupMode:  mode,
		TableName:   c.TableName,
		IDIndex:     c.DynamoIDIndex,
		Endpoint:    c.DynamoEndpoint,
		DatabaseURL: c.DatabaseURL,
		FilePath:    c.StoreFilePath,
	}
}

// ClassifierConfig returns the classifier section
func (c *Config) ClassifierConfig() classifier.Config {
	return classifier.Config{
		SentimentProvider: c.SentimentProvider,
		GenderProvider:    c.GenderProvider,
		LanguageCode:      c.SentimentLanguage,
		BedrockModel:      c.BedrockModel,
		OllamaURL:         c.OllamaURL,
		OllamaModel:       c.OllamaModel,
		GenderEndpoint:    c.GenderEndpoint,
	}
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool gets a bool environment variable with a default value
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
