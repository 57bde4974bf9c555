package config

import (
	"fmt"
	"os"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	ServerAddress string
	Environment   string

	// AWS configuration
	AWSRegion     string
	ReviewsTable  string
	BookIndexName string
	EventBusName  string

	// Local development: point the DynamoDB client at a local instance
	// (serverless-offline style) instead of the managed endpoint.
	DynamoDBEndpoint string

	// Authentication
	JWTSecret   string
	JWTIssuer   string
	JWTAudience string

	// Observability
	LogLevel         string
	MetricsNamespace string
	EnableMetrics    bool
	EnableTracing    bool
	EnableEvents     bool
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		ServerAddress: getEnv("SERVER_ADDRESS", ":8080"),
		Environment:   getEnv("ENVIRONMENT", "development"),
		AWSRegion:     getEnv("AWS_REGION", "us-east-1"),
		ReviewsTable:  getEnv("REVIEWS_TABLE", "book-reviews"),
		BookIndexName: getEnv("BOOK_INDEX_NAME", "BookIdIndex"),
		EventBusName:  getEnv("EVENT_BUS_NAME", "book-reviews-events"),

		DynamoDBEndpoint: offlineEndpoint(),

		JWTSecret:   getEnv("JWT_SECRET", ""),
		JWTIssuer:   getEnv("JWT_ISSUER", ""),
		JWTAudience: getEnv("JWT_AUDIENCE", ""),

		LogLevel:         getEnv("LOG_LEVEL", "info"),
		MetricsNamespace: getEnv("METRICS_NAMESPACE", "BookReviews"),
		EnableMetrics:    getEnvBool("ENABLE_METRICS", false),
		EnableTracing:    getEnvBool("ENABLE_TRACING", false),
		EnableEvents:     getEnvBool("ENABLE_EVENTS", false),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// offlineEndpoint resolves the local DynamoDB endpoint. IS_OFFLINE mirrors
// the serverless-offline convention; DYNAMODB_ENDPOINT overrides it.
func offlineEndpoint() string {
	if endpoint := os.Getenv("DYNAMODB_ENDPOINT"); endpoint != "" {
		return endpoint
	}
	if getEnvBool("IS_OFFLINE", false) {
		return "http://localhost:8000"
	}
	return ""
}

// Validate checks if all required configuration is present
func (c *Config) Validate() error {
	if c.Environment == "production" {
		if c.JWTSecret == "" {
			return fmt.Errorf("JWT_SECRET is required in production")
		}
		if c.ReviewsTable == "" {
			return fmt.Errorf("REVIEWS_TABLE is required")
		}
	}

	return nil
}

// IsDevelopment checks if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction checks if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool gets a boolean environment variable with a default value
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}
