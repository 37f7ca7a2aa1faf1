package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port                string
	GinMode             string
	MongoURI            string
	MongoDatabase       string
	RedisAddr           string
	RedisPassword       string
	RedisDB             int
	RabbitMQURI         string
	RabbitMQExchange    string
	EmbeddingBaseURL    string
	EmbeddingModel      string
	LLMBaseURL          string
	LLMAPIKey           string
	LLMModel            string
	CompletionThreshold float64
	CatalogCacheTTLMin  int
	ServiceName         string
	ServiceVersion      string
}

var AppConfig *Config

func LoadConfig() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	AppConfig = &Config{
		Port:                getEnvOrDefault("PORT", "7777"),
		GinMode:             getEnvOrDefault("GIN_MODE", "debug"),
		MongoURI:            getEnvOrDefault("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:       getEnvOrDefault("MONGO_DATABASE", "learning_service"),
		RedisAddr:           getEnvOrDefault("REDIS_ADDR", "localhost:6379"),
		RedisPassword:       getEnvOrDefault("REDIS_PWD", ""),
		RedisDB:             getEnvInt("REDIS_DB", 0),
		RabbitMQURI:         getEnvOrDefault("RABBITMQ_URI", ""),
		RabbitMQExchange:    getEnvOrDefault("RABBITMQ_EXCHANGE", ""),
		EmbeddingBaseURL:    getEnvOrDefault("EMBEDDING_BASE_URL", "http://localhost:11434/v1"),
		EmbeddingModel:      getEnvOrDefault("EMBEDDING_MODEL", "nomic-embed-text:latest"),
		LLMBaseURL:          getEnvOrDefault("LLM_BASE_URL", "http://localhost:11434/v1"),
		LLMAPIKey:           getEnvOrDefault("LLM_API_KEY", ""),
		LLMModel:            getEnvOrDefault("LLM_MODEL", "qwen3:1.7b"),
		CompletionThreshold: getEnvFloat("COMPLETION_THRESHOLD", 95),
		CatalogCacheTTLMin:  getEnvInt("CATALOG_CACHE_TTL_MINUTES", 10),
		ServiceName:         getEnvOrDefault("SERVICE_NAME", "learning-service"),
		ServiceVersion:      getEnvOrDefault("SERVICE_VERSION", "1.0.0"),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
		log.Printf("Invalid integer for %s, using default %d", key, defaultValue)
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
		log.Printf("Invalid float for %s, using default %.1f", key, defaultValue)
	}
	return defaultValue
}
