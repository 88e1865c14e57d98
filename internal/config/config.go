package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"carteira/internal/storage"
)

type Config struct {
	// HTTP Server
	Port string

	// Storage
	StorageBackend string
	CSVPath        string
	SQLiteDBPath   string

	// AMQP (optional: empty URL disables event publishing)
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Assistant
	OllamaURL         string
	OllamaModel       string
	OllamaMaxTokens   int
	OllamaTemperature float64
	ChatTimeout       time.Duration
}

func Load() *Config {
	cfg := &Config{
		Port: getEnv("PORT", "8081"),

		StorageBackend: getEnv("STORAGE_BACKEND", "csv"),
		CSVPath:        getEnv("CSV_PATH", "./data/transacoes.csv"),
		SQLiteDBPath:   getEnv("SQLITE_DB_PATH", "./data/carteira.db"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "carteira"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "ledger_events"),

		OllamaURL:         getEnv("OLLAMA_URL", "http://localhost:11434"),
		OllamaModel:       getEnv("OLLAMA_MODEL", "llama2:latest"),
		OllamaMaxTokens:   getEnvInt("OLLAMA_MAX_TOKENS", 200),
		OllamaTemperature: getEnvFloat("OLLAMA_TEMPERATURE", 0.7),
		ChatTimeout:       getEnvDuration("CHAT_TIMEOUT", 2*time.Minute),
	}

	return cfg
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	// Validate port
	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	// Validate storage backend
	backend := storage.BackendType(c.StorageBackend)
	if !backend.IsValid() {
		errors = append(errors, fmt.Sprintf("invalid storage backend '%s': must be one of [csv sqlite]", c.StorageBackend))
	}
	if backend == storage.CSVBackend && c.CSVPath == "" {
		errors = append(errors, "CSV path cannot be empty when using csv backend")
	}
	if backend == storage.SQLiteBackend && c.SQLiteDBPath == "" {
		errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
	}

	// Validate AMQP URL if provided
	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	// Validate assistant settings
	if parsedURL, err := url.Parse(c.OllamaURL); err != nil || parsedURL.Scheme == "" || parsedURL.Host == "" {
		errors = append(errors, fmt.Sprintf("invalid Ollama URL '%s'", c.OllamaURL))
	}
	if c.OllamaMaxTokens < 1 {
		errors = append(errors, fmt.Sprintf("invalid max tokens %d: must be at least 1", c.OllamaMaxTokens))
	}
	if c.OllamaTemperature < 0 || c.OllamaTemperature > 2 {
		errors = append(errors, fmt.Sprintf("invalid temperature %v: must be between 0 and 2", c.OllamaTemperature))
	}
	if c.ChatTimeout < time.Second {
		errors = append(errors, fmt.Sprintf("invalid chat timeout %v: must be at least 1 second", c.ChatTimeout))
	}

	// Return combined errors
	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
