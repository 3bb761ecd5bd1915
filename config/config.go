package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort string

	MongoURI          string
	MongoDBName       string
	MongoTransactions bool

	JWTSecret            string
	TokenTTL             time.Duration
	AdminRegistrationKey string

	OpenAIAPIKey      string
	OpenAIModel       string
	OpenAIBaseURL     string
	OpenAITimeout     time.Duration
	ChatRatePerMinute int

	CORSOrigin string

	LogFile   string
	LogLevel  string
	LogStdout bool
}

// Load reads an optional .env file and then the environment. Variables that
// are already set win over the file.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	cfg := &Config{
		ServerPort:           getEnvOrDefault("SERVER_PORT", "5000"),
		MongoURI:             getEnvOrDefault("MONGO_URI", "mongodb://localhost:27017"),
		MongoDBName:          getEnvOrDefault("MONGO_DB_NAME", "projectpartner"),
		JWTSecret:            os.Getenv("JWT_SECRET"),
		AdminRegistrationKey: os.Getenv("ADMIN_REGISTRATION_KEY"),
		OpenAIAPIKey:         os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:          getEnvOrDefault("OPENAI_MODEL", "gpt-3.5-turbo"),
		OpenAIBaseURL:        getEnvOrDefault("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		CORSOrigin:           getEnvOrDefault("CORS_ORIGIN", "*"),
		LogFile:              getEnvOrDefault("LOG_FILE", "logs/project-partner.log"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
	}

	var err error
	if cfg.MongoTransactions, err = boolEnv("MONGO_TRANSACTIONS", true); err != nil {
		return nil, err
	}
	if cfg.LogStdout, err = boolEnv("LOG_STDOUT", true); err != nil {
		return nil, err
	}
	if cfg.TokenTTL, err = durationEnv("TOKEN_TTL", 48*time.Hour); err != nil {
		return nil, err
	}
	if cfg.OpenAITimeout, err = durationEnv("OPENAI_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.ChatRatePerMinute, err = intEnv("CHAT_RATE_PER_MINUTE", 20); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.JWTSecret) == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.TokenTTL <= 0 {
		return errors.New("TOKEN_TTL must be positive")
	}
	if c.ChatRatePerMinute < 0 {
		return errors.New("CHAT_RATE_PER_MINUTE must not be negative")
	}
	if _, err := strconv.Atoi(c.ServerPort); err != nil {
		return fmt.Errorf("SERVER_PORT must be a number: %q", c.ServerPort)
	}
	return nil
}

// AssistantEnabled reports whether a completion API key is configured.
func (c *Config) AssistantEnabled() bool {
	return c.OpenAIAPIKey != ""
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func boolEnv(key string, defaultValue bool) (bool, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%s must be a boolean: %q", key, raw)
	}
	return v, nil
}

func intEnv(key string, defaultValue int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %q", key, raw)
	}
	return v, nil
}

func durationEnv(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration such as 48h: %q", key, raw)
	}
	return v, nil
}
