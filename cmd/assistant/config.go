// In file: cmd/assistant/config.go
package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/dileep-u-k/groq-assistant/internal/llm"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// AppConfig holds all configuration for the assistant, loaded from the
// environment and config.yaml.
type AppConfig struct {
	GroqAPIKey         string
	GeminiAPIKey       string
	GoogleSearchAPIKey string
	GoogleCSEID        string
	RedisAddr          string

	PrimaryModel string
	GeneralModel string
	RouterConfig llm.RouterConfig

	Temperature float32
	MaxTokens   int

	SearchResultCount int64
	LogDir            string
	CacheTTL          time.Duration
}

// fileConfig mirrors the layout of config.yaml. Every field has a built-in
// default, so the file itself is optional.
type fileConfig struct {
	Models struct {
		Primary string `yaml:"primary"`
		General string `yaml:"general"`
	} `yaml:"models"`
	Router     llm.RouterConfig `yaml:"router"`
	Generation struct {
		Temperature float32 `yaml:"temperature"`
		MaxTokens   int     `yaml:"max_tokens"`
	} `yaml:"generation"`
	Search struct {
		ResultCount int64 `yaml:"result_count"`
	} `yaml:"search"`
	LogDir        string `yaml:"log_dir"`
	CacheTTLHours int    `yaml:"cache_ttl_hours"`
}

// LoadConfig loads configuration from a .env file, environment variables,
// and config.yaml.
func LoadConfig() (*AppConfig, error) {
	// Only load a .env file in local development. In production the
	// environment is provided by the deployment, and a missing file there
	// should not produce a warning.
	if os.Getenv("APP_ENV") != "production" {
		if err := godotenv.Load(); err != nil {
			log.Println("WARNING: No .env file found for local development.")
		}
	}

	cfg := &AppConfig{
		GroqAPIKey:         os.Getenv("GROQ_API_KEY"),
		GeminiAPIKey:       os.Getenv("GEMINI_API_KEY"),
		GoogleSearchAPIKey: os.Getenv("GOOGLE_SEARCH_API_KEY"),
		GoogleCSEID:        os.Getenv("GOOGLE_CSE_ID"),
		RedisAddr:          os.Getenv("REDIS_ADDR"),
	}

	if cfg.GroqAPIKey == "" {
		return nil, fmt.Errorf("GROQ_API_KEY environment variable is not set")
	}

	fc := defaultFileConfig()
	if raw, err := os.ReadFile("config.yaml"); err == nil {
		if err := yaml.Unmarshal(raw, &fc); err != nil {
			return nil, fmt.Errorf("failed to parse config.yaml: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config.yaml: %w", err)
	}

	cfg.PrimaryModel = fc.Models.Primary
	cfg.GeneralModel = fc.Models.General
	cfg.RouterConfig = fc.Router
	cfg.Temperature = fc.Generation.Temperature
	cfg.MaxTokens = fc.Generation.MaxTokens
	cfg.SearchResultCount = fc.Search.ResultCount
	cfg.LogDir = fc.LogDir
	cfg.CacheTTL = time.Duration(fc.CacheTTLHours) * time.Hour

	return cfg, nil
}

func defaultFileConfig() fileConfig {
	var fc fileConfig
	fc.Models.Primary = "llama-3.3-70b-versatile"
	fc.Models.General = "llama-3.1-8b-instant"
	fc.Router = llm.RouterConfig{
		Model:       "llama-3.1-8b-instant",
		Temperature: 0,
		MaxTokens:   20,
	}
	fc.Generation.Temperature = 0.7
	fc.Generation.MaxTokens = 4096
	fc.Search.ResultCount = 5
	fc.LogDir = "logs"
	fc.CacheTTLHours = 24
	return fc
}
