package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultPort           = "5000"
	DefaultOllamaURL      = "http://localhost:11434/api/generate"
	DefaultModelName      = "llama3"
	DefaultMaxUploadBytes = 100 * 1024 * 1024
)

type Config struct {
	// Server
	Port  string
	Env   string
	Debug bool

	// Ollama
	OllamaURL     string
	ModelName     string
	OllamaTimeout time.Duration // 0 means no timeout

	// HTTP
	AllowedOrigins []string
	MaxUploadBytes int64
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	cfg := &Config{
		Port:           getEnvOrDefault("PORT", DefaultPort),
		Env:            getEnvOrDefault("ENV", "development"),
		Debug:          getEnvAsBoolOrDefault("DEBUG", false),
		OllamaURL:      getEnvOrDefault("OLLAMA_URL", DefaultOllamaURL),
		ModelName:      getEnvOrDefault("OLLAMA_MODEL", DefaultModelName),
		OllamaTimeout:  getEnvAsDurationOrDefault("OLLAMA_TIMEOUT", 0),
		AllowedOrigins: getEnvAsListOrDefault("CORS_ALLOWED_ORIGINS", []string{"*"}),
		MaxUploadBytes: int64(getEnvAsIntOrDefault("MAX_UPLOAD_BYTES", DefaultMaxUploadBytes)),
	}

	return cfg
}

// Validate reports the first setting the server cannot start with.
func (c *Config) Validate() error {
	if _, err := strconv.Atoi(c.Port); err != nil {
		return fmt.Errorf("invalid port %q: %w", c.Port, err)
	}
	u, err := url.Parse(c.OllamaURL)
	if err != nil {
		return fmt.Errorf("invalid Ollama URL %q: %w", c.OllamaURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid Ollama URL %q: scheme must be http or https", c.OllamaURL)
	}
	if strings.TrimSpace(c.ModelName) == "" {
		return fmt.Errorf("model name must not be empty")
	}
	if c.OllamaTimeout < 0 {
		return fmt.Errorf("Ollama timeout must not be negative")
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("max upload size must be positive")
	}
	return nil
}

func getEnvOrDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func getEnvAsIntOrDefault(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}

func getEnvAsBoolOrDefault(key string, defaultVal bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return defaultVal
	}
	return b
}

func getEnvAsDurationOrDefault(key string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return defaultVal
	}
	return d
}

func getEnvAsListOrDefault(key string, defaultVal []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultVal
	}
	return out
}
