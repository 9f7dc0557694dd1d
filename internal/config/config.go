package config

import (
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig
	Log        LogConfig
	CORS       CORSConfig
	Upload     UploadConfig
	Completion CompletionConfig
	Extractor  ExtractorConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// UploadConfig holds document upload limits.
type UploadConfig struct {
	MaxFileSizeMB int64 `mapstructure:"max_file_size_mb"`
}

// CompletionConfig holds LLM completion client settings.
type CompletionConfig struct {
	Provider    string `mapstructure:"provider"`
	APIKey      string `mapstructure:"api_key"`
	Model       string `mapstructure:"model"`
	Endpoint    string `mapstructure:"endpoint"`
	TimeoutSecs int    `mapstructure:"timeout_secs"`
}

// ExtractorConfig holds extraction pipeline settings.
type ExtractorConfig struct {
	MaxAttempts             int           `mapstructure:"max_attempts"`
	RetryBaseDelay          time.Duration `mapstructure:"retry_base_delay"`
	PromptBudget            int           `mapstructure:"prompt_budget"`
	Concurrency             int           `mapstructure:"concurrency"`
	ZeroValueMinimumDensity float64       `mapstructure:"zero_value_minimum_density"`
}

// Load reads configuration from environment variables with the NOILENS_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("NOILENS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "120s")
	v.SetDefault("server.environment", "development")

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Upload defaults
	v.SetDefault("upload.max_file_size_mb", 25)

	// Completion defaults
	v.SetDefault("completion.provider", "openai")
	v.SetDefault("completion.api_key", "")
	v.SetDefault("completion.model", "gpt-4")
	v.SetDefault("completion.endpoint", "")
	v.SetDefault("completion.timeout_secs", 120)

	// Extractor defaults
	v.SetDefault("extractor.max_attempts", 3)
	v.SetDefault("extractor.retry_base_delay", "1s")
	v.SetDefault("extractor.prompt_budget", 3000)
	v.SetDefault("extractor.concurrency", 4)
	v.SetDefault("extractor.zero_value_minimum_density", 0.01)

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                          "NOILENS_SERVER_PORT",
		"server.read_timeout":                  "NOILENS_SERVER_READ_TIMEOUT",
		"server.write_timeout":                 "NOILENS_SERVER_WRITE_TIMEOUT",
		"server.environment":                   "NOILENS_SERVER_ENVIRONMENT",
		"log.level":                            "NOILENS_LOG_LEVEL",
		"log.format":                           "NOILENS_LOG_FORMAT",
		"cors.allowed_origins":                 "NOILENS_CORS_ALLOWED_ORIGINS",
		"upload.max_file_size_mb":              "NOILENS_UPLOAD_MAX_FILE_SIZE_MB",
		"completion.provider":                  "NOILENS_COMPLETION_PROVIDER",
		"completion.api_key":                   "NOILENS_COMPLETION_API_KEY",
		"completion.model":                     "NOILENS_COMPLETION_MODEL",
		"completion.endpoint":                  "NOILENS_COMPLETION_ENDPOINT",
		"completion.timeout_secs":              "NOILENS_COMPLETION_TIMEOUT_SECS",
		"extractor.max_attempts":               "NOILENS_EXTRACTOR_MAX_ATTEMPTS",
		"extractor.retry_base_delay":           "NOILENS_EXTRACTOR_RETRY_BASE_DELAY",
		"extractor.prompt_budget":              "NOILENS_EXTRACTOR_PROMPT_BUDGET",
		"extractor.concurrency":                "NOILENS_EXTRACTOR_CONCURRENCY",
		"extractor.zero_value_minimum_density": "NOILENS_EXTRACTOR_ZERO_VALUE_MINIMUM_DENSITY",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if NOILENS_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("NOILENS_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}

	// Parse CORS allowed origins from comma-separated string
	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: corsOrigins,
	}

	cfg.Upload = UploadConfig{
		MaxFileSizeMB: v.GetInt64("upload.max_file_size_mb"),
	}

	cfg.Completion = CompletionConfig{
		Provider:    v.GetString("completion.provider"),
		APIKey:      v.GetString("completion.api_key"),
		Model:       v.GetString("completion.model"),
		Endpoint:    v.GetString("completion.endpoint"),
		TimeoutSecs: v.GetInt("completion.timeout_secs"),
	}

	cfg.Extractor = ExtractorConfig{
		MaxAttempts:             v.GetInt("extractor.max_attempts"),
		RetryBaseDelay:          v.GetDuration("extractor.retry_base_delay"),
		PromptBudget:            v.GetInt("extractor.prompt_budget"),
		Concurrency:             v.GetInt("extractor.concurrency"),
		ZeroValueMinimumDensity: v.GetFloat64("extractor.zero_value_minimum_density"),
	}

	return cfg, nil
}
