package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config struct for environment variables.
type Config struct {
	BridgeBaseURL  string        `envconfig:"BRIDGE_BASE_URL" required:"true"`
	BridgeAPIPath  string        `envconfig:"BRIDGE_API_URL_PATH" default:"/json"`
	BridgeToken    string        `envconfig:"BRIDGE_TOKEN"`
	BridgeTimeout  time.Duration `envconfig:"BRIDGE_TIMEOUT" default:"10s"`
	BridgeInsecure bool          `envconfig:"BRIDGE_INSECURE"`

	DBPath string `envconfig:"DB_PATH" default:"downwatch.db"`

	CreatedDelay time.Duration `envconfig:"CREATED_DELAY" default:"250ms"`
	ChangedDelay time.Duration `envconfig:"CHANGED_DELAY" default:"350ms"`
	GraceDelay   time.Duration `envconfig:"GRACE_DELAY" default:"1s"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"INFO"`

	Message struct {
		Username string `split_words:"true"`
		Password string `split_words:"true"`
	}

	Telemetry struct {
		Enabled      bool   `split_words:"true" default:"true"`
		OTLPEndpoint string `envconfig:"TELEMETRY_OTLP_ENDPOINT"`
	}

	Web struct {
		BindAddress     string        `split_words:"true" default:"127.0.0.1:9848"`
		ReadTimeout     time.Duration `split_words:"true" default:"30s"`
		WriteTimeout    time.Duration `split_words:"true" default:"30s"`
		IdleTimeout     time.Duration `split_words:"true" default:"5s"`
		ShutdownTimeout time.Duration `split_words:"true" default:"30s"`
	}
}

// LoadConfig reads environment variables and populates the Config struct.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("error processing env: %w", err)
	}

	return &cfg, nil
}

func (c *Config) SlogLevel() slog.Level {
	switch strings.ToUpper(c.LogLevel) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
