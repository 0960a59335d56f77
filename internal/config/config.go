package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config holds runtime settings for the trek backend.
type Config struct {
	Port               string        `env:"PORT" envDefault:"5000"`
	MongoURI           string        `env:"MONGO_URI" envDefault:"mongodb://127.0.0.1:27017"`
	DBName             string        `env:"DB_NAME" envDefault:"trek_db"`
	LogLevel           string        `env:"LOG_LEVEL" envDefault:"info"`
	CORSAllowedOrigins []string      `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`
	StoreCheckSchedule string        `env:"STORE_CHECK_SCHEDULE" envDefault:"@every 1m"`
	ConnectTimeout     time.Duration `env:"MONGO_CONNECT_TIMEOUT" envDefault:"10s"`
	ShutdownTimeout    time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"15s"`
}

// LoadConfig reads an optional .env file and then the process environment.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logrus.Debug("No .env file found, using environment variables")
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.Port = strings.TrimPrefix(strings.TrimSpace(cfg.Port), ":")
	if cfg.Port == "" {
		return nil, fmt.Errorf("parse config: PORT must not be empty")
	}
	if cfg.DBName == "" {
		return nil, fmt.Errorf("parse config: DB_NAME must not be empty")
	}

	return &cfg, nil
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
}
