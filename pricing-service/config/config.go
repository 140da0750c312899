package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/Bipul-Dubey/car-price-api/shared/db"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config holds the service settings, read from the environment.
type Config struct {
	Env              string        `env:"APP_ENV" env-default:"prod" env-description:"dev or prod; selects the log format"`
	Port             string        `env:"PORT" env-default:"8000" env-description:"HTTP listen port"`
	ModelPath        string        `env:"MODEL_PATH" env-default:"/app/models/model.json" env-description:"path to the model artifact"`
	GRPCHealthAddr   string        `env:"GRPC_HEALTH_ADDR" env-description:"gRPC health listen address; empty disables it"`
	CORSAllowOrigins []string      `env:"CORS_ALLOW_ORIGINS" env-default:"*" env-separator:"," env-description:"allowed CORS origins"`
	ShutdownTimeout  time.Duration `env:"SHUTDOWN_TIMEOUT" env-default:"10s" env-description:"graceful shutdown budget"`

	PredictionLog PredictionLogConfig
}

// PredictionLogConfig controls the optional Postgres prediction log.
type PredictionLogConfig struct {
	Enabled  bool   `env:"PREDICTION_LOG_ENABLED" env-default:"false"`
	Host     string `env:"DB_HOST" env-default:"localhost"`
	Port     int    `env:"DB_PORT" env-default:"5432"`
	User     string `env:"DB_USER" env-default:"postgres"`
	Password string `env:"DB_PASSWORD" env-default:"root"`
	Name     string `env:"DB_NAME" env-default:"car_price"`
	SSLMode  string `env:"DB_SSL_MODE" env-default:"disable"`
}

// Database returns the connection settings for the prediction log.
func (c PredictionLogConfig) Database() db.Settings {
	return db.Settings{
		Host:     c.Host,
		Port:     c.Port,
		User:     c.User,
		Password: c.Password,
		Name:     c.Name,
		SSLMode:  c.SSLMode,
	}
}

// Load reads an optional .env file from the working directory and then
// the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("read .env: %w", err)
	}

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}
	if cfg.ModelPath == "" {
		return nil, errors.New("MODEL_PATH must not be empty")
	}
	return &cfg, nil
}

// Addr is the HTTP listen address.
func (c *Config) Addr() string {
	return ":" + c.Port
}
