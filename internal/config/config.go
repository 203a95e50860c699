package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config groups the application settings read through Viper.
type Config struct {
	App       AppConfig
	DB        DBConfig
	JWT       JWTConfig
	RabbitMQ  RabbitMQConfig
	RateLimit RateLimitConfig
	LogLevel  string
}

// AppConfig holds general application settings.
type AppConfig struct {
	Env  string // development, staging, production
	Name string
	Port string
}

// IsDevelopment reports whether the app runs in development mode.
func (c AppConfig) IsDevelopment() bool {
	return c.Env == "development"
}

// DBConfig selects the storage backend.
type DBConfig struct {
	Driver string // postgres, sqlite or memory
	DSN    string
}

// JWTConfig holds token signing settings.
type JWTConfig struct {
	Secret    string
	ExpiresIn time.Duration
}

// RabbitMQConfig configures sale events. An empty URL disables them.
type RabbitMQConfig struct {
	URL   string
	Queue string
}

// RateLimitConfig bounds requests per client IP.
type RateLimitConfig struct {
	Max         int
	Window      time.Duration
	LoginMax    int
	LoginWindow time.Duration
}

const devJWTSecret = "dev-secret-change-me"

// Load reads the configuration from environment variables and, when present,
// a .env file in the working directory. Environment variables win.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read .env: %w", err)
		}
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	setDefaults(v)

	cfg := &Config{
		App: AppConfig{
			Env:  v.GetString("APP_ENV"),
			Name: v.GetString("APP_NAME"),
			Port: normalizePort(v.GetString("APP_PORT")),
		},
		DB: DBConfig{
			Driver: strings.ToLower(v.GetString("DB_DRIVER")),
			DSN:    v.GetString("DATABASE_DSN"),
		},
		JWT: JWTConfig{
			Secret:    v.GetString("JWT_SECRET"),
			ExpiresIn: v.GetDuration("JWT_EXPIRES_IN"),
		},
		RabbitMQ: RabbitMQConfig{
			URL:   v.GetString("RABBITMQ_URL"),
			Queue: v.GetString("RABBITMQ_QUEUE"),
		},
		RateLimit: RateLimitConfig{
			Max:         v.GetInt("RATE_LIMIT_MAX"),
			Window:      v.GetDuration("RATE_LIMIT_WINDOW"),
			LoginMax:    v.GetInt("LOGIN_RATE_LIMIT_MAX"),
			LoginWindow: v.GetDuration("LOGIN_RATE_LIMIT_WINDOW"),
		},
		LogLevel: v.GetString("LOG_LEVEL"),
	}

	if cfg.JWT.Secret == "" {
		if !cfg.App.IsDevelopment() {
			return nil, errors.New("JWT_SECRET is required outside development")
		}
		cfg.JWT.Secret = devJWTSecret
	}
	if cfg.JWT.ExpiresIn <= 0 {
		return nil, fmt.Errorf("JWT_EXPIRES_IN must be positive, got %s", cfg.JWT.ExpiresIn)
	}
	switch cfg.DB.Driver {
	case "postgres", "sqlite", "memory":
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DB.Driver)
	}
	if cfg.DB.DSN == "" {
		switch cfg.DB.Driver {
		case "postgres":
			return nil, errors.New("DATABASE_DSN is required for postgres")
		case "sqlite":
			cfg.DB.DSN = "backoffice.db"
		}
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_NAME", "backoffice")
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("DB_DRIVER", "sqlite")
	v.SetDefault("JWT_EXPIRES_IN", "1h")
	v.SetDefault("RABBITMQ_QUEUE", "sale_events")
	v.SetDefault("RATE_LIMIT_MAX", 200)
	v.SetDefault("RATE_LIMIT_WINDOW", "15m")
	v.SetDefault("LOGIN_RATE_LIMIT_MAX", 5)
	v.SetDefault("LOGIN_RATE_LIMIT_WINDOW", "10m")
	v.SetDefault("LOG_LEVEL", "info")
}

// normalizePort accepts both "8080" and ":8080".
func normalizePort(port string) string {
	if port != "" && !strings.Contains(port, ":") {
		return ":" + port
	}
	return port
}
