// Package config содержит логику чтения конфигурации сервиса хемпмарт.
package config

import (
	"flag"
	"fmt"

	"github.com/caarlos0/env/v11"
)

const defaultSignupRateLimit = 10

// Config содержит параметры конфигурации сервиса хемпмарт.
type Config struct {
	RunAddress         string   `env:"RUN_ADDRESS"`
	CommerceAPIAddress string   `env:"COMMERCE_API_ADDRESS"`
	DatabaseURI        string   `env:"DATABASE_URI"`
	SignupRateLimit    int      `env:"SIGNUP_RATE_LIMIT"`
	AllowedOrigins     []string `env:"ALLOWED_ORIGINS" envSeparator:","`
	Environment        string   `env:"ENVIRONMENT"`
	AgeGateSecret      string   `env:"AGE_GATE_SECRET"`
}

// Production сообщает, что сервис запущен в боевом окружении.
func (c *Config) Production() bool {
	return c.Environment == "production"
}

// Parse считывает конфигурацию из флагов командной строки и переменных окружения.
func Parse() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	envRunAddress := cfg.RunAddress
	envCommerceAddress := cfg.CommerceAPIAddress
	envDatabaseURI := cfg.DatabaseURI

	flag.StringVar(&cfg.RunAddress, "a", "localhost:8080", "address and port for HTTP server")
	flag.StringVar(&cfg.CommerceAPIAddress, "c", "", "commerce backend address")
	flag.StringVar(&cfg.DatabaseURI, "d", "", "database URI")

	flag.Parse()

	if envRunAddress != "" {
		cfg.RunAddress = envRunAddress
	}
	if envCommerceAddress != "" {
		cfg.CommerceAPIAddress = envCommerceAddress
	}
	if envDatabaseURI != "" {
		cfg.DatabaseURI = envDatabaseURI
	}

	if cfg.RunAddress == "" {
		cfg.RunAddress = "localhost:8080"
	}
	if cfg.SignupRateLimit <= 0 {
		cfg.SignupRateLimit = defaultSignupRateLimit
	}
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}

	return cfg, nil
}
