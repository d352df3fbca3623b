package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Prefix is prepended to every environment variable, e.g. GETWVKEYS_API_URL.
const Prefix = "GETWVKEYS"

type Config struct {
	APIURL         string        `envconfig:"API_URL"`
	APIKey         string        `envconfig:"API_KEY"`
	APITimeout     time.Duration `envconfig:"API_TIMEOUT" default:"30s"`
	LicenseTimeout time.Duration `envconfig:"LICENSE_TIMEOUT" default:"10s"`
	LogLevel       string        `envconfig:"LOG_LEVEL" default:"warn"`
}

// Load reads envFile if it exists, then the process environment. Variables
// already present in the environment are not overridden by the file.
func Load(envFile string) (*Config, error) {
	if err := loadEnvFile(envFile); err != nil {
		return nil, fmt.Errorf("load %s: %w", envFile, err)
	}

	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, fmt.Errorf("process env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return godotenv.Load(path)
}

func (c *Config) validate() error {
	if c.APITimeout <= 0 {
		return fmt.Errorf("%s_API_TIMEOUT must be positive, got %s", Prefix, c.APITimeout)
	}
	if c.LicenseTimeout <= 0 {
		return fmt.Errorf("%s_LICENSE_TIMEOUT must be positive, got %s", Prefix, c.LicenseTimeout)
	}
	return nil
}
