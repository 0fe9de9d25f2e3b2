package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"bankledger/internal/money"
)

// Config holds all application configuration
type Config struct {
	Server ServerConfig `mapstructure:"server"`
	Store  StoreConfig  `mapstructure:"store"`
	Fees   FeesConfig   `mapstructure:"fees"`
	Auth   AuthConfig   `mapstructure:"auth"`
	Logger LoggerConfig `mapstructure:"logger"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

// StoreConfig holds flat-file store configuration
type StoreConfig struct {
	// Dir is the directory holding all table files.
	Dir string `mapstructure:"dir"`
	// LockWait bounds how long a mutating operation waits for a per-user
	// lock before failing with a busy error.
	LockWait time.Duration `mapstructure:"lock_wait"`
}

// FeesConfig holds money-movement fee configuration
type FeesConfig struct {
	// External is the flat fee charged on external transfers, as a decimal
	// string ("2.50").
	External string `mapstructure:"external"`
}

// AuthConfig holds session token configuration
type AuthConfig struct {
	JWTSecret  string        `mapstructure:"jwt_secret"`
	TokenTTL   time.Duration `mapstructure:"token_ttl"`
	BcryptCost int           `mapstructure:"bcrypt_cost"`
}

// LoggerConfig holds logging configuration
type LoggerConfig struct {
	Level string `mapstructure:"level"` // debug, info, warn, error
}

// Load reads configuration from LEDGER_* environment variables with sensible
// defaults.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("ledger")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.port", "8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.idle_timeout", "60s")
	v.SetDefault("store.dir", "database")
	v.SetDefault("store.lock_wait", "5s")
	v.SetDefault("fees.external", "2.50")
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.token_ttl", "24h")
	v.SetDefault("auth.bcrypt_cost", 10)
	v.SetDefault("logger.level", "info")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port cannot be empty")
	}

	if c.Store.Dir == "" {
		return fmt.Errorf("store directory cannot be empty")
	}
	if c.Store.LockWait <= 0 {
		return fmt.Errorf("lock wait must be positive, got %s", c.Store.LockWait)
	}

	fee, err := c.Fees.FeeCents()
	if err != nil {
		return err
	}
	if fee < 0 {
		return fmt.Errorf("external fee cannot be negative, got %s", fee)
	}

	if c.Auth.BcryptCost < 4 || c.Auth.BcryptCost > 31 {
		return fmt.Errorf("bcrypt cost must be between 4 and 31, got %d", c.Auth.BcryptCost)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logger.Level] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	return nil
}

// FeeCents returns the configured external fee in cents.
func (c *FeesConfig) FeeCents() (money.Cents, error) {
	fee, err := money.Parse(c.External)
	if err != nil {
		return 0, fmt.Errorf("external fee: %w", err)
	}
	return fee, nil
}
