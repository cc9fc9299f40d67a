package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the full service configuration, matching config/config.yaml.
type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Reservation ReservationConfig `mapstructure:"reservation"`
	Wompi       WompiConfig       `mapstructure:"wompi"`
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // gin mode: debug/release/test
}

// DatabaseConfig holds the PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// ReservationConfig controls ticket reservation lifetime. The expiration is
// stored on each reservation; no job enforces it.
type ReservationConfig struct {
	TTLDays int `mapstructure:"ttl_days"`
}

// TTL returns the reservation lifetime, defaulting to 9 days.
func (r ReservationConfig) TTL() time.Duration {
	days := r.TTLDays
	if days <= 0 {
		days = 9
	}
	return time.Duration(days) * 24 * time.Hour
}

// WompiConfig holds the payment gateway credentials and URLs. The wompi client
// receives this explicitly; there is no package-level singleton.
type WompiConfig struct {
	BaseURL         string `mapstructure:"base_url"`
	RedirectBaseURL string `mapstructure:"redirect_base_url"`
	PublicKey       string `mapstructure:"public_key"`
	PrivateKey      string `mapstructure:"private_key"`
	EventsKey       string `mapstructure:"events_key"`
	IntegrityKey    string `mapstructure:"integrity_key"`
}

// LoadConfig reads config/config.yaml, with secrets overridden from the
// environment (.env is loaded first when present, and may be absent).
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	viper.SetTypeByDefaultValue(true)
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	overrideFromEnv(&cfg)
	return &cfg, nil
}

// overrideFromEnv applies environment overrides for sensitive fields
// (priority env > yaml).
func overrideFromEnv(cfg *Config) {
	if v := os.Getenv("DATABASE_DSN"); v != "" {
		cfg.Database.DSN = v
	}
	if v := os.Getenv("WOMPI_PUBLIC_KEY"); v != "" {
		cfg.Wompi.PublicKey = v
	}
	if v := os.Getenv("WOMPI_PRIVATE_KEY"); v != "" {
		cfg.Wompi.PrivateKey = v
	}
	if v := os.Getenv("WOMPI_EVENTS_KEY"); v != "" {
		cfg.Wompi.EventsKey = v
	}
	if v := os.Getenv("WOMPI_INTEGRITY_KEY"); v != "" {
		cfg.Wompi.IntegrityKey = v
	}
}
