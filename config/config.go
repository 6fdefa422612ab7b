package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type AppConfig struct {
	Port         string `env:"PORT" envDefault:"8080"`
	Timezone     string `env:"TZ" envDefault:"Asia/Ho_Chi_Minh"`
	DBPath       string `env:"DB_PATH" envDefault:"shiptrack.db"`
	LogLevel     string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat    string `env:"LOG_FORMAT" envDefault:"console"`
	DefaultActor string `env:"DEFAULT_ACTOR" envDefault:"PM"`
	MaxUploadMB  int    `env:"MAX_UPLOAD_MB" envDefault:"20"`
	StaticDir    string `env:"STATIC_DIR"`
}

// Load reads .env when present, then the process environment.
func Load() (AppConfig, error) {
	// a missing .env is normal outside development
	_ = godotenv.Load()

	cfg, err := env.ParseAs[AppConfig]()
	if err != nil {
		return AppConfig{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.MaxUploadMB <= 0 {
		return AppConfig{}, fmt.Errorf("MAX_UPLOAD_MB must be positive, got %d", cfg.MaxUploadMB)
	}
	return cfg, nil
}

// Location resolves TZ; an unknown zone falls back to UTC.
func (c AppConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// BodyLimit is the echo body-limit string for uploads.
func (c AppConfig) BodyLimit() string { return fmt.Sprintf("%dM", c.MaxUploadMB) }
