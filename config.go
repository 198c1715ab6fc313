package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// devJWTSecret is only accepted outside production.
const devJWTSecret = "dev-insecure-secret-change"

type Config struct {
	Env         string
	Port        int
	DSN         string
	JWTSecret   []byte
	TokenTTL    time.Duration
	AutoMigrate bool

	UploadBase    string
	MaxImageWidth int

	CORSOrigins []string

	LogLevel    string
	LogFile     string
	LogJSON     bool
	LogToStdout bool

	SeedAdminEmail    string
	SeedAdminPassword string
}

func (c Config) IsProduction() bool {
	return c.Env == "production" || c.Env == "prod"
}

// LoadConfig reads the process environment. The .env file, if any, must be
// loaded before calling it.
func LoadConfig() (Config, error) {
	return loadConfig(os.Getenv)
}

func loadConfig(getenv func(string) string) (Config, error) {
	cfg := Config{
		Env:               strings.ToLower(orDefault(getenv("APP_ENV"), "development")),
		DSN:               getenv("DB_DSN"),
		TokenTTL:          24 * time.Hour,
		UploadBase:        orDefault(getenv("UPLOAD_BASE"), "uploads"),
		LogLevel:          orDefault(getenv("LOG_LEVEL"), "info"),
		LogFile:           getenv("LOG_FILE"),
		SeedAdminEmail:    orDefault(getenv("SEED_ADMIN_EMAIL"), "admin@tokoikan.local"),
		SeedAdminPassword: getenv("SEED_ADMIN_PASSWORD"),
	}

	var err error
	if cfg.Port, err = intEnv(getenv, "PORT", 8081); err != nil {
		return Config{}, err
	}
	if cfg.MaxImageWidth, err = intEnv(getenv, "MAX_IMAGE_WIDTH", 1600); err != nil {
		return Config{}, err
	}
	if cfg.AutoMigrate, err = boolEnv(getenv, "DB_AUTO_MIGRATE", true); err != nil {
		return Config{}, err
	}
	if cfg.LogJSON, err = boolEnv(getenv, "LOG_JSON", false); err != nil {
		return Config{}, err
	}
	if cfg.LogToStdout, err = boolEnv(getenv, "LOG_TO_STDOUT", true); err != nil {
		return Config{}, err
	}

	if cfg.DSN == "" {
		return Config{}, errors.New("DB_DSN is not set. This project requires a Postgres DSN in DB_DSN")
	}

	secret := getenv("JWT_SECRET")
	if secret == "" {
		if cfg.IsProduction() {
			return Config{}, errors.New("JWT_SECRET must be set in production")
		}
		secret = devJWTSecret
	}
	cfg.JWTSecret = []byte(secret)

	if cfg.SeedAdminPassword == "" && !cfg.IsProduction() {
		cfg.SeedAdminPassword = "admin123"
	}

	origins := orDefault(getenv("CORS_ORIGINS"), "http://localhost:5173,http://localhost:3000")
	for _, o := range strings.Split(origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.CORSOrigins = append(cfg.CORSOrigins, o)
		}
	}

	return cfg, nil
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return strings.TrimSpace(v)
}

func intEnv(getenv func(string) string, key string, def int) (int, error) {
	v := strings.TrimSpace(getenv(key))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number, got %q", key, v)
	}
	return n, nil
}

func boolEnv(getenv func(string) string, key string, def bool) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(getenv(key))) {
	case "":
		return def, nil
	case "1", "true", "yes", "on":
		return true, nil
	case "0", "false", "no", "off":
		return false, nil
	default:
		return false, fmt.Errorf("%s must be a boolean, got %q", key, getenv(key))
	}
}
