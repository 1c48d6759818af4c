package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type HTTPConfig struct {
	Host string
	Port int
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// DSN assembles the postgres connection string.
func (d DBConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode)
}

type AuthConfig struct {
	JWTSecret    string
	TokenTTLDays int
}

type TelemetryConfig struct {
	RetentionDays     int // 0 disables the sweeper
	IngestRatePerMin  int
	IngestBurst       int
}

type ImageConfig struct {
	BaseDir string
}

type Config struct {
	Environment string
	HTTP        HTTPConfig
	DB          DBConfig
	Auth        AuthConfig
	Telemetry   TelemetryConfig
	Images      ImageConfig
	CORSOrigins []string
}

// Load reads configuration from the environment (and any .env already loaded
// into it), applying development defaults for everything except the JWT
// secret in production.
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("APP_ENV", "development")
	v.SetDefault("HTTP_HOST", "0.0.0.0")
	v.SetDefault("HTTP_PORT", 8080)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "fleettrack")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("JWT_TOKEN_TTL_DAYS", 7)
	v.SetDefault("TELEMETRY_RETENTION_DAYS", 90)
	v.SetDefault("TELEMETRY_RATE_PER_MIN", 120)
	v.SetDefault("TELEMETRY_RATE_BURST", 30)
	v.SetDefault("IMAGES_DIR", "images")

	cfg := &Config{
		Environment: v.GetString("APP_ENV"),
		HTTP: HTTPConfig{
			Host: v.GetString("HTTP_HOST"),
			Port: v.GetInt("HTTP_PORT"),
		},
		DB: DBConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			Name:     v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		Auth: AuthConfig{
			JWTSecret:    v.GetString("JWT_SECRET"),
			TokenTTLDays: v.GetInt("JWT_TOKEN_TTL_DAYS"),
		},
		Telemetry: TelemetryConfig{
			RetentionDays:    v.GetInt("TELEMETRY_RETENTION_DAYS"),
			IngestRatePerMin: v.GetInt("TELEMETRY_RATE_PER_MIN"),
			IngestBurst:      v.GetInt("TELEMETRY_RATE_BURST"),
		},
		Images: ImageConfig{
			BaseDir: v.GetString("IMAGES_DIR"),
		},
		CORSOrigins: v.GetStringSlice("CORS_ORIGINS"),
	}

	if cfg.Auth.JWTSecret == "" {
		if cfg.Environment == "production" {
			return nil, fmt.Errorf("JWT_SECRET is required in production")
		}
		cfg.Auth.JWTSecret = "default_super_secret_key" // development fallback only
	}

	return cfg, nil
}
