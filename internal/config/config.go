package config

import (
	"errors"
	"strings"

	"github.com/spf13/viper"
)

// ErrMissingSecret indicates the JWT signing secret was not configured.
// The process must not serve traffic without it.
var ErrMissingSecret = errors.New("JWT_SECRET is not set")

// Config holds all process-wide settings. It is loaded once at startup and
// treated as immutable afterwards; components receive it via constructors
// instead of reading the environment themselves.
type Config struct {
	AppPort     string
	DatabaseDSN string
	JWTSecret   string
	AdminEmails []string
	RabbitMQURL string
}

// Load reads configuration from the environment via Viper. A missing
// JWT_SECRET is a fatal condition reported to the caller; everything else
// has a usable default. ADMIN_LIST is a comma-separated list of
// administrator emails and may be empty.
func Load() (*Config, error) {
	viper.SetDefault("APP_PORT", ":8080")
	viper.SetDefault("DATABASE_DSN", "host=localhost user=postgres password=postgres dbname=trackbox port=5432 sslmode=disable")
	viper.SetDefault("ADMIN_LIST", "")
	viper.SetDefault("RABBITMQ_URL", "")
	viper.AutomaticEnv()

	secret := viper.GetString("JWT_SECRET")
	if secret == "" {
		return nil, ErrMissingSecret
	}

	return &Config{
		AppPort:     viper.GetString("APP_PORT"),
		DatabaseDSN: viper.GetString("DATABASE_DSN"),
		JWTSecret:   secret,
		AdminEmails: parseAdminList(viper.GetString("ADMIN_LIST")),
		RabbitMQURL: viper.GetString("RABBITMQ_URL"),
	}, nil
}

func parseAdminList(raw string) []string {
	var emails []string
	for _, part := range strings.Split(raw, ",") {
		if email := strings.TrimSpace(part); email != "" {
			emails = append(emails, email)
		}
	}
	return emails
}
