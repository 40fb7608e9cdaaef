package config_test

import (
	"testing"

	"trackbox/internal/config"

	"github.com/stretchr/testify/assert"
)

func TestLoad_MissingSecretIsFatal(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := config.Load()
	assert.ErrorIs(t, err, config.ErrMissingSecret)
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("ADMIN_LIST", "")
	t.Setenv("RABBITMQ_URL", "")

	cfg, err := config.Load()
	assert.NoError(t, err)
	assert.Equal(t, ":8080", cfg.AppPort)
	assert.Equal(t, "s3cret", cfg.JWTSecret)
	assert.Empty(t, cfg.AdminEmails)
	assert.Empty(t, cfg.RabbitMQURL)
}

func TestLoad_AdminListParsing(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("ADMIN_LIST", "admin@example.com, second@example.com ,,")

	cfg, err := config.Load()
	assert.NoError(t, err)
	assert.Equal(t, []string{"admin@example.com", "second@example.com"}, cfg.AdminEmails)
}
