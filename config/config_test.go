package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	assert.Equal(t, "8080", cfg.AppPort)
	assert.Equal(t, "uploads", cfg.UploadDir)
	assert.Equal(t, 5, cfg.MaxUploadFiles)
	assert.EqualValues(t, 5<<20, cfg.MaxUploadBytes)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("APP_PORT", "9000")
	t.Setenv("DB_NAME", "leaveapp_test")
	t.Setenv("DB_SSLMODE", "require")

	cfg := Load()
	assert.Equal(t, "9000", cfg.AppPort)
	assert.Contains(t, cfg.DSN(), "dbname=leaveapp_test")
	assert.Contains(t, cfg.DSN(), "sslmode=require")
}
