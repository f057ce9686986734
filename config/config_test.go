package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, 5000, cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.OCR.Timeout)
	assert.Equal(t, int64(10*1024*1024), cfg.OCR.MaxUploadBytes)
	assert.Equal(t, 1000, cfg.Export.MaxRows)
	assert.Equal(t, "Other Expense", cfg.Suggestion.FallbackName)
	assert.True(t, cfg.Database.AutoMigrate)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("OCR_TIMEOUT", "5s")
	t.Setenv("OCR_MAX_UPLOAD_BYTES", "2048")
	t.Setenv("DB_AUTO_MIGRATE", "false")
	t.Setenv("EXPORT_MAX_ROWS", "not-a-number")

	cfg := Load()

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.OCR.Timeout)
	assert.Equal(t, int64(2048), cfg.OCR.MaxUploadBytes)
	assert.False(t, cfg.Database.AutoMigrate)
	assert.Equal(t, 1000, cfg.Export.MaxRows, "invalid values fall back to the default")
}
