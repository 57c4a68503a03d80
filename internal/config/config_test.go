package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("REMINDER_POLL_INTERVAL", "")

	cfg := Load()

	assert.Equal(t, "gemini-2.0-flash", cfg.GeminiModel)
	assert.Equal(t, 30*time.Second, cfg.ReminderPollInterval)
	assert.Equal(t, time.Minute, cfg.ReminderTolerance)
	assert.Equal(t, 60, cfg.RateLimitMax)
}

func TestLoad_BadDurationFallsBack(t *testing.T) {
	t.Setenv("REMINDER_TOLERANCE", "soon")

	cfg := Load()

	assert.Equal(t, time.Minute, cfg.ReminderTolerance)
}

func TestValidate_RequiresGeminiKey(t *testing.T) {
	cfg := &Config{JWTSecret: "s", DBPassword: "p"}

	err := cfg.Validate()

	var missing *MissingError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "GEMINI_API_KEY", missing.Key)
}

func TestValidate_OK(t *testing.T) {
	cfg := &Config{GeminiAPIKey: "k", JWTSecret: "s", DBPassword: "p"}

	assert.NoError(t, cfg.Validate())

	cfg.ReminderTolerance = time.Minute
	cfg.NotificationLifetime = 2 * time.Minute
	assert.NoError(t, cfg.Validate())
}

func TestValidate_LifetimeShorterThanTwoTolerances(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "k")
	t.Setenv("JWT_SECRET", "s")
	t.Setenv("DB_PASSWORD", "p")
	t.Setenv("REMINDER_TOLERANCE", "90s")
	t.Setenv("NOTIFICATION_LIFETIME", "2m")

	err := Load().Validate()

	assert.ErrorIs(t, err, ErrShortLifetime)
}
