package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")

	cfg := FromEnv()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 5432, cfg.DBPort)
	assert.Equal(t, 24*time.Hour, cfg.JWTExpiresIn)
	assert.Equal(t, int64(5*1024*1024), cfg.MaxResumeBytes)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Equal(t, 4000.0, cfg.CostPerHire)
	assert.False(t, cfg.SMTPEnabled())
	require.NoError(t, cfg.Validate())
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("SMTP_SECURE", "true")
	t.Setenv("JWT_EXPIRES_IN", "2h")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test")
	t.Setenv("FRONTEND_URL", "https://hr.example.com/")
	t.Setenv("MAX_RESUME_BYTES", "not-a-number")

	cfg := FromEnv()

	assert.Equal(t, 6543, cfg.DBPort)
	assert.True(t, cfg.SMTPEnabled())
	assert.True(t, cfg.SMTPSecure)
	assert.Equal(t, 2*time.Hour, cfg.JWTExpiresIn)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
	assert.Equal(t, "https://hr.example.com", cfg.FrontendURL)
	assert.Equal(t, int64(5*1024*1024), cfg.MaxResumeBytes)
	assert.Contains(t, cfg.PostgresDSN(), "port=6543")
}

func TestValidateRequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	err := FromEnv().Validate()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestValidateReportsMalformedValues(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("JWT_EXPIRES_IN", "one day")
	t.Setenv("SMTP_SECURE", "maybe")
	t.Setenv("DB_PORT", "")

	cfg := FromEnv()
	err := cfg.Validate()

	require.Error(t, err)
	assert.Contains(t, err.Error(), `JWT_EXPIRES_IN: invalid duration "one day"`)
	assert.Contains(t, err.Error(), `SMTP_SECURE: invalid boolean "maybe"`)
	assert.NotContains(t, err.Error(), "DB_PORT")
	assert.Equal(t, 24*time.Hour, cfg.JWTExpiresIn)
}

func TestDurationsAcceptDays(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("JWT_EXPIRES_IN", "7d")

	cfg := FromEnv()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, 7*24*time.Hour, cfg.JWTExpiresIn)

	_, err := parseDuration("-1d")
	assert.Error(t, err)
	_, err = parseDuration("1.5d")
	assert.Error(t, err)
}
