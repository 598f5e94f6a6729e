package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func setMailEnv(t *testing.T) {
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("SMTP_PORT", "465")
	t.Setenv("SMTP_SECURE", "true")
	t.Setenv("SMTP_USER", "bookings@example.com")
	t.Setenv("SMTP_PASS", "secret")
	t.Setenv("ADMIN_EMAIL", "admin@example.com")
}

func TestLoad_MailConfigured(t *testing.T) {
	setMailEnv(t)

	cfg := Load()
	assert.True(t, cfg.Mail.Configured())
	assert.Empty(t, cfg.Mail.Missing())
	assert.True(t, cfg.Mail.UseSSL())

	port, err := cfg.Mail.PortNumber()
	assert.NoError(t, err)
	assert.Equal(t, 465, port)
}

func TestLoad_MailMissingPassword(t *testing.T) {
	setMailEnv(t)
	t.Setenv("SMTP_PASS", "")

	cfg := Load()
	assert.False(t, cfg.Mail.Configured())
	assert.Equal(t, []string{"SMTP_PASS"}, cfg.Mail.Missing())
}

func TestLoad_BlankCountsAsMissing(t *testing.T) {
	setMailEnv(t)
	t.Setenv("ADMIN_EMAIL", "   ")

	assert.Equal(t, []string{"ADMIN_EMAIL"}, Load().Mail.Missing())
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("APP_ENV", "")
	t.Setenv("RATE_LIMIT", "")
	t.Setenv("SMTP_TIMEOUT", "")
	t.Setenv("MAIL_FROM_NAME", "")
	t.Setenv("BOOKING_CC_CUSTOMER", "")
	t.Setenv("RATE_LIMIT_STORE", "")

	cfg := Load()
	assert.Equal(t, "3000", cfg.Port)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, "5-1m", cfg.RateLimit.Rule)
	assert.Equal(t, "memory", cfg.RateLimit.Store)
	assert.Equal(t, 15*time.Second, cfg.Mail.Timeout)
	assert.Equal(t, "Taxi Booking", cfg.Mail.FromName)
	assert.False(t, cfg.Mail.CCCustomer)
}

func TestLoad_ListsAndFlags(t *testing.T) {
	t.Setenv("CORS_ORIGIN", "https://a.example, https://b.example,")
	t.Setenv("BOOKING_CC_CUSTOMER", "TRUE")
	t.Setenv("APP_ENV", "Production")

	cfg := Load()
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.True(t, cfg.Mail.CCCustomer)
	assert.False(t, cfg.IsDevelopment())
}

func TestDesignConfig_Enabled(t *testing.T) {
	assert.False(t, DesignConfig{ClientID: "id"}.Enabled())
	assert.True(t, DesignConfig{ClientID: "id", ClientSecret: "s", RedirectURI: "http://localhost/cb"}.Enabled())
}

func setDesignEnv(t *testing.T) {
	t.Setenv("CANVA_CLIENT_ID", "id")
	t.Setenv("CANVA_CLIENT_SECRET", "secret")
	t.Setenv("CANVA_REDIRECT_URI", "https://taxi.example/auth/canva/callback")
}

func TestLoad_SessionSecretFallbackOnlyInDevelopment(t *testing.T) {
	t.Setenv("SESSION_SECRET", "")

	t.Setenv("APP_ENV", "development")
	assert.NotEmpty(t, Load().SessionSecret)

	t.Setenv("APP_ENV", "production")
	assert.Empty(t, Load().SessionSecret)
}

func TestValidate_DesignOutsideDevelopmentNeedsSecret(t *testing.T) {
	setDesignEnv(t)
	t.Setenv("APP_ENV", "production")
	t.Setenv("SESSION_SECRET", "")

	assert.ErrorIs(t, Load().Validate(), ErrSessionSecretRequired)

	t.Setenv("SESSION_SECRET", "a-real-secret")
	cfg := Load()
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, []byte("a-real-secret"), cfg.SessionSecret)
}

func TestValidate_NoDesignNoSecretNeeded(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("SESSION_SECRET", "")
	t.Setenv("CANVA_CLIENT_ID", "")

	assert.NoError(t, Load().Validate())
}
