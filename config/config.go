package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

var loadOnce sync.Once

// LoadEnv reads a .env file into the process environment once. A missing
// file is not an error; real deployments set the variables directly.
func LoadEnv() {
	loadOnce.Do(func() {
		_ = godotenv.Load()
	})
}

// MailConfig holds the fixed set of SMTP values. Sending is enabled only when
// every one of them is present and non-blank.
type MailConfig struct {
	Host       string
	Port       string
	Secure     string
	Username   string
	Password   string
	AdminEmail string

	FromName   string
	CCCustomer bool
	Timeout    time.Duration
	AttachPDF  bool
}

// requiredMailEnv lists the variables that must all be set for mail delivery.
var requiredMailEnv = []string{
	"SMTP_HOST",
	"SMTP_PORT",
	"SMTP_SECURE",
	"SMTP_USER",
	"SMTP_PASS",
	"ADMIN_EMAIL",
}

// Configured reports whether every required SMTP value is non-blank.
func (m MailConfig) Configured() bool {
	return len(m.Missing()) == 0
}

// Missing returns the names of the required variables that are blank.
// Only names are returned, never values.
func (m MailConfig) Missing() []string {
	values := []string{m.Host, m.Port, m.Secure, m.Username, m.Password, m.AdminEmail}
	var missing []string
	for i, v := range values {
		if strings.TrimSpace(v) == "" {
			missing = append(missing, requiredMailEnv[i])
		}
	}
	return missing
}

// PortNumber parses Port. Configured() does not imply a numeric port.
func (m MailConfig) PortNumber() (int, error) {
	return strconv.Atoi(strings.TrimSpace(m.Port))
}

// UseSSL reports whether SMTP_SECURE asks for implicit TLS.
func (m MailConfig) UseSSL() bool {
	return strings.EqualFold(strings.TrimSpace(m.Secure), "true")
}

type RateLimitConfig struct {
	Rule        string // e.g. "5-1m"
	MaxKeys     int
	Store       string // "memory" or "redis"
	RedisURL    string
	GlobalRPS   float64
	GlobalBurst int
}

type DesignConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
}

// Enabled reports whether the design-service OAuth flow can run.
func (d DesignConfig) Enabled() bool {
	return d.ClientID != "" && d.ClientSecret != "" && d.RedirectURI != ""
}

type Config struct {
	Port           string
	Env            string
	CORSOrigins    []string
	TrustedProxies []string
	SessionSecret  []byte

	Mail      MailConfig
	RateLimit RateLimitConfig
	Design    DesignConfig
}

// IsDevelopment gates diagnostic detail on error pages.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Load builds a Config from the environment. Call LoadEnv first to pick up .env.
func Load() Config {
	env := strings.ToLower(getenvDefault("APP_ENV", "development"))
	return Config{
		Port:           getenvDefault("PORT", "3000"),
		Env:            env,
		CORSOrigins:    splitList(os.Getenv("CORS_ORIGIN")),
		TrustedProxies: splitList(os.Getenv("TRUSTED_PROXIES")),
		SessionSecret:  sessionSecret(env == "development"),
		Mail: MailConfig{
			Host:       os.Getenv("SMTP_HOST"),
			Port:       os.Getenv("SMTP_PORT"),
			Secure:     os.Getenv("SMTP_SECURE"),
			Username:   os.Getenv("SMTP_USER"),
			Password:   os.Getenv("SMTP_PASS"),
			AdminEmail: os.Getenv("ADMIN_EMAIL"),
			FromName:   getenvDefault("MAIL_FROM_NAME", "Taxi Booking"),
			CCCustomer: getenvBoolDefault("BOOKING_CC_CUSTOMER", false),
			Timeout:    getenvDurationDefault("SMTP_TIMEOUT", 15*time.Second),
			AttachPDF:  getenvBoolDefault("BOOKING_ATTACH_PDF", false),
		},
		RateLimit: RateLimitConfig{
			Rule:        getenvDefault("RATE_LIMIT", "5-1m"),
			MaxKeys:     getenvIntDefault("RATE_LIMIT_MAX_KEYS", 10000),
			Store:       strings.ToLower(getenvDefault("RATE_LIMIT_STORE", "memory")),
			RedisURL:    os.Getenv("REDIS_URL"),
			GlobalRPS:   getenvFloatDefault("GLOBAL_RATE_RPS", 0),
			GlobalBurst: getenvIntDefault("GLOBAL_RATE_BURST", 20),
		},
		Design: DesignConfig{
			ClientID:     os.Getenv("CANVA_CLIENT_ID"),
			ClientSecret: os.Getenv("CANVA_CLIENT_SECRET"),
			RedirectURI:  os.Getenv("CANVA_REDIRECT_URI"),
		},
	}
}

const devSessionSecret = "default-insecure-session-secret-only-for-development"

// ErrSessionSecretRequired is returned by Validate when the design integration
// is on outside development without SESSION_SECRET.
var ErrSessionSecretRequired = errors.New("SESSION_SECRET must be set when the design integration is enabled outside development")

// sessionSecret falls back to a fixed value in development only.
func sessionSecret(dev bool) []byte {
	secret := os.Getenv("SESSION_SECRET")
	if secret != "" {
		return []byte(secret)
	}
	if dev {
		return []byte(devSessionSecret)
	}
	return nil
}

// Validate reports settings that must stop the server from starting.
func (c Config) Validate() error {
	if c.Design.Enabled() && len(c.SessionSecret) == 0 {
		return ErrSessionSecretRequired
	}
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getenvDefault(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

func getenvIntDefault(k string, def int) int {
	i, err := strconv.Atoi(strings.TrimSpace(os.Getenv(k)))
	if err != nil {
		return def
	}
	return i
}

func getenvFloatDefault(k string, def float64) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(os.Getenv(k)), 64)
	if err != nil {
		return def
	}
	return f
}

func getenvBoolDefault(k string, def bool) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(os.Getenv(k)))
	if err != nil {
		return def
	}
	return b
}

func getenvDurationDefault(k string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(strings.TrimSpace(os.Getenv(k)))
	if err != nil {
		return def
	}
	return d
}
