package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	// Environment
	Env      string // "development", "production", etc.
	LogLevel string // debug, info, warn, error

	// Server
	ServerAddr string
	BaseURL    string

	// Storage
	StorageBackend string // "memory", "redis" or "postgres"
	RedisURL       string
	DatabaseURL    string
	HistoryLimit   int // 0 keeps every crawl

	// Visitors held in memory; evicted ones reload from storage
	MaxVisitors        int
	VisitorIdleTimeout time.Duration

	// Crawl
	CrawlDelay        time.Duration
	CrawlFixturesFile string // optional YAML file overriding the canned crawl results

	// TLS/mTLS
	TLSEnabled  bool
	TLSCertFile string
	TLSKeyFile  string
	TLSCAFile   string // CA for verifying client certs (mTLS)

	// OIDC
	OIDCIssuer       string
	OIDCClientID     string
	OIDCClientSecret string
	OIDCRedirectURL  string
	RequireLogin     bool // only honored when OIDC is configured

	// Session
	SessionSecret string // Used for signing cookies (min 32 chars)

	// CORS
	CORSOrigins string // Comma-separated allowed origins

	// Email
	SMTPEnabled   bool
	SMTPHost      string
	SMTPPort      int
	SMTPUsername  string
	SMTPPassword  string
	SMTPFrom      string
	SMTPFromName  string
	SMTPTLS       string // "none", "starttls" or "tls"
	ReportEmailTo string // Comma-separated recipients of crawl reports

	// Site Branding
	SiteTitle   string // env: SITE_TITLE, default: "Broken Link Checker"
	SiteTagline string
	SiteFooter  string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		Env:      getEnv("ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		ServerAddr: getEnv("SERVER_ADDR", ":3000"),
		BaseURL:    getEnv("BASE_URL", "http://localhost:3000"),

		StorageBackend: getEnv("STORAGE_BACKEND", "memory"),
		RedisURL:       getEnv("REDIS_URL", ""),
		DatabaseURL:    getEnv("DATABASE_URL", "postgres://localhost:5432/linkchecker?sslmode=disable"),
		HistoryLimit:   getEnvInt("HISTORY_LIMIT", 0),

		MaxVisitors:        getEnvInt("MAX_VISITORS", 1000),
		VisitorIdleTimeout: getEnvDuration("VISITOR_IDLE_TIMEOUT", 30*time.Minute),

		CrawlDelay:        getEnvDuration("CRAWL_DELAY", 2*time.Second),
		CrawlFixturesFile: getEnv("CRAWL_FIXTURES_FILE", ""),

		TLSEnabled:  getEnv("TLS_ENABLED", "") != "",
		TLSCertFile: getEnv("TLS_CERT_FILE", ""),
		TLSKeyFile:  getEnv("TLS_KEY_FILE", ""),
		TLSCAFile:   getEnv("TLS_CA_FILE", ""),

		OIDCIssuer:       getEnv("OIDC_ISSUER", ""),
		OIDCClientID:     getEnv("OIDC_CLIENT_ID", ""),
		OIDCClientSecret: getEnv("OIDC_CLIENT_SECRET", ""),
		OIDCRedirectURL:  getEnv("OIDC_REDIRECT_URL", "http://localhost:3000/auth/callback"),
		RequireLogin:     getEnv("REQUIRE_LOGIN", "") != "",

		SessionSecret: getEnv("SESSION_SECRET", "change-me-in-production-min-32-chars"),
		CORSOrigins:   getEnv("CORS_ORIGINS", ""),

		SMTPEnabled:   getEnv("SMTP_ENABLED", "") != "",
		SMTPHost:      getEnv("SMTP_HOST", ""),
		SMTPPort:      getEnvInt("SMTP_PORT", 587),
		SMTPUsername:  getEnv("SMTP_USERNAME", ""),
		SMTPPassword:  getEnv("SMTP_PASSWORD", ""),
		SMTPFrom:      getEnv("SMTP_FROM", ""),
		SMTPFromName:  getEnv("SMTP_FROM_NAME", "Broken Link Checker"),
		SMTPTLS:       getEnv("SMTP_TLS", "starttls"),
		ReportEmailTo: getEnv("REPORT_EMAIL_TO", ""),

		SiteTitle:   getEnv("SITE_TITLE", "Broken Link Checker"),
		SiteTagline: getEnv("SITE_TAGLINE", "Check your website for broken links and fix them to improve user experience."),
		SiteFooter:  getEnv("SITE_FOOTER", "Broken Link Checker"),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil || d < 0 {
		return fallback
	}
	return d
}

// IsDev returns true if the environment is set to development.
func (c *Config) IsDev() bool {
	return c.Env == "development" || c.Env == "dev"
}

// IsOIDCEnabled returns true if an OIDC issuer is configured.
func (c *Config) IsOIDCEnabled() bool {
	return c.OIDCIssuer != ""
}

// IsEmailEnabled returns true if SMTP is fully configured.
func (c *Config) IsEmailEnabled() bool {
	return c.SMTPEnabled && c.SMTPHost != "" && c.SMTPFrom != ""
}
