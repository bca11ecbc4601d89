// Package config loads application settings from environment variables,
// applies defaults and validates the result so misconfiguration fails at
// startup rather than on the first upload.
package config

import (
	"net"
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Upload   UploadConfig
	PDF      PDFConfig
	Session  SessionConfig
	Rate     RateLimitConfig
	Security SecurityConfig
	Logging  LoggingConfig
	Metrics  MetricsConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `env:"SERVER_HOST" default:"0.0.0.0"`
	Port            int           `env:"SERVER_PORT" envAlt:"PORT" default:"8080"`
	ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT" default:"30s"`
	WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"2m"`
	IdleTimeout     time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout must cover a slow PDF conversion.
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"90s"`
}

// UploadConfig holds paste and upload limits.
type UploadConfig struct {
	// RowLimit is the maximum rows accepted from one parse. 0 means unlimited.
	// REACT_APP_ROW_LIMIT is accepted so existing deployment env files keep working.
	RowLimit int `env:"ROW_LIMIT" envAlt:"REACT_APP_ROW_LIMIT" default:"0"`

	// MaxFileSize is the maximum upload size in bytes (default: 20MB).
	MaxFileSize int64 `env:"UPLOAD_MAX_FILE_SIZE" default:"20971520"`

	// MaxConcurrent caps simultaneous PDF conversions across all sessions.
	MaxConcurrent int `env:"UPLOAD_MAX_CONCURRENT" default:"4"`

	// MaxWaitTime is how long a conversion waits for a free slot.
	MaxWaitTime time.Duration `env:"UPLOAD_MAX_WAIT_TIME" default:"30s"`
}

// PDFConfig holds the remote conversion service settings.
type PDFConfig struct {
	// APIURL is the conversion service base URL. Empty disables PDF uploads.
	APIURL string `env:"PDF_API_URL" envAlt:"REACT_APP_PDF_API_URL"`

	// Timeout bounds one conversion call. 0 disables the timeout.
	Timeout time.Duration `env:"PDF_API_TIMEOUT" default:"60s"`
}

// SessionConfig holds browser session settings.
type SessionConfig struct {
	// Secret signs the session cookie. When empty a random key is generated
	// at startup, which is fine because session state is in memory anyway.
	Secret string `env:"SESSION_SECRET"`

	CookieName      string        `env:"SESSION_COOKIE_NAME" default:"sheetview_session"`
	Secure          bool          `env:"SESSION_COOKIE_SECURE" default:"false"`
	MaxIdle         time.Duration `env:"SESSION_MAX_IDLE" default:"30m"`
	CleanupInterval time.Duration `env:"SESSION_CLEANUP_INTERVAL" default:"5m"`
	MaxSessions     int           `env:"SESSION_MAX" default:"1000"`
}

// RateLimitConfig holds per-IP rate limiting settings.
type RateLimitConfig struct {
	Enabled           bool `env:"RATE_LIMIT_ENABLED" default:"true"`
	RequestsPerMinute int  `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"120"`
	UploadLimit       int  `env:"RATE_LIMIT_UPLOAD" default:"20"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies is a comma-separated list of proxy CIDRs whose
	// X-Real-IP / X-Forwarded-For headers are believed.
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	EnableCSP bool `env:"SECURITY_ENABLE_CSP" default:"true"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `env:"LOG_LEVEL" default:"info"`
	Format string `env:"LOG_FORMAT" default:"text"`
}

// MetricsConfig controls the /metrics endpoint.
type MetricsConfig struct {
	Enabled bool `env:"METRICS_ENABLED" default:"true"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
