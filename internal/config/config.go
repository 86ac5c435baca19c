// Package config loads the site generator configuration from environment
// variables with defaults, and validates it up front so a bad setting fails
// the run before any work starts.
package config

import (
	"net"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Input    InputConfig
	Output   OutputConfig
	S3       S3Config
	Site     SiteConfig
	Sitemap  SitemapConfig
	Snapshot SnapshotConfig
	Metrics  MetricsConfig
	Logging  LoggingConfig
	Server   ServerConfig
}

// InputConfig locates the source data.
type InputConfig struct {
	// Archive is the zip file holding the four CSV members.
	// Required for builds, ignored by the preview server.
	Archive string `env:"INPUT_ARCHIVE" envAlt:"ARCHIVE_PATH"`
}

// OutputConfig selects where generated files go.
type OutputConfig struct {
	// Dir is the output root for the fs driver (default: public)
	Dir string `env:"OUTPUT_DIR" default:"public"`

	// Driver is fs, s3 or memory (default: fs)
	Driver string `env:"OUTPUT_DRIVER" default:"fs"`

	// Concurrency bounds parallel writes; 1 writes sequentially (default: 8)
	Concurrency int `env:"OUTPUT_CONCURRENCY" default:"8"`
}

// S3Config configures the s3 output driver.
type S3Config struct {
	Bucket          string `env:"S3_BUCKET"`
	Region          string `env:"S3_REGION" default:"us-east-1"`
	Endpoint        string `env:"S3_ENDPOINT"`
	PathStyle       bool   `env:"S3_PATH_STYLE" default:"false"`
	Prefix          string `env:"S3_PREFIX"`
	AccessKeyID     string `env:"S3_ACCESS_KEY_ID"`
	SecretAccessKey string `env:"S3_SECRET_ACCESS_KEY"`

	// MaxRetries is the number of retries per object (default: 5)
	MaxRetries int `env:"S3_MAX_RETRIES" default:"5"`
}

// SiteConfig holds values rendered into pages and sitemaps.
type SiteConfig struct {
	// BaseURL is the absolute URL the site is served from.
	BaseURL string `env:"SITE_BASE_URL" default:"https://example.com"`

	Name string `env:"SITE_NAME" default:"Beauty Salon Directory"`
}

// SitemapConfig controls sitemap sizes.
type SitemapConfig struct {
	// ChunkSize is the number of companies per sitemap file (default: 200)
	ChunkSize int `env:"SITEMAP_CHUNK_SIZE" default:"200"`

	// CityPreview is the number of cities listed on the sitemap page (default: 100)
	CityPreview int `env:"SITEMAP_CITY_PREVIEW" default:"100"`
}

// SnapshotConfig selects the optional dataset snapshot store.
type SnapshotConfig struct {
	// Driver is none, sqlite or postgres (default: none)
	Driver string `env:"SNAPSHOT_DRIVER" default:"none"`

	// DSN is a file path for sqlite or a connection URL for postgres.
	DSN string `env:"SNAPSHOT_DSN"`
}

// MetricsConfig holds run metrics settings.
type MetricsConfig struct {
	// Textfile is where prometheus metrics are written after a build; empty disables it.
	Textfile string `env:"METRICS_TEXTFILE"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// ServerConfig holds preview server settings.
type ServerConfig struct {
	Host            string        `env:"SERVER_HOST" default:"127.0.0.1"`
	Port            int           `env:"SERVER_PORT" default:"8080"`
	ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`
	IdleTimeout     time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"10s"`

	// TrustedProxies is a comma-separated list of CIDRs whose X-Real-IP and
	// X-Forwarded-For headers are honored.
	TrustedProxies string `env:"SERVER_TRUSTED_PROXIES"`
}

// Proxies splits TrustedProxies into its entries.
func (c *ServerConfig) Proxies() []string {
	var out []string
	for _, p := range strings.Split(c.TrustedProxies, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
