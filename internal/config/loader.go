package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

var durationType = reflect.TypeOf(time.Duration(0))

// Load reads configuration from environment variables.
// It applies defaults for unset values and validates the result.
func Load() (*Config, error) {
	cfg := &Config{}

	if err := loadStruct(reflect.ValueOf(cfg).Elem()); err != nil {
		return nil, fmt.Errorf("config load: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

// lookup returns the first non-empty value among the named variables.
func lookup(names ...string) string {
	for _, name := range names {
		if name == "" {
			continue
		}
		if v, ok := os.LookupEnv(name); ok && v != "" {
			return v
		}
	}
	return ""
}

// loadStruct recursively populates struct fields from environment variables
// using the env, envAlt, default and required tags.
func loadStruct(v reflect.Value) error {
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		fieldVal := v.Field(i)
		if !fieldVal.CanSet() {
			continue
		}

		if field.Type.Kind() == reflect.Struct {
			if err := loadStruct(fieldVal); err != nil {
				return err
			}
			continue
		}

		envName := field.Tag.Get("env")
		if envName == "" {
			continue
		}

		value := lookup(envName, field.Tag.Get("envAlt"))
		if value == "" {
			if field.Tag.Get("required") == "true" {
				return fmt.Errorf("required environment variable %s is not set", envName)
			}
			value = field.Tag.Get("default")
		}
		if value == "" {
			continue
		}

		if err := setField(fieldVal, value); err != nil {
			return fmt.Errorf("invalid value for %s=%q: %w", envName, value, err)
		}
	}

	return nil
}

// setField parses value into field according to its kind.
func setField(field reflect.Value, value string) error {
	if field.Type() == durationType {
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration: %w", err)
		}
		field.SetInt(int64(d))
		return nil
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(value)
	case reflect.Int, reflect.Int64:
		i, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid integer: %w", err)
		}
		field.SetInt(i)
	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean: %w", err)
		}
		field.SetBool(b)
	default:
		return fmt.Errorf("unsupported field type: %s", field.Kind())
	}
	return nil
}

var (
	outputDrivers   = map[string]bool{"fs": true, "s3": true, "memory": true}
	snapshotDrivers = map[string]bool{"none": true, "sqlite": true, "postgres": true}
	logLevels       = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	logFormats      = map[string]bool{"text": true, "json": true}
)

// Validate checks that the configuration is valid.
// Returns an error describing all validation failures.
func (c *Config) Validate() error {
	var errs []string

	// Output
	if !outputDrivers[c.Output.Driver] {
		errs = append(errs, fmt.Sprintf("OUTPUT_DRIVER (%q) must be one of: fs, s3, memory", c.Output.Driver))
	}
	if c.Output.Driver == "fs" && c.Output.Dir == "" {
		errs = append(errs, "OUTPUT_DIR is required for the fs driver")
	}
	if c.Output.Concurrency <= 0 {
		errs = append(errs, "OUTPUT_CONCURRENCY must be positive")
	}
	if c.Output.Driver == "s3" && c.S3.Bucket == "" {
		errs = append(errs, "S3_BUCKET is required for the s3 driver")
	}
	if c.S3.MaxRetries < 0 {
		errs = append(errs, "S3_MAX_RETRIES must be non-negative")
	}
	if c.S3.Endpoint != "" {
		if err := validate.Var(c.S3.Endpoint, "url"); err != nil {
			errs = append(errs, fmt.Sprintf("S3_ENDPOINT (%q) must be a URL", c.S3.Endpoint))
		}
	}

	// Site
	if err := validateBaseURL(c.Site.BaseURL); err != nil {
		errs = append(errs, fmt.Sprintf("SITE_BASE_URL (%q) %v", c.Site.BaseURL, err))
	}
	if c.Site.Name == "" {
		errs = append(errs, "SITE_NAME must not be empty")
	}
	if c.Sitemap.ChunkSize <= 0 {
		errs = append(errs, "SITEMAP_CHUNK_SIZE must be positive")
	}
	if c.Sitemap.CityPreview < 0 {
		errs = append(errs, "SITEMAP_CITY_PREVIEW must be non-negative")
	}

	// Snapshot
	if !snapshotDrivers[c.Snapshot.Driver] {
		errs = append(errs, fmt.Sprintf("SNAPSHOT_DRIVER (%q) must be one of: none, sqlite, postgres", c.Snapshot.Driver))
	}
	if c.Snapshot.Driver == "postgres" && c.Snapshot.DSN == "" {
		errs = append(errs, "SNAPSHOT_DSN is required for the postgres snapshot driver")
	}

	// Logging
	if !logLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, fmt.Sprintf("LOG_LEVEL (%q) must be one of: debug, info, warn, error", c.Logging.Level))
	}
	if !logFormats[strings.ToLower(c.Logging.Format)] {
		errs = append(errs, fmt.Sprintf("LOG_FORMAT (%q) must be one of: text, json", c.Logging.Format))
	}

	// Server
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("SERVER_PORT (%d) must be 1-65535", c.Server.Port))
	}
	if c.Server.ReadTimeout < 0 {
		errs = append(errs, "SERVER_READ_TIMEOUT must be non-negative")
	}
	if c.Server.ShutdownTimeout <= 0 {
		errs = append(errs, "SERVER_SHUTDOWN_TIMEOUT must be positive")
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}

// validateBaseURL requires an absolute http(s) URL.
func validateBaseURL(raw string) error {
	if err := validate.Var(raw, "required,url"); err != nil {
		return errors.New("must be an absolute URL")
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return errors.New("must use http or https")
	}
	return nil
}

// RequireArchive reports an error when no input archive is configured.
// Builds call it; the preview server does not need an archive.
func (c *Config) RequireArchive() error {
	if c.Input.Archive == "" {
		return errors.New("config validation: INPUT_ARCHIVE (or ARCHIVE_PATH) is required")
	}
	return nil
}

// String returns a safe string representation of the config for logging.
// Credentials and the snapshot DSN are masked.
func (c *Config) String() string {
	var b strings.Builder
	b.WriteString("Config{")
	fmt.Fprintf(&b, "Input: {Archive: %q}, ", c.Input.Archive)
	fmt.Fprintf(&b, "Output: {Driver: %q, Dir: %q, Concurrency: %d}, ", c.Output.Driver, c.Output.Dir, c.Output.Concurrency)
	fmt.Fprintf(&b, "S3: {Bucket: %q, Region: %q, Prefix: %q, Credentials: %s}, ", c.S3.Bucket, c.S3.Region, c.S3.Prefix, mask(c.S3.SecretAccessKey))
	fmt.Fprintf(&b, "Site: {BaseURL: %q, Name: %q}, ", c.Site.BaseURL, c.Site.Name)
	fmt.Fprintf(&b, "Snapshot: {Driver: %q, DSN: %s}, ", c.Snapshot.Driver, mask(c.Snapshot.DSN))
	fmt.Fprintf(&b, "Logging: {Level: %q, Format: %q}", c.Logging.Level, c.Logging.Format)
	b.WriteString("}")
	return b.String()
}

func mask(s string) string {
	if s == "" {
		return "[UNSET]"
	}
	return "[MASKED]"
}
