// Package publish writes generated output files to a destination store.
package publish

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"strings"
)

// Driver identifies a Store implementation.
type Driver string

const (
	DriverFilesystem Driver = "fs"
	DriverS3         Driver = "s3"
	DriverMemory     Driver = "memory"
)

// Store receives output files. Keys are slash-separated paths relative to
// the site root ("cities/springfield-s1/index.html"). Put overwrites any
// existing object and must be safe for concurrent use on distinct keys.
type Store interface {
	Driver() Driver
	Put(ctx context.Context, key string, data []byte) error
}

// Options selects and configures a Store.
type Options struct {
	Driver Driver
	Root   string // Output directory for DriverFilesystem
	S3     S3Config
}

// Open returns the Store selected by opts.Driver (default fs).
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Driver {
	case DriverFilesystem, "":
		return NewFilesystem(opts.Root)
	case DriverS3:
		return NewS3(ctx, opts.S3)
	case DriverMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown output driver %q", opts.Driver)
	}
}

var contentTypes = map[string]string{
	".html": "text/html; charset=utf-8",
	".json": "application/json",
	".xml":  "application/xml",
}

// ContentType returns the MIME type used when publishing key.
func ContentType(key string) string {
	if ct, ok := contentTypes[strings.ToLower(path.Ext(key))]; ok {
		return ct
	}
	return "application/octet-stream"
}

// sanitizeKey rejects keys that are empty, absolute or escape the root.
func sanitizeKey(key string) (string, error) {
	if strings.TrimSpace(key) == "" {
		return "", fmt.Errorf("empty key")
	}
	if strings.HasPrefix(key, "/") || filepath.IsAbs(key) {
		return "", fmt.Errorf("invalid absolute key %q", key)
	}
	clean := path.Clean(filepath.ToSlash(key))
	if clean == ".." || strings.HasPrefix(clean, "../") {
		return "", fmt.Errorf("invalid key traversal %q", key)
	}
	return clean, nil
}
