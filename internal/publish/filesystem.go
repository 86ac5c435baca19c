package publish

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Filesystem writes files under a root directory.
type Filesystem struct {
	root string
}

// NewFilesystem returns a filesystem store rooted at root, creating it if needed.
func NewFilesystem(root string) (*Filesystem, error) {
	if root == "" {
		root = "public"
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create output root: %w", err)
	}
	return &Filesystem{root: root}, nil
}

func (s *Filesystem) Driver() Driver { return DriverFilesystem }

// Root returns the output directory.
func (s *Filesystem) Root() string { return s.root }

// Put writes data to a temporary file next to the target and renames it
// into place, so readers never observe a partial file.
func (s *Filesystem) Put(ctx context.Context, key string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	k, err := sanitizeKey(key)
	if err != nil {
		return err
	}

	target := filepath.Join(s.root, filepath.FromSlash(k))
	dir := filepath.Dir(target)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", k, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", k, err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod %s: %w", k, err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		return fmt.Errorf("rename %s: %w", k, err)
	}
	return nil
}
