// Package ingest reads the input zip archive and decodes its CSV members
// into core entities.
package ingest

import (
	"archive/zip"
	"fmt"
	"io"
	"path"
	"strings"
)

// Archive is an opened input archive.
type Archive struct {
	zr   *zip.ReadCloser
	path string
}

// OpenArchive opens the zip file at p.
func OpenArchive(p string) (*Archive, error) {
	zr, err := zip.OpenReader(p)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w: %v", p, ErrArchiveUnreadable, err)
	}
	return &Archive{zr: zr, path: p}, nil
}

// Close releases the underlying file.
func (a *Archive) Close() error {
	return a.zr.Close()
}

// Member returns the archive entry called name. An exact path match wins;
// otherwise the first entry whose base name matches (ignoring case) is used,
// so archives that wrap the CSVs in a folder still load. macOS resource
// fork entries are never considered.
func (a *Archive) Member(name string) (*zip.File, error) {
	var fallback *zip.File
	for _, f := range a.zr.File {
		if f.FileInfo().IsDir() || strings.HasPrefix(f.Name, "__MACOSX/") {
			continue
		}
		if f.Name == name {
			return f, nil
		}
		if fallback == nil && strings.EqualFold(path.Base(f.Name), name) {
			fallback = f
		}
	}
	if fallback != nil {
		return fallback, nil
	}
	return nil, fmt.Errorf("%s: %s: %w", a.path, name, ErrMemberMissing)
}

// Open returns a reader for the archive entry called name.
func (a *Archive) Open(name string) (io.ReadCloser, error) {
	f, err := a.Member(name)
	if err != nil {
		return nil, err
	}
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("%s: open %s: %w: %v", a.path, f.Name, ErrArchiveUnreadable, err)
	}
	return rc, nil
}
