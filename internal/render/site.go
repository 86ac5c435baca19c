// Package render turns projected views into HTML pages.
//
// Page bodies are html/template files embedded in the binary; the shared
// layout and the page entry points are templ components so callers render
// every page the same way.
package render

import "strings"

// Site carries the site-wide values every page needs.
type Site struct {
	Name    string
	BaseURL string // Absolute, without trailing slash
}

// NewSite normalizes baseURL by dropping any trailing slash.
func NewSite(name, baseURL string) Site {
	return Site{Name: name, BaseURL: strings.TrimRight(baseURL, "/")}
}

// URL returns the absolute URL of a site-relative path.
func (s Site) URL(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return s.BaseURL + path
}
