package render

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// Meta describes the <head> of a page.
type Meta struct {
	Title       string
	Description string
	Path        string // Site-relative canonical path
}

// Layout wraps body in the shared HTML document.
func Layout(site Site, meta Meta, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		title := meta.Title
		if title == "" {
			title = site.Name
		} else {
			title += " | " + site.Name
		}

		hw := &htmlWriter{w: w}
		hw.raw("<!doctype html>\n<html lang=\"en\">\n<head>\n<meta charset=\"utf-8\">\n")
		hw.raw("<meta name=\"viewport\" content=\"width=device-width, initial-scale=1\">\n")
		hw.raw("<title>")
		hw.text(title)
		hw.raw("</title>\n")
		if meta.Description != "" {
			hw.raw("<meta name=\"description\" content=\"")
			hw.text(meta.Description)
			hw.raw("\">\n")
		}
		if meta.Path != "" {
			hw.raw("<link rel=\"canonical\" href=\"")
			hw.text(site.URL(meta.Path))
			hw.raw("\">\n")
		}
		hw.raw("</head>\n<body>\n<header><a href=\"/\">")
		hw.text(site.Name)
		hw.raw("</a> <nav><a href=\"/sitemap/\">Sitemap</a></nav></header>\n<main>\n")
		if hw.err != nil {
			return hw.err
		}

		if err := body.Render(ctx, w); err != nil {
			return err
		}

		hw.raw("</main>\n<footer>")
		hw.text(site.Name)
		hw.raw("</footer>\n</body>\n</html>\n")
		return hw.err
	})
}

// htmlWriter stops writing after the first error.
type htmlWriter struct {
	w   io.Writer
	err error
}

func (h *htmlWriter) raw(s string) {
	if h.err != nil {
		return
	}
	_, h.err = io.WriteString(h.w, s)
}

func (h *htmlWriter) text(s string) {
	h.raw(templ.EscapeString(s))
}
