// Package sitemap builds the XML sitemaps and the sitemap index.
package sitemap

import (
	"encoding/xml"
	"fmt"
	"strings"
	"time"

	"github.com/JonMunkholm/salonsite/internal/core"
)

// Namespace is the sitemaps.org schema namespace.
const Namespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

// DefaultChunkSize is the number of companies per company sitemap.
const DefaultChunkSize = 200

// Output paths relative to the site root.
const (
	IndexPath  = "sitemap.xml"
	CitiesPath = "sitemaps/cities-sitemap.xml"
	StatesPath = "sitemaps/states-sitemap.xml"
)

// CompaniesPath returns the path of the n-th (1-based) company sitemap.
func CompaniesPath(n int) string {
	return fmt.Sprintf("sitemaps/companies-sitemap%d.xml", n)
}

// URL is one <url> entry.
type URL struct {
	Loc string `xml:"loc"`
}

// URLSet is a <urlset> document.
type URLSet struct {
	XMLName xml.Name `xml:"urlset"`
	Xmlns   string   `xml:"xmlns,attr"`
	URLs    []URL    `xml:"url"`
}

// Entry is one <sitemap> entry of the index.
type Entry struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod"`
}

// Index is a <sitemapindex> document.
type Index struct {
	XMLName  xml.Name `xml:"sitemapindex"`
	Xmlns    string   `xml:"xmlns,attr"`
	Sitemaps []Entry  `xml:"sitemap"`
}

// File is an encoded sitemap ready to be written.
type File struct {
	Path string
	Body []byte
}

// Options controls sitemap generation.
type Options struct {
	BaseURL   string    // Absolute site URL
	ChunkSize int       // Companies per file; DefaultChunkSize when <= 0
	Now       time.Time // lastmod of every index entry
}

// Build returns the company, city and state sitemaps followed by the index
// that lists them. Zero salons produce zero company sitemaps.
func Build(ds *core.Dataset, opts Options) ([]File, error) {
	base := strings.TrimRight(opts.BaseURL, "/")
	abs := func(path string) string { return base + path }

	var sets []struct {
		path string
		set  URLSet
	}
	add := func(path string, urls []URL) {
		sets = append(sets, struct {
			path string
			set  URLSet
		}{path, URLSet{Xmlns: Namespace, URLs: urls}})
	}

	for i, chunk := range Chunk(ds.Salons, opts.ChunkSize) {
		urls := make([]URL, len(chunk))
		for j, s := range chunk {
			urls[j] = URL{Loc: abs(s.URL)}
		}
		add(CompaniesPath(i+1), urls)
	}

	cities := make([]URL, len(ds.Cities))
	for i, c := range ds.Cities {
		cities[i] = URL{Loc: abs(c.URL)}
	}
	add(CitiesPath, cities)

	states := make([]URL, len(ds.States))
	for i, s := range ds.States {
		states[i] = URL{Loc: abs(s.URL)}
	}
	add(StatesPath, states)

	lastMod := opts.Now.UTC().Format(time.RFC3339)
	index := Index{Xmlns: Namespace}
	files := make([]File, 0, len(sets)+1)
	for _, s := range sets {
		body, err := Encode(s.set)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", s.path, err)
		}
		files = append(files, File{Path: s.path, Body: body})
		index.Sitemaps = append(index.Sitemaps, Entry{Loc: abs("/" + s.path), LastMod: lastMod})
	}

	body, err := Encode(index)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", IndexPath, err)
	}
	return append(files, File{Path: IndexPath, Body: body}), nil
}

// Encode marshals v as an indented XML document with declaration.
func Encode(v any) ([]byte, error) {
	body, err := xml.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), append(body, '\n')...), nil
}

// Chunk splits items into consecutive slices of at most size elements.
// It returns ceil(len(items)/size) chunks and none for an empty input.
func Chunk[T any](items []T, size int) [][]T {
	if size <= 0 {
		size = DefaultChunkSize
	}
	var out [][]T
	for start := 0; start < len(items); start += size {
		end := min(start+size, len(items))
		out = append(out, items[start:end])
	}
	return out
}
