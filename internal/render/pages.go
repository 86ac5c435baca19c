package render

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"strings"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/salonsite/internal/core"
)

//go:embed templates/*.html
var templateFiles embed.FS

var pages = template.Must(template.New("pages").Funcs(template.FuncMap{
	"join": strings.Join,
	"tel":  telURL,
}).ParseFS(templateFiles, "templates/*.html"))

// CompanyData is the input of the company page.
type CompanyData struct {
	Salon core.SalonView
	City  *core.CityView  // nil when the salon has no resolved city
	State *core.StateView // nil when the salon has no resolved state
}

// CityData is the input of a city page.
type CityData struct {
	City   core.CityView
	State  *core.StateView
	Salons []core.SalonView
}

// StateData is the input of a state page.
type StateData struct {
	State  core.StateView
	Cities []core.CityView
	Salons []core.SalonView
}

// SitemapData is the input of the human-readable sitemap page.
type SitemapData struct {
	States           []core.StateView
	Cities           []core.CityView // Preview subset
	TotalCities      int
	CitiesSitemapURL string
}

// CompanyPage renders the page of a single salon.
func CompanyPage(site Site, d CompanyData) templ.Component {
	meta := Meta{
		Title:       d.Salon.Title,
		Description: locality(d.Salon.Title, d.Salon.CityName, d.Salon.StateName),
		Path:        d.Salon.URL,
	}
	return Layout(site, meta, templ.FromGoHTML(pages.Lookup("company.html"), d))
}

// CityPage renders the page of a city and its salons.
func CityPage(site Site, d CityData) templ.Component {
	meta := Meta{
		Title:       fmt.Sprintf("Beauty salons in %s", locality(d.City.Name, d.City.StateName)),
		Description: fmt.Sprintf("%d beauty salons in %s.", d.City.SalonCount, d.City.Name),
		Path:        d.City.URL,
	}
	return Layout(site, meta, templ.FromGoHTML(pages.Lookup("city.html"), d))
}

// StatePage renders the page of a state with its cities and salons.
func StatePage(site Site, d StateData) templ.Component {
	meta := Meta{
		Title:       fmt.Sprintf("Beauty salons in %s", d.State.Name),
		Description: fmt.Sprintf("%d beauty salons in %d cities of %s.", d.State.SalonCount, len(d.State.CityIDs), d.State.Name),
		Path:        d.State.URL,
	}
	return Layout(site, meta, templ.FromGoHTML(pages.Lookup("state.html"), d))
}

// SitemapPage renders the human-readable sitemap.
func SitemapPage(site Site, d SitemapData) templ.Component {
	meta := Meta{Title: "Sitemap", Path: "/sitemap/"}
	return Layout(site, meta, templ.FromGoHTML(pages.Lookup("sitemap.html"), d))
}

// Render writes c to memory and returns the bytes.
func Render(ctx context.Context, c templ.Component) ([]byte, error) {
	var buf bytes.Buffer
	if err := c.Render(ctx, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// locality joins the non-empty parts with ", ".
func locality(parts ...string) string {
	var out []string
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, ", ")
}

// telURL keeps the dialable characters of a phone number.
func telURL(phone string) template.URL {
	var b strings.Builder
	for _, r := range phone {
		if (r >= '0' && r <= '9') || r == '+' {
			b.WriteRune(r)
		}
	}
	return template.URL("tel:" + b.String())
}
