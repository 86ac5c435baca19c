package build

import (
	"context"
	"path"
	"time"

	"github.com/a-h/templ"
	"github.com/bytedance/sonic"

	"github.com/JonMunkholm/salonsite/internal/core"
	"github.com/JonMunkholm/salonsite/internal/render"
	"github.com/JonMunkholm/salonsite/internal/sitemap"
)

// Output keys relative to the site root.
const (
	SalonsJSON     = "data/salons.json"
	CitiesJSON     = "data/cities.json"
	StatesJSON     = "data/states.json"
	CategoriesJSON = "data/categories.json"
	ManifestJSON   = "data/build.json"
	SitemapPage    = "sitemap/index.html"
)

// file is one output produced on demand by a writer goroutine.
type file struct {
	key    string
	render func(ctx context.Context) ([]byte, error)
}

// pageKey returns "<section>/<slug>/index.html", or "" for an empty slug.
func pageKey(section, slug string) string {
	if slug == "" {
		return ""
	}
	return path.Join(section, slug, "index.html")
}

func marshalJSON(v any) ([]byte, error) {
	body, err := sonic.ConfigStd.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(body, '\n'), nil
}

func jsonFile(key string, v any) file {
	return file{key: key, render: func(context.Context) ([]byte, error) { return marshalJSON(v) }}
}

func pageFile(key string, c templ.Component) file {
	return file{key: key, render: func(ctx context.Context) ([]byte, error) { return render.Render(ctx, c) }}
}

// lookups resolves the ids stored in views back to views.
type lookups struct {
	salons *salonLookup
	cities map[string]*core.CityView
	states map[string]*core.StateView
}

func newLookups(ds *core.Dataset) *lookups {
	l := &lookups{
		salons: newSalonLookup(ds.Salons),
		cities: make(map[string]*core.CityView, len(ds.Cities)),
		states: make(map[string]*core.StateView, len(ds.States)),
	}
	for i := range ds.Cities {
		l.cities[ds.Cities[i].ID] = &ds.Cities[i]
	}
	for i := range ds.States {
		l.states[ds.States[i].ID] = &ds.States[i]
	}
	return l
}

func (l *lookups) citiesOf(ids []string) []core.CityView {
	out := make([]core.CityView, 0, len(ids))
	for _, id := range ids {
		if c, ok := l.cities[id]; ok {
			out = append(out, *c)
		}
	}
	return out
}

// salonLookup maps salon ids back to views. Salon ids are not guaranteed
// unique, so the n-th occurrence of an id in a membership list resolves to
// the n-th salon carrying it.
type salonLookup struct {
	salons []core.SalonView
	byID   map[string][]int
}

func newSalonLookup(salons []core.SalonView) *salonLookup {
	byID := make(map[string][]int, len(salons))
	for i, s := range salons {
		byID[s.ID] = append(byID[s.ID], i)
	}
	return &salonLookup{salons: salons, byID: byID}
}

func (l *salonLookup) resolve(ids []string) []core.SalonView {
	seen := make(map[string]int, len(ids))
	out := make([]core.SalonView, 0, len(ids))
	for _, id := range ids {
		positions := l.byID[id]
		n := seen[id]
		if n >= len(positions) {
			continue
		}
		seen[id] = n + 1
		out = append(out, l.salons[positions[n]])
	}
	return out
}

// plan lists every file of the site except the manifest. Page bodies are
// rendered lazily by the writer that picks the file up.
func plan(ds *core.Dataset, site render.Site, sitemaps []sitemap.File, cityPreview int) []file {
	l := newLookups(ds)
	files := make([]file, 0, len(ds.Salons)+len(ds.Cities)+len(ds.States)+len(sitemaps)+5)

	files = append(files,
		jsonFile(SalonsJSON, ds.Salons),
		jsonFile(CitiesJSON, ds.Cities),
		jsonFile(StatesJSON, ds.States),
		jsonFile(CategoriesJSON, ds.Categories),
	)

	for _, s := range ds.Salons {
		key := pageKey("companies", s.Slug)
		if key == "" {
			continue
		}
		data := render.CompanyData{Salon: s, City: l.cities[s.CityID], State: l.states[s.StateID]}
		files = append(files, pageFile(key, render.CompanyPage(site, data)))
	}

	for _, c := range ds.Cities {
		key := pageKey("cities", c.Slug)
		if key == "" {
			continue
		}
		data := render.CityData{City: c, State: l.states[c.StateID], Salons: l.salons.resolve(c.SalonIDs)}
		files = append(files, pageFile(key, render.CityPage(site, data)))
	}

	for _, st := range ds.States {
		key := pageKey("states", st.Slug)
		if key == "" {
			continue
		}
		data := render.StateData{State: st, Cities: l.citiesOf(st.CityIDs), Salons: l.salons.resolve(st.SalonIDs)}
		files = append(files, pageFile(key, render.StatePage(site, data)))
	}

	preview := ds.Cities
	if cityPreview >= 0 && len(preview) > cityPreview {
		preview = preview[:cityPreview]
	}
	files = append(files, pageFile(SitemapPage, render.SitemapPage(site, render.SitemapData{
		States:           ds.States,
		Cities:           preview,
		TotalCities:      len(ds.Cities),
		CitiesSitemapURL: "/" + sitemap.CitiesPath,
	})))

	for _, sm := range sitemaps {
		body := sm.Body
		files = append(files, file{key: sm.Path, render: func(context.Context) ([]byte, error) { return body, nil }})
	}
	return files
}

// Counts summarizes a run.
type Counts struct {
	Salons     int `json:"salons"`
	Cities     int `json:"cities"`
	States     int `json:"states"`
	Categories int `json:"categories"`
	Sitemaps   int `json:"sitemaps"`
	Files      int `json:"files"`
}

// Manifest is written to data/build.json once every other file is published.
type Manifest struct {
	RunID       string          `json:"run_id"`
	GeneratedAt time.Time       `json:"generated_at"`
	Counts      Counts          `json:"counts"`
	LinkReport  core.LinkReport `json:"link_report"`
}
