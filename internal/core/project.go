package core

import "sort"

// SalonView is the denormalized salon record consumed by rendering and the
// data/salons.json dump.
type SalonView struct {
	ID             string   `json:"id"`
	Slug           string   `json:"slug"`
	URL            string   `json:"url"`
	Title          string   `json:"title"`
	Website        string   `json:"website"`
	Telephone      string   `json:"telephone"`
	Address        string   `json:"address"`
	PostalCode     string   `json:"postal_code"`
	Email          string   `json:"email"`
	Description    string   `json:"description"`
	OpeningHours   string   `json:"opening_hours"`
	ServiceProduct string   `json:"service_product"`
	Latitude       string   `json:"latitude"`
	Longitude      string   `json:"longitude"`
	HasLocation    bool     `json:"has_location"`
	Reviews        string   `json:"reviews"`
	AverageStar    string   `json:"average_star"`
	Rating         string   `json:"rating"`
	CityID         string   `json:"city_id"`
	CityName       string   `json:"city_name"`
	CitySlug       string   `json:"city_slug"`
	StateID        string   `json:"state_id"`
	StateName      string   `json:"state_name"`
	StateSlug      string   `json:"state_slug"`
	CategoryIDs    []string `json:"category_ids"`
	CategoryNames  []string `json:"category_names"`
	DetailKeys     []string `json:"detail_keys"`
	DetailValues   []string `json:"detail_values"`
	Details        []Detail `json:"details"`
	AmenityIDs     []string `json:"amenity_ids"`
	PaymentIDs     []string `json:"payment_ids"`
	Images         []string `json:"images"`
}

// CityView is the denormalized city record.
//
// SalonCount is len(SalonIDs), which includes salons matched only by city
// name. IndexedSalonCount is the strict id-equality count from Aggregate;
// the two differ when name fallback links extra salons.
type CityView struct {
	ID                string   `json:"id"`
	Slug              string   `json:"slug"`
	URL               string   `json:"url"`
	Name              string   `json:"name"`
	StateID           string   `json:"state_id"`
	StateName         string   `json:"state_name"`
	SalonIDs          []string `json:"salon_ids"`
	SalonCount        int      `json:"salon_count"`
	IndexedSalonCount int      `json:"indexed_salon_count"`
}

// StateView is the denormalized state record. See CityView for the meaning
// of SalonCount versus IndexedSalonCount.
type StateView struct {
	ID                string   `json:"id"`
	Slug              string   `json:"slug"`
	URL               string   `json:"url"`
	Name              string   `json:"name"`
	CityIDs           []string `json:"city_ids"`
	CityCount         int      `json:"city_count"`
	SalonIDs          []string `json:"salon_ids"`
	SalonCount        int      `json:"salon_count"`
	IndexedSalonCount int      `json:"indexed_salon_count"`
}

// CategoryView is the denormalized category record.
type CategoryView struct {
	ID                string   `json:"id"`
	Slug              string   `json:"slug"`
	Name              string   `json:"name"`
	SalonIDs          []string `json:"salon_ids"`
	SalonCount        int      `json:"salon_count"`
	IndexedSalonCount int      `json:"indexed_salon_count"`
}

// Dataset holds every projected view, in source order.
type Dataset struct {
	Salons     []SalonView
	Cities     []CityView
	States     []StateView
	Categories []CategoryView
}

// Page URLs relative to the site root.
func companyURL(slug string) string { return "/companies/" + slug + "/" }
func cityURL(slug string) string    { return "/cities/" + slug + "/" }
func stateURL(slug string) string   { return "/states/" + slug + "/" }

// CitySlug returns the page slug of a city: slugify("{name}-{state_id}").
func CitySlug(c City) string {
	return Slugify(c.Name + "-" + c.StateID)
}

// StateSlug returns the page slug of a state.
func StateSlug(s State) string {
	return Slugify(s.Name)
}

// SalonSlug returns the page slug of a salon:
// slugify("{citySlug}-{stateSlug}-{title}-{id}").
func SalonSlug(s Salon) string {
	citySlug := slugOr(s.CityName, UnknownCitySlug)
	stateSlug := slugOr(s.StateName, UnknownStateSlug)
	return Slugify(citySlug + "-" + stateSlug + "-" + s.Title + "-" + s.ID)
}

// Project builds the view models from a linked Graph. It only reads g.
//
// Membership rules:
//   - city:     city_id == id, or city_name equals the city name (case-insensitive)
//   - state:    state_id == id, or state_name equals the state name, or the
//     salon's city_id belongs to one of the state's cities
//   - category: id listed in category_ids
func Project(g *Graph) *Dataset {
	salons := projectSalons(g)
	m := newMembership(salons)
	cities := projectCities(g, salons, m)
	states := projectStates(g, salons, cities, m)
	categories := projectCategories(g, salons, m)

	return &Dataset{
		Salons:     salons,
		Cities:     cities,
		States:     states,
		Categories: categories,
	}
}

func projectSalons(g *Graph) []SalonView {
	out := make([]SalonView, len(g.Salons))
	for i, s := range g.Salons {
		categoryIDs := SplitList(s.CategoryIDs)
		detailKeys := SplitList(s.DetailKeys)
		detailValues := SplitList(s.DetailValues)

		v := SalonView{
			ID:             s.ID,
			Slug:           SalonSlug(s),
			Title:          s.Title,
			Website:        s.Website,
			Telephone:      s.Telephone,
			Address:        s.Address,
			PostalCode:     s.PostalCode,
			Email:          s.Email,
			Description:    s.Description,
			OpeningHours:   s.OpeningHours,
			ServiceProduct: s.ServiceProduct,
			Latitude:       s.Latitude,
			Longitude:      s.Longitude,
			HasLocation:    hasLocation(s.Latitude, s.Longitude),
			Reviews:        s.Reviews,
			AverageStar:    s.AverageStar,
			Rating:         formatRating(s.AverageStar),
			CityID:         s.CityID,
			CityName:       s.CityName,
			StateID:        s.StateID,
			StateName:      s.StateName,
			CategoryIDs:    categoryIDs,
			CategoryNames:  []string{},
			DetailKeys:     detailKeys,
			DetailValues:   detailValues,
			Details:        zipDetails(detailKeys, detailValues),
			AmenityIDs:     SplitList(s.AmenityIDs),
			PaymentIDs:     SplitList(s.PaymentIDs),
			Images:         SplitList(s.Images),
		}
		v.URL = companyURL(v.Slug)

		if c, ok := g.Cities.Get(s.CityID); ok {
			v.CitySlug = CitySlug(c)
		}
		if st, ok := g.States.Get(s.StateID); ok {
			v.StateSlug = StateSlug(st)
		}
		for _, id := range categoryIDs {
			if c, ok := g.Categories.Get(id); ok {
				v.CategoryNames = append(v.CategoryNames, c.Name)
			}
		}

		out[i] = v
	}
	return out
}

func projectCities(g *Graph, salons []SalonView, m *membership) []CityView {
	cities := g.Cities.Values()
	out := make([]CityView, len(cities))
	for i, c := range cities {
		members := union(m.byCityID[c.ID], m.byCityName[nameKey(c.Name)])
		slug := CitySlug(c)
		out[i] = CityView{
			ID:                c.ID,
			Slug:              slug,
			URL:               cityURL(slug),
			Name:              c.Name,
			StateID:           c.StateID,
			StateName:         c.StateName,
			SalonIDs:          salonIDs(salons, members),
			SalonCount:        len(members),
			IndexedSalonCount: c.SalonCount,
		}
	}
	return out
}

func projectStates(g *Graph, salons []SalonView, cities []CityView, m *membership) []StateView {
	states := g.States.Values()
	out := make([]StateView, len(states))
	for i, st := range states {
		cityIDs := []string{}
		lists := [][]int{m.byStateID[st.ID], m.byStateName[nameKey(st.Name)]}
		for _, c := range cities {
			if c.StateID != "" && c.StateID == st.ID {
				cityIDs = append(cityIDs, c.ID)
				lists = append(lists, m.byCityID[c.ID])
			}
		}
		members := union(lists...)
		slug := StateSlug(st)
		out[i] = StateView{
			ID:                st.ID,
			Slug:              slug,
			URL:               stateURL(slug),
			Name:              st.Name,
			CityIDs:           cityIDs,
			CityCount:         st.CityCount,
			SalonIDs:          salonIDs(salons, members),
			SalonCount:        len(members),
			IndexedSalonCount: st.SalonCount,
		}
	}
	return out
}

func projectCategories(g *Graph, salons []SalonView, m *membership) []CategoryView {
	categories := g.Categories.Values()
	out := make([]CategoryView, len(categories))
	for i, c := range categories {
		members := union(m.byCategory[c.ID])
		out[i] = CategoryView{
			ID:                c.ID,
			Slug:              Slugify(c.Name),
			Name:              c.Name,
			SalonIDs:          salonIDs(salons, members),
			SalonCount:        len(members),
			IndexedSalonCount: c.SalonCount,
		}
	}
	return out
}

// membership indexes projected salons (by position) under every key a
// membership predicate can match on.
type membership struct {
	byCityID    map[string][]int
	byCityName  map[string][]int
	byStateID   map[string][]int
	byStateName map[string][]int
	byCategory  map[string][]int
}

func newMembership(salons []SalonView) *membership {
	m := &membership{
		byCityID:    make(map[string][]int),
		byCityName:  make(map[string][]int),
		byStateID:   make(map[string][]int),
		byStateName: make(map[string][]int),
		byCategory:  make(map[string][]int),
	}
	for i, s := range salons {
		addKey(m.byCityID, s.CityID, i)
		addKey(m.byCityName, nameKey(s.CityName), i)
		addKey(m.byStateID, s.StateID, i)
		addKey(m.byStateName, nameKey(s.StateName), i)
		for _, id := range s.CategoryIDs {
			addKey(m.byCategory, id, i)
		}
	}
	return m
}

func addKey(m map[string][]int, key string, pos int) {
	if key == "" {
		return
	}
	list := m[key]
	// A salon listing the same category twice is still a single member.
	if n := len(list); n > 0 && list[n-1] == pos {
		return
	}
	m[key] = append(list, pos)
}

func nameKey(name string) string {
	return foldName(name)
}

// union merges position lists into one ascending list without duplicates,
// which keeps members in salon source order.
func union(lists ...[]int) []int {
	seen := make(map[int]struct{})
	var out []int
	for _, list := range lists {
		for _, pos := range list {
			if _, dup := seen[pos]; dup {
				continue
			}
			seen[pos] = struct{}{}
			out = append(out, pos)
		}
	}
	sort.Ints(out)
	return out
}

func salonIDs(salons []SalonView, positions []int) []string {
	out := make([]string, len(positions))
	for i, pos := range positions {
		out[i] = salons[pos].ID
	}
	return out
}
