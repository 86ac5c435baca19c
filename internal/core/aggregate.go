package core

// Aggregate computes the derived counts using strict id equality:
//   - City.SalonCount: salons whose city_id is that city
//   - State.SalonCount: salons whose state_id is that state
//   - Category.SalonCount: occurrences of the category id in salons' category_ids
//     (a salon listing the same id twice is counted twice)
//   - State.CityCount: cities whose state_id is that state
//
// Name fallback matching is deliberately not applied here, so these counts can
// be lower than the membership lists built by Project.
//
// Counts are recomputed from scratch, which keeps Aggregate idempotent.
func Aggregate(g *Graph) *Graph {
	citySalons := make(map[string]int)
	stateSalons := make(map[string]int)
	categorySalons := make(map[string]int)
	stateCities := make(map[string]int)

	for _, s := range g.Salons {
		if g.Cities.Has(s.CityID) {
			citySalons[s.CityID]++
		}
		if g.States.Has(s.StateID) {
			stateSalons[s.StateID]++
		}
		for _, id := range SplitList(s.CategoryIDs) {
			if g.Categories.Has(id) {
				categorySalons[id]++
			}
		}
	}

	for _, c := range g.Cities.Values() {
		if g.States.Has(c.StateID) {
			stateCities[c.StateID]++
		}
	}

	return &Graph{
		Salons: g.Salons,
		Cities: g.Cities.Map(func(c City) City {
			c.SalonCount = citySalons[c.ID]
			return c
		}),
		States: g.States.Map(func(s State) State {
			s.SalonCount = stateSalons[s.ID]
			s.CityCount = stateCities[s.ID]
			return s
		}),
		Categories: g.Categories.Map(func(c Category) Category {
			c.SalonCount = categorySalons[c.ID]
			return c
		}),
	}
}

// LinkReport counts the relationships that could not be resolved.
// It is informational only; unresolved links never fail a run.
type LinkReport struct {
	SalonsWithoutCity   int `json:"salons_without_city"`
	SalonsWithoutState  int `json:"salons_without_state"`
	UnknownCategoryRefs int `json:"unknown_category_refs"`
	CitiesWithoutState  int `json:"cities_without_state"`
}

// Total returns the sum of all unresolved links.
func (r LinkReport) Total() int {
	return r.SalonsWithoutCity + r.SalonsWithoutState + r.UnknownCategoryRefs + r.CitiesWithoutState
}

// Report inspects a linked Graph and counts unresolved references.
func Report(g *Graph) LinkReport {
	var r LinkReport
	for _, s := range g.Salons {
		if !g.Cities.Has(s.CityID) {
			r.SalonsWithoutCity++
		}
		if !g.States.Has(s.StateID) {
			r.SalonsWithoutState++
		}
		for _, id := range SplitList(s.CategoryIDs) {
			if !g.Categories.Has(id) {
				r.UnknownCategoryRefs++
			}
		}
	}
	for _, c := range g.Cities.Values() {
		if !g.States.Has(c.StateID) {
			r.CitiesWithoutState++
		}
	}
	return r
}
