package core

import "strings"

// minAddressSegments is the number of comma-separated parts an address needs
// before city and state can be read from it ("street, city, state, country").
const minAddressSegments = 3

// Infer fills city and state links for salons that have an address but
// neither a city_id nor a state_id. The candidate city is the third-from-last
// address segment and the candidate state the second-from-last; each is
// matched independently and case-insensitively against the corresponding
// name index. No match leaves the fields empty.
func Infer(g *Graph) *Graph {
	cityNames := NewNameIndex(g.Cities, func(c City) string { return c.Name })
	stateNames := NewNameIndex(g.States, func(s State) string { return s.Name })

	salons := make([]Salon, len(g.Salons))
	for i, s := range g.Salons {
		salons[i] = inferSalon(s, g, cityNames, stateNames)
	}

	return &Graph{
		Salons:     salons,
		Cities:     g.Cities,
		States:     g.States,
		Categories: g.Categories,
	}
}

func inferSalon(s Salon, g *Graph, cityNames, stateNames NameIndex) Salon {
	if s.Address == "" || s.CityID != "" || s.StateID != "" {
		return s
	}

	city, state, ok := AddressLocality(s.Address)
	if !ok {
		return s
	}

	if id, found := cityNames.Lookup(city); found {
		c, _ := g.Cities.Get(id)
		s.CityID = c.ID
		s.CityName = c.Name
	}
	if id, found := stateNames.Lookup(state); found {
		st, _ := g.States.Get(id)
		s.StateID = st.ID
		s.StateName = st.Name
	}
	return s
}

// AddressLocality extracts the candidate city and state names from a
// free-form address. It reports false when the address has fewer than three
// comma-separated segments.
func AddressLocality(address string) (city, state string, ok bool) {
	parts := strings.Split(address, ",")
	if len(parts) < minAddressSegments {
		return "", "", false
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	n := len(parts)
	return parts[n-3], parts[n-2], true
}
