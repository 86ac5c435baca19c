package core

// Graph is the linked, in-memory view of all four tables.
// Each phase (Resolve, Infer, Aggregate) returns a new Graph; none of them
// modifies the Graph or slices it was given.
type Graph struct {
	Salons     []Salon
	Cities     *Index[City]
	States     *Index[State]
	Categories *Index[Category]
}

func cityID(c City) string         { return c.ID }
func stateID(s State) string       { return s.ID }
func categoryID(c Category) string { return c.ID }

// Resolve builds the city, state and category indices and backfills each
// City's StateName from the State index. Cities whose state_id is empty or
// unknown end up with an empty StateName. Unmatched keys are not errors.
//
// Resolve is idempotent: feeding it already resolved entities yields the same Graph.
func Resolve(salons []Salon, cities []City, states []State, categories []Category) *Graph {
	stateIdx := NewIndex(states, stateID)

	resolved := make([]City, len(cities))
	for i, c := range cities {
		c.StateName = ""
		if st, ok := stateIdx.Get(c.StateID); ok {
			c.StateName = st.Name
		}
		resolved[i] = c
	}

	return &Graph{
		Salons:     append([]Salon(nil), salons...),
		Cities:     NewIndex(resolved, cityID),
		States:     stateIdx,
		Categories: NewIndex(categories, categoryID),
	}
}

// Link runs the resolve, infer and aggregate phases in order.
func Link(salons []Salon, cities []City, states []State, categories []Category) *Graph {
	return Aggregate(Infer(Resolve(salons, cities, states, categories)))
}
