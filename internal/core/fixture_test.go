package core

// Shared fixtures for the linking tests.

func springfield() ([]Salon, []City, []State, []Category) {
	salons := []Salon{
		{ID: "1", Title: "Salon A", CityID: "c1", CityName: "Springfield", StateID: "s1", StateName: "Illinois", CategoryIDs: "k1"},
		{ID: "2", Title: "Salon B", Address: "123 Main St, Springfield, Illinois, USA", CategoryIDs: "k1, k2"},
	}
	cities := []City{{ID: "c1", Name: "Springfield", StateID: "s1"}}
	states := []State{{ID: "s1", Name: "Illinois"}}
	categories := []Category{{ID: "k1", Name: "Hair"}, {ID: "k2", Name: "Nails"}}
	return salons, cities, states, categories
}
