package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProject_EndToEnd(t *testing.T) {
	ds := Project(Link(springfield()))

	require.Len(t, ds.Salons, 2)
	require.Len(t, ds.Cities, 1)
	require.Len(t, ds.States, 1)

	b := ds.Salons[1]
	assert.Equal(t, "c1", b.CityID, "city inferred from address")
	assert.Equal(t, "s1", b.StateID, "state inferred from address")
	assert.Equal(t, "springfield-illinois-salon-b-2", b.Slug)
	assert.Equal(t, "/companies/springfield-illinois-salon-b-2/", b.URL)
	assert.Equal(t, "springfield-s1", b.CitySlug)
	assert.Equal(t, "illinois", b.StateSlug)
	assert.Equal(t, []string{"k1", "k2"}, b.CategoryIDs)
	assert.Equal(t, []string{"Hair", "Nails"}, b.CategoryNames)

	city := ds.Cities[0]
	assert.Equal(t, "springfield-s1", city.Slug)
	assert.Equal(t, "Illinois", city.StateName)
	assert.Equal(t, []string{"1", "2"}, city.SalonIDs)
	assert.Equal(t, 2, city.SalonCount)
	assert.Equal(t, 2, city.IndexedSalonCount)

	state := ds.States[0]
	assert.Equal(t, []string{"c1"}, state.CityIDs)
	assert.Equal(t, 1, state.CityCount)
	assert.Equal(t, []string{"1", "2"}, state.SalonIDs)
	assert.Equal(t, 2, state.SalonCount)
	assert.Equal(t, 2, state.IndexedSalonCount)

	assert.Equal(t, []string{"1", "2"}, ds.Categories[0].SalonIDs)
	assert.Equal(t, []string{"2"}, ds.Categories[1].SalonIDs)
}

func TestProject_NameFallbackMembership(t *testing.T) {
	salons := []Salon{
		{ID: "1", CityID: "c1", StateID: "s1"},
		// Matched by name only; Infer skips it because it has no address.
		{ID: "2", CityName: "SPRINGFIELD", StateName: "illinois"},
		// Linked to the state only through its city.
		{ID: "3", CityID: "c1"},
	}
	cities := []City{{ID: "c1", Name: "Springfield", StateID: "s1"}}
	states := []State{{ID: "s1", Name: "Illinois"}}

	ds := Project(Link(salons, cities, states, nil))

	city := ds.Cities[0]
	assert.Equal(t, []string{"1", "2", "3"}, city.SalonIDs)
	assert.Equal(t, 3, city.SalonCount)
	assert.Equal(t, 2, city.IndexedSalonCount)

	state := ds.States[0]
	assert.Equal(t, []string{"1", "2", "3"}, state.SalonIDs)
	assert.Equal(t, 3, state.SalonCount)
	assert.Equal(t, 1, state.IndexedSalonCount)
}

func TestProject_SalonCountMatchesSalonIDs(t *testing.T) {
	salons := []Salon{
		{ID: "1", CityID: "c1", StateID: "s1", CategoryIDs: "k1,k1"},
		{ID: "2", CityName: "springfield", StateID: "s1", CategoryIDs: "k1"},
		{ID: "3", Address: "x, Peoria, Illinois, USA"},
		{ID: "4", CityID: "c2", StateName: "ILLINOIS"},
	}
	cities := []City{{ID: "c1", Name: "Springfield", StateID: "s1"}, {ID: "c2", Name: "Peoria", StateID: "s1"}}
	states := []State{{ID: "s1", Name: "Illinois"}, {ID: "s2", Name: "Ohio"}}
	categories := []Category{{ID: "k1", Name: "Hair"}, {ID: "k2", Name: "Nails"}}

	ds := Project(Link(salons, cities, states, categories))

	for _, c := range ds.Cities {
		assert.Equal(t, len(c.SalonIDs), c.SalonCount, c.ID)
	}
	for _, s := range ds.States {
		assert.Equal(t, len(s.SalonIDs), s.SalonCount, s.ID)
	}
	for _, c := range ds.Categories {
		assert.Equal(t, len(c.SalonIDs), c.SalonCount, c.ID)
	}

	assert.Equal(t, []string{"1", "2"}, ds.Categories[0].SalonIDs, "a salon appears once")
	assert.Equal(t, 3, ds.Categories[0].IndexedSalonCount)
	assert.Empty(t, ds.States[1].SalonIDs)
	assert.NotNil(t, ds.States[1].SalonIDs)
}

func TestProject_UnknownLocation(t *testing.T) {
	ds := Project(Link([]Salon{{ID: "9", Title: "Lone Salon"}}, nil, nil, nil))

	s := ds.Salons[0]
	assert.Equal(t, "unknown-city-unknown-state-lone-salon-9", s.Slug)
	assert.Empty(t, s.CitySlug)
	assert.Empty(t, s.StateSlug)
	assert.Equal(t, []string{}, s.Images)
	assert.Equal(t, []Detail{}, s.Details)
}

func TestProject_DoesNotModifyGraph(t *testing.T) {
	g := Link(springfield())
	before := g.Salons[1]

	Project(g)

	assert.Equal(t, before, g.Salons[1])
}
