package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAggregate_StrictIDCounts(t *testing.T) {
	salons := []Salon{
		{ID: "1", CityID: "c1", StateID: "s1", CategoryIDs: "k1,k1"},
		{ID: "2", CityID: "c1", StateID: "", CategoryIDs: "k1, unknown"},
		// Name only: never counted by Aggregate.
		{ID: "3", CityName: "Springfield", StateName: "Illinois"},
		{ID: "4", CityID: "ghost", StateID: "s1"},
	}
	cities := []City{
		{ID: "c1", Name: "Springfield", StateID: "s1"},
		{ID: "c2", Name: "Peoria", StateID: "s1"},
		{ID: "c3", Name: "Orphan", StateID: "s9"},
	}
	states := []State{{ID: "s1", Name: "Illinois"}}
	categories := []Category{{ID: "k1", Name: "Hair"}}

	g := Aggregate(Resolve(salons, cities, states, categories))

	c1, _ := g.Cities.Get("c1")
	c2, _ := g.Cities.Get("c2")
	s1, _ := g.States.Get("s1")
	k1, _ := g.Categories.Get("k1")

	assert.Equal(t, 2, c1.SalonCount)
	assert.Equal(t, 0, c2.SalonCount)
	assert.Equal(t, 2, s1.SalonCount)
	assert.Equal(t, 2, s1.CityCount)
	assert.Equal(t, 3, k1.SalonCount, "duplicate ids within one salon count multiply")
}

func TestAggregate_Idempotent(t *testing.T) {
	salons, cities, states, categories := springfield()

	once := Link(salons, cities, states, categories)
	twice := Aggregate(once)

	assert.Equal(t, once.Cities.Values(), twice.Cities.Values())
	assert.Equal(t, once.States.Values(), twice.States.Values())
	assert.Equal(t, once.Categories.Values(), twice.Categories.Values())
}

func TestReport(t *testing.T) {
	salons := []Salon{
		{ID: "1", CityID: "c1", StateID: "s1", CategoryIDs: "k1,zz"},
		{ID: "2"},
	}
	cities := []City{{ID: "c1", StateID: "s1"}, {ID: "c2", StateID: "nope"}}
	states := []State{{ID: "s1"}}
	categories := []Category{{ID: "k1"}}

	r := Report(Link(salons, cities, states, categories))

	want := LinkReport{
		SalonsWithoutCity:   1,
		SalonsWithoutState:  1,
		UnknownCategoryRefs: 1,
		CitiesWithoutState:  1,
	}
	assert.Equal(t, want, r)
	assert.Equal(t, 4, r.Total())
}
