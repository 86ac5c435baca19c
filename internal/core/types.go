package core

import (
	"strings"

	"github.com/JonMunkholm/salonsite/internal/schema"
)

// Record is one decoded CSV row keyed by lower-cased header name.
type Record map[string]string

// Get returns the trimmed value for a column, or "" if the column is absent.
func (r Record) Get(col string) string {
	return strings.TrimSpace(r[col])
}

// Salon is a business listing as loaded from beauty_salon.csv.
// CityID/CityName/StateID/StateName may be empty and are filled by
// address inference when both ids are missing.
type Salon struct {
	ID             string
	Title          string
	Website        string
	Telephone      string
	Address        string
	PostalCode     string
	Email          string
	Description    string
	OpeningHours   string
	ServiceProduct string
	Latitude       string
	Longitude      string
	Reviews        string
	AverageStar    string
	CityID         string
	CityName       string
	StateID        string
	StateName      string

	// Comma-separated multi-value fields. detail_keys and detail_values
	// are not required to have the same cardinality.
	CategoryIDs  string
	DetailKeys   string
	DetailValues string
	AmenityIDs   string
	PaymentIDs   string
	Images       string
}

// City is a row of city.csv plus the fields derived by resolution and aggregation.
type City struct {
	ID      string
	Name    string
	StateID string

	StateName  string // Backfilled from the State index
	SalonCount int    // Salons whose city_id equals ID
}

// State is a row of state.csv plus derived counts.
type State struct {
	ID   string
	Name string

	CityCount  int // Cities whose state_id equals ID
	SalonCount int // Salons whose state_id equals ID
}

// Category is a row of category.csv plus its derived salon count.
type Category struct {
	ID   string
	Name string

	SalonCount int
}

// SalonFromRecord maps a beauty_salon.csv row onto a Salon.
func SalonFromRecord(r Record) Salon {
	return Salon{
		ID:             r.Get(schema.ColID),
		Title:          r.Get(schema.ColTitle),
		Website:        r.Get(schema.ColWebsite),
		Telephone:      r.Get(schema.ColTelephone),
		Address:        r.Get(schema.ColAddress),
		PostalCode:     r.Get(schema.ColPostalCode),
		Email:          r.Get(schema.ColEmail),
		Description:    r.Get(schema.ColDescription),
		OpeningHours:   r.Get(schema.ColOpeningHours),
		ServiceProduct: r.Get(schema.ColServiceProduct),
		Latitude:       r.Get(schema.ColLatitude),
		Longitude:      r.Get(schema.ColLongitude),
		Reviews:        r.Get(schema.ColReviews),
		AverageStar:    r.Get(schema.ColAverageStar),
		CityID:         r.Get(schema.ColCityID),
		CityName:       r.Get(schema.ColCityName),
		StateID:        r.Get(schema.ColStateID),
		StateName:      r.Get(schema.ColStateName),
		CategoryIDs:    r.Get(schema.ColCategoryIDs),
		DetailKeys:     r.Get(schema.ColDetailKeys),
		DetailValues:   r.Get(schema.ColDetailValues),
		AmenityIDs:     r.Get(schema.ColAmenityIDs),
		PaymentIDs:     r.Get(schema.ColPaymentIDs),
		Images:         r.Get(schema.ColImages),
	}
}

// CityFromRecord maps a city.csv row onto a City.
func CityFromRecord(r Record) City {
	return City{
		ID:      r.Get(schema.ColID),
		Name:    r.Get(schema.ColName),
		StateID: r.Get(schema.ColStateID),
	}
}

// StateFromRecord maps a state.csv row onto a State.
func StateFromRecord(r Record) State {
	return State{
		ID:   r.Get(schema.ColID),
		Name: r.Get(schema.ColName),
	}
}

// CategoryFromRecord maps a category.csv row onto a Category.
func CategoryFromRecord(r Record) Category {
	return Category{
		ID:   r.Get(schema.ColID),
		Name: r.Get(schema.ColName),
	}
}
