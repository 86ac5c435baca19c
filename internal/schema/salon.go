package schema

// Salon column names.
const (
	ColID             = "id"
	ColTitle          = "title"
	ColWebsite        = "website"
	ColTelephone      = "telephone"
	ColAddress        = "address"
	ColPostalCode     = "postal_code"
	ColEmail          = "email"
	ColDescription    = "description"
	ColOpeningHours   = "opening_hours"
	ColServiceProduct = "service_product"
	ColLatitude       = "latitude"
	ColLongitude      = "longitude"
	ColReviews        = "reviews"
	ColAverageStar    = "average_star"
	ColCityID         = "city_id"
	ColCityName       = "city_name"
	ColStateID        = "state_id"
	ColStateName      = "state_name"
	ColCategoryIDs    = "category_ids"
	ColDetailKeys     = "detail_keys"
	ColDetailValues   = "detail_values"
	ColAmenityIDs     = "amenity_ids"
	ColPaymentIDs     = "payment_ids"
	ColImages         = "images"
)

// Salons defines the expected columns of beauty_salon.csv.
var Salons = Table{
	Key:    "salon",
	Member: "beauty_salon.csv",
	Label:  "Salons",
	FieldSpecs: []FieldSpec{
		{Name: ColID, Type: FieldText, Required: true},
		{Name: ColTitle, Type: FieldText},
		{Name: ColWebsite, Type: FieldText},
		{Name: ColTelephone, Type: FieldText},
		{Name: ColAddress, Type: FieldText},
		{Name: ColPostalCode, Type: FieldText},
		{Name: ColEmail, Type: FieldText},
		{Name: ColDescription, Type: FieldText},
		{Name: ColOpeningHours, Type: FieldText},
		{Name: ColServiceProduct, Type: FieldText},
		{Name: ColLatitude, Type: FieldNumeric},
		{Name: ColLongitude, Type: FieldNumeric},
		{Name: ColReviews, Type: FieldCount},
		{Name: ColAverageStar, Type: FieldNumeric},
		{Name: ColCityID, Type: FieldText},
		{Name: ColCityName, Type: FieldText},
		{Name: ColStateID, Type: FieldText},
		{Name: ColStateName, Type: FieldText},
		{Name: ColCategoryIDs, Type: FieldList},
		{Name: ColDetailKeys, Type: FieldList},
		{Name: ColDetailValues, Type: FieldList},
		{Name: ColAmenityIDs, Type: FieldList},
		{Name: ColPaymentIDs, Type: FieldList},
		{Name: ColImages, Type: FieldList},
	},
}
