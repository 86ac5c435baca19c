package schema

// ColName is shared by city, state and category members.
const ColName = "name"

// Cities defines the expected columns of city.csv.
var Cities = Table{
	Key:    "city",
	Member: "city.csv",
	Label:  "Cities",
	FieldSpecs: []FieldSpec{
		{Name: ColID, Type: FieldText, Required: true},
		{Name: ColName, Type: FieldText},
		{Name: ColStateID, Type: FieldText},
	},
}

// States defines the expected columns of state.csv.
var States = Table{
	Key:    "state",
	Member: "state.csv",
	Label:  "States",
	FieldSpecs: []FieldSpec{
		{Name: ColID, Type: FieldText, Required: true},
		{Name: ColName, Type: FieldText},
	},
}

// Categories defines the expected columns of category.csv.
var Categories = Table{
	Key:    "category",
	Member: "category.csv",
	Label:  "Categories",
	FieldSpecs: []FieldSpec{
		{Name: ColID, Type: FieldText, Required: true},
		{Name: ColName, Type: FieldText},
	},
}
