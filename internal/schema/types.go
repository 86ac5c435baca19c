// Package schema describes the CSV members expected inside the input archive.
package schema

// FieldType represents the expected data type for a CSV column.
type FieldType int

const (
	FieldText    FieldType = iota
	FieldNumeric           // kept verbatim; "41,8781" is not rewritten
	FieldCount             // whole number that may carry thousands separators ("1,204")
	FieldList              // comma-separated multi-value cell
)

// FieldSpec describes a single CSV column.
type FieldSpec struct {
	Name     string    // Header name, matched case-insensitively
	Type     FieldType // Expected data type
	Required bool      // Column must exist in the header row
}

// Table describes one archive member.
type Table struct {
	Key        string // Short identifier: "salon", "city"
	Member     string // Archive member name: "beauty_salon.csv"
	Label      string // Display name used in logs
	FieldSpecs []FieldSpec
}

// Columns returns the header names of all field specs in declaration order.
func (t Table) Columns() []string {
	cols := make([]string, len(t.FieldSpecs))
	for i, spec := range t.FieldSpecs {
		cols[i] = spec.Name
	}
	return cols
}

// Tables returns every member the loader reads, in load order.
func Tables() []Table {
	return []Table{Salons, Cities, States, Categories}
}
