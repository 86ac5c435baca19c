package ingest

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/JonMunkholm/salonsite/internal/schema"
)

// HeaderIndex maps a lower-cased column name to its position in a row.
type HeaderIndex map[string]int

// MakeHeaderIndex creates a HeaderIndex from a CSV header row.
// When a header repeats, the first column wins.
func MakeHeaderIndex(header []string) HeaderIndex {
	idx := make(HeaderIndex, len(header))
	for i, h := range header {
		key := strings.ToLower(CleanHeader(h))
		if key == "" {
			continue
		}
		if _, dup := idx[key]; !dup {
			idx[key] = i
		}
	}
	return idx
}

// Missing returns the columns not present in the index, in the given order.
func (h HeaderIndex) Missing(columns []string) []string {
	var out []string
	for _, c := range columns {
		if _, ok := h[c]; !ok {
			out = append(out, c)
		}
	}
	return out
}

// CleanHeader removes spreadsheet export artifacts from a header cell:
// surrounding whitespace, an Excel formula prefix (="...") and stray quotes.
func CleanHeader(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "=\"") && strings.HasSuffix(s, "\"") {
		s = s[2 : len(s)-1]
	} else if strings.HasPrefix(s, "=") {
		s = s[1:]
	}
	return strings.TrimSpace(strings.Trim(s, `"'`))
}

// checkRequired returns ErrMissingIDColumn (wrapped with the column name)
// when a required column of t is absent from the header.
func checkRequired(t schema.Table, idx HeaderIndex) error {
	for _, spec := range t.FieldSpecs {
		if !spec.Required {
			continue
		}
		if _, ok := idx[spec.Name]; !ok {
			return fmt.Errorf("%s: column %q: %w", t.Member, spec.Name, ErrMissingIDColumn)
		}
	}
	return nil
}

// thousandsPattern matches whole numbers grouped with commas: "1,204",
// "12,345,678". Decimal commas ("4,5", "41,8781") do not match.
var thousandsPattern = regexp.MustCompile(`^\d{1,3}(,\d{3})+$`)

// normalizeCell trims a cell and, for count columns, drops thousands
// separators ("1,204" -> "1204"). Every other value is kept as is.
func normalizeCell(spec schema.FieldSpec, s string) string {
	s = strings.TrimSpace(s)
	if spec.Type != schema.FieldCount || !thousandsPattern.MatchString(s) {
		return s
	}
	return strings.ReplaceAll(s, ",", "")
}
