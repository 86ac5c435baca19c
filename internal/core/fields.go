package core

import (
	"strings"

	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"
)

// Fallback slug tokens for salons whose city or state name is unknown.
const (
	UnknownCitySlug  = "unknown-city"
	UnknownStateSlug = "unknown-state"
)

// SplitList splits a comma-separated multi-value cell into its trimmed,
// non-empty parts. An empty cell yields an empty (non-nil) slice.
// Trimming deliberately departs from exact-string membership: "k1, k2"
// yields "k2", so the salon matches category k2.
func SplitList(s string) []string {
	out := []string{}
	if strings.TrimSpace(s) == "" {
		return out
	}
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Slugify turns text into a lower-case, URL-safe token.
// Distinct inputs may produce the same slug; callers do not deduplicate.
func Slugify(text string) string {
	return slug.Make(text)
}

// slugOr returns Slugify(name), or fallback when name is empty.
func slugOr(name, fallback string) string {
	if name == "" {
		return fallback
	}
	return Slugify(name)
}

// Detail is one key/value pair from a salon's detail_keys/detail_values.
type Detail struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// zipDetails pairs keys with values up to the shorter of the two lists.
func zipDetails(keys, values []string) []Detail {
	n := min(len(keys), len(values))
	out := make([]Detail, n)
	for i := 0; i < n; i++ {
		out[i] = Detail{Key: keys[i], Value: values[i]}
	}
	return out
}

// formatRating renders an average star rating with one decimal place.
// Unparsable input yields "".
func formatRating(s string) string {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return ""
	}
	return d.Round(1).StringFixed(1)
}

// hasLocation reports whether both coordinates parse as decimals.
func hasLocation(lat, lng string) bool {
	if _, err := decimal.NewFromString(strings.TrimSpace(lat)); err != nil {
		return false
	}
	_, err := decimal.NewFromString(strings.TrimSpace(lng))
	return err == nil
}
