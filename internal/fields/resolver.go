// Package fields normalizes vendor field names to canonical ones. Alias
// chains are data (Spec tables per statement type), so adding a vendor
// synonym never touches loader code.
package fields

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Spec declares one canonical field and the ordered vendor aliases that may
// carry it. Earlier aliases win. Required fields that resolve to nothing are
// logged as gaps by the loader; the row is still written with a null.
type Spec struct {
	Canonical string   `yaml:"canonical"`
	Aliases   []string `yaml:"aliases"`
	Required  bool     `yaml:"required,omitempty"`
}

// Resolve returns the first present value among the aliases, coerced to
// float64, or nil if every alias is missing or explicitly null. Zero is a
// present value; only a missing key or a null marks the field absent.
func Resolve(record map[string]any, aliases []string) *float64 {
	for _, alias := range aliases {
		raw, ok := record[alias]
		if !ok || raw == nil {
			continue
		}
		if v, ok := coerce(raw); ok {
			return &v
		}
	}
	return nil
}

// ResolveAll resolves every spec in the table against the record and returns
// canonical name → value. Absent fields map to nil so callers can distinguish
// "resolved to null" from "not in the table".
func ResolveAll(record map[string]any, specs []Spec) map[string]*float64 {
	out := make(map[string]*float64, len(specs))
	for _, s := range specs {
		out[s.Canonical] = Resolve(record, s.Aliases)
	}
	return out
}

// coerce converts the decoded feed value to float64. Vendors ship numbers as
// JSON numbers, integers, or numeric strings (sometimes with thousands
// separators); anything else is treated as absent.
func coerce(raw any) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case string:
		s := strings.TrimSpace(strings.ReplaceAll(v, ",", ""))
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		return f, err == nil
	default:
		return 0, false
	}
}
