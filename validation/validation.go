// Package validation collects per-field violations of submitted forms.
package validation

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Violations map[string]string

func (v Violations) Empty() bool { return len(v) == 0 }

// Required flags a blank value.
func Required(field, value string, v Violations) {
	if strings.TrimSpace(value) == "" {
		v[field] = "required"
	}
}

// Int parses an integer field; blank yields def.
func Int(field, value string, def int, v Violations) int {
	value = strings.TrimSpace(value)
	if value == "" {
		return def
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		v[field] = "not_a_number"
		return 0
	}
	return n
}

// PositiveInt flags a value that is zero or negative.
func PositiveInt(field string, val int, v Violations) {
	if val <= 0 {
		if _, set := v[field]; !set {
			v[field] = "must_be_positive"
		}
	}
}

// ID parses a positive numeric identifier.
func ID(field, value string, v Violations) uint {
	n, err := strconv.ParseUint(strings.TrimSpace(value), 10, 64)
	if err != nil || n == 0 {
		v[field] = "invalid_id"
		return 0
	}
	return uint(n)
}

// Price parses a non-negative amount; blank means zero.
func Price(field, value string, v Violations) decimal.Decimal {
	value = strings.TrimSpace(value)
	if value == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		v[field] = "not_a_number"
		return decimal.Zero
	}
	if d.IsNegative() {
		v[field] = "must_not_be_negative"
	}
	return d
}

// Date parses a YYYY-MM-DD date; blank yields the zero time.
func Date(field, value string, v Violations) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}
	}
	d, err := time.Parse(time.DateOnly, value)
	if err != nil {
		v[field] = "invalid_date"
		return time.Time{}
	}
	return d
}
