package ledger

import (
	"strings"

	"github.com/diewo77/tvstock/internal/models"
)

// Location is one of the three accessory stock-holding points.
type Location uint8

const (
	Main Location = iota
	Prabhu
	Tamil
)

var locationTags = [...]string{Main: "main", Prabhu: "prabhu", Tamil: "tamil"}

// Locations lists every location in display order.
func Locations() []Location { return []Location{Main, Prabhu, Tamil} }

// ParseLocation maps a location tag to its Location. Matching ignores case
// and surrounding spaces; anything else is InvalidInput.
func ParseLocation(tag string) (Location, error) {
	t := strings.ToLower(strings.TrimSpace(tag))
	for i, name := range locationTags {
		if t == name {
			return Location(i), nil
		}
	}
	return 0, invalidf("parse location", "unknown location %q", tag)
}

// ParseSaleLocation is ParseLocation except that an empty tag means Main.
func ParseSaleLocation(tag string) (Location, error) {
	if strings.TrimSpace(tag) == "" {
		return Main, nil
	}
	return ParseLocation(tag)
}

// restoreLocation resolves the tag stored on an accessory sale row.
// Rows written before tags were validated may carry anything; those go back to Main.
func restoreLocation(tag string) Location {
	if l, err := ParseLocation(tag); err == nil {
		return l
	}
	return Main
}

func (l Location) Valid() bool { return int(l) < len(locationTags) }

func (l Location) String() string {
	if !l.Valid() {
		return "unknown"
	}
	return locationTags[l]
}

// column is the counter column holding this location's quantity.
func (l Location) column() string {
	switch l {
	case Prabhu:
		return "prabhu_stock"
	case Tamil:
		return "tamil_stock"
	default:
		return "main_stock"
	}
}

// counter returns a pointer to this location's field of s.
func (l Location) counter(s *models.AccessoryStock) *int {
	switch l {
	case Prabhu:
		return &s.PrabhuStock
	case Tamil:
		return &s.TamilStock
	default:
		return &s.MainStock
	}
}

// Count returns the quantity s holds at l.
func (l Location) Count(s *models.AccessoryStock) int { return *l.counter(s) }
