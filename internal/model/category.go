package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownCategory is returned when a category name is not part of the closed set.
var ErrUnknownCategory = errors.New("unknown product category")

// Category is the closed set of product categories a catalog item can belong to.
type Category string

const (
	// CategoryOils covers engine, gear and transmission oils.
	CategoryOils Category = "oils"
	// CategoryFilters covers oil, air, fuel and cabin filters.
	CategoryFilters Category = "filters"
	// CategoryLubricants covers greases, sprays and other non-oil lubricants.
	CategoryLubricants Category = "lubricants"
	// CategoryAdditives covers fuel and oil treatments, cleaners and coolants.
	CategoryAdditives Category = "additives"
	// CategoryOther is the fallback when nothing else applies.
	CategoryOther Category = "other"
)

// Categories lists every category, highest Priority first. It is the display
// order; tie-breaks compare Priority directly.
func Categories() []Category {
	return []Category{CategoryOils, CategoryFilters, CategoryLubricants, CategoryAdditives, CategoryOther}
}

// Priority ranks categories when two of them score the same.
// Higher wins: oils > filters > lubricants > additives > other.
func (c Category) Priority() int {
	switch c {
	case CategoryOils:
		return 5
	case CategoryFilters:
		return 4
	case CategoryLubricants:
		return 3
	case CategoryAdditives:
		return 2
	case CategoryOther:
		return 1
	default:
		return 0
	}
}

// Valid reports whether c is one of the enumerated categories.
func (c Category) Valid() bool {
	return c.Priority() > 0
}

// Label returns the Spanish display name used by the shop UI.
func (c Category) Label() string {
	switch c {
	case CategoryOils:
		return "Aceites"
	case CategoryFilters:
		return "Filtros"
	case CategoryLubricants:
		return "Lubricantes"
	case CategoryAdditives:
		return "Aditivos"
	default:
		return "Otros"
	}
}

func (c Category) String() string {
	return string(c)
}

var categoryAliases = map[string]Category{
	"oils":        CategoryOils,
	"oil":         CategoryOils,
	"aceites":     CategoryOils,
	"aceite":      CategoryOils,
	"filters":     CategoryFilters,
	"filter":      CategoryFilters,
	"filtros":     CategoryFilters,
	"filtro":      CategoryFilters,
	"lubricants":  CategoryLubricants,
	"lubricant":   CategoryLubricants,
	"lubricantes": CategoryLubricants,
	"lubricante":  CategoryLubricants,
	"additives":   CategoryAdditives,
	"additive":    CategoryAdditives,
	"aditivos":    CategoryAdditives,
	"aditivo":     CategoryAdditives,
	"other":       CategoryOther,
	"otros":       CategoryOther,
	"otro":        CategoryOther,
}

// ParseCategory converts a free-form category string into a Category.
// English and Spanish names are accepted, case-insensitively.
func ParseCategory(s string) (Category, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if c, ok := categoryAliases[key]; ok {
		return c, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCategory, s)
}
