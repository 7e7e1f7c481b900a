package model

import "time"

// RuleField restricts a classification rule to one descriptor field.
type RuleField string

// Rule field constants. RuleFieldAny matches each field in turn.
const (
	RuleFieldAny      RuleField = ""
	RuleFieldName     RuleField = "name"
	RuleFieldBrand    RuleField = "brand"
	RuleFieldSKU      RuleField = "sku"
	RuleFieldSupplier RuleField = "supplier"
)

// Valid reports whether f names a known descriptor field.
func (f RuleField) Valid() bool {
	switch f {
	case RuleFieldAny, RuleFieldName, RuleFieldBrand, RuleFieldSKU, RuleFieldSupplier:
		return true
	}
	return false
}

// PatternRule is a classification rule persisted in the rule store.
type PatternRule struct {
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Name      string    `json:"name"`
	Pattern   string    `json:"pattern"`
	Reason    string    `json:"reason"`
	Category  Category  `json:"category"`
	Field     RuleField `json:"field"`
	ID        int       `json:"id"`
	Weight    float64   `json:"weight"`
	IsActive  bool      `json:"is_active"`
}
