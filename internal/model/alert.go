package model

import "time"

// Urgency is the precomputed severity tag an upstream service assigns to a stock alert.
type Urgency string

// Urgency levels.
const (
	UrgencyCritical Urgency = "critical"
	UrgencyHigh     Urgency = "high"
	UrgencyMedium   Urgency = "medium"
	UrgencyLow      Urgency = "low"
)

// Rank orders urgencies: critical=4, high=3, medium=2, low=1, anything else 0.
func (u Urgency) Rank() int {
	switch u {
	case UrgencyCritical:
		return 4
	case UrgencyHigh:
		return 3
	case UrgencyMedium:
		return 2
	case UrgencyLow:
		return 1
	default:
		return 0
	}
}

// Valid reports whether u is a known urgency.
func (u Urgency) Valid() bool {
	return u.Rank() > 0
}

// Urgencies lists every urgency from most to least severe.
func Urgencies() []Urgency {
	return []Urgency{UrgencyCritical, UrgencyHigh, UrgencyMedium, UrgencyLow}
}

// Trend is the direction of recent stock-level change.
type Trend string

// Trend values.
const (
	TrendImproving Trend = "improving"
	TrendStable    Trend = "stable"
	TrendWorsening Trend = "worsening"
)

// Valid reports whether t is a known trend.
func (t Trend) Valid() bool {
	switch t {
	case TrendImproving, TrendStable, TrendWorsening:
		return true
	}
	return false
}

// StockAlert is a snapshot of one active stock alert.
// Alerts are created by the alerting service; this module only reads them.
type StockAlert struct {
	LastUpdated  time.Time `json:"lastUpdated"`
	ID           string    `json:"id" validate:"required"`
	ProductName  string    `json:"productName" validate:"required"`
	Category     string    `json:"category"`
	SKU          string    `json:"sku"`
	Supplier     string    `json:"supplier"`
	Urgency      Urgency   `json:"urgency" validate:"required,oneof=critical high medium low"`
	Trend        Trend     `json:"trend" validate:"omitempty,oneof=improving stable worsening"`
	CurrentStock int       `json:"currentStock" validate:"gte=0"`
	MinStock     int       `json:"minStock" validate:"gte=0"`
}

// OutOfStock reports whether nothing is left on the shelf.
func (a StockAlert) OutOfStock() bool {
	return a.CurrentStock == 0
}

// BelowMinimum reports whether stock has reached or crossed its minimum.
func (a StockAlert) BelowMinimum() bool {
	return a.CurrentStock <= a.MinStock
}
