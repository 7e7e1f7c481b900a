// Package alerts reduces active stock alerts to short, role-appropriate lists
// and keeps those lists fresh by polling an alert source.
package alerts

import (
	"sort"

	"github.com/Edisonlex/lubri/internal/model"
)

// DefaultCap is the number of alerts a dashboard widget shows.
const DefaultCap = 7

// Prioritizer filters and orders alert snapshots. The zero value uses DefaultCap.
type Prioritizer struct {
	Cap int
}

// NewPrioritizer returns a Prioritizer truncating to limit. A non-positive
// limit means DefaultCap.
func NewPrioritizer(limit int) Prioritizer {
	return Prioritizer{Cap: limit}
}

func (p Prioritizer) limit() int {
	if p.Cap <= 0 {
		return DefaultCap
	}
	return p.Cap
}

// Prioritize returns at most Cap alerts visible to role, most urgent first.
// The input slice is not modified.
func (p Prioritizer) Prioritize(alerts []model.StockAlert, role model.Role) []model.StockAlert {
	out := make([]model.StockAlert, 0, len(alerts))
	for _, a := range alerts {
		if Eligible(a, role) {
			out = append(out, a)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return less(out[i], out[j])
	})

	if n := p.limit(); len(out) > n {
		out = out[:n]
	}
	return out
}

// Prioritize applies the default Prioritizer.
func Prioritize(alerts []model.StockAlert, role model.Role) []model.StockAlert {
	return Prioritizer{}.Prioritize(alerts, role)
}

// Eligible reports whether role may see a.
// Critical and out-of-stock alerts are visible to everyone.
// Unknown roles get the admin policy.
func Eligible(a model.StockAlert, role model.Role) bool {
	if a.Urgency == model.UrgencyCritical || a.OutOfStock() {
		return true
	}

	switch role {
	case model.RoleCashier:
		return a.Urgency == model.UrgencyHigh || a.BelowMinimum()
	case model.RoleTechnician:
		return a.Urgency == model.UrgencyHigh ||
			(a.Urgency == model.UrgencyMedium && a.Trend == model.TrendWorsening)
	default:
		return true
	}
}

// less orders by urgency desc, then stock asc, then worsening first.
func less(a, b model.StockAlert) bool {
	if ra, rb := a.Urgency.Rank(), b.Urgency.Rank(); ra != rb {
		return ra > rb
	}
	if a.CurrentStock != b.CurrentStock {
		return a.CurrentStock < b.CurrentStock
	}
	aw, bw := a.Trend == model.TrendWorsening, b.Trend == model.TrendWorsening
	return aw && !bw
}

// Summary counts an alert snapshot for dashboard headers.
type Summary struct {
	ByUrgency    map[model.Urgency]int `json:"byUrgency"`
	Total        int                   `json:"total"`
	OutOfStock   int                   `json:"outOfStock"`
	BelowMinimum int                   `json:"belowMinimum"`
	Worsening    int                   `json:"worsening"`
}

// Summarize counts alerts per urgency plus out-of-stock, below-minimum and
// worsening totals. Every known urgency is present in ByUrgency.
func Summarize(alerts []model.StockAlert) Summary {
	s := Summary{
		ByUrgency: make(map[model.Urgency]int, 4),
		Total:     len(alerts),
	}
	for _, u := range model.Urgencies() {
		s.ByUrgency[u] = 0
	}

	for _, a := range alerts {
		s.ByUrgency[a.Urgency]++
		if a.OutOfStock() {
			s.OutOfStock++
		}
		if a.BelowMinimum() {
			s.BelowMinimum++
		}
		if a.Trend == model.TrendWorsening {
			s.Worsening++
		}
	}
	return s
}
