package testutil

import (
	"time"

	"github.com/Edisonlex/lubri/internal/model"
)

// FixtureTime is the LastUpdated timestamp used by every sample alert.
var FixtureTime = time.Date(2024, 6, 3, 8, 0, 0, 0, time.UTC)

// SampleAlerts returns a fresh set of alerts covering every urgency, both sides
// of the minimum and an out-of-stock low-urgency item.
func SampleAlerts() []*model.StockAlert {
	mk := func(id, name, sku string, cat model.Category, current, minimum int, u model.Urgency, tr model.Trend) *model.StockAlert {
		return &model.StockAlert{
			ID:           id,
			ProductName:  name,
			Category:     string(cat),
			SKU:          sku,
			Supplier:     "Lubricantes del Pacifico",
			CurrentStock: current,
			MinStock:     minimum,
			Urgency:      u,
			Trend:        tr,
			LastUpdated:  FixtureTime,
		}
	}

	return []*model.StockAlert{
		mk("alert-001", "Aceite Mobil 1 5W-30", "ACE-530", model.CategoryOils, 0, 10, model.UrgencyCritical, model.TrendWorsening),
		mk("alert-002", "Filtro de Aceite Bosch", "FIL-0451", model.CategoryFilters, 3, 8, model.UrgencyHigh, model.TrendStable),
		mk("alert-003", "Grasa multiuso 500g", "GRA-500", model.CategoryLubricants, 6, 5, model.UrgencyMedium, model.TrendWorsening),
		mk("alert-004", "Aditivo STP limpia inyectores", "ADT-STP", model.CategoryAdditives, 4, 4, model.UrgencyLow, model.TrendStable),
		mk("alert-005", "WD-40 311ml", "LUB-WD40", model.CategoryLubricants, 0, 6, model.UrgencyLow, model.TrendImproving),
		mk("alert-006", "Refrigerante Prestone galon", "ADT-PRE", model.CategoryAdditives, 9, 4, model.UrgencyMedium, model.TrendStable),
	}
}

// SampleProducts returns unclassified catalog rows.
func SampleProducts() []model.ProductDescriptor {
	return []model.ProductDescriptor{
		{Name: "Aceite Mobil 1 5W-30", Brand: "Mobil", SKU: "ACE-530", Supplier: "Mobil Ecuador"},
		{Name: "Filtro de Aceite Bosch", Brand: "Bosch", SKU: "FIL-0451"},
		{Name: "Grasa multiuso 500g", Brand: "Valvoline", SKU: "GRA-500"},
		{Name: "Aditivo limpia inyectores", Brand: "STP", SKU: "ADT-STP"},
		{Name: "Llavero promocional", SKU: "PRM-01"},
	}
}
