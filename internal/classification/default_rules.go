package classification

import "github.com/Edisonlex/lubri/internal/model"

// DefaultRules returns the built-in keyword table for the lubricant-shop catalog.
// Weights are business tuning; strong product-type words outweigh brand hints.
func DefaultRules() []Rule {
	return []Rule{
		// Oils
		{
			Name:     "Viscosity Grade",
			Category: model.CategoryOils,
			Pattern:  `\b\d{1,2}w-?\d{2}\b`,
			Weight:   3.0,
			Reason:   "grado de viscosidad",
		},
		{
			Name:     "Aceite",
			Category: model.CategoryOils,
			Pattern:  `\baceites?\b`,
			Weight:   2.0,
			Reason:   "palabra clave de aceite",
		},
		{
			Name:     "Motor Oil",
			Category: model.CategoryOils,
			Pattern:  `\b(motor\s*oil|engine\s*oil|oil)\b`,
			Weight:   1.5,
			Reason:   "palabra clave de aceite",
		},
		{
			Name:     "Transmission Fluid",
			Category: model.CategoryOils,
			Pattern:  `\b(atf|dexron|transmision|hidraulico)\b`,
			Weight:   1.5,
			Reason:   "aceite de transmision",
		},
		{
			Name:     "Oil Specification",
			Category: model.CategoryOils,
			Pattern:  `\b(sae|api\s*s[a-z]|sintetico|semi-?sintetico|mineral|synthetic)\b`,
			Weight:   1.0,
			Reason:   "especificacion de aceite",
		},
		{
			Name:     "Oil Brand",
			Category: model.CategoryOils,
			Field:    model.RuleFieldBrand,
			Pattern:  `\b(mobil|castrol|valvoline|shell|havoline|motul|pennzoil|kendall|amalie)\b`,
			Weight:   1.0,
			Reason:   "marca asociada a aceites",
		},
		{
			Name:     "Oil Supplier",
			Category: model.CategoryOils,
			Field:    model.RuleFieldSupplier,
			Pattern:  `\b(mobil|castrol|valvoline|shell|havoline|motul)\b`,
			Weight:   0.5,
			Reason:   "proveedor asociado a aceites",
		},
		{
			Name:     "Oil SKU",
			Category: model.CategoryOils,
			Field:    model.RuleFieldSKU,
			Pattern:  `^(ace|oil)[-_]`,
			Weight:   1.5,
			Reason:   "prefijo de SKU de aceites",
		},

		// Filters
		{
			Name:     "Filtro",
			Category: model.CategoryFilters,
			Pattern:  `\b(filtros?|filters?)\b`,
			Weight:   3.0,
			Reason:   "palabra clave de filtro",
		},
		{
			Name:     "Filter Element",
			Category: model.CategoryFilters,
			Pattern:  `\b(elemento\s*filtrante|cartucho|purificador)\b`,
			Weight:   1.0,
			Reason:   "elemento filtrante",
		},
		{
			Name:     "Filter Brand",
			Category: model.CategoryFilters,
			Field:    model.RuleFieldBrand,
			Pattern:  `\b(bosch|fram|mann|wix|mahle|purolator|k&n)\b`,
			Weight:   1.0,
			Reason:   "marca asociada a filtros",
		},
		{
			Name:     "Filter SKU",
			Category: model.CategoryFilters,
			Field:    model.RuleFieldSKU,
			Pattern:  `^fil[-_]`,
			Weight:   1.5,
			Reason:   "prefijo de SKU de filtros",
		},

		// Lubricants
		{
			Name:     "Grasa",
			Category: model.CategoryLubricants,
			Pattern:  `\b(grasas?|grease)\b`,
			Weight:   3.0,
			Reason:   "palabra clave de grasa",
		},
		{
			Name:     "Lubricante",
			Category: model.CategoryLubricants,
			Pattern:  `\b(lubricantes?|lubricant)\b`,
			Weight:   2.5,
			Reason:   "palabra clave de lubricante",
		},
		{
			Name:     "Penetrating Spray",
			Category: model.CategoryLubricants,
			Pattern:  `\b(wd-?40|penetrante|afloja\s*todo|spray)\b`,
			Weight:   2.0,
			Reason:   "lubricante en spray",
		},
		{
			Name:     "Chain Lube",
			Category: model.CategoryLubricants,
			Pattern:  `\b(cadenas?|chain)\b`,
			Weight:   1.0,
			Reason:   "lubricante de cadena",
		},
		{
			Name:     "Lubricant Brand",
			Category: model.CategoryLubricants,
			Field:    model.RuleFieldBrand,
			Pattern:  `\b(wd-?40|3-?en-?1|3-?in-?one)\b`,
			Weight:   1.0,
			Reason:   "marca asociada a lubricantes",
		},
		{
			Name:     "Lubricant SKU",
			Category: model.CategoryLubricants,
			Field:    model.RuleFieldSKU,
			Pattern:  `^(lub|gra)[-_]`,
			Weight:   1.5,
			Reason:   "prefijo de SKU de lubricantes",
		},

		// Additives
		{
			Name:     "Aditivo",
			Category: model.CategoryAdditives,
			Pattern:  `\b(aditivos?|additives?)\b`,
			Weight:   3.0,
			Reason:   "palabra clave de aditivo",
		},
		{
			Name:     "Treatment",
			Category: model.CategoryAdditives,
			Pattern:  `\b(tratamiento|treatment|limpiador|cleaner|limpia\s*inyectores)\b`,
			Weight:   2.0,
			Reason:   "tratamiento o limpiador",
		},
		{
			Name:     "Coolant",
			Category: model.CategoryAdditives,
			Pattern:  `\b(refrigerante|coolant|anticongelante|antifreeze)\b`,
			Weight:   2.0,
			Reason:   "refrigerante",
		},
		{
			Name:     "Octane Booster",
			Category: model.CategoryAdditives,
			Pattern:  `\b(octanaje|octane|booster)\b`,
			Weight:   1.5,
			Reason:   "mejorador de octanaje",
		},
		{
			Name:     "Additive Brand",
			Category: model.CategoryAdditives,
			Field:    model.RuleFieldBrand,
			Pattern:  `\b(stp|liqui\s*moly|bardahl|wynns?|prestone)\b`,
			Weight:   1.0,
			Reason:   "marca asociada a aditivos",
		},
		{
			Name:     "Additive SKU",
			Category: model.CategoryAdditives,
			Field:    model.RuleFieldSKU,
			Pattern:  `^(adt|adi)[-_]`,
			Weight:   1.5,
			Reason:   "prefijo de SKU de aditivos",
		},
	}
}
