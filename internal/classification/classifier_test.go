package classification

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/Edisonlex/lubri/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClassifier(t *testing.T) {
	tests := []struct {
		wantErr error
		name    string
		rules   []Rule
	}{
		{
			name:  "default rules compile",
			rules: DefaultRules(),
		},
		{
			name:  "empty rules",
			rules: []Rule{},
		},
		{
			name: "invalid regex",
			rules: []Rule{
				{Name: "Bad", Category: model.CategoryOils, Pattern: `[unclosed`, Weight: 1},
			},
			wantErr: ErrInvalidPattern,
		},
		{
			name: "unknown category",
			rules: []Rule{
				{Name: "Bad", Category: model.Category("tires"), Pattern: `llanta`, Weight: 1},
			},
			wantErr: ErrInvalidRule,
		},
		{
			name: "zero weight",
			rules: []Rule{
				{Name: "Bad", Category: model.CategoryOils, Pattern: `aceite`, Weight: 0},
			},
			wantErr: ErrInvalidRule,
		},
		{
			name: "unknown field",
			rules: []Rule{
				{Name: "Bad", Category: model.CategoryOils, Pattern: `aceite`, Weight: 1, Field: model.RuleField("color")},
			},
			wantErr: ErrInvalidRule,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewClassifier(tt.rules)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, c)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, len(tt.rules), c.RuleCount())
		})
	}
}

func TestClassifier_Classify(t *testing.T) {
	c := NewDefaultClassifier()

	tests := []struct {
		name         string
		desc         model.ProductDescriptor
		wantCategory model.Category
		wantReason   string
	}{
		{
			name:         "oil with viscosity grade",
			desc:         model.ProductDescriptor{Name: "Aceite Mobil 1 5W-30", Brand: "Mobil"},
			wantCategory: model.CategoryOils,
			wantReason:   "grado de viscosidad",
		},
		{
			name:         "oil filter is a filter",
			desc:         model.ProductDescriptor{Name: "Filtro de Aceite Bosch", Brand: "Bosch"},
			wantCategory: model.CategoryFilters,
			wantReason:   "palabra clave de filtro",
		},
		{
			name:         "grease",
			desc:         model.ProductDescriptor{Name: "Grasa multiuso litio 500g"},
			wantCategory: model.CategoryLubricants,
			wantReason:   "palabra clave de grasa",
		},
		{
			name:         "injector cleaner",
			desc:         model.ProductDescriptor{Name: "Aditivo limpia inyectores", Brand: "STP"},
			wantCategory: model.CategoryAdditives,
			wantReason:   "palabra clave de aditivo",
		},
		{
			name:         "coolant",
			desc:         model.ProductDescriptor{Name: "Refrigerante verde 1 galon", Brand: "Prestone"},
			wantCategory: model.CategoryAdditives,
			wantReason:   "refrigerante",
		},
		{
			name:         "sku prefix alone",
			desc:         model.ProductDescriptor{Name: "Repuesto generico", SKU: "FIL-0042"},
			wantCategory: model.CategoryFilters,
			wantReason:   "prefijo de SKU de filtros",
		},
		{
			name:         "accented spanish text",
			desc:         model.ProductDescriptor{Name: "LUBRICANTE SINTÉTICO para cadenas"},
			wantCategory: model.CategoryLubricants,
			wantReason:   "palabra clave de lubricante",
		},
		{
			name:         "viscosity without dash",
			desc:         model.ProductDescriptor{Name: "Havoline 20w50 galon"},
			wantCategory: model.CategoryOils,
			wantReason:   "grado de viscosidad: 20w50",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := c.Classify(tt.desc)
			assert.Equal(t, tt.wantCategory, res.Category)
			assert.Greater(t, res.Confidence, DefaultFloor)
			assert.LessOrEqual(t, res.Confidence, 1.0)

			found := false
			for _, r := range res.Reasons {
				if strings.Contains(r, tt.wantReason) {
					found = true
					break
				}
			}
			assert.True(t, found, "reasons %v should mention %q", res.Reasons, tt.wantReason)
		})
	}
}

func TestClassifier_NoMatchFallback(t *testing.T) {
	c := NewDefaultClassifier()

	for _, desc := range []model.ProductDescriptor{
		{},
		{Name: "   ", Brand: "", SKU: "", Supplier: ""},
		{Name: "Llavero promocional"},
	} {
		res := c.Classify(desc)
		assert.Equal(t, model.CategoryOther, res.Category)
		assert.Equal(t, DefaultFloor, res.Confidence)
		assert.Equal(t, []string{NoMatchReason}, res.Reasons)
	}
}

func TestClassifier_Deterministic(t *testing.T) {
	c := NewDefaultClassifier()
	desc := model.ProductDescriptor{Name: "Aceite Castrol GTX 20W-50 mineral", Brand: "Castrol", SKU: "ACE-2050", Supplier: "Castrol Ecuador"}

	first := c.Classify(desc)
	for i := 0; i < 50; i++ {
		assert.Equal(t, first, c.Classify(desc))
	}
}

func TestClassifier_ConfidenceMonotonic(t *testing.T) {
	c := NewDefaultClassifier()

	weak := c.Classify(model.ProductDescriptor{Name: "Aceite"})
	medium := c.Classify(model.ProductDescriptor{Name: "Aceite 10W-40"})
	strong := c.Classify(model.ProductDescriptor{Name: "Aceite 10W-40 sintetico", Brand: "Castrol"})

	require.Equal(t, model.CategoryOils, weak.Category)
	require.Equal(t, model.CategoryOils, medium.Category)
	require.Equal(t, model.CategoryOils, strong.Category)
	assert.Less(t, weak.Confidence, medium.Confidence)
	assert.Less(t, medium.Confidence, strong.Confidence)
	assert.Len(t, strong.Reasons, 4)
}

func TestClassifier_TieBreak(t *testing.T) {
	rules := []Rule{
		{Name: "Additive", Category: model.CategoryAdditives, Pattern: `combo`, Weight: 1},
		{Name: "Lubricant", Category: model.CategoryLubricants, Pattern: `combo`, Weight: 1},
		{Name: "Filter", Category: model.CategoryFilters, Pattern: `kit`, Weight: 1},
		{Name: "Oil", Category: model.CategoryOils, Pattern: `kit`, Weight: 1},
	}
	c, err := NewClassifier(rules)
	require.NoError(t, err)

	assert.Equal(t, model.CategoryLubricants, c.Classify(model.ProductDescriptor{Name: "combo"}).Category)
	assert.Equal(t, model.CategoryOils, c.Classify(model.ProductDescriptor{Name: "kit"}).Category)
	// combo: lubricants 1 + additives 1, kit: oils 1 + filters 1
	assert.Equal(t, model.CategoryOils, c.Classify(model.ProductDescriptor{Name: "kit combo"}).Category)
}

func TestClassifier_FieldRestrictedRule(t *testing.T) {
	c, err := NewClassifier([]Rule{
		{Name: "Brand", Category: model.CategoryFilters, Field: model.RuleFieldBrand, Pattern: `\bbosch\b`, Weight: 1, Reason: "marca"},
	})
	require.NoError(t, err)

	inName := c.Classify(model.ProductDescriptor{Name: "Bujia Bosch"})
	assert.Equal(t, model.CategoryOther, inName.Category)

	inBrand := c.Classify(model.ProductDescriptor{Name: "Bujia", Brand: "Bosch"})
	assert.Equal(t, model.CategoryFilters, inBrand.Category)
	assert.Equal(t, []string{"marca: bosch"}, inBrand.Reasons)
}

func TestClassifier_PatternsDoNotSpanFields(t *testing.T) {
	c, err := NewClassifier([]Rule{
		{Name: "Motor Oil", Category: model.CategoryOils, Pattern: `motor\s+oil`, Weight: 1},
	})
	require.NoError(t, err)

	res := c.Classify(model.ProductDescriptor{Name: "Cubierta motor", Brand: "Oil Co"})
	assert.Equal(t, model.CategoryOther, res.Category)
}

func TestClassifier_BoundsInputLength(t *testing.T) {
	c := NewDefaultClassifier()

	long := strings.Repeat("x", MaxFieldLength) + " filtro"
	res := c.Classify(model.ProductDescriptor{Name: long})
	assert.Equal(t, model.CategoryOther, res.Category)
}

func TestClassifier_ConfidenceClamped(t *testing.T) {
	rules := make([]Rule, 0, 20)
	for i := 0; i < 20; i++ {
		rules = append(rules, Rule{Name: "r", Category: model.CategoryOils, Pattern: `aceite`, Weight: 1000})
	}
	c, err := NewClassifier(rules, WithBaseline(0.0001), WithFloor(0.5))
	require.NoError(t, err)

	res := c.Classify(model.ProductDescriptor{Name: "aceite"})
	assert.LessOrEqual(t, res.Confidence, 1.0)
	assert.Greater(t, res.Confidence, 0.5)

	empty := c.Classify(model.ProductDescriptor{})
	assert.Equal(t, 0.5, empty.Confidence)
}

func TestClassifier_UpdateRules(t *testing.T) {
	c := NewDefaultClassifier()
	before := c.RuleCount()

	err := c.UpdateRules([]Rule{{Name: "Bad", Category: model.CategoryOils, Pattern: `(`, Weight: 1}})
	require.ErrorIs(t, err, ErrInvalidPattern)
	assert.Equal(t, before, c.RuleCount())

	require.NoError(t, c.UpdateRules([]Rule{
		{Name: "Tire", Category: model.CategoryOther, Pattern: `llanta`, Weight: 2, Reason: "neumatico"},
	}))
	assert.Equal(t, 1, c.RuleCount())
	assert.Equal(t, "Tire", c.Rules()[0].Name)

	res := c.Classify(model.ProductDescriptor{Name: "Filtro"})
	assert.Equal(t, []string{NoMatchReason}, res.Reasons)
}

func TestClassifier_ConcurrentUse(t *testing.T) {
	c := NewDefaultClassifier()
	desc := model.ProductDescriptor{Name: "Aceite 15W-40 diesel", Brand: "Shell"}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				res := c.Classify(desc)
				assert.True(t, res.Category.Valid())
			}
		}()
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		for j := 0; j < 20; j++ {
			_ = c.UpdateRules(DefaultRules())
		}
	}()
	wg.Wait()
}

func TestClassifier_ClassifyBatch(t *testing.T) {
	c := NewDefaultClassifier()
	descs := []model.ProductDescriptor{
		{Name: "Aceite 5W-30"},
		{Name: "Filtro de aire"},
		{Name: "Tapete"},
	}

	results, err := c.ClassifyBatch(context.Background(), descs)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, model.CategoryOils, results[0].Category)
	assert.Equal(t, model.CategoryFilters, results[1].Category)
	assert.Equal(t, model.CategoryOther, results[2].Category)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = c.ClassifyBatch(ctx, descs)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFromPatternRules(t *testing.T) {
	stored := []model.PatternRule{
		{Name: "Active", Category: model.CategoryOils, Pattern: `aceite`, Weight: 1, IsActive: true},
		{Name: "Inactive", Category: model.CategoryOils, Pattern: `oil`, Weight: 1, IsActive: false},
	}

	rules := FromPatternRules(stored)
	require.Len(t, rules, 1)
	assert.Equal(t, "Active", rules[0].Name)
}

func TestMatchPattern(t *testing.T) {
	match, err := MatchPattern(`\bfiltro\b`, "FILTRO de aire")
	require.NoError(t, err)
	assert.Equal(t, "filtro", match)

	match, err = MatchPattern(`lubricacion`, "Grasa de Lubricación")
	require.NoError(t, err)
	assert.Equal(t, "lubricacion", match)

	match, err = MatchPattern(`aditivo`, "Filtro de aceite")
	require.NoError(t, err)
	assert.Empty(t, match)

	_, err = MatchPattern(`(`, "x")
	assert.ErrorIs(t, err, ErrInvalidPattern)
}

func TestPickWinner_UsesPriority(t *testing.T) {
	scores := map[model.Category]float64{
		model.CategoryOther:      2,
		model.CategoryAdditives:  2,
		model.CategoryLubricants: 2,
		model.CategoryFilters:    1,
	}
	// Map order varies between runs; the result must not.
	for i := 0; i < 50; i++ {
		cat, best := pickWinner(scores)
		assert.Equal(t, model.CategoryLubricants, cat)
		assert.InDelta(t, 2.0, best, 1e-9)
	}

	cat, best := pickWinner(map[model.Category]float64{})
	assert.Equal(t, model.CategoryOther, cat)
	assert.Zero(t, best)
}

func TestClassifier_Fingerprint(t *testing.T) {
	a := NewDefaultClassifier()
	b := NewDefaultClassifier()
	assert.Equal(t, a.Fingerprint(), b.Fingerprint())

	extra := append(DefaultRules(), Rule{Name: "Promo", Category: model.CategoryAdditives, Pattern: `promo`, Weight: 1})
	require.NoError(t, b.UpdateRules(extra))
	assert.NotEqual(t, a.Fingerprint(), b.Fingerprint())

	extra[len(extra)-1].Weight = 2
	require.NoError(t, a.UpdateRules(extra))
	assert.NotEqual(t, a.Fingerprint(), b.Fingerprint(), "weight change")

	require.NoError(t, a.UpdateRules(DefaultRules()))
	assert.Equal(t, NewDefaultClassifier().Fingerprint(), a.Fingerprint())

	floor, err := NewClassifier(DefaultRules(), WithFloor(0.4))
	require.NoError(t, err)
	assert.NotEqual(t, a.Fingerprint(), floor.Fingerprint())
}
