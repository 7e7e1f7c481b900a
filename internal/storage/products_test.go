package storage

import (
	"context"
	"testing"

	"github.com/Edisonlex/lubri/internal/common"
	"github.com/Edisonlex/lubri/internal/model"
	"github.com/Edisonlex/lubri/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProduct(name, sku string, category model.Category) *model.Product {
	return &model.Product{
		ProductDescriptor: model.ProductDescriptor{Name: name, SKU: sku, Brand: "Marca"},
		Classification: model.ClassificationResult{
			Category:   category,
			Confidence: 0.7,
			Reasons:    []string{"palabra clave: " + name},
		},
	}
}

func TestSaveProduct_RoundTrip(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	p := newProduct("Aceite 20W-50", "ACE-2050", model.CategoryOils)
	p.SupplierRUC = "1790012345001"
	require.NoError(t, store.SaveProduct(ctx, p))
	require.NotZero(t, p.ID)
	assert.Equal(t, model.SourceClassifier, p.Source)

	got, err := store.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Aceite 20W-50", got.Name)
	assert.Equal(t, "ACE-2050", got.SKU)
	assert.Equal(t, "1790012345001", got.SupplierRUC)
	assert.Equal(t, model.CategoryOils, got.Classification.Category)
	assert.InDelta(t, 0.7, got.Classification.Confidence, 1e-9)
	assert.Equal(t, []string{"palabra clave: Aceite 20W-50"}, got.Classification.Reasons)
	assert.False(t, got.CreatedAt.IsZero())

	bySKU, err := store.GetProductBySKU(ctx, "ACE-2050")
	require.NoError(t, err)
	assert.Equal(t, p.ID, bySKU.ID)
}

func TestSaveProduct_UpsertsBySKUAndName(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	first := newProduct("Filtro", "FIL-1", model.CategoryFilters)
	require.NoError(t, store.SaveProduct(ctx, first))

	renamed := newProduct("Filtro de aceite", "FIL-1", model.CategoryFilters)
	require.NoError(t, store.SaveProduct(ctx, renamed))
	assert.Equal(t, first.ID, renamed.ID)

	noSKU := newProduct("Grasa", "", model.CategoryLubricants)
	require.NoError(t, store.SaveProduct(ctx, noSKU))
	again := newProduct("GRASA", "", model.CategoryLubricants)
	require.NoError(t, store.SaveProduct(ctx, again))
	assert.Equal(t, noSKU.ID, again.ID)

	all, err := store.ListProducts(ctx, service.ProductFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestSaveProduct_KeepsManualCategory(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	p := newProduct("Kit mantenimiento", "KIT-1", model.CategoryOther)
	require.NoError(t, store.SaveProduct(ctx, p))
	require.NoError(t, store.SetProductCategory(ctx, p.ID, model.CategoryOils))

	reimported := newProduct("Kit mantenimiento", "KIT-1", model.CategoryFilters)
	require.NoError(t, store.SaveProduct(ctx, reimported))

	got, err := store.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, model.CategoryOils, got.Classification.Category)
	assert.Equal(t, model.SourceManual, got.Source)
	assert.Equal(t, []string{ManualReason}, got.Classification.Reasons)
}

func TestSaveProducts_AllOrNothing(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	batch := []*model.Product{
		newProduct("Aceite", "A-1", model.CategoryOils),
		newProduct("", "A-2", model.CategoryOils),
	}
	assert.ErrorIs(t, store.SaveProducts(ctx, batch), ErrInvalidProduct)

	all, err := store.ListProducts(ctx, service.ProductFilter{})
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestGetProduct_NotFound(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	_, err := store.GetProduct(context.Background(), 42)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestListProducts_Filter(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, store.SaveProducts(ctx, []*model.Product{
		newProduct("Aceite A", "A", model.CategoryOils),
		newProduct("Aceite B", "B", model.CategoryOils),
		newProduct("Filtro C", "C", model.CategoryFilters),
	}))

	oils, err := store.ListProducts(ctx, service.ProductFilter{Category: model.CategoryOils})
	require.NoError(t, err)
	assert.Len(t, oils, 2)

	page, err := store.ListProducts(ctx, service.ProductFilter{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "B", page[0].SKU)

	counts, err := store.CountProductsByCategory(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, counts[model.CategoryOils])
	assert.Equal(t, 1, counts[model.CategoryFilters])
	assert.Equal(t, 0, counts[model.CategoryAdditives])
}

func TestUpdateClassification(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	auto := newProduct("Spray", "S-1", model.CategoryOther)
	manual := newProduct("Kit", "K-1", model.CategoryOther)
	require.NoError(t, store.SaveProducts(ctx, []*model.Product{auto, manual}))
	require.NoError(t, store.SetProductCategory(ctx, manual.ID, model.CategoryAdditives))

	result := model.ClassificationResult{Category: model.CategoryLubricants, Confidence: 0.6, Reasons: []string{"lubricante en spray: spray"}}
	require.NoError(t, store.UpdateClassification(ctx, auto.ID, result))

	got, err := store.GetProduct(ctx, auto.ID)
	require.NoError(t, err)
	assert.Equal(t, result, got.Classification)

	err = store.UpdateClassification(ctx, manual.ID, result)
	assert.ErrorIs(t, err, ErrManualCategory)

	err = store.UpdateClassification(ctx, 999, result)
	assert.ErrorIs(t, err, common.ErrNotFound)

	err = store.UpdateClassification(ctx, auto.ID, model.ClassificationResult{Category: "tires"})
	assert.ErrorIs(t, err, ErrInvalidClassification)
}

func TestSetProductCategory_Errors(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	assert.ErrorIs(t, store.SetProductCategory(ctx, 1, model.CategoryOils), common.ErrNotFound)
	assert.ErrorIs(t, store.SetProductCategory(ctx, 1, model.Category("x")), ErrInvalidClassification)
}
