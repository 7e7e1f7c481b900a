package storage

import (
	"context"
	"testing"

	"github.com/Edisonlex/lubri/internal/common"
	"github.com/Edisonlex/lubri/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPatternRules_CRUD(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	rule := &model.PatternRule{
		Name:     "Refrigerante Rojo",
		Category: model.CategoryAdditives,
		Pattern:  `\brefrigerante\s+rojo\b`,
		Reason:   "refrigerante de larga vida",
		Weight:   1.5,
		IsActive: true,
	}
	require.NoError(t, store.CreatePatternRule(ctx, rule))
	require.NotZero(t, rule.ID)

	got, err := store.GetPatternRule(ctx, rule.ID)
	require.NoError(t, err)
	assert.Equal(t, rule.Name, got.Name)
	assert.Equal(t, rule.Pattern, got.Pattern)
	assert.Equal(t, model.CategoryAdditives, got.Category)
	assert.Equal(t, model.RuleFieldAny, got.Field)
	assert.InDelta(t, 1.5, got.Weight, 1e-9)
	assert.True(t, got.IsActive)

	brand := &model.PatternRule{
		Name:     "Marca Motul",
		Category: model.CategoryOils,
		Pattern:  `motul`,
		Field:    model.RuleFieldBrand,
		Weight:   1,
		IsActive: true,
	}
	require.NoError(t, store.CreatePatternRule(ctx, brand))

	active, err := store.GetActivePatternRules(ctx)
	require.NoError(t, err)
	assert.Len(t, active, 2)

	require.NoError(t, store.SetPatternRuleActive(ctx, rule.ID, false))
	active, err = store.GetActivePatternRules(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "Marca Motul", active[0].Name)
	assert.Equal(t, model.RuleFieldBrand, active[0].Field)

	all, err := store.ListPatternRules(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	require.NoError(t, store.DeletePatternRule(ctx, rule.ID))
	_, err = store.GetPatternRule(ctx, rule.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)
	assert.ErrorIs(t, store.DeletePatternRule(ctx, rule.ID), common.ErrNotFound)
	assert.ErrorIs(t, store.SetPatternRuleActive(ctx, rule.ID, true), common.ErrNotFound)
}

func TestCreatePatternRule_DuplicateName(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	rule := model.PatternRule{Name: "Dup", Category: model.CategoryOils, Pattern: "x", Weight: 1, IsActive: true}
	first := rule
	require.NoError(t, store.CreatePatternRule(ctx, &first))

	second := rule
	assert.ErrorIs(t, store.CreatePatternRule(ctx, &second), common.ErrDuplicateEntry)
}

func TestCreatePatternRule_Invalid(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	err := store.CreatePatternRule(context.Background(), &model.PatternRule{Name: "x", Pattern: "x", Category: "tires", Weight: 1})
	assert.ErrorIs(t, err, ErrInvalidRule)
}
