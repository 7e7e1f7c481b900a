package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCategory(t *testing.T) {
	tests := []struct {
		in   string
		want Category
	}{
		{"oils", CategoryOils},
		{"  Aceites ", CategoryOils},
		{"FILTRO", CategoryFilters},
		{"lubricantes", CategoryLubricants},
		{"Aditivo", CategoryAdditives},
		{"otros", CategoryOther},
	}
	for _, tt := range tests {
		got, err := ParseCategory(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseCategory("llantas")
	assert.ErrorIs(t, err, ErrUnknownCategory)
}

func TestCategoryPriority(t *testing.T) {
	cats := Categories()
	for i := 1; i < len(cats); i++ {
		assert.Greater(t, cats[i-1].Priority(), cats[i].Priority(), "%s before %s", cats[i-1], cats[i])
	}
	assert.False(t, Category("tires").Valid())
	assert.Equal(t, "Otros", Category("tires").Label())
	assert.Equal(t, "Filtros", CategoryFilters.Label())
}

func TestUrgencyRank(t *testing.T) {
	assert.Equal(t, 4, UrgencyCritical.Rank())
	assert.Equal(t, 3, UrgencyHigh.Rank())
	assert.Equal(t, 2, UrgencyMedium.Rank())
	assert.Equal(t, 1, UrgencyLow.Rank())
	assert.Equal(t, 0, Urgency("urgent").Rank())
	assert.False(t, Urgency("urgent").Valid())
}

func TestStockAlertLevels(t *testing.T) {
	empty := StockAlert{CurrentStock: 0, MinStock: 5}
	assert.True(t, empty.OutOfStock())
	assert.True(t, empty.BelowMinimum())

	atMin := StockAlert{CurrentStock: 5, MinStock: 5}
	assert.False(t, atMin.OutOfStock())
	assert.True(t, atMin.BelowMinimum())

	assert.False(t, StockAlert{CurrentStock: 6, MinStock: 5}.BelowMinimum())
}

func TestParseRole(t *testing.T) {
	tests := []struct {
		in     string
		want   Role
		wantOK bool
	}{
		{"admin", RoleAdmin, true},
		{"Cajero", RoleCashier, true},
		{"técnico", RoleTechnician, true},
		{"technician", RoleTechnician, true},
		{"mecanico", RoleAdmin, false},
		{"", RoleAdmin, false},
	}
	for _, tt := range tests {
		got, ok := ParseRole(tt.in)
		assert.Equal(t, tt.want, got, tt.in)
		assert.Equal(t, tt.wantOK, ok, tt.in)
	}
	assert.False(t, Role("mecanico").Known())
}
