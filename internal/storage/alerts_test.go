package storage

import (
	"context"
	"testing"
	"time"

	"github.com/Edisonlex/lubri/internal/common"
	"github.com/Edisonlex/lubri/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAlert(id, sku string, current, minimum int, urgency model.Urgency) *model.StockAlert {
	return &model.StockAlert{
		ID:           id,
		ProductName:  "Producto " + id,
		Category:     string(model.CategoryOils),
		SKU:          sku,
		Supplier:     "Distribuidora Quito",
		CurrentStock: current,
		MinStock:     minimum,
		Urgency:      urgency,
		Trend:        model.TrendWorsening,
		LastUpdated:  time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC),
	}
}

func alertIDs(alerts []model.StockAlert) []string {
	out := make([]string, len(alerts))
	for i, a := range alerts {
		out[i] = a.ID
	}
	return out
}

func TestUpsertAlert_RoundTrip(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	a := testAlert("a1", "ACE-1", 2, 5, model.UrgencyHigh)
	require.NoError(t, store.UpsertAlert(ctx, a))

	got, err := store.GetAlert(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, a.ProductName, got.ProductName)
	assert.Equal(t, model.UrgencyHigh, got.Urgency)
	assert.Equal(t, model.TrendWorsening, got.Trend)
	assert.Equal(t, 2, got.CurrentStock)
	assert.Equal(t, 5, got.MinStock)
	assert.True(t, a.LastUpdated.Equal(got.LastUpdated))
}

func TestUpsertAlert_DefaultsTrend(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	a := testAlert("a1", "ACE-1", 2, 5, model.UrgencyLow)
	a.Trend = ""
	a.LastUpdated = time.Time{}
	require.NoError(t, store.UpsertAlert(ctx, a))

	got, err := store.GetAlert(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, model.TrendStable, got.Trend)
	assert.False(t, got.LastUpdated.IsZero())
}

func TestActiveAlerts_InsertionOrder(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	for _, id := range []string{"c", "a", "b"} {
		require.NoError(t, store.UpsertAlert(ctx, testAlert(id, "SKU-"+id, 1, 5, model.UrgencyMedium)))
	}

	// Updating an existing alert keeps its position.
	require.NoError(t, store.UpsertAlert(ctx, testAlert("c", "SKU-c", 0, 5, model.UrgencyCritical)))

	active, err := store.ActiveAlerts(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a", "b"}, alertIDs(active))
	assert.Equal(t, model.UrgencyCritical, active[0].Urgency)
}

func TestActiveAlerts_Empty(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	active, err := store.ActiveAlerts(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, active)
	assert.Empty(t, active)
}

func TestAcknowledgeAlert(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, store.UpsertAlert(ctx, testAlert("a1", "X", 1, 5, model.UrgencyHigh)))
	require.NoError(t, store.UpsertAlert(ctx, testAlert("a2", "Y", 1, 5, model.UrgencyHigh)))

	require.NoError(t, store.AcknowledgeAlert(ctx, "a1", "cajero1"))

	active, err := store.ActiveAlerts(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a2"}, alertIDs(active))

	assert.ErrorIs(t, store.AcknowledgeAlert(ctx, "a1", "cajero1"), ErrAlreadyResolved)
	assert.ErrorIs(t, store.AcknowledgeAlert(ctx, "missing", "cajero1"), common.ErrNotFound)

	// The alerting service raising it again reopens it.
	require.NoError(t, store.UpsertAlert(ctx, testAlert("a1", "X", 0, 5, model.UrgencyCritical)))
	active, err = store.ActiveAlerts(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a1", "a2"}, alertIDs(active))
}

func TestRecordStock(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, store.UpsertAlert(ctx, testAlert("low", "FIL-1", 1, 5, model.UrgencyHigh)))
	require.NoError(t, store.UpsertAlert(ctx, testAlert("other", "ACE-1", 0, 3, model.UrgencyCritical)))

	resolved, err := store.RecordStock(ctx, "FIL-1", 4)
	require.NoError(t, err)
	assert.Equal(t, 0, resolved)

	got, err := store.GetAlert(ctx, "low")
	require.NoError(t, err)
	assert.Equal(t, 4, got.CurrentStock)

	// Reaching the minimum is not enough, stock has to be above it.
	resolved, err = store.RecordStock(ctx, "FIL-1", 5)
	require.NoError(t, err)
	assert.Equal(t, 0, resolved)

	resolved, err = store.RecordStock(ctx, "FIL-1", 12)
	require.NoError(t, err)
	assert.Equal(t, 1, resolved)

	active, err := store.ActiveAlerts(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"other"}, alertIDs(active))

	_, err = store.RecordStock(ctx, "FIL-1", 20)
	assert.ErrorIs(t, err, common.ErrNotFound)

	_, err = store.RecordStock(ctx, "ACE-1", -1)
	assert.ErrorIs(t, err, ErrInvalidAlert)
}

func TestUpsertAlert_Invalid(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	err := store.UpsertAlert(context.Background(), &model.StockAlert{ID: "x", ProductName: "y", Urgency: "urgent"})
	assert.ErrorIs(t, err, ErrInvalidAlert)
}
