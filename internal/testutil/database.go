// Package testutil provides shared test fixtures: in-memory databases seeded
// with realistic lubricant-shop products and stock alerts.
package testutil

import (
	"context"
	"testing"

	"github.com/Edisonlex/lubri/internal/model"
	"github.com/Edisonlex/lubri/internal/storage"
)

// TestDB represents a test database with associated test utilities.
type TestDB struct {
	Storage *storage.SQLiteStorage
	t       *testing.T
}

// TestDBOptions provides configuration options for test database setup.
type TestDBOptions struct {
	CustomSetup func(context.Context, *storage.SQLiteStorage) error
	Products    []*model.Product
	Alerts      []*model.StockAlert
	Rules       []*model.PatternRule
}

// SetupTestDB creates a new migrated in-memory database that is closed when the test ends.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()
	return SetupTestDBWithOptions(t, TestDBOptions{})
}

// SetupTestDBWithOptions creates a test database seeded per opts.
//
// Example:
//
//	db := testutil.SetupTestDBWithOptions(t, testutil.TestDBOptions{
//		Alerts: testutil.SampleAlerts(),
//	})
func SetupTestDBWithOptions(t *testing.T, opts TestDBOptions) *TestDB {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	if len(opts.Products) > 0 {
		if err := store.SaveProducts(ctx, opts.Products); err != nil {
			t.Fatalf("failed to seed products: %v", err)
		}
	}

	for _, a := range opts.Alerts {
		if err := store.UpsertAlert(ctx, a); err != nil {
			t.Fatalf("failed to seed alert %q: %v", a.ID, err)
		}
	}

	for _, r := range opts.Rules {
		if err := store.CreatePatternRule(ctx, r); err != nil {
			t.Fatalf("failed to seed rule %q: %v", r.Name, err)
		}
	}

	if opts.CustomSetup != nil {
		if err := opts.CustomSetup(ctx, store); err != nil {
			t.Fatalf("custom setup failed: %v", err)
		}
	}

	return &TestDB{
		Storage: store,
		t:       t,
	}
}

// MustActiveAlerts returns the active alerts or fails the test.
func (db *TestDB) MustActiveAlerts() []model.StockAlert {
	db.t.Helper()
	alerts, err := db.Storage.ActiveAlerts(context.Background())
	if err != nil {
		db.t.Fatalf("failed to load active alerts: %v", err)
	}
	return alerts
}
