package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/Edisonlex/lubri/internal/cache"
	"github.com/Edisonlex/lubri/internal/catalog"
	"github.com/Edisonlex/lubri/internal/classification"
	"github.com/Edisonlex/lubri/internal/common"
	"github.com/Edisonlex/lubri/internal/metrics"
	"github.com/Edisonlex/lubri/internal/model"
	"github.com/Edisonlex/lubri/internal/storage"
)

// getDatabase opens and migrates the configured database.
func getDatabase(ctx context.Context) (*storage.SQLiteStorage, func(), error) {
	db, err := storage.NewSQLiteStorage(appConfig.Database.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Run migrations
	if err := db.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	cleanup := func() {
		if err := db.Close(); err != nil {
			slog.Error("Failed to close database", "error", err)
		}
	}

	return db, cleanup, nil
}

func newClassifier() *classification.Classifier {
	return classification.NewDefaultClassifier(
		classification.WithBaseline(appConfig.Classifier.Baseline),
		classification.WithFloor(appConfig.Classifier.Floor),
	)
}

// newCatalog builds the catalog service over db, connecting the Redis cache
// when enabled. A cache that cannot be reached is logged and skipped.
func newCatalog(ctx context.Context, db *storage.SQLiteStorage) (*catalog.Service, func(), error) {
	opts := []catalog.Option{catalog.WithLogger(slog.Default())}
	cleanup := func() {}

	if appConfig.Cache.Enabled {
		c, err := cache.New(ctx, cache.Options{
			Addr:     appConfig.Cache.Addr,
			Password: appConfig.Cache.Password,
			DB:       appConfig.Cache.DB,
			TTL:      appConfig.Cache.TTL,
		})
		if err != nil {
			slog.Warn("Classification cache unavailable, continuing without it",
				"addr", appConfig.Cache.Addr, "error", err)
		} else {
			opts = append(opts, catalog.WithCache(c))
			cleanup = func() { _ = c.Close() }
		}
	}

	if appConfig.Classifier.UseStoredRules {
		opts = append(opts, catalog.WithRuleStore(db))
	}

	svc := catalog.NewService(newClassifier(), db, opts...)
	if _, err := svc.LoadRules(ctx); err != nil {
		cleanup()
		return nil, nil, err
	}
	return svc, cleanup, nil
}

// resolveRole parses a --role value. Empty means the configured default.
// Unknown names are logged and shown the admin list.
func resolveRole(raw string) model.Role {
	if raw == "" {
		raw = appConfig.Alerts.DefaultRole
	}
	role, ok := model.ParseRole(raw)
	if !ok {
		common.LogUnknownRole(slog.Default(), raw, "cli")
		metrics.UnknownRoles.Inc()
	}
	return role
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
