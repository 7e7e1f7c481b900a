package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// ExpectedSchemaVersion is the latest schema version that the application expects.
// If the database cannot be migrated to this version, it's a fatal error.
const ExpectedSchemaVersion = 4

// Migration represents a database schema migration.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

func execAll(tx *sql.Tx, queries []string) error {
	for _, query := range queries {
		if _, err := tx.Exec(query); err != nil {
			return fmt.Errorf("failed to execute query: %w", err)
		}
	}
	return nil
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Product catalog",
		Up: func(tx *sql.Tx) error {
			return execAll(tx, []string{
				`CREATE TABLE IF NOT EXISTS products (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					name TEXT NOT NULL,
					brand TEXT NOT NULL DEFAULT '',
					sku TEXT NOT NULL DEFAULT '',
					supplier TEXT NOT NULL DEFAULT '',
					supplier_ruc TEXT NOT NULL DEFAULT '',
					category TEXT NOT NULL,
					confidence REAL NOT NULL DEFAULT 0,
					reasons TEXT NOT NULL DEFAULT '[]',
					source TEXT NOT NULL DEFAULT 'classifier',
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
					updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE UNIQUE INDEX idx_products_sku ON products(sku) WHERE sku <> ''`,
				`CREATE INDEX idx_products_category ON products(category)`,
				`CREATE INDEX idx_products_name ON products(name COLLATE NOCASE)`,
			})
		},
	},
	{
		Version:     2,
		Description: "Stock alerts",
		Up: func(tx *sql.Tx) error {
			return execAll(tx, []string{
				`CREATE TABLE IF NOT EXISTS stock_alerts (
					seq INTEGER PRIMARY KEY AUTOINCREMENT,
					id TEXT UNIQUE NOT NULL,
					product_name TEXT NOT NULL,
					category TEXT NOT NULL DEFAULT '',
					sku TEXT NOT NULL DEFAULT '',
					supplier TEXT NOT NULL DEFAULT '',
					current_stock INTEGER NOT NULL CHECK (current_stock >= 0),
					min_stock INTEGER NOT NULL CHECK (min_stock >= 0),
					urgency TEXT NOT NULL CHECK (urgency IN ('critical', 'high', 'medium', 'low')),
					trend TEXT NOT NULL DEFAULT 'stable',
					last_updated DATETIME NOT NULL,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX idx_stock_alerts_sku ON stock_alerts(sku)`,
			})
		},
	},
	{
		Version:     3,
		Description: "Alert resolution tracking",
		Up: func(tx *sql.Tx) error {
			return execAll(tx, []string{
				`ALTER TABLE stock_alerts ADD COLUMN resolved_at DATETIME`,
				`ALTER TABLE stock_alerts ADD COLUMN resolution TEXT`,
				`ALTER TABLE stock_alerts ADD COLUMN resolved_by TEXT`,
				`CREATE INDEX idx_stock_alerts_active ON stock_alerts(resolved_at, seq)`,
			})
		},
	},
	{
		Version:     4,
		Description: "Classification rules",
		Up: func(tx *sql.Tx) error {
			return execAll(tx, []string{
				`CREATE TABLE IF NOT EXISTS classification_rules (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					name TEXT UNIQUE NOT NULL,
					category TEXT NOT NULL,
					pattern TEXT NOT NULL,
					reason TEXT NOT NULL DEFAULT '',
					field TEXT NOT NULL DEFAULT '',
					weight REAL NOT NULL CHECK (weight > 0),
					is_active BOOLEAN NOT NULL DEFAULT 1,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
					updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX idx_classification_rules_active ON classification_rules(is_active)`,
			})
		},
	},
}

// Migrate applies all pending database migrations.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	var currentVersion int
	err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}

	if currentVersion > ExpectedSchemaVersion {
		return fmt.Errorf("database schema version %d is newer than supported version %d", currentVersion, ExpectedSchemaVersion)
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		tx, txErr := s.db.BeginTx(ctx, nil)
		if txErr != nil {
			return fmt.Errorf("failed to begin transaction: %w", txErr)
		}

		if upErr := migration.Up(tx); upErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, upErr)
		}

		if _, execErr := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", migration.Version)); execErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to update schema version: %w", execErr)
		}

		if commitErr := tx.Commit(); commitErr != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, commitErr)
		}

		slog.Debug("Applied migration",
			"version", migration.Version,
			"description", migration.Description)
	}

	var finalVersion int
	err = s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&finalVersion)
	if err != nil {
		return fmt.Errorf("failed to verify final schema version: %w", err)
	}

	if finalVersion != ExpectedSchemaVersion {
		return fmt.Errorf("database schema version mismatch: expected %d, got %d", ExpectedSchemaVersion, finalVersion)
	}

	return nil
}

// SchemaVersion reports the current PRAGMA user_version.
func (s *SQLiteStorage) SchemaVersion(ctx context.Context) (int, error) {
	var v int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&v); err != nil {
		return 0, fmt.Errorf("failed to get schema version: %w", err)
	}
	return v, nil
}
