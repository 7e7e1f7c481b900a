package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Edisonlex/lubri/internal/common"
	"github.com/Edisonlex/lubri/internal/model"
)

// Resolution reasons recorded on stock_alerts.resolution.
const (
	ResolutionAcknowledged = "acknowledged"
	ResolutionReplenished  = "replenished"
)

const alertColumns = `id, product_name, category, sku, supplier, current_stock,
	min_stock, urgency, trend, last_updated`

// UpsertAlert stores an alert from the alert-generation service. Re-sending a
// known ID updates it in place and reopens it if it had been resolved; its
// position in ActiveAlerts is kept.
func (s *SQLiteStorage) UpsertAlert(ctx context.Context, alert *model.StockAlert) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateAlert(alert); err != nil {
		return err
	}

	if alert.Trend == "" {
		alert.Trend = model.TrendStable
	}
	if alert.LastUpdated.IsZero() {
		alert.LastUpdated = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO stock_alerts (id, product_name, category, sku, supplier,
			current_stock, min_stock, urgency, trend, last_updated)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			product_name = excluded.product_name,
			category = excluded.category,
			sku = excluded.sku,
			supplier = excluded.supplier,
			current_stock = excluded.current_stock,
			min_stock = excluded.min_stock,
			urgency = excluded.urgency,
			trend = excluded.trend,
			last_updated = excluded.last_updated,
			resolved_at = NULL,
			resolution = NULL,
			resolved_by = NULL`,
		alert.ID, alert.ProductName, alert.Category, strings.TrimSpace(alert.SKU), alert.Supplier,
		alert.CurrentStock, alert.MinStock, alert.Urgency, alert.Trend, alert.LastUpdated,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert alert %q: %w", alert.ID, classifyError(err))
	}
	return nil
}

// GetAlert retrieves an alert by ID, resolved or not.
func (s *SQLiteStorage) GetAlert(ctx context.Context, id string) (*model.StockAlert, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `SELECT `+alertColumns+` FROM stock_alerts WHERE id = ?`, id)
	a, err := scanAlert(row)
	if err != nil {
		return nil, fmt.Errorf("alert %q: %w", id, err)
	}
	return a, nil
}

// ActiveAlerts returns every unresolved alert in insertion order.
func (s *SQLiteStorage) ActiveAlerts(ctx context.Context) ([]model.StockAlert, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+alertColumns+` FROM stock_alerts WHERE resolved_at IS NULL ORDER BY seq ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query active alerts: %w", classifyError(err))
	}
	defer func() { _ = rows.Close() }()

	alerts := []model.StockAlert{}
	for rows.Next() {
		a, err := scanAlert(rows)
		if err != nil {
			return nil, err
		}
		alerts = append(alerts, *a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating alerts: %w", err)
	}
	return alerts, nil
}

// AcknowledgeAlert resolves an active alert on behalf of a user.
func (s *SQLiteStorage) AcknowledgeAlert(ctx context.Context, id, by string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE stock_alerts SET resolved_at = ?, resolution = ?, resolved_by = ?
		WHERE id = ? AND resolved_at IS NULL`,
		time.Now(), ResolutionAcknowledged, by, id,
	)
	if err != nil {
		return fmt.Errorf("failed to acknowledge alert: %w", classifyError(err))
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n > 0 {
		return nil
	}

	if _, err := s.GetAlert(ctx, id); err != nil {
		return err
	}
	return fmt.Errorf("alert %q: %w", id, ErrAlreadyResolved)
}

// RecordStock updates the current stock of every active alert for sku and
// resolves those now above their minimum. It returns how many were resolved.
func (s *SQLiteStorage) RecordStock(ctx context.Context, sku string, stock int) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if err := validateString(sku, "sku"); err != nil {
		return 0, err
	}
	if stock < 0 {
		return 0, fmt.Errorf("%w: stock cannot be negative", ErrInvalidAlert)
	}
	sku = strings.TrimSpace(sku)

	var resolved int64
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		now := time.Now()

		res, err := tx.ExecContext(ctx, `
			UPDATE stock_alerts SET current_stock = ?, last_updated = ?
			WHERE sku = ? AND resolved_at IS NULL`,
			stock, now, sku,
		)
		if err != nil {
			return fmt.Errorf("failed to record stock: %w", classifyError(err))
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("no active alerts for sku %q: %w", sku, common.ErrNotFound)
		}

		res, err = tx.ExecContext(ctx, `
			UPDATE stock_alerts SET resolved_at = ?, resolution = ?
			WHERE sku = ? AND resolved_at IS NULL AND current_stock > min_stock`,
			now, ResolutionReplenished, sku,
		)
		if err != nil {
			return fmt.Errorf("failed to resolve replenished alerts: %w", classifyError(err))
		}
		resolved, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return 0, err
	}
	return int(resolved), nil
}

func scanAlert(row rowScanner) (*model.StockAlert, error) {
	var a model.StockAlert
	var urgency, trend string

	err := row.Scan(
		&a.ID, &a.ProductName, &a.Category, &a.SKU, &a.Supplier, &a.CurrentStock,
		&a.MinStock, &urgency, &trend, &a.LastUpdated,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan alert: %w", err)
	}

	a.Urgency = model.Urgency(urgency)
	a.Trend = model.Trend(trend)
	return &a, nil
}
