package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Edisonlex/lubri/internal/common"
	"github.com/Edisonlex/lubri/internal/model"
	"github.com/Edisonlex/lubri/internal/service"
)

// ManualReason is the reason recorded when staff set a category by hand.
const ManualReason = "categoria asignada manualmente"

const productColumns = `id, name, brand, sku, supplier, supplier_ruc, category,
	confidence, reasons, source, created_at, updated_at`

// SaveProduct inserts a product or updates the existing one with the same SKU
// (or, when the SKU is empty, the same name). A manually assigned category on
// the stored row is kept unless the incoming product is itself manual.
func (s *SQLiteStorage) SaveProduct(ctx context.Context, product *model.Product) error {
	return s.SaveProducts(ctx, []*model.Product{product})
}

// SaveProducts saves several products in one transaction.
func (s *SQLiteStorage) SaveProducts(ctx context.Context, products []*model.Product) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateProducts(products); err != nil {
		return err
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		for _, p := range products {
			if err := s.saveProductTx(ctx, tx, p); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *SQLiteStorage) saveProductTx(ctx context.Context, tx *sql.Tx, p *model.Product) error {
	if p.Source == "" {
		p.Source = model.SourceClassifier
	}
	p.SKU = strings.TrimSpace(p.SKU)

	existing, err := findProductTx(ctx, tx, p)
	if err != nil && !errors.Is(err, common.ErrNotFound) {
		return err
	}

	now := time.Now()

	if existing == nil {
		reasons, err := encodeReasons(p.Classification.Reasons)
		if err != nil {
			return err
		}
		result, err := tx.ExecContext(ctx, `
			INSERT INTO products (name, brand, sku, supplier, supplier_ruc, category,
				confidence, reasons, source, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			p.Name, p.Brand, p.SKU, p.Supplier, p.SupplierRUC, p.Classification.Category,
			p.Classification.Confidence, reasons, p.Source, now, now,
		)
		if err != nil {
			return fmt.Errorf("failed to insert product %q: %w", p.Name, classifyError(err))
		}
		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get product ID: %w", err)
		}
		p.ID = int(id)
		p.CreatedAt = now
		p.UpdatedAt = now
		return nil
	}

	if existing.Source == model.SourceManual && p.Source != model.SourceManual {
		p.Source = model.SourceManual
		p.Classification = existing.Classification
	}

	reasons, err := encodeReasons(p.Classification.Reasons)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, `
		UPDATE products SET name = ?, brand = ?, sku = ?, supplier = ?, supplier_ruc = ?,
			category = ?, confidence = ?, reasons = ?, source = ?, updated_at = ?
		WHERE id = ?`,
		p.Name, p.Brand, p.SKU, p.Supplier, p.SupplierRUC,
		p.Classification.Category, p.Classification.Confidence, reasons, p.Source, now,
		existing.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update product %q: %w", p.Name, classifyError(err))
	}

	p.ID = existing.ID
	p.CreatedAt = existing.CreatedAt
	p.UpdatedAt = now
	return nil
}

func findProductTx(ctx context.Context, tx *sql.Tx, p *model.Product) (*model.Product, error) {
	var row *sql.Row
	if p.SKU != "" {
		row = tx.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products WHERE sku = ?`, p.SKU)
	} else {
		row = tx.QueryRowContext(ctx,
			`SELECT `+productColumns+` FROM products WHERE sku = '' AND name = ? COLLATE NOCASE`, p.Name)
	}
	return scanProduct(row)
}

// GetProduct retrieves a product by ID.
func (s *SQLiteStorage) GetProduct(ctx context.Context, id int) (*model.Product, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products WHERE id = ?`, id)
	p, err := scanProduct(row)
	if err != nil {
		return nil, fmt.Errorf("product %d: %w", id, err)
	}
	return p, nil
}

// GetProductBySKU retrieves a product by SKU.
func (s *SQLiteStorage) GetProductBySKU(ctx context.Context, sku string) (*model.Product, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(sku, "sku"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products WHERE sku = ?`, strings.TrimSpace(sku))
	p, err := scanProduct(row)
	if err != nil {
		return nil, fmt.Errorf("product %q: %w", sku, err)
	}
	return p, nil
}

// ListProducts returns products matching filter ordered by ID.
func (s *SQLiteStorage) ListProducts(ctx context.Context, filter service.ProductFilter) ([]model.Product, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `SELECT ` + productColumns + ` FROM products WHERE 1=1`
	var args []any

	if filter.Category != "" {
		query += " AND category = ?"
		args = append(args, filter.Category)
	}
	if filter.Source != "" {
		query += " AND source = ?"
		args = append(args, filter.Source)
	}

	query += " ORDER BY id ASC"

	if filter.Limit > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, filter.Limit, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var products []model.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

// UpdateClassification stores a new classifier result for a product.
// Products whose category was set manually are left untouched and
// ErrManualCategory is returned.
func (s *SQLiteStorage) UpdateClassification(ctx context.Context, id int, result model.ClassificationResult) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateClassification(result); err != nil {
		return err
	}

	reasons, err := encodeReasons(result.Reasons)
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE products SET category = ?, confidence = ?, reasons = ?, updated_at = ?
		WHERE id = ? AND source = ?`,
		result.Category, result.Confidence, reasons, time.Now(), id, model.SourceClassifier,
	)
	if err != nil {
		return fmt.Errorf("failed to update classification: %w", classifyError(err))
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n > 0 {
		return nil
	}

	if _, err := s.GetProduct(ctx, id); err != nil {
		return err
	}
	return fmt.Errorf("product %d: %w", id, ErrManualCategory)
}

// SetProductCategory assigns a category by hand. The product is marked manual
// and later reclassification will not overwrite it.
func (s *SQLiteStorage) SetProductCategory(ctx context.Context, id int, category model.Category) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if !category.Valid() {
		return fmt.Errorf("%w: unknown category %q", ErrInvalidClassification, category)
	}

	reasons, err := encodeReasons([]string{ManualReason})
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE products SET category = ?, confidence = 1, reasons = ?, source = ?, updated_at = ?
		WHERE id = ?`,
		category, reasons, model.SourceManual, time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to set product category: %w", classifyError(err))
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("product %d: %w", id, common.ErrNotFound)
	}
	return nil
}

// CountProductsByCategory returns the number of products per category.
// Every category is present in the result.
func (s *SQLiteStorage) CountProductsByCategory(ctx context.Context) (map[model.Category]int, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	counts := make(map[model.Category]int)
	for _, c := range model.Categories() {
		counts[c] = 0
	}

	rows, err := s.db.QueryContext(ctx, `SELECT category, COUNT(*) FROM products GROUP BY category`)
	if err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var cat string
		var n int
		if err := rows.Scan(&cat, &n); err != nil {
			return nil, fmt.Errorf("failed to scan product count: %w", err)
		}
		counts[model.Category(cat)] = n
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating product counts: %w", err)
	}
	return counts, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*model.Product, error) {
	var p model.Product
	var category, source, reasons string

	err := row.Scan(
		&p.ID, &p.Name, &p.Brand, &p.SKU, &p.Supplier, &p.SupplierRUC, &category,
		&p.Classification.Confidence, &reasons, &source, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan product: %w", err)
	}

	p.Classification.Category = model.Category(category)
	p.Source = model.CategorySource(source)
	if err := json.Unmarshal([]byte(reasons), &p.Classification.Reasons); err != nil {
		return nil, fmt.Errorf("failed to decode reasons for product %d: %w", p.ID, err)
	}

	return &p, nil
}

func encodeReasons(reasons []string) (string, error) {
	if reasons == nil {
		reasons = []string{}
	}
	b, err := json.Marshal(reasons)
	if err != nil {
		return "", fmt.Errorf("failed to encode reasons: %w", err)
	}
	return string(b), nil
}
