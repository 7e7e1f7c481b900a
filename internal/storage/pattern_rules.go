package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Edisonlex/lubri/internal/common"
	"github.com/Edisonlex/lubri/internal/model"
)

const ruleColumns = `id, name, category, pattern, reason, field, weight, is_active,
	created_at, updated_at`

// CreatePatternRule creates a new classification rule.
func (s *SQLiteStorage) CreatePatternRule(ctx context.Context, rule *model.PatternRule) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validatePatternRule(rule); err != nil {
		return err
	}

	now := time.Now()
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO classification_rules (name, category, pattern, reason, field, weight,
			is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rule.Name, rule.Category, rule.Pattern, rule.Reason, rule.Field, rule.Weight,
		rule.IsActive, now, now,
	)
	if err != nil {
		return fmt.Errorf("failed to create pattern rule: %w", classifyError(err))
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get pattern rule ID: %w", err)
	}

	rule.ID = int(id)
	rule.CreatedAt = now
	rule.UpdatedAt = now

	return nil
}

// GetPatternRule retrieves a pattern rule by ID.
func (s *SQLiteStorage) GetPatternRule(ctx context.Context, id int) (*model.PatternRule, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `SELECT `+ruleColumns+` FROM classification_rules WHERE id = ?`, id)
	rule, err := scanPatternRule(row)
	if err != nil {
		return nil, fmt.Errorf("pattern rule %d: %w", id, err)
	}
	return rule, nil
}

// ListPatternRules returns every stored rule ordered by ID.
func (s *SQLiteStorage) ListPatternRules(ctx context.Context) ([]model.PatternRule, error) {
	return s.queryPatternRules(ctx, `SELECT `+ruleColumns+` FROM classification_rules ORDER BY id ASC`)
}

// GetActivePatternRules retrieves the rules the classifier should load.
func (s *SQLiteStorage) GetActivePatternRules(ctx context.Context) ([]model.PatternRule, error) {
	return s.queryPatternRules(ctx,
		`SELECT `+ruleColumns+` FROM classification_rules WHERE is_active = 1 ORDER BY id ASC`)
}

func (s *SQLiteStorage) queryPatternRules(ctx context.Context, query string, args ...any) ([]model.PatternRule, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query pattern rules: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var rules []model.PatternRule
	for rows.Next() {
		rule, err := scanPatternRule(rows)
		if err != nil {
			return nil, err
		}
		rules = append(rules, *rule)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating pattern rules: %w", err)
	}

	return rules, nil
}

// SetPatternRuleActive enables or disables a rule.
func (s *SQLiteStorage) SetPatternRuleActive(ctx context.Context, id int, active bool) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx,
		`UPDATE classification_rules SET is_active = ?, updated_at = ? WHERE id = ?`,
		active, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update pattern rule: %w", classifyError(err))
	}

	return requireRow(result, fmt.Sprintf("pattern rule %d", id))
}

// DeletePatternRule deletes a pattern rule.
func (s *SQLiteStorage) DeletePatternRule(ctx context.Context, id int) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, "DELETE FROM classification_rules WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete pattern rule: %w", err)
	}

	return requireRow(result, fmt.Sprintf("pattern rule %d", id))
}

func requireRow(result sql.Result, what string) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", what, common.ErrNotFound)
	}
	return nil
}

func scanPatternRule(row rowScanner) (*model.PatternRule, error) {
	var rule model.PatternRule
	var category, field string

	err := row.Scan(
		&rule.ID, &rule.Name, &category, &rule.Pattern, &rule.Reason, &field,
		&rule.Weight, &rule.IsActive, &rule.CreatedAt, &rule.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan pattern rule: %w", err)
	}

	rule.Category = model.Category(category)
	rule.Field = model.RuleField(field)
	return &rule, nil
}
