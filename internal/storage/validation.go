// Package storage provides the SQLite persistence layer for products, stock
// alerts and classification rules.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Edisonlex/lubri/internal/common"
	"github.com/Edisonlex/lubri/internal/model"
)

// Validation errors.
var (
	ErrNilContext            = errors.New("context cannot be nil")
	ErrEmptyString           = errors.New("string parameter cannot be empty")
	ErrNilParameter          = errors.New("parameter cannot be nil")
	ErrEmptySlice            = errors.New("slice cannot be empty")
	ErrInvalidProduct        = fmt.Errorf("%w: product", common.ErrInvalidInput)
	ErrInvalidAlert          = fmt.Errorf("%w: stock alert", common.ErrInvalidInput)
	ErrInvalidRule           = fmt.Errorf("%w: classification rule", common.ErrInvalidInput)
	ErrInvalidClassification = fmt.Errorf("%w: classification", common.ErrInvalidInput)
)

// State errors.
var (
	ErrManualCategory  = errors.New("product category was set manually")
	ErrAlreadyResolved = errors.New("alert already resolved")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateProducts validates a slice of products.
func validateProducts(products []*model.Product) error {
	if products == nil {
		return fmt.Errorf("%w: products", ErrNilParameter)
	}
	if len(products) == 0 {
		return fmt.Errorf("%w: products", ErrEmptySlice)
	}

	for i, p := range products {
		if err := validateProduct(p); err != nil {
			return fmt.Errorf("product at index %d: %w", i, err)
		}
	}
	return nil
}

// validateProduct validates a single product.
func validateProduct(p *model.Product) error {
	if p == nil {
		return fmt.Errorf("%w: product", ErrNilParameter)
	}
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidProduct)
	}
	if err := validateClassification(p.Classification); err != nil {
		return err
	}
	switch p.Source {
	case "", model.SourceClassifier, model.SourceManual:
	default:
		return fmt.Errorf("%w: unknown source %q", ErrInvalidProduct, p.Source)
	}
	return nil
}

// validateClassification validates a classifier result before it is stored.
func validateClassification(c model.ClassificationResult) error {
	if !c.Category.Valid() {
		return fmt.Errorf("%w: unknown category %q", ErrInvalidClassification, c.Category)
	}
	if c.Confidence < 0 || c.Confidence > 1 {
		return fmt.Errorf("%w: confidence must be between 0 and 1", ErrInvalidClassification)
	}
	return nil
}

// validateAlert validates a stock alert.
func validateAlert(a *model.StockAlert) error {
	if a == nil {
		return fmt.Errorf("%w: alert", ErrNilParameter)
	}
	if strings.TrimSpace(a.ID) == "" {
		return fmt.Errorf("%w: missing ID", ErrInvalidAlert)
	}
	if strings.TrimSpace(a.ProductName) == "" {
		return fmt.Errorf("%w: missing product name", ErrInvalidAlert)
	}
	if !a.Urgency.Valid() {
		return fmt.Errorf("%w: unknown urgency %q", ErrInvalidAlert, a.Urgency)
	}
	if a.Trend != "" && !a.Trend.Valid() {
		return fmt.Errorf("%w: unknown trend %q", ErrInvalidAlert, a.Trend)
	}
	if a.CurrentStock < 0 || a.MinStock < 0 {
		return fmt.Errorf("%w: stock levels cannot be negative", ErrInvalidAlert)
	}
	return nil
}

// validatePatternRule validates a classification rule.
func validatePatternRule(rule *model.PatternRule) error {
	if rule == nil {
		return fmt.Errorf("%w: rule", ErrNilParameter)
	}
	if strings.TrimSpace(rule.Name) == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidRule)
	}
	if strings.TrimSpace(rule.Pattern) == "" {
		return fmt.Errorf("%w: missing pattern", ErrInvalidRule)
	}
	if !rule.Category.Valid() {
		return fmt.Errorf("%w: unknown category %q", ErrInvalidRule, rule.Category)
	}
	if !rule.Field.Valid() {
		return fmt.Errorf("%w: unknown field %q", ErrInvalidRule, rule.Field)
	}
	if rule.Weight <= 0 {
		return fmt.Errorf("%w: weight must be positive", ErrInvalidRule)
	}
	return nil
}
