// Package service defines the interfaces shared between the catalog, alert and
// transport layers.
package service

import (
	"context"

	"github.com/Edisonlex/lubri/internal/model"
)

// ProductFilter defines filtering options for product queries.
type ProductFilter struct {
	Category model.Category
	Source   model.CategorySource
	Limit    int
	Offset   int
}

// ProductStore persists catalog products and their categories.
type ProductStore interface {
	SaveProduct(ctx context.Context, product *model.Product) error
	SaveProducts(ctx context.Context, products []*model.Product) error
	GetProduct(ctx context.Context, id int) (*model.Product, error)
	GetProductBySKU(ctx context.Context, sku string) (*model.Product, error)
	ListProducts(ctx context.Context, filter ProductFilter) ([]model.Product, error)
	UpdateClassification(ctx context.Context, id int, result model.ClassificationResult) error
	SetProductCategory(ctx context.Context, id int, category model.Category) error
	CountProductsByCategory(ctx context.Context) (map[model.Category]int, error)
}

// AlertStore holds the stock alerts produced by the alert-generation service.
type AlertStore interface {
	UpsertAlert(ctx context.Context, alert *model.StockAlert) error
	GetAlert(ctx context.Context, id string) (*model.StockAlert, error)
	ActiveAlerts(ctx context.Context) ([]model.StockAlert, error)
	AcknowledgeAlert(ctx context.Context, id, by string) error
	RecordStock(ctx context.Context, sku string, stock int) (int, error)
}

// RuleStore persists user-defined classification rules.
type RuleStore interface {
	CreatePatternRule(ctx context.Context, rule *model.PatternRule) error
	GetPatternRule(ctx context.Context, id int) (*model.PatternRule, error)
	ListPatternRules(ctx context.Context) ([]model.PatternRule, error)
	GetActivePatternRules(ctx context.Context) ([]model.PatternRule, error)
	SetPatternRuleActive(ctx context.Context, id int, active bool) error
	DeletePatternRule(ctx context.Context, id int) error
}

// Storage defines the contract for our persistence layer.
type Storage interface {
	ProductStore
	AlertStore
	RuleStore

	Migrate(ctx context.Context) error
	Close() error
}
