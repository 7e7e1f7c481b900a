// Package model defines the core domain models used throughout the application.
package model

import "time"

// ProductDescriptor is the free-text description of a product handed to the classifier.
// Only Name is expected to be meaningful; empty fields contribute no signal.
type ProductDescriptor struct {
	Name     string `json:"name"`
	Brand    string `json:"brand"`
	SKU      string `json:"sku"`
	Supplier string `json:"supplier"`
}

// ClassificationResult is the outcome of classifying a single product.
type ClassificationResult struct {
	Category   Category `json:"category"`
	Reasons    []string `json:"reasons"`
	Confidence float64  `json:"confidence"`
}

// CategorySource indicates how a stored product got its category.
type CategorySource string

// Category source constants.
const (
	SourceClassifier CategorySource = "classifier"
	SourceManual     CategorySource = "manual"
)

// Product is a catalog entry together with its persisted classification.
type Product struct {
	UpdatedAt   time.Time      `json:"updated_at"`
	CreatedAt   time.Time      `json:"created_at"`
	SupplierRUC string         `json:"supplier_ruc,omitempty"`
	Source      CategorySource `json:"source"`
	ProductDescriptor
	Classification ClassificationResult `json:"classification"`
	ID             int                  `json:"id"`
}
