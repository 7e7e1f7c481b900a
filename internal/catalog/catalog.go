// Package catalog ties the classifier to the product store: importing
// catalog files, reclassifying stored products and loading user rules.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Edisonlex/lubri/internal/cache"
	"github.com/Edisonlex/lubri/internal/classification"
	"github.com/Edisonlex/lubri/internal/ecuador"
	"github.com/Edisonlex/lubri/internal/metrics"
	"github.com/Edisonlex/lubri/internal/model"
	"github.com/Edisonlex/lubri/internal/service"
	"github.com/Edisonlex/lubri/internal/storage"
	"github.com/go-playground/validator/v10"
)

// Service classifies and stores catalog products.
type Service struct {
	classifier *classification.Classifier
	cached     *cache.CachedClassifier
	cache      *cache.ClassificationCache
	products   service.ProductStore
	rules      service.RuleStore
	validate   *validator.Validate
	logger     *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithCache fronts the classifier with a Redis cache.
func WithCache(c *cache.ClassificationCache) Option {
	return func(s *Service) {
		s.cache = c
	}
}

// WithRuleStore makes LoadRules append the active stored rules.
func WithRuleStore(rs service.RuleStore) Option {
	return func(s *Service) {
		s.rules = rs
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewService creates a catalog service.
func NewService(c *classification.Classifier, products service.ProductStore, opts ...Option) *Service {
	s := &Service{
		classifier: c,
		products:   products,
		validate:   ecuador.NewValidator(),
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.cached = cache.NewCachedClassifier(c, s.cache, s.logger)
	return s
}

// Classifier returns the underlying classifier.
func (s *Service) Classifier() *classification.Classifier {
	return s.classifier
}

// Classify classifies one descriptor, reading through the cache when configured.
func (s *Service) Classify(ctx context.Context, desc model.ProductDescriptor) model.ClassificationResult {
	result := s.cached.Classify(ctx, desc)
	metrics.ObserveClassification(string(result.Category), result.Confidence)
	return result
}

// LoadRules replaces the classifier table with the built-in rules plus the
// active stored rules. It returns the number of stored rules loaded. Cached
// results are dropped whenever the resulting table differs from the one they
// were computed with.
func (s *Service) LoadRules(ctx context.Context) (int, error) {
	var custom []classification.Rule
	if s.rules != nil {
		stored, err := s.rules.GetActivePatternRules(ctx)
		if err != nil {
			return 0, fmt.Errorf("failed to load classification rules: %w", err)
		}
		custom = classification.FromPatternRules(stored)
		if err := s.classifier.UpdateRules(append(classification.DefaultRules(), custom...)); err != nil {
			return 0, fmt.Errorf("failed to apply classification rules: %w", err)
		}
	}

	if s.cache != nil {
		flushed, err := s.cache.SyncRules(ctx, s.classifier.Fingerprint())
		if err != nil {
			s.logger.Warn("Failed to sync classification cache", "error", err)
		} else if flushed {
			s.logger.Debug("Classification rules changed, cache flushed")
		}
	}

	s.logger.Debug("Loaded classification rules", "custom", len(custom), "total", s.classifier.RuleCount())
	return len(custom), nil
}

// RecategorizeResult counts what a Recategorize run did.
type RecategorizeResult struct {
	Changed   int
	Unchanged int
	Manual    int
}

// Recategorize runs every classifier-sourced product through the current
// rules. Manually categorized products are counted but never touched.
func (s *Service) Recategorize(ctx context.Context, progress func(done, total int)) (RecategorizeResult, error) {
	var res RecategorizeResult

	products, err := s.products.ListProducts(ctx, service.ProductFilter{})
	if err != nil {
		return res, err
	}

	for i := range products {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		p := &products[i]
		if p.Source == model.SourceManual {
			res.Manual++
		} else {
			result := s.Classify(ctx, p.ProductDescriptor)
			if result.Category == p.Classification.Category && result.Confidence == p.Classification.Confidence {
				res.Unchanged++
			} else {
				err := s.products.UpdateClassification(ctx, p.ID, result)
				switch {
				case errors.Is(err, storage.ErrManualCategory):
					res.Manual++
				case err != nil:
					return res, fmt.Errorf("failed to update product %d: %w", p.ID, err)
				default:
					res.Changed++
				}
			}
		}

		if progress != nil {
			progress(i+1, len(products))
		}
	}

	return res, nil
}
