// Package classification infers product categories from free-text catalog attributes.
package classification

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/Edisonlex/lubri/internal/model"
)

// NoMatchReason is the only reason reported when no rule fired.
const NoMatchReason = "sin coincidencias de palabras clave"

// Defaults for confidence normalization.
const (
	DefaultBaseline = 2.0
	DefaultFloor    = 0.3
)

// Rule construction errors.
var (
	ErrInvalidPattern = errors.New("invalid rule pattern")
	ErrInvalidRule    = errors.New("invalid rule")
)

// Rule is one (pattern, category, weight) entry of the keyword table.
type Rule struct {
	Name     string
	Category model.Category
	Pattern  string
	Reason   string
	Field    model.RuleField // empty matches against every field
	Weight   float64
}

type compiledRule struct {
	re *regexp.Regexp
	Rule
}

// Classifier scores product descriptors against a rule table.
// It is safe for concurrent use.
type Classifier struct {
	fingerprint string
	rules       []compiledRule
	baseline    float64
	floor       float64
	mu          sync.RWMutex
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithBaseline sets the score at which a category reaches the midpoint
// between the floor and full confidence.
func WithBaseline(b float64) Option {
	return func(c *Classifier) {
		if b > 0 {
			c.baseline = b
		}
	}
}

// WithFloor sets the confidence reported when nothing matched.
func WithFloor(f float64) Option {
	return func(c *Classifier) {
		if f >= 0 && f < 1 {
			c.floor = f
		}
	}
}

// NewClassifier compiles the given rules.
func NewClassifier(rules []Rule, opts ...Option) (*Classifier, error) {
	compiled, err := compileRules(rules)
	if err != nil {
		return nil, err
	}

	c := &Classifier{
		rules:    compiled,
		baseline: DefaultBaseline,
		floor:    DefaultFloor,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.fingerprint = fingerprint(c.rules, c.baseline, c.floor)
	return c, nil
}

// NewDefaultClassifier returns a Classifier loaded with DefaultRules.
func NewDefaultClassifier(opts ...Option) *Classifier {
	c, err := NewClassifier(DefaultRules(), opts...)
	if err != nil {
		panic(fmt.Sprintf("default rules do not compile: %v", err))
	}
	return c
}

func compileRules(rules []Rule) ([]compiledRule, error) {
	compiled := make([]compiledRule, 0, len(rules))

	for _, r := range rules {
		if !r.Category.Valid() {
			return nil, fmt.Errorf("%w %q: unknown category %q", ErrInvalidRule, r.Name, r.Category)
		}
		if r.Weight <= 0 {
			return nil, fmt.Errorf("%w %q: weight must be positive", ErrInvalidRule, r.Name)
		}
		if !r.Field.Valid() {
			return nil, fmt.Errorf("%w %q: unknown field %q", ErrInvalidRule, r.Name, r.Field)
		}

		re, err := compilePattern(r.Pattern)
		if err != nil {
			return nil, fmt.Errorf("%w %q: %v", ErrInvalidPattern, r.Name, err)
		}

		if r.Reason == "" {
			r.Reason = r.Name
		}
		compiled = append(compiled, compiledRule{Rule: r, re: re})
	}

	return compiled, nil
}

func compilePattern(pattern string) (*regexp.Regexp, error) {
	if !strings.HasPrefix(pattern, "(?i)") {
		pattern = "(?i)" + pattern
	}
	return regexp.Compile(pattern)
}

// MatchPattern reports the text a rule pattern would match in s after
// normalization, or "" when it does not match.
func MatchPattern(pattern, s string) (string, error) {
	re, err := compilePattern(pattern)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidPattern, err)
	}
	return re.FindString(Normalize(s)), nil
}

// Classify returns the most likely category for desc. It never fails:
// input that matches nothing yields CategoryOther at the floor confidence.
func (c *Classifier) Classify(desc model.ProductDescriptor) model.ClassificationResult {
	c.mu.RLock()
	rules := c.rules
	baseline, floor := c.baseline, c.floor
	c.mu.RUnlock()

	text := normalizeDescriptor(desc)
	scores := make(map[model.Category]float64)
	reasons := make(map[model.Category][]string)

	for _, r := range rules {
		match := firstMatch(r.re, text.fields(r.Field))
		if match == "" {
			continue
		}
		scores[r.Category] += r.Weight
		reasons[r.Category] = append(reasons[r.Category], fmt.Sprintf("%s: %s", r.Reason, match))
	}

	winner, best := pickWinner(scores)
	if best == 0 {
		return model.ClassificationResult{
			Category:   model.CategoryOther,
			Confidence: floor,
			Reasons:    []string{NoMatchReason},
		}
	}

	return model.ClassificationResult{
		Category:   winner,
		Confidence: confidence(best, baseline, floor),
		Reasons:    reasons[winner],
	}
}

// firstMatch returns the first non-empty match of re across fields.
func firstMatch(re *regexp.Regexp, fields []string) string {
	for _, f := range fields {
		if m := re.FindString(f); m != "" {
			return m
		}
	}
	return ""
}

// pickWinner returns the highest-scoring category. Equal scores go to the
// category with the higher Priority.
func pickWinner(scores map[model.Category]float64) (model.Category, float64) {
	winner := model.CategoryOther
	var best float64
	for cat, s := range scores {
		if s > best || (s == best && s > 0 && cat.Priority() > winner.Priority()) {
			winner, best = cat, s
		}
	}
	return winner, best
}

// confidence maps a positive score into (floor, 1].
func confidence(score, baseline, floor float64) float64 {
	if score <= 0 {
		return floor
	}
	v := floor + (1-floor)*(score/(score+baseline))
	return clamp(v, 0, 1)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ClassifyBatch classifies descriptors in order, stopping if ctx is cancelled.
func (c *Classifier) ClassifyBatch(ctx context.Context, descs []model.ProductDescriptor) ([]model.ClassificationResult, error) {
	results := make([]model.ClassificationResult, 0, len(descs))

	for _, d := range descs {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
			results = append(results, c.Classify(d))
		}
	}

	return results, nil
}

// UpdateRules replaces the rule table. On error the previous table stays in place.
func (c *Classifier) UpdateRules(rules []Rule) error {
	compiled, err := compileRules(rules)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.rules = compiled
	c.fingerprint = fingerprint(compiled, c.baseline, c.floor)
	c.mu.Unlock()

	return nil
}

// Rules returns a copy of the current rule table.
func (c *Classifier) Rules() []Rule {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Rule, len(c.rules))
	for i, r := range c.rules {
		out[i] = r.Rule
	}
	return out
}

// Fingerprint identifies the loaded rule table together with the confidence
// settings. Two classifiers with the same fingerprint give the same result
// for every descriptor.
func (c *Classifier) Fingerprint() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.fingerprint
}

func fingerprint(rules []compiledRule, baseline, floor float64) string {
	h := sha256.New()
	fmt.Fprintf(h, "baseline=%g floor=%g\n", baseline, floor)
	for _, r := range rules {
		fmt.Fprintf(h, "%q %q %q %q %q %g\n", r.Name, r.Category, r.Pattern, r.Reason, r.Field, r.Weight)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// RuleCount returns the number of loaded rules.
func (c *Classifier) RuleCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.rules)
}

// FromPatternRules converts active stored rules into classifier rules.
func FromPatternRules(stored []model.PatternRule) []Rule {
	rules := make([]Rule, 0, len(stored))
	for _, p := range stored {
		if !p.IsActive {
			continue
		}
		rules = append(rules, Rule{
			Name:     p.Name,
			Category: p.Category,
			Pattern:  p.Pattern,
			Reason:   p.Reason,
			Field:    p.Field,
			Weight:   p.Weight,
		})
	}
	return rules
}
