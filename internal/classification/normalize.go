package classification

import (
	"strings"
	"unicode"

	"github.com/Edisonlex/lubri/internal/model"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MaxFieldLength bounds every descriptor field (in runes) before any pattern runs.
const MaxFieldLength = 256

// Normalize case-folds a field, strips diacritics, collapses whitespace and
// truncates it to MaxFieldLength runes.
func Normalize(s string) string {
	if s == "" {
		return ""
	}

	r := []rune(s)
	if len(r) > MaxFieldLength {
		r = r[:MaxFieldLength]
	}
	s = string(r)

	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if folded, _, err := transform.String(t, s); err == nil {
		s = folded
	}

	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// normalized holds each descriptor field after Normalize.
type normalized struct {
	name     string
	brand    string
	sku      string
	supplier string
}

func normalizeDescriptor(desc model.ProductDescriptor) normalized {
	return normalized{
		name:     Normalize(desc.Name),
		brand:    Normalize(desc.Brand),
		sku:      Normalize(desc.SKU),
		supplier: Normalize(desc.Supplier),
	}
}

// fields returns the non-empty fields a rule restricted to f may see.
// Fields are matched one at a time so a pattern never spans two of them.
func (n normalized) fields(f model.RuleField) []string {
	var candidates []string
	switch f {
	case model.RuleFieldName:
		candidates = []string{n.name}
	case model.RuleFieldBrand:
		candidates = []string{n.brand}
	case model.RuleFieldSKU:
		candidates = []string{n.sku}
	case model.RuleFieldSupplier:
		candidates = []string{n.supplier}
	default:
		candidates = []string{n.name, n.brand, n.sku, n.supplier}
	}

	out := candidates[:0]
	for _, c := range candidates {
		if c != "" {
			out = append(out, c)
		}
	}
	return out
}

// Key returns a stable identity for a descriptor after normalization.
func Key(desc model.ProductDescriptor) string {
	n := normalizeDescriptor(desc)
	return strings.Join([]string{n.name, n.brand, n.sku, n.supplier}, "|")
}
