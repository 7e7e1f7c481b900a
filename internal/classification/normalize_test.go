package classification

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/Edisonlex/lubri/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"   ", ""},
		{"Aceite  SINTÉTICO", "aceite sintetico"},
		{"Lubricación\tpara\ncadenas", "lubricacion para cadenas"},
		{"Ñandú", "nandu"},
		{"5W-30", "5w-30"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestNormalize_Truncates(t *testing.T) {
	in := strings.Repeat("á", MaxFieldLength*4)
	out := Normalize(in)
	assert.Equal(t, MaxFieldLength, utf8.RuneCountInString(out))
	assert.Equal(t, strings.Repeat("a", MaxFieldLength), out)
}

func TestNormalizedFields(t *testing.T) {
	n := normalizeDescriptor(model.ProductDescriptor{Name: "Aceite", Brand: "", SKU: "ACE-1", Supplier: "Lubricentro"})

	assert.Equal(t, []string{"aceite", "ace-1", "lubricentro"}, n.fields(model.RuleFieldAny))
	assert.Equal(t, []string{"ace-1"}, n.fields(model.RuleFieldSKU))
	assert.Empty(t, n.fields(model.RuleFieldBrand))
}

func TestKey(t *testing.T) {
	a := Key(model.ProductDescriptor{Name: "Aceite  Mobil", Brand: "MOBIL"})
	b := Key(model.ProductDescriptor{Name: "aceite mobil", Brand: "mobil"})
	c := Key(model.ProductDescriptor{Name: "aceite mobil", SKU: "mobil"})

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}
