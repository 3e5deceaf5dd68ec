package experiment

import (
	"strconv"
	"strings"

	"github.com/kbukum/vpgbench/errors"
	"github.com/kbukum/vpgbench/util"
)

// Variant selects the solving algorithm of merc-vpg.
type Variant string

// Solve variants understood by merc-vpg.
const (
	VariantFamily              Variant = "family"
	VariantFamilyOptimisedLeft Variant = "family-optimised-left"
	VariantProduct             Variant = "product"
)

// Variants returns every variant in the order they are run.
func Variants() []Variant {
	return []Variant{VariantFamily, VariantProduct, VariantFamilyOptimisedLeft}
}

// ParseVariant returns the variant named s.
func ParseVariant(s string) (Variant, error) {
	v := Variant(strings.TrimSpace(s))
	switch v {
	case VariantFamily, VariantFamilyOptimisedLeft, VariantProduct:
		return v, nil
	}
	return "", errors.InvalidInput("variant", "unknown solve variant "+strconv.Quote(s)+", must be one of: family family-optimised-left product").
		WithDetail("value", s)
}

// ParseVariants parses every name in names, keeping their order and dropping
// duplicates. An empty list yields Variants().
func ParseVariants(names []string) ([]Variant, error) {
	if len(names) == 0 {
		return Variants(), nil
	}
	out := make([]Variant, 0, len(names))
	for _, n := range names {
		v, err := ParseVariant(n)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return util.Unique(out), nil
}

// IsFamily reports whether v solves the whole family at once, as opposed to
// the product-based variant solving one projection per product.
func (v Variant) IsFamily() bool {
	return v == VariantFamily || v == VariantFamilyOptimisedLeft
}

func (v Variant) String() string { return string(v) }
