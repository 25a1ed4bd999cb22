package integration

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

const (
	// OptionNameColor is the storefront option name for variant colors
	OptionNameColor = "Color"
	// OptionNameSize is the storefront option name for variant sizes
	OptionNameSize = "Size"
)

// DerivedProduct is the output of variant derivation: the ordered product
// options plus one variant spec per input variant.
type DerivedProduct struct {
	Options []ProductOption
	Specs   []VariantSpec
}

// DeriveProduct transforms enriched provider variants into the storefront
// product structure. Options collect the distinct capitalized color and size
// values in first-seen order; an option is included only if at least one
// variant specifies a value for it, and Color precedes Size when both are
// present. Each spec carries the margin price, a composite SKU and the
// provider variant ID as the cross-platform join key.
func DeriveProduct(templateID, catalogProductID int64, variants []EnrichedVariant, margin decimal.Decimal) (*DerivedProduct, error) {
	if len(variants) == 0 {
		return nil, errors.New("integration: cannot derive a product from zero variants")
	}

	colors := make([]string, 0, len(variants))
	sizes := make([]string, 0, len(variants))
	seenColor := make(map[string]bool)
	seenSize := make(map[string]bool)

	for _, v := range variants {
		if c := capitalize(v.ColorLabel); c != "" && !seenColor[c] {
			seenColor[c] = true
			colors = append(colors, c)
		}
		if s := capitalize(v.SizeLabel); s != "" && !seenSize[s] {
			seenSize[s] = true
			sizes = append(sizes, s)
		}
	}

	options := make([]ProductOption, 0, 2)
	if len(colors) > 0 {
		options = append(options, ProductOption{Name: OptionNameColor, Values: colors})
	}
	if len(sizes) > 0 {
		options = append(options, ProductOption{Name: OptionNameSize, Values: sizes})
	}
	if len(options) == 0 {
		return nil, errors.New("integration: variants carry neither color nor size")
	}

	specs := make([]VariantSpec, 0, len(variants))
	for _, v := range variants {
		price, err := SellingPrice(v.PriceBase, margin)
		if err != nil {
			return nil, fmt.Errorf("integration: pricing variant %d: %w", v.ID, err)
		}

		values := make([]OptionValue, 0, 2)
		if c := capitalize(v.ColorLabel); c != "" {
			values = append(values, OptionValue{OptionName: OptionNameColor, Value: c})
		}
		if s := capitalize(v.SizeLabel); s != "" {
			values = append(values, OptionValue{OptionName: OptionNameSize, Value: s})
		}

		specs = append(specs, VariantSpec{
			OptionValues:      values,
			Price:             price,
			SKU:               buildSKU(templateID, catalogProductID, v.ColorLabel, v.SizeLabel),
			ProviderVariantID: v.ID,
		})
	}

	return &DerivedProduct{Options: options, Specs: specs}, nil
}

// buildSKU joins template ID, catalog product ID, color and size with
// underscores, lowercased. Blank color or size falls back to "default".
func buildSKU(templateID, catalogProductID int64, color, size string) string {
	c := strings.TrimSpace(color)
	if c == "" {
		c = "default"
	}
	s := strings.TrimSpace(size)
	if s == "" {
		s = "default"
	}
	sku := fmt.Sprintf("%d_%d_%s_%s", templateID, catalogProductID, c, s)
	return strings.ToLower(strings.ReplaceAll(sku, " ", "_"))
}

// capitalize trims the label and uppercases the first letter of each word
func capitalize(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return ""
	}
	words := strings.Fields(label)
	for i, w := range words {
		runes := []rune(w)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
