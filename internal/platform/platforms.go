package platform

import (
	"regexp"

	"github.com/badno/shopconv/internal/mapping"
	"github.com/badno/shopconv/pkg/models"
)

// WixStrategy handles Wix store product exports. Product and variant
// rows share a handleId and are told apart by fieldType.
type WixStrategy struct {
	*BaseStrategy
}

// NewWixStrategy creates the Wix strategy
func NewWixStrategy() *WixStrategy {
	return &WixStrategy{
		BaseStrategy: NewBaseStrategy(
			models.PlatformWix,
			mapping.Candidates{
				models.FieldID:        {"handleId"},
				models.FieldType:      {"fieldType"},
				models.FieldImages:    {"productImageUrl", "media"},
				models.FieldStock:     {"inventory"},
				models.FieldVendor:    {"brand"},
				models.FieldCategory:  {"collection"},
				models.FieldPublished: {"visible"},
			},
			[]mapping.AttributeRule{
				{Pattern: regexp.MustCompile(`productoptionname(\d+)`), Kind: mapping.RuleName},
				{Pattern: regexp.MustCompile(`productoptiondescription(\d+)`), Kind: mapping.RuleValue},
			},
			[]string{"variant", "variation"},
		),
	}
}

// Matches is satisfied by any header mentioning media, or by two of the
// Wix specific column names
func (s *WixStrategy) Matches(headers []string) bool {
	if countMatching(headers, []string{"media"}) > 0 {
		return true
	}
	return countMatching(headers, []string{"handleid", "fieldtype", "productimageurl", "productoptionname"}) >= 2
}

// WooCommerceStrategy handles the WooCommerce product CSV exporter,
// where variations are rows of type "variation" pointing at a parent
type WooCommerceStrategy struct {
	*BaseStrategy
}

// NewWooCommerceStrategy creates the WooCommerce strategy
func NewWooCommerceStrategy() *WooCommerceStrategy {
	return &WooCommerceStrategy{
		BaseStrategy: NewBaseStrategy(models.PlatformWooCommerce, nil, nil, []string{"variation"}),
	}
}

var wooIndicators = []string{"type", "regular price", "attribute 1", "images"}

// Matches needs at least two WooCommerce indicator headers
func (s *WooCommerceStrategy) Matches(headers []string) bool {
	return countMatching(headers, wooIndicators) >= 2
}

// PrestaShopStrategy handles PrestaShop catalog exports
type PrestaShopStrategy struct {
	*BaseStrategy
}

// NewPrestaShopStrategy creates the PrestaShop strategy
func NewPrestaShopStrategy() *PrestaShopStrategy {
	return &PrestaShopStrategy{
		BaseStrategy: NewBaseStrategy(
			models.PlatformPrestaShop,
			mapping.Candidates{
				models.FieldID:          {"id_product", "Product ID", "ID"},
				models.FieldTitle:       {"Name *", "name"},
				models.FieldSKU:         {"reference", "Reference #"},
				models.FieldPrice:       {"price", "Price tax excluded", "Price tax included"},
				models.FieldStock:       {"quantity"},
				models.FieldImages:      {"Image URLs (x,y,z...)", "image"},
				models.FieldBarcode:     {"ean13", "EAN13", "upc"},
				models.FieldVendor:      {"manufacturer", "Manufacturer"},
				models.FieldCategory:    {"Categories (x,y,z...)", "category"},
				models.FieldDescription: {"description"},
				models.FieldPublished:   {"active", "Active (0/1)"},
			},
			nil,
			[]string{"combination"},
		),
	}
}

var prestaIndicators = []string{"id_product", "reference", "categories"}

// Matches needs at least two PrestaShop indicator headers
func (s *PrestaShopStrategy) Matches(headers []string) bool {
	return countMatching(headers, prestaIndicators) >= 2
}
