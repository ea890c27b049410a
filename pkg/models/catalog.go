package models

import "strings"

// Platform identifies the e-commerce platform that produced an export
type Platform string

const (
	PlatformWix         Platform = "wix"
	PlatformWooCommerce Platform = "woocommerce"
	PlatformPrestaShop  Platform = "prestashop"
	PlatformUnknown     Platform = "unknown"
)

// ParsePlatform converts a user supplied name into a Platform
func ParsePlatform(name string) (Platform, bool) {
	switch Platform(strings.ToLower(strings.TrimSpace(name))) {
	case PlatformWix:
		return PlatformWix, true
	case PlatformWooCommerce:
		return PlatformWooCommerce, true
	case PlatformPrestaShop:
		return PlatformPrestaShop, true
	case PlatformUnknown:
		return PlatformUnknown, true
	}
	return PlatformUnknown, false
}

// Field is a platform-independent semantic column name
type Field string

const (
	FieldID          Field = "id"
	FieldParent      Field = "parent"
	FieldTitle       Field = "title"
	FieldPrice       Field = "price"
	FieldSalePrice   Field = "sale_price"
	FieldSKU         Field = "sku"
	FieldStock       Field = "stock"
	FieldImages      Field = "images"
	FieldDescription Field = "description"
	FieldWeight      Field = "weight"
	FieldType        Field = "type"
	FieldTags        Field = "tags"
	FieldVendor      Field = "vendor"
	FieldBarcode     Field = "barcode"
	FieldCategory    Field = "category"
	FieldPublished   Field = "published"
)

// Fields lists every canonical field in mapping order
var Fields = []Field{
	FieldID, FieldParent, FieldTitle, FieldPrice, FieldSalePrice, FieldSKU,
	FieldStock, FieldImages, FieldDescription, FieldWeight, FieldType,
	FieldTags, FieldVendor, FieldBarcode, FieldCategory, FieldPublished,
}

// Record is one source row keyed by the header the exporter emitted
type Record map[string]string

// Lookup returns the cell under header and whether the header exists
func (r Record) Lookup(header string) (string, bool) {
	v, ok := r[header]
	return v, ok
}

// Get returns the trimmed cell under header, or "" when the header is
// empty or missing
func (r Record) Get(header string) string {
	if header == "" {
		return ""
	}
	v, ok := r.Lookup(header)
	if !ok {
		return ""
	}
	return strings.TrimSpace(v)
}

// Table is a fully loaded source file
type Table struct {
	Headers []string
	Rows    []Record
}

// RowKind tags a source row as product level or as an explicit variant
type RowKind int

const (
	MasterRow RowKind = iota
	VariantRow
)

func (k RowKind) String() string {
	if k == VariantRow {
		return "variant"
	}
	return "master"
}

// Variant is one purchasable combination built from a product group
type Variant struct {
	SKU            string
	Price          string
	CompareAtPrice string
	Stock          string
	Barcode        string
	Weight         string // grams
	Options        []string
	Images         []string
}

// FirstImage returns the representative image of the variant
func (v Variant) FirstImage() string {
	if len(v.Images) == 0 {
		return ""
	}
	return v.Images[0]
}
