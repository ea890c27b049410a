package models

// Shopify product import columns, in the order the importer expects them
const (
	ColTitle               = "Title"
	ColHandle              = "URL handle"
	ColDescription         = "Description"
	ColVendor              = "Vendor"
	ColProductCategory     = "Product category"
	ColType                = "Type"
	ColTags                = "Tags"
	ColPublished           = "Published on online store"
	ColStatus              = "Status"
	ColSKU                 = "SKU"
	ColBarcode             = "Barcode"
	ColOption1Name         = "Option1 name"
	ColOption1Value        = "Option1 value"
	ColOption2Name         = "Option2 name"
	ColOption2Value        = "Option2 value"
	ColOption3Name         = "Option3 name"
	ColOption3Value        = "Option3 value"
	ColPrice               = "Price"
	ColCompareAtPrice      = "Compare-at price"
	ColCostPerItem         = "Cost per item"
	ColChargeTax           = "Charge tax"
	ColTaxCode             = "Tax code"
	ColUnitTotalMeasure    = "Unit price total measure"
	ColUnitTotalUnit       = "Unit price total measure unit"
	ColUnitBaseMeasure     = "Unit price base measure"
	ColUnitBaseUnit        = "Unit price base measure unit"
	ColInventoryTracker    = "Inventory tracker"
	ColInventoryQuantity   = "Inventory quantity"
	ColContinueSelling     = "Continue selling when out of stock"
	ColWeightGrams         = "Weight value (grams)"
	ColWeightUnit          = "Weight unit for display"
	ColRequiresShipping    = "Requires shipping"
	ColFulfillmentService  = "Fulfillment service"
	ColProductImage        = "Product image URL"
	ColImagePosition       = "Image position"
	ColImageAlt            = "Image alt text"
	ColVariantImage        = "Variant image URL"
	ColGiftCard            = "Gift card"
	ColSEOTitle            = "SEO title"
	ColSEODescription      = "SEO description"
	ColGoogleCategory      = "Google Shopping / Google product category"
	ColGoogleGender        = "Google Shopping / Gender"
	ColGoogleAgeGroup      = "Google Shopping / Age group"
	ColGoogleMPN           = "Google Shopping / MPN"
	ColGoogleAdWordsGroup  = "Google Shopping / AdWords Grouping"
	ColGoogleAdWordsLabels = "Google Shopping / AdWords labels"
	ColGoogleCondition     = "Google Shopping / Condition"
	ColGoogleCustomProduct = "Google Shopping / Custom product"
	ColGoogleCustomLabel0  = "Google Shopping / Custom label 0"
	ColGoogleCustomLabel1  = "Google Shopping / Custom label 1"
	ColGoogleCustomLabel2  = "Google Shopping / Custom label 2"
	ColGoogleCustomLabel3  = "Google Shopping / Custom label 3"
	ColGoogleCustomLabel4  = "Google Shopping / Custom label 4"
)

// ShopifyColumns is the fixed header row of every converted file
var ShopifyColumns = []string{
	ColTitle, ColHandle, ColDescription, ColVendor, ColProductCategory, ColType, ColTags,
	ColPublished, ColStatus, ColSKU, ColBarcode, ColOption1Name, ColOption1Value,
	ColOption2Name, ColOption2Value, ColOption3Name, ColOption3Value, ColPrice, ColCompareAtPrice,
	ColCostPerItem, ColChargeTax, ColTaxCode, ColUnitTotalMeasure, ColUnitTotalUnit,
	ColUnitBaseMeasure, ColUnitBaseUnit, ColInventoryTracker, ColInventoryQuantity,
	ColContinueSelling, ColWeightGrams, ColWeightUnit, ColRequiresShipping,
	ColFulfillmentService, ColProductImage, ColImagePosition, ColImageAlt, ColVariantImage, ColGiftCard,
	ColSEOTitle, ColSEODescription, ColGoogleCategory, ColGoogleGender,
	ColGoogleAgeGroup, ColGoogleMPN, ColGoogleAdWordsGroup,
	ColGoogleAdWordsLabels, ColGoogleCondition, ColGoogleCustomProduct,
	ColGoogleCustomLabel0, ColGoogleCustomLabel1, ColGoogleCustomLabel2,
	ColGoogleCustomLabel3, ColGoogleCustomLabel4,
}

// MaxOptions is the number of option slots the import format has
const MaxOptions = 3

// OptionNameColumns and OptionValueColumns are indexed by slot
var (
	OptionNameColumns  = [MaxOptions]string{ColOption1Name, ColOption2Name, ColOption3Name}
	OptionValueColumns = [MaxOptions]string{ColOption1Value, ColOption2Value, ColOption3Value}
)

var shopifyColumnIndex = func() map[string]int {
	idx := make(map[string]int, len(ShopifyColumns))
	for i, c := range ShopifyColumns {
		idx[c] = i
	}
	return idx
}()

// Row is one destination line. Every column is always present.
type Row struct {
	values []string
}

// NewRow returns a row with every column set to ""
func NewRow() *Row {
	return &Row{values: make([]string, len(ShopifyColumns))}
}

// Set assigns a column; unknown columns are ignored
func (r *Row) Set(column, value string) {
	if i, ok := shopifyColumnIndex[column]; ok {
		r.values[i] = value
	}
}

// Get returns the value of a column, "" if unknown
func (r *Row) Get(column string) string {
	if i, ok := shopifyColumnIndex[column]; ok {
		return r.values[i]
	}
	return ""
}

// Values returns the row in ShopifyColumns order
func (r *Row) Values() []string {
	out := make([]string, len(r.values))
	copy(out, r.values)
	return out
}

// Map returns the row as column -> value
func (r *Row) Map() map[string]string {
	m := make(map[string]string, len(ShopifyColumns))
	for i, c := range ShopifyColumns {
		m[c] = r.values[i]
	}
	return m
}
