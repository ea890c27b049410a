// Package mapping resolves the headers of a platform export onto the
// canonical product fields and discovers its attribute columns.
package mapping

import (
	"regexp"
	"strings"

	"github.com/badno/shopconv/pkg/models"
)

// Candidates lists, per canonical field, the header names to try in order
type Candidates map[models.Field][]string

// DefaultCandidates covers English and Italian WooCommerce style exports
var DefaultCandidates = Candidates{
	models.FieldID:          {"ID", "Id", "id", "post_id", "product_id"},
	models.FieldParent:      {"Parent", "Genitore", "post_parent", "parent_id"},
	models.FieldTitle:       {"Name", "Nome", "post_title", "title"},
	models.FieldPrice:       {"Regular price", "Prezzo di listino", "Prezzo", "Price", "regular_price"},
	models.FieldSalePrice:   {"Sale price", "Prezzo in offerta", "Prezzo scontato", "sale_price"},
	models.FieldSKU:         {"SKU", "sku", "Codice"},
	models.FieldStock:       {"Stock", "Stock quantity", "Quantity", "quantity", "Magazzino", "Quantità"},
	models.FieldImages:      {"Images", "Immagini", "Gallery", "Image", "Product image"},
	models.FieldDescription: {"Description", "Descrizione", "post_content"},
	models.FieldWeight:      {"Weight", "Peso", "Weight (kg)", "Peso (kg)", "weight", "weight_kg", "weight_g"},
	models.FieldType:        {"Type", "Tipo", "post_type"},
	models.FieldTags:        {"Tags", "Tag", "Etichette"},
	models.FieldVendor:      {"Brands", "Brand", "Marca", "Vendor", "Produttore", "Manufacturer"},
	models.FieldBarcode:     {"GTIN, UPC, EAN, or ISBN", "GTIN, UPC, EAN o ISBN", "EAN", "Barcode", "GTIN", "UPC", "ean13"},
	models.FieldCategory:    {"Categories", "Categorie", "Category", "Categoria", "product_cat"},
	models.FieldPublished:   {"Published", "Pubblicato", "post_status", "Visible"},
}

// With returns a copy of c where extra's names are tried first
func (c Candidates) With(extra Candidates) Candidates {
	out := make(Candidates, len(c))
	for f, names := range c {
		out[f] = append([]string(nil), names...)
	}
	for f, names := range extra {
		out[f] = append(append([]string(nil), names...), out[f]...)
	}
	return out
}

// FieldMap is the resolved canonical field -> source header mapping.
// Fields with no matching header are absent.
type FieldMap map[models.Field]string

// Header returns the source header mapped to f
func (m FieldMap) Header(f models.Field) (string, bool) {
	h, ok := m[f]
	return h, ok
}

// Value reads field f from rec. An unmapped field or missing cell
// reads as "".
func (m FieldMap) Value(rec models.Record, f models.Field) string {
	h, ok := m.Header(f)
	if !ok {
		return ""
	}
	return rec.Get(h)
}

// Missing lists the canonical fields no header matched, in models.Fields
// order
func (m FieldMap) Missing() []models.Field {
	var missing []models.Field
	for _, f := range models.Fields {
		if _, ok := m[f]; !ok {
			missing = append(missing, f)
		}
	}
	return missing
}

var headerUnit = regexp.MustCompile(`(?i)(?:\(\s*|[_ ])(kg|g|lbs?|oz)\s*\)?$`)

// Unit returns the measurement unit named at the end of the header
// mapped to f, as in "Weight (kg)" or "weight_g", lowercased. It is ""
// when the header names none.
func (m FieldMap) Unit(f models.Field) string {
	h, ok := m.Header(f)
	if !ok {
		return ""
	}
	if u := headerUnit.FindStringSubmatch(strings.TrimSpace(h)); u != nil {
		return strings.ToLower(u[1])
	}
	return ""
}

// DetectCommonColumns maps each canonical field to the first candidate
// header present in headers, compared case-insensitively
func DetectCommonColumns(headers []string, candidates Candidates) FieldMap {
	lower := make(map[string]string, len(headers))
	for _, h := range headers {
		key := strings.ToLower(strings.TrimSpace(h))
		if _, exists := lower[key]; !exists {
			lower[key] = h
		}
	}

	m := make(FieldMap)
	for _, f := range models.Fields {
		for _, cand := range candidates[f] {
			if h, ok := lower[strings.ToLower(cand)]; ok {
				m[f] = h
				break
			}
		}
	}
	return m
}
