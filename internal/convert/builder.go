package convert

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/badno/shopconv/internal/mapping"
	"github.com/badno/shopconv/internal/normalize"
	"github.com/badno/shopconv/internal/parser"
	"github.com/badno/shopconv/pkg/models"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// slugAttribute finds variation attribute columns the rules missed
var slugAttribute = regexp.MustCompile(`(?i)attribute_`)

// optionSlot is one Option<N> column pair for a product
type optionSlot struct {
	key  string
	name string
}

// product holds the product level values of one group
type product struct {
	id          string
	handle      string
	title       string
	description string
	vendor      string
	category    string
	tags        string
	published   bool
	images      []string
	master      models.Record
}

// buildRows turns one product group into destination rows: one per
// variant, then one per additional product image
func (r *conversion) buildRows(g *group) []*models.Row {
	master := g.master()
	p := r.product(g, master.record)

	var (
		variants []models.Variant
		slots    []optionSlot
	)
	if explicit := g.variantRows(); len(explicit) > 0 {
		slots = r.capSlots(p, r.explicitSlots(master.record, explicit))
		variants = r.explicitVariants(p, slots, explicit)
	} else {
		var lists [][]string
		slots, lists = r.listSlots(p, master.record)
		variants = r.combinationVariants(p, slots, lists)
	}

	names := optionNames(slots, variants)

	rows := make([]*models.Row, 0, len(variants)+len(p.images))
	for i, v := range variants {
		rows = append(rows, r.variantRow(p, v, names, i == 0))
	}
	r.result.Variants += len(variants)

	if r.opts.ImageRows {
		imageRows := r.imageRows(p, variants[0].FirstImage())
		rows = append(rows, imageRows...)
		r.result.ImageRows += len(imageRows)
	}

	return rows
}

func (r *conversion) product(g *group, master models.Record) *product {
	p := &product{
		id:          g.id,
		title:       r.fields.Value(master, models.FieldTitle),
		description: r.fields.Value(master, models.FieldDescription),
		vendor:      r.fields.Value(master, models.FieldVendor),
		category:    parser.PrimaryCategory(r.fields.Value(master, models.FieldCategory)),
		tags:        parser.JoinTags(r.fields.Value(master, models.FieldTags)),
		published:   true,
		images:      parser.SplitImages(r.fields.Value(master, models.FieldImages)),
		master:      master,
	}
	if p.vendor == "" {
		p.vendor = r.opts.DefaultVendor
	}
	if v, ok := normalize.ParseBool(r.fields.Value(master, models.FieldPublished)); ok {
		p.published = v
	}

	handle := normalize.Slugify(p.title)
	if handle == "" {
		suffix := normalize.Slugify(g.id)
		if suffix == "" {
			suffix = strconv.Itoa(len(r.handles) + 1)
		}
		handle = "product-" + suffix
	}
	p.handle = r.uniqueHandle(handle)
	return p
}

// uniqueHandle suffixes -2, -3, ... to handles already used in this file
func (r *conversion) uniqueHandle(handle string) string {
	n, used := r.handles[handle]
	if !used {
		r.handles[handle] = 1
		return handle
	}
	for {
		n++
		candidate := handle + "-" + strconv.Itoa(n)
		if _, taken := r.handles[candidate]; !taken {
			r.handles[handle] = n
			r.handles[candidate] = 1
			return candidate
		}
	}
}

// explicitSlots keeps the attributes that the master names or any
// variant row fills in. The name comes from the master, else from the
// first variant that carries one.
func (r *conversion) explicitSlots(master models.Record, variants []sourceRow) []optionSlot {
	var slots []optionSlot
	for _, key := range mapping.AttributeKeys(r.names, r.values) {
		name := master.Get(r.names[key])
		used := name != ""
		for _, v := range variants {
			if name == "" {
				name = v.record.Get(r.names[key])
			}
			if v.record.Get(r.values[key]) != "" {
				used = true
			}
		}
		if used {
			slots = append(slots, optionSlot{key: key, name: name})
		}
	}
	return slots
}

// listSlots reads the attribute value lists of the master row; only
// attributes with at least one value take part
func (r *conversion) listSlots(p *product, master models.Record) ([]optionSlot, [][]string) {
	var (
		slots []optionSlot
		lists [][]string
	)
	for _, key := range mapping.AttributeKeys(r.names, r.values) {
		values := parser.ParseAttributeValues(master.Get(r.values[key]))
		if len(values) == 0 {
			continue
		}
		slots = append(slots, optionSlot{key: key, name: master.Get(r.names[key])})
		lists = append(lists, values)
	}

	if len(slots) > models.MaxOptions {
		r.warnDroppedOptions(p, len(slots))
		slots, lists = slots[:models.MaxOptions], lists[:models.MaxOptions]
	}
	return slots, lists
}

func (r *conversion) capSlots(p *product, slots []optionSlot) []optionSlot {
	if len(slots) <= models.MaxOptions {
		return slots
	}
	r.warnDroppedOptions(p, len(slots))
	return slots[:models.MaxOptions]
}

func (r *conversion) warnDroppedOptions(p *product, n int) {
	r.warn(fmt.Sprintf("product %s has %d options, only the first %d are kept", p.handle, n, models.MaxOptions),
		zap.String("handle", p.handle), zap.Int("options", n))
}

// explicitVariants builds one variant per explicit variant row. Empty
// cells inherit the master's value.
func (r *conversion) explicitVariants(p *product, slots []optionSlot, rows []sourceRow) []models.Variant {
	variants := make([]models.Variant, 0, len(rows))
	for _, row := range rows {
		v := r.scalars(row.record, p.master)

		v.Images = parser.SplitImages(r.fields.Value(row.record, models.FieldImages))
		if len(v.Images) == 0 {
			v.Images = p.images
		}

		for _, s := range slots {
			v.Options = append(v.Options, row.record.Get(r.values[s.key]))
		}
		if len(slots) == 0 {
			v.Options = r.scanSlugOptions(row.record)
		}

		variants = append(variants, v)
	}
	return variants
}

// scanSlugOptions collects non-empty attribute_* cells in header order
func (r *conversion) scanSlugOptions(rec models.Record) []string {
	var options []string
	for _, h := range r.table.Headers {
		if !slugAttribute.MatchString(h) {
			continue
		}
		if v := rec.Get(h); v != "" {
			options = append(options, v)
		}
	}
	if len(options) > models.MaxOptions {
		options = options[:models.MaxOptions]
	}
	return options
}

// combinationVariants expands the attribute lists into their Cartesian
// product. With no lists the product is a single plain variant.
func (r *conversion) combinationVariants(p *product, slots []optionSlot, lists [][]string) []models.Variant {
	base := r.scalars(p.master, nil)
	base.Images = p.images

	if len(lists) == 0 {
		return []models.Variant{base}
	}

	combos := cartesian(lists)
	variants := make([]models.Variant, 0, len(combos))
	for _, combo := range combos {
		v := base
		v.Options = combo
		// One SKU cannot identify several combinations
		if len(combos) > 1 {
			v.SKU = ""
		}
		variants = append(variants, v)
	}
	return variants
}

// scalars reads the per-variant values of rec, falling back to master
// for every empty cell
func (r *conversion) scalars(rec, master models.Record) models.Variant {
	get := func(f models.Field) string {
		if v := r.fields.Value(rec, f); v != "" || master == nil {
			return v
		}
		return r.fields.Value(master, f)
	}

	regular, sale := get(models.FieldPrice), get(models.FieldSalePrice)
	price, compareAt := r.prices(regular, sale)

	stockRaw := get(models.FieldStock)
	stock := normalize.CleanQuantity(stockRaw)

	weightRaw := get(models.FieldWeight)
	weight := normalize.CleanWeightIn(weightRaw, r.fields.Unit(models.FieldWeight))
	r.noteDegraded(models.FieldWeight, weightRaw, weight)

	return models.Variant{
		SKU:            get(models.FieldSKU),
		Price:          price,
		CompareAtPrice: compareAt,
		Stock:          stock,
		Barcode:        get(models.FieldBarcode),
		Weight:         weight,
	}
}

// prices maps regular and sale price onto Shopify's price and
// compare-at price. A sale only counts when it undercuts the regular
// price.
func (r *conversion) prices(regularRaw, saleRaw string) (price, compareAt string) {
	regular := normalize.CleanPrice(regularRaw)
	sale := normalize.CleanPrice(saleRaw)
	r.noteDegraded(models.FieldPrice, regularRaw, regular)
	r.noteDegraded(models.FieldSalePrice, saleRaw, sale)

	switch {
	case sale == "":
		return regular, ""
	case regular == "":
		return sale, ""
	}

	if decimal.RequireFromString(sale).LessThan(decimal.RequireFromString(regular)) {
		return sale, regular
	}
	return regular, ""
}

// optionNames names each option column: the master's attribute name
// when it has one, otherwise Option<N>
func optionNames(slots []optionSlot, variants []models.Variant) []string {
	n := len(slots)
	for _, v := range variants {
		if len(v.Options) > n {
			n = len(v.Options)
		}
	}
	if n > models.MaxOptions {
		n = models.MaxOptions
	}

	names := make([]string, n)
	for i := range names {
		if i < len(slots) && slots[i].name != "" {
			names[i] = slots[i].name
		} else {
			names[i] = "Option" + strconv.Itoa(i+1)
		}
	}
	return names
}

func (r *conversion) variantRow(p *product, v models.Variant, names []string, first bool) *models.Row {
	row := models.NewRow()
	row.Set(models.ColHandle, p.handle)

	if first {
		row.Set(models.ColTitle, p.title)
		row.Set(models.ColDescription, p.description)
		row.Set(models.ColVendor, p.vendor)
		row.Set(models.ColType, p.category)
		row.Set(models.ColTags, p.tags)
		row.Set(models.ColGiftCard, "FALSE")
		row.Set(models.ColSEOTitle, p.title)
		row.Set(models.ColSEODescription, normalize.Truncate(normalize.StripHTML(p.description), r.opts.SEODescriptionLength))
		if p.published {
			row.Set(models.ColPublished, "TRUE")
			row.Set(models.ColStatus, "active")
		} else {
			row.Set(models.ColPublished, "FALSE")
			row.Set(models.ColStatus, "draft")
		}
		if img := v.FirstImage(); img != "" {
			row.Set(models.ColProductImage, img)
			row.Set(models.ColImagePosition, "1")
			row.Set(models.ColImageAlt, p.title)
		}
	}

	for i, name := range names {
		row.Set(models.OptionNameColumns[i], name)
		if i < len(v.Options) {
			row.Set(models.OptionValueColumns[i], v.Options[i])
		}
	}

	row.Set(models.ColSKU, v.SKU)
	row.Set(models.ColBarcode, v.Barcode)
	row.Set(models.ColPrice, v.Price)
	row.Set(models.ColCompareAtPrice, v.CompareAtPrice)
	row.Set(models.ColChargeTax, "TRUE")
	row.Set(models.ColInventoryQuantity, v.Stock)
	if v.Stock != "" {
		row.Set(models.ColInventoryTracker, "shopify")
	}
	row.Set(models.ColContinueSelling, r.opts.InventoryPolicy)
	if v.Weight != "" {
		row.Set(models.ColWeightGrams, v.Weight)
		row.Set(models.ColWeightUnit, "g")
	}
	row.Set(models.ColRequiresShipping, "TRUE")
	row.Set(models.ColFulfillmentService, "manual")
	row.Set(models.ColVariantImage, v.FirstImage())

	return row
}

// imageRows emits the product images not already shown on the first
// row, numbered from position 2
func (r *conversion) imageRows(p *product, shown string) []*models.Row {
	var rows []*models.Row
	position := 1
	if shown == "" {
		position = 0
	}
	for _, img := range p.images {
		if img == shown {
			continue
		}
		position++
		row := models.NewRow()
		row.Set(models.ColHandle, p.handle)
		row.Set(models.ColProductImage, img)
		row.Set(models.ColImagePosition, strconv.Itoa(position))
		row.Set(models.ColImageAlt, p.title)
		rows = append(rows, row)
	}
	return rows
}

// cartesian returns every combination taking one value from each list
func cartesian(lists [][]string) [][]string {
	combos := [][]string{{}}
	for _, list := range lists {
		next := make([][]string, 0, len(combos)*len(list))
		for _, prefix := range combos {
			for _, value := range list {
				combo := make([]string, len(prefix), len(prefix)+1)
				copy(combo, prefix)
				next = append(next, append(combo, value))
			}
		}
		combos = next
	}
	return combos
}
