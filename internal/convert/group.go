package convert

import (
	"strconv"
	"strings"

	"github.com/badno/shopconv/pkg/models"
	"go.uber.org/zap"
)

// sourceRow is a table row tagged with its position and kind
type sourceRow struct {
	index  int
	record models.Record
	kind   models.RowKind
}

// group is every source row belonging to one product
type group struct {
	id   string
	rows []sourceRow
}

// master returns the row supplying product level fields: the first
// master-kind row, or the first row when the group only has variants
func (g *group) master() sourceRow {
	for _, row := range g.rows {
		if row.kind == models.MasterRow {
			return row
		}
	}
	return g.rows[0]
}

// variantRows returns the explicit variant rows in source order
func (g *group) variantRows() []sourceRow {
	var out []sourceRow
	for _, row := range g.rows {
		if row.kind == models.VariantRow {
			out = append(out, row)
		}
	}
	return out
}

// groupRows assigns every row to exactly one group, in order of first
// appearance. Rows without an identifier are keyed by their position
// unless their parent cell points at another row.
func (r *conversion) groupRows() []*group {
	idHeader, hasID := r.fields.Header(models.FieldID)

	keys := make([]string, len(r.table.Rows))
	known := make(map[string]bool)
	bySKU := make(map[string]string)
	for i, rec := range r.table.Rows {
		id := ""
		if hasID {
			id = rec.Get(idHeader)
		}
		if id != "" {
			keys[i] = "id:" + id
			known[id] = true
		} else {
			keys[i] = "row:" + strconv.Itoa(i+1)
		}
		if sku := r.fields.Value(rec, models.FieldSKU); sku != "" {
			if _, exists := bySKU[sku]; !exists {
				bySKU[sku] = keys[i]
			}
		}
	}

	var groups []*group
	byKey := make(map[string]*group)

	for i, rec := range r.table.Rows {
		key := keys[i]
		if parent := r.resolveParent(rec, known, bySKU); parent != "" {
			key = parent
		}

		kind := r.strategy.RowKind(r.fields.Value(rec, models.FieldType))
		g, exists := byKey[key]
		if !exists {
			_, id, _ := strings.Cut(key, ":")
			g = &group{id: id}
			byKey[key] = g
			groups = append(groups, g)
		}
		g.rows = append(g.rows, sourceRow{
			index:  i,
			record: rec,
			kind:   kind,
		})
		r.log.Debug("row grouped", zap.Int("row", i+1), zap.String("group", key), zap.Stringer("kind", kind))
	}

	return groups
}

// resolveParent follows a WooCommerce style parent reference, either
// "id:<N>" or the parent's SKU, to the group key of the parent row
func (r *conversion) resolveParent(rec models.Record, known map[string]bool, bySKU map[string]string) string {
	ref := r.fields.Value(rec, models.FieldParent)
	if ref == "" {
		return ""
	}

	if strings.HasPrefix(strings.ToLower(ref), "id:") {
		ref = strings.TrimSpace(ref[3:])
	}
	if known[ref] {
		return "id:" + ref
	}
	if key, ok := bySKU[ref]; ok {
		return key
	}
	return ""
}
