package platform

import (
	"testing"

	"github.com/badno/shopconv/internal/mapping"
	"github.com/badno/shopconv/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name    string
		headers []string
		want    models.Platform
	}{
		{"media header means wix", []string{"Title", "Media URL"}, models.PlatformWix},
		{"wix native export", []string{"handleId", "fieldType", "name", "productImageUrl"}, models.PlatformWix},
		{"woocommerce two indicators", []string{"Type", "Regular price", "Name"}, models.PlatformWooCommerce},
		{"woocommerce attribute columns", []string{"Name", "Attribute 1 name", "Attribute 1 value(s)"}, models.PlatformWooCommerce},
		{"woocommerce case-insensitive", []string{"TYPE", "IMAGES"}, models.PlatformWooCommerce},
		{"one indicator is not enough", []string{"Type", "Name"}, models.PlatformUnknown},
		{"prestashop", []string{"id_product", "Reference", "Name"}, models.PlatformPrestaShop},
		{"nothing recognisable", []string{"foo", "bar"}, models.PlatformUnknown},
		{"no headers", nil, models.PlatformUnknown},
		{"wix wins over woocommerce", []string{"Type", "Regular price", "media"}, models.PlatformWix},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Detect(tt.headers))
		})
	}
}

func TestRegistry(t *testing.T) {
	t.Run("Priority order", func(t *testing.T) {
		var got []models.Platform
		for _, s := range DefaultRegistry.List() {
			got = append(got, s.Platform())
		}
		assert.Equal(t, []models.Platform{models.PlatformWix, models.PlatformWooCommerce, models.PlatformPrestaShop}, got)
	})

	t.Run("Duplicate registration rejected", func(t *testing.T) {
		r := NewRegistry()
		require.NoError(t, r.Register(NewWixStrategy()))
		assert.Error(t, r.Register(NewWixStrategy()))
	})

	t.Run("Unknown platform has no strategy", func(t *testing.T) {
		_, err := Get(models.PlatformUnknown)
		assert.Error(t, err)
	})
}

func TestStrategies(t *testing.T) {
	t.Run("WooCommerce variation rows", func(t *testing.T) {
		s := NewWooCommerceStrategy()
		assert.Equal(t, models.VariantRow, s.RowKind("Variation"))
		assert.Equal(t, models.MasterRow, s.RowKind("variable"))
		assert.Equal(t, models.MasterRow, s.RowKind(""))
	})

	t.Run("Wix maps its own column names", func(t *testing.T) {
		s := NewWixStrategy()
		headers := []string{"handleId", "fieldType", "name", "productImageUrl", "inventory",
			"productOptionName1", "productOptionDescription1"}

		fields := mapping.DetectCommonColumns(headers, s.Candidates())
		assert.Equal(t, "handleId", fields[models.FieldID])
		assert.Equal(t, "fieldType", fields[models.FieldType])
		assert.Equal(t, "productImageUrl", fields[models.FieldImages])
		assert.Equal(t, "inventory", fields[models.FieldStock])

		names, values := mapping.FindAttributeColumns(headers, s.AttributeRules())
		assert.Equal(t, mapping.AttrMap{"1": "productOptionName1"}, names)
		assert.Equal(t, mapping.AttrMap{"1": "productOptionDescription1"}, values)
		assert.Equal(t, models.VariantRow, s.RowKind("Variant"))
	})

	t.Run("PrestaShop identifiers", func(t *testing.T) {
		s := NewPrestaShopStrategy()
		fields := mapping.DetectCommonColumns([]string{"id_product", "reference", "Name *"}, s.Candidates())

		assert.Equal(t, "id_product", fields[models.FieldID])
		assert.Equal(t, "reference", fields[models.FieldSKU])
		assert.Equal(t, "Name *", fields[models.FieldTitle])
	})
}
