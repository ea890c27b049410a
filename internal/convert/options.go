package convert

import (
	"github.com/badno/shopconv/internal/output"
	"github.com/badno/shopconv/internal/output/file"
	"github.com/badno/shopconv/internal/platform"
	"github.com/badno/shopconv/pkg/models"
	"go.uber.org/zap"
)

// Inventory policies for "Continue selling when out of stock"
const (
	PolicyDeny     = "deny"
	PolicyContinue = "continue"
)

// DefaultSEODescriptionLength matches Shopify's meta description limit
const DefaultSEODescriptionLength = 320

// Options configures a Converter
type Options struct {
	// Platform forces a strategy; empty or unknown means detect
	Platform models.Platform
	// FallbackPlatform is used when detection finds nothing
	FallbackPlatform models.Platform
	// ImageRows emits one extra row per additional product image
	ImageRows bool
	// DefaultVendor fills Vendor when the export has none
	DefaultVendor string
	// InventoryPolicy is PolicyDeny or PolicyContinue
	InventoryPolicy string
	// SEODescriptionLength caps the SEO description, in runes
	SEODescriptionLength int

	Strategies *platform.Registry
	Writers    *output.Registry
	Logger     *zap.Logger

	// Progress is called after each product group is built
	Progress func(done, total int)
}

// DefaultOptions returns options with sensible defaults
func DefaultOptions() Options {
	return Options{
		FallbackPlatform:     models.PlatformWooCommerce,
		ImageRows:            true,
		InventoryPolicy:      PolicyDeny,
		SEODescriptionLength: DefaultSEODescriptionLength,
	}
}

// withDefaults fills zero values
func (o Options) withDefaults() Options {
	if o.FallbackPlatform == "" || o.FallbackPlatform == models.PlatformUnknown {
		o.FallbackPlatform = models.PlatformWooCommerce
	}
	if o.InventoryPolicy != PolicyContinue {
		o.InventoryPolicy = PolicyDeny
	}
	if o.SEODescriptionLength <= 0 {
		o.SEODescriptionLength = DefaultSEODescriptionLength
	}
	if o.Strategies == nil {
		o.Strategies = platform.DefaultRegistry
	}
	if o.Writers == nil {
		o.Writers = file.NewRegistry(true)
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return o
}
