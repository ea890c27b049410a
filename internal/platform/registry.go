package platform

import (
	"fmt"
	"sync"

	"github.com/badno/shopconv/pkg/models"
)

// Registry holds strategies in detection priority order
type Registry struct {
	strategies []Strategy
	byPlatform map[models.Platform]Strategy
	mu         sync.RWMutex
}

// NewRegistry creates an empty strategy registry
func NewRegistry() *Registry {
	return &Registry{
		byPlatform: make(map[models.Platform]Strategy),
	}
}

// Register appends a strategy; earlier registrations win detection ties
func (r *Registry) Register(s Strategy) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p := s.Platform()
	if _, exists := r.byPlatform[p]; exists {
		return fmt.Errorf("strategy already registered: %s", p)
	}

	r.strategies = append(r.strategies, s)
	r.byPlatform[p] = s
	return nil
}

// Get retrieves the strategy for a platform
func (r *Registry) Get(p models.Platform) (Strategy, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, exists := r.byPlatform[p]
	if !exists {
		return nil, fmt.Errorf("strategy not found: %s", p)
	}
	return s, nil
}

// List returns strategies in priority order
func (r *Registry) List() []Strategy {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Strategy, len(r.strategies))
	copy(out, r.strategies)
	return out
}

// Detect returns the platform of the first strategy whose rule the
// headers satisfy, or PlatformUnknown
func (r *Registry) Detect(headers []string) models.Platform {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, s := range r.strategies {
		if s.Matches(headers) {
			return s.Platform()
		}
	}
	return models.PlatformUnknown
}

// DefaultRegistry has the built-in platforms in priority order:
// wix, woocommerce, prestashop
var DefaultRegistry = func() *Registry {
	r := NewRegistry()
	for _, s := range []Strategy{NewWixStrategy(), NewWooCommerceStrategy(), NewPrestaShopStrategy()} {
		if err := r.Register(s); err != nil {
			panic(err)
		}
	}
	return r
}()

// Detect uses the default registry
func Detect(headers []string) models.Platform {
	return DefaultRegistry.Detect(headers)
}

// Get retrieves a strategy from the default registry
func Get(p models.Platform) (Strategy, error) {
	return DefaultRegistry.Get(p)
}
