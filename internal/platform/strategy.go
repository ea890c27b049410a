// Package platform detects which e-commerce platform produced an export
// and supplies the conversion strategy for it.
package platform

import (
	"strings"

	"github.com/badno/shopconv/internal/mapping"
	"github.com/badno/shopconv/pkg/models"
)

// Strategy describes how one platform lays out its product export
type Strategy interface {
	// Platform returns the tag this strategy handles
	Platform() models.Platform

	// Matches reports whether a header set looks like this platform's export
	Matches(headers []string) bool

	// Candidates returns the header candidates for canonical fields
	Candidates() mapping.Candidates

	// AttributeRules returns the attribute discovery rules, in order
	AttributeRules() []mapping.AttributeRule

	// RowKind tags a source row from the value of its type column
	RowKind(typeValue string) models.RowKind
}

// BaseStrategy carries the data every platform strategy shares
type BaseStrategy struct {
	platform       models.Platform
	candidates     mapping.Candidates
	attributeRules []mapping.AttributeRule
	variantTypes   []string
}

// NewBaseStrategy layers platform specific candidates and rules over the
// defaults
func NewBaseStrategy(p models.Platform, extra mapping.Candidates, rules []mapping.AttributeRule, variantTypes []string) *BaseStrategy {
	all := make([]mapping.AttributeRule, 0, len(rules)+len(mapping.DefaultAttributeRules))
	all = append(all, rules...)
	all = append(all, mapping.DefaultAttributeRules...)

	return &BaseStrategy{
		platform:       p,
		candidates:     mapping.DefaultCandidates.With(extra),
		attributeRules: all,
		variantTypes:   variantTypes,
	}
}

func (b *BaseStrategy) Platform() models.Platform {
	return b.platform
}

func (b *BaseStrategy) Candidates() mapping.Candidates {
	return b.candidates
}

func (b *BaseStrategy) AttributeRules() []mapping.AttributeRule {
	return b.attributeRules
}

// RowKind tags a row by the value of its type column
func (b *BaseStrategy) RowKind(typeValue string) models.RowKind {
	v := strings.TrimSpace(typeValue)
	for _, t := range b.variantTypes {
		if strings.EqualFold(v, t) {
			return models.VariantRow
		}
	}
	return models.MasterRow
}

// countMatching counts headers containing any of the indicator terms
func countMatching(headers []string, indicators []string) int {
	n := 0
	for _, h := range headers {
		hl := strings.ToLower(strings.TrimSpace(h))
		for _, ind := range indicators {
			if strings.Contains(hl, ind) {
				n++
				break
			}
		}
	}
	return n
}
