package parser

import (
	"regexp"
	"strings"
)

var (
	listDelimiters     = regexp.MustCompile(`\s*[,|;]\s*`)
	categoryDelimiters = regexp.MustCompile(`\s*[>/]\s*`)
)

// SplitImages splits an image cell on commas, pipes or semicolons
func SplitImages(cell string) []string {
	return splitCell(cell, false)
}

// ParseAttributeValues splits an attribute cell such as "M | L | XL"
// into its values. Repeated values are kept once.
func ParseAttributeValues(cell string) []string {
	return splitCell(cell, true)
}

// JoinTags normalises a tag cell into Shopify's comma separated form
func JoinTags(cell string) string {
	return strings.Join(splitCell(cell, true), ", ")
}

// PrimaryCategory returns the deepest level of the first category path.
// "Clothing > Shirts, Sale" yields "Shirts".
func PrimaryCategory(cell string) string {
	paths := splitCell(cell, false)
	if len(paths) == 0 {
		return ""
	}
	levels := categoryDelimiters.Split(paths[0], -1)
	for i := len(levels) - 1; i >= 0; i-- {
		if l := strings.TrimSpace(levels[i]); l != "" {
			return l
		}
	}
	return ""
}

func splitCell(cell string, dedupe bool) []string {
	s := strings.TrimSpace(cell)
	if s == "" {
		return nil
	}

	parts := listDelimiters.Split(s, -1)
	out := make([]string, 0, len(parts))
	seen := make(map[string]bool, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if dedupe {
			if seen[p] {
				continue
			}
			seen[p] = true
		}
		out = append(out, p)
	}
	return out
}
