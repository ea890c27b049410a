package mapping

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// RuleKind says what a matching header is registered as
type RuleKind int

const (
	// RuleName registers an attribute name column under the captured index
	RuleName RuleKind = iota
	// RuleValue registers a value column, replacing an earlier one
	RuleValue
	// RuleValueIfUnset registers a value column only if the index has none
	RuleValueIfUnset
	// RuleSlug registers a value column keyed by the lowercased header
	RuleSlug
)

// AttributeRule matches a lowercased header. For name and value rules
// the first non-empty capture group is the attribute index.
type AttributeRule struct {
	Pattern *regexp.Regexp
	Kind    RuleKind
}

// DefaultAttributeRules are tried in order; the first match wins
var DefaultAttributeRules = []AttributeRule{
	{regexp.MustCompile(`attribute.*name.*?(\d+)`), RuleName},
	{regexp.MustCompile(`attribute\D*?(\d+).*name`), RuleName},
	{regexp.MustCompile(`nome.*attributo.*?(\d+)`), RuleName},
	{regexp.MustCompile(`attribute.*value.*?(\d+)`), RuleValue},
	{regexp.MustCompile(`attribute\D*?(\d+).*value`), RuleValue},
	{regexp.MustCompile(`valor.*attributo.*?(\d+)`), RuleValue},
	{regexp.MustCompile(`attribut[eo]\s?(\d+)`), RuleValueIfUnset},
	{regexp.MustCompile(`attribute_pa_|^attribute_.+`), RuleSlug},
}

// AttrMap maps an attribute key (numeric index or slug) to its header
type AttrMap map[string]string

// FindAttributeColumns scans headers for attribute name and value
// columns. Rules are applied per header in order and the first match
// wins.
func FindAttributeColumns(headers []string, rules []AttributeRule) (names, values AttrMap) {
	names = make(AttrMap)
	values = make(AttrMap)

	for _, h := range headers {
		cl := strings.ToLower(strings.TrimSpace(h))
		for _, rule := range rules {
			m := rule.Pattern.FindStringSubmatch(cl)
			if m == nil {
				continue
			}

			if rule.Kind == RuleSlug {
				values[cl] = h
				break
			}

			idx := captureIndex(m)
			if idx == "" {
				continue
			}
			switch rule.Kind {
			case RuleName:
				names[idx] = h
			case RuleValue:
				values[idx] = h
			case RuleValueIfUnset:
				if _, exists := values[idx]; !exists {
					values[idx] = h
				}
			}
			break
		}
	}

	return names, values
}

// AttributeKeys returns every key present in either map, ordered
func AttributeKeys(names, values AttrMap) []string {
	seen := make(map[string]bool, len(names)+len(values))
	var keys []string
	for _, m := range []AttrMap{names, values} {
		for k := range m {
			if !seen[k] {
				seen[k] = true
				keys = append(keys, k)
			}
		}
	}
	return SortKeys(keys)
}

// SortKeys orders numeric keys numerically, followed by slug keys in
// lexical order
func SortKeys(keys []string) []string {
	sort.SliceStable(keys, func(i, j int) bool {
		ni, errI := strconv.Atoi(keys[i])
		nj, errJ := strconv.Atoi(keys[j])
		switch {
		case errI == nil && errJ == nil:
			return ni < nj
		case errI == nil:
			return true
		case errJ == nil:
			return false
		}
		return keys[i] < keys[j]
	})
	return keys
}

// IsSlugKey reports whether key came from a slug style column
func IsSlugKey(key string) bool {
	_, err := strconv.Atoi(key)
	return err != nil
}

func captureIndex(m []string) string {
	for _, g := range m[1:] {
		if g == "" {
			continue
		}
		n, err := strconv.Atoi(g)
		if err != nil {
			return g
		}
		return strconv.Itoa(n)
	}
	return ""
}
