// Package normalize holds the pure text cleanup helpers used while
// converting catalog rows: handles, HTML stripping and number cleanup.
package normalize

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/net/html"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	slugInvalid    = regexp.MustCompile(`[^\w\s-]`)
	slugSeparators = regexp.MustCompile(`[-\s]+`)
)

// Slugify turns a product title into a URL handle.
// "Men's T-Shirt (Blue)!" becomes "mens-t-shirt-blue".
func Slugify(value string) string {
	if strings.TrimSpace(value) == "" {
		return ""
	}

	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, value)
	if err != nil {
		folded = value
	}

	// Anything that did not decompose to ASCII is dropped
	folded = strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII {
			return -1
		}
		return r
	}, folded)

	folded = slugInvalid.ReplaceAllString(folded, "")
	folded = strings.ToLower(strings.TrimSpace(folded))
	folded = slugSeparators.ReplaceAllString(folded, "-")
	return strings.Trim(folded, "-")
}

// blockTags get a space in place of the tag so words do not run together
var blockTags = map[string]bool{
	"p": true, "div": true, "br": true, "li": true, "ul": true, "ol": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"tr": true, "td": true, "th": true, "table": true, "section": true, "hr": true,
}

// StripHTML returns the visible text of an HTML fragment with whitespace
// collapsed. Script and style bodies are dropped.
func StripHTML(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return collapseSpaces(s)
	}

	z := html.NewTokenizer(strings.NewReader(s))
	var b strings.Builder
	skip := 0
	for {
		switch z.Next() {
		case html.ErrorToken:
			return collapseSpaces(b.String())
		case html.TextToken:
			if skip == 0 {
				b.Write(z.Text())
			}
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			tag := string(name)
			if tag == "script" || tag == "style" {
				skip++
			}
			if blockTags[tag] {
				b.WriteByte(' ')
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			tag := string(name)
			if (tag == "script" || tag == "style") && skip > 0 {
				skip--
			}
			if blockTags[tag] {
				b.WriteByte(' ')
			}
		}
	}
}

// Truncate cuts s to at most n runes
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return strings.TrimSpace(string(r[:n]))
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// ParseBool reads the many ways exports spell a yes/no flag.
// ok is false when the value is empty or not recognised.
func ParseBool(raw string) (value bool, ok bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "yes", "y", "si", "sì", "visible", "published", "publish", "active":
		return true, true
	case "0", "-1", "false", "no", "n", "hidden", "draft", "private", "inactive":
		return false, true
	}
	return false, false
}
