package normalize

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	priceJunk   = regexp.MustCompile(`[^0-9,.\-]`)
	weightValue = regexp.MustCompile(`([0-9]+(?:[.,][0-9]+)?)\s*([a-z]*)`)
)

var (
	gramsPerKilo  = decimal.NewFromInt(1000)
	gramsPerPound = decimal.RequireFromString("453.59237")
	gramsPerOunce = decimal.RequireFromString("28.349523125")
	kiloThreshold = decimal.NewFromInt(10)
)

// CleanPrice converts a free-form price cell into a plain two decimal
// amount. "€ 19,99" becomes "19.99". Anything that does not parse as a
// non-negative number becomes "".
func CleanPrice(raw string) string {
	s := priceJunk.ReplaceAllString(raw, "")
	if !strings.ContainsAny(s, "0123456789") {
		return ""
	}

	d, err := decimal.NewFromString(normalizeDecimal(s))
	if err != nil || d.IsNegative() {
		return ""
	}
	return d.StringFixed(2)
}

// CleanWeight converts a weight cell into whole grams.
// Kilograms are always scaled; unitless and gram values below 10 are
// taken to be kilograms as well. Unparsable input becomes "".
func CleanWeight(raw string) string {
	return CleanWeightIn(raw, "")
}

// CleanWeightIn is CleanWeight for a column whose header names a unit,
// such as "Weight (kg)". The unit applies to cells that carry none.
func CleanWeightIn(raw, unit string) string {
	m := weightValue.FindStringSubmatch(strings.ToLower(raw))
	if m == nil {
		return ""
	}

	d, err := decimal.NewFromString(strings.Replace(m[1], ",", ".", 1))
	if err != nil {
		return ""
	}

	if m[2] == "" {
		m[2] = strings.ToLower(unit)
	}

	var grams decimal.Decimal
	switch m[2] {
	case "kg", "kgs", "kilo", "kilos", "kilogram", "kilograms", "chilogrammi":
		grams = d.Mul(gramsPerKilo)
	case "lb", "lbs", "pound", "pounds":
		grams = d.Mul(gramsPerPound)
	case "oz", "ounce", "ounces":
		grams = d.Mul(gramsPerOunce)
	default:
		grams = d
		if d.LessThan(kiloThreshold) {
			grams = d.Mul(gramsPerKilo)
		}
	}
	return grams.Round(0).String()
}

// CleanQuantity keeps whole-number stock counts; "InStock" and other
// text become "".
func CleanQuantity(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	d, err := decimal.NewFromString(strings.Replace(s, ",", ".", 1))
	if err != nil {
		return ""
	}
	return d.Truncate(0).String()
}

// normalizeDecimal rewrites European and US grouping into a plain
// dot-decimal string
func normalizeDecimal(s string) string {
	lastComma := strings.LastIndex(s, ",")
	lastDot := strings.LastIndex(s, ".")

	switch {
	case lastComma >= 0 && lastDot >= 0:
		if lastComma > lastDot {
			// 1.234,56
			s = strings.ReplaceAll(s, ".", "")
			return strings.Replace(s, ",", ".", 1)
		}
		// 1,234.56
		return strings.ReplaceAll(s, ",", "")
	case lastComma >= 0:
		if strings.Count(s, ",") == 1 {
			return strings.Replace(s, ",", ".", 1)
		}
		return strings.ReplaceAll(s, ",", "")
	case strings.Count(s, ".") > 1:
		return strings.ReplaceAll(s, ".", "")
	}
	return s
}
