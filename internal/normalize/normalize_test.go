package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"punctuation and parentheses", "Men's T-Shirt (Blue)!", "mens-t-shirt-blue"},
		{"diacritics stripped", "Caffè Crème Brûlée", "caffe-creme-brulee"},
		{"whitespace runs collapse", "  Tazza   da  tè  ", "tazza-da-te"},
		{"hyphen runs collapse", "a -- b", "a-b"},
		{"no leading or trailing hyphen", "--Sale--", "sale"},
		{"empty", "", ""},
		{"only symbols", "!!!", ""},
		{"non latin dropped", "Чай Tea", "tea"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.input))
		})
	}
}

func TestStripHTML(t *testing.T) {
	t.Run("Tags removed and entities decoded", func(t *testing.T) {
		assert.Equal(t, "Soft & warm cotton", StripHTML("<p>Soft &amp; <b>warm</b> cotton</p>"))
	})

	t.Run("Block tags separate words", func(t *testing.T) {
		assert.Equal(t, "One Two", StripHTML("<p>One</p><p>Two</p>"))
		assert.Equal(t, "Line one Line two", StripHTML("Line one<br/>Line two"))
	})

	t.Run("Script and style dropped", func(t *testing.T) {
		assert.Equal(t, "Visible", StripHTML("<style>p{}</style><script>alert(1)</script>Visible"))
	})

	t.Run("Plain text only collapses spaces", func(t *testing.T) {
		assert.Equal(t, "plain text", StripHTML("  plain\n\ttext "))
	})
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "caffè", Truncate("caffè latte", 5))
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "", Truncate("anything", 0))
}

func TestCleanPrice(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"€ 19,99", "19.99"},
		{"abc", ""},
		{"", ""},
		{"19.99", "19.99"},
		{"10", "10.00"},
		{"$1,299.00", "1299.00"},
		{"1.234,56 €", "1234.56"},
		{"1.234.567", "1234567.00"},
		{"-5", ""},
		{"12-", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanPrice(tt.input))
		})
	}
}

func TestCleanWeight(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"1.5 kg", "1500"},
		{"500g", "500"},
		{"0.75", "750"},
		{"1,2", "1200"},
		{"250", "250"},
		{"12 kg", "12000"},
		{"2 lb", "907"},
		{"abc", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanWeight(tt.input))
		})
	}
}

func TestCleanWeightIn(t *testing.T) {
	tests := []struct {
		input string
		unit  string
		want  string
	}{
		{"12", "kg", "12000"},
		{"12", "KG", "12000"},
		{"0.5", "kg", "500"},
		{"300 g", "kg", "300"},
		{"2", "lb", "907"},
		{"250", "g", "250"},
		{"12", "", "12"},
		{"", "kg", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input+" "+tt.unit, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanWeightIn(tt.input, tt.unit))
		})
	}
}

func TestCleanQuantity(t *testing.T) {
	assert.Equal(t, "12", CleanQuantity("12"))
	assert.Equal(t, "3", CleanQuantity(" 3.0 "))
	assert.Equal(t, "-2", CleanQuantity("-2"))
	assert.Equal(t, "", CleanQuantity("InStock"))
	assert.Equal(t, "", CleanQuantity(""))
}

func TestParseBool(t *testing.T) {
	v, ok := ParseBool("1")
	assert.True(t, ok)
	assert.True(t, v)

	v, ok = ParseBool("-1")
	assert.True(t, ok)
	assert.False(t, v)

	_, ok = ParseBool("maybe")
	assert.False(t, ok)
}
