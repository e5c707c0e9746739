package charts

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// FormatCurrency renders an amount as "$ 1,234.56".
func FormatCurrency(v float64) string {
	return printer.Sprintf("$ %.2f", v)
}

// FormatPercentage renders a 0-100 value with one decimal, e.g. "62.0 %".
func FormatPercentage(v float64) string {
	return printer.Sprintf("%.1f %%", v)
}

// FormatCount renders an integer with thousands separators.
func FormatCount(n int) string {
	return printer.Sprintf("%d", n)
}
