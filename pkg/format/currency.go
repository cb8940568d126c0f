// Package format renders monetary amounts, counts and percentages for display.
package format

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Currency symbols used by the proposal.
const (
	USD = "$"
	EUR = "€"
)

var printer = message.NewPrinter(language.English)

// Currency returns a currency string with a symbol and thousands separators (e.g., "-$1,234.56").
func Currency(symbol string, amount decimal.Decimal) string {
	formatted := NumericCurrency(amount.Abs())
	if amount.Round(2).IsNegative() {
		return "-" + symbol + formatted
	}
	return symbol + formatted
}

// NumericCurrency returns a currency string without a currency symbol but with separators (e.g., "-1,234.56").
// The amount is rounded exactly; it never passes through a float.
func NumericCurrency(amount decimal.Decimal) string {
	rounded := amount.Round(2)
	whole, cents, _ := strings.Cut(rounded.Abs().StringFixed(2), ".")
	sign := ""
	if rounded.IsNegative() {
		sign = "-"
	}
	return sign + groupDigits(whole) + "." + cents
}

// groupDigits adds thousands separators to a run of digits. Values beyond
// int64 are returned ungrouped.
func groupDigits(digits string) string {
	n, err := decimal.NewFromString(digits)
	if err != nil || !n.Equal(decimal.NewFromInt(n.IntPart())) {
		return digits
	}
	return printer.Sprintf("%d", n.IntPart())
}

// Count truncates toward zero and renders the integer part with separators (e.g., "15,000").
func Count(value decimal.Decimal) string {
	return printer.Sprintf("%d", value.Truncate(0).IntPart())
}

// Percent renders a percentage with up to one decimal place (e.g., "12.5%", "50%").
func Percent(value decimal.Decimal) string {
	return value.Round(1).String() + "%"
}
