package display

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// Thousands groups n with commas.
func Thousands(n int64) string {
	return printer.Sprintf("%d", n)
}

// Price formats d as dollars with grouped thousands and two decimals.
func Price(d decimal.Decimal) string {
	fixed := d.Abs().StringFixed(2)
	whole, frac, _ := strings.Cut(fixed, ".")

	n := decimal.RequireFromString(whole).IntPart()
	sign := ""
	if d.IsNegative() {
		sign = "-"
	}
	return sign + "$" + Thousands(n) + "." + frac
}
