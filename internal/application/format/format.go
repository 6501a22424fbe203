// Package format renders money and counts for pages, JSON messages and the CLI.
package format

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// CurrencySymbol prefixes every amount.
const CurrencySymbol = "₱"

var printer = message.NewPrinter(language.English)

// Peso formats an amount with two decimals and thousands separators.
func Peso(amount float64) string {
	return CurrencySymbol + printer.Sprintf("%.2f", amount)
}

// Count formats an integer with thousands separators.
func Count(n int) string {
	return printer.Sprintf("%d", n)
}

// Percent formats part as a whole-number percentage of total. A zero total yields "0%".
func Percent(part, total int) string {
	if total == 0 {
		return "0%"
	}
	return printer.Sprintf("%d%%", part*100/total)
}
