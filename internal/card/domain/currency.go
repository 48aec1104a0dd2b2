package domain

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// currencyPrinter renders amounts with the zh-CN grouping convention,
// matching the product's CNY display.
var currencyPrinter = message.NewPrinter(language.SimplifiedChinese)

// FormatCurrency renders an integer amount of currency units with the
// locale's grouping and the CNY symbol, zero fractional digits.
func FormatCurrency(amount int64) string {
	return currencyPrinter.Sprintf("¥%v", number.Decimal(amount, number.MaxFractionDigits(0)))
}
