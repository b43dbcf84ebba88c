package finance

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var frenchPrinter = message.NewPrinter(language.French)

// FormatAmount renders an amount with French digit grouping, e.g.
// 1234567.5 -> "1 234 567,50 F".
func FormatAmount(amount float64) string {
	return frenchPrinter.Sprintf("%.2f F", amount)
}
