package billing

import "github.com/shopspring/decimal"

// FormatMoney renders an amount as "$x.xx".
func FormatMoney(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

// FormatPercent renders a rate as "x.xx%".
func FormatPercent(d decimal.Decimal) string {
	return d.StringFixed(2) + "%"
}
