// Package billing holds the invoice draft model and the arithmetic shared by
// the live preview and invoice submission.
package billing

import (
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// LineResult is the computed value of one priced draft line.
type LineResult struct {
	Index    int
	Product  ProductSnapshot
	Quantity decimal.Decimal
	Total    decimal.Decimal
	Tax      decimal.Decimal
}

// Totals is the outcome of Calculate. Amounts keep full precision; rounding
// happens only when formatting.
type Totals struct {
	Lines    []LineResult
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Discount decimal.Decimal
	Total    decimal.Decimal
}

// Item is a submitted invoice line derived from a LineResult.
type Item struct {
	ProductID   int64
	ProductName string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	TaxRate     decimal.Decimal
	Total       decimal.Decimal
}

// LineAmounts returns price*qty and the tax on it.
func LineAmounts(unitPrice, taxRate, quantity decimal.Decimal) (total, tax decimal.Decimal) {
	total = unitPrice.Mul(quantity)
	tax = total.Mul(taxRate).Div(hundred)
	return total, tax
}

// Calculate prices the lines and applies the discount. Lines without a
// product contribute nothing. The total has no floor and may go negative.
func Calculate(lines []Line, discount decimal.Decimal) Totals {
	out := Totals{
		Subtotal: decimal.Zero,
		Tax:      decimal.Zero,
		Discount: discount,
	}
	for i, line := range lines {
		if line.Product == nil {
			continue
		}
		qty := decimal.NewFromInt(int64(line.Quantity))
		total, tax := LineAmounts(line.Product.UnitPrice, line.Product.TaxRate, qty)
		out.Lines = append(out.Lines, LineResult{
			Index:    i,
			Product:  *line.Product,
			Quantity: qty,
			Total:    total,
			Tax:      tax,
		})
		out.Subtotal = out.Subtotal.Add(total)
		out.Tax = out.Tax.Add(tax)
	}
	out.Total = out.Subtotal.Add(out.Tax).Sub(discount)
	return out
}

// Items lists the priced lines in submission form.
func (t Totals) Items() []Item {
	items := make([]Item, 0, len(t.Lines))
	for _, line := range t.Lines {
		items = append(items, Item{
			ProductID:   line.Product.ProductID,
			ProductName: line.Product.Name,
			Quantity:    line.Quantity,
			UnitPrice:   line.Product.UnitPrice,
			TaxRate:     line.Product.TaxRate,
			Total:       line.Total,
		})
	}
	return items
}

// Line returns the result for the draft line at index i, if it was priced.
func (t Totals) Line(i int) (LineResult, bool) {
	for _, line := range t.Lines {
		if line.Index == i {
			return line, true
		}
	}
	return LineResult{}, false
}
