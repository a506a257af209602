package billing

import (
	"errors"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// ErrLineOutOfRange is returned when a line index does not exist.
var ErrLineOutOfRange = errors.New("billing: line index out of range")

// ProductSnapshot is the product data frozen onto a draft line when the
// product is chosen. Later product edits do not reach it.
type ProductSnapshot struct {
	ProductID int64           `json:"product_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	TaxRate   decimal.Decimal `json:"tax_rate"`
}

// Line is one row of the builder. A nil Product is a blank row.
type Line struct {
	Product  *ProductSnapshot `json:"product,omitempty"`
	Quantity int              `json:"quantity"`
}

// Customer is the bill-to block of a draft.
type Customer struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// Draft is an invoice under construction.
type Draft struct {
	BranchID      int64           `json:"branch_id"`
	InvoiceNumber string          `json:"invoice_number"`
	Customer      Customer        `json:"customer"`
	Notes         string          `json:"notes"`
	Discount      decimal.Decimal `json:"discount"`
	Lines         []Line          `json:"lines"`
}

// NewDraft opens a draft for branchID with a zero discount and exactly one
// blank line.
func NewDraft(branchID int64, number string) *Draft {
	return &Draft{
		BranchID:      branchID,
		InvoiceNumber: number,
		Discount:      decimal.Zero,
		Lines:         []Line{{Quantity: 1}},
	}
}

// InvoiceNumber derives a number from the clock. Two drafts opened in the
// same millisecond collide.
func InvoiceNumber(now time.Time) string {
	return "INV-" + strconv.FormatInt(now.UnixMilli(), 10)
}

// AddLine appends a blank line.
func (d *Draft) AddLine() {
	d.Lines = append(d.Lines, Line{Quantity: 1})
}

// RemoveLine deletes line i. Removing the last line leaves an empty draft.
func (d *Draft) RemoveLine(i int) error {
	if i < 0 || i >= len(d.Lines) {
		return ErrLineOutOfRange
	}
	d.Lines = append(d.Lines[:i], d.Lines[i+1:]...)
	return nil
}

// SetProduct places a copy of p on line i. The existing snapshot is kept
// when the same product is chosen again. A nil p clears the line.
func (d *Draft) SetProduct(i int, p *ProductSnapshot) error {
	if i < 0 || i >= len(d.Lines) {
		return ErrLineOutOfRange
	}
	if p == nil {
		d.Lines[i].Product = nil
		return nil
	}
	if cur := d.Lines[i].Product; cur != nil && cur.ProductID == p.ProductID {
		return nil
	}
	snap := *p
	d.Lines[i].Product = &snap
	return nil
}

// SetQuantity updates line i; quantities below 1 are raised to 1.
func (d *Draft) SetQuantity(i, qty int) error {
	if i < 0 || i >= len(d.Lines) {
		return ErrLineOutOfRange
	}
	if qty < 1 {
		qty = 1
	}
	d.Lines[i].Quantity = qty
	return nil
}

// SetDiscount replaces the discount.
func (d *Draft) SetDiscount(v decimal.Decimal) {
	d.Discount = v
}

// Totals prices the draft.
func (d *Draft) Totals() Totals {
	return Calculate(d.Lines, d.Discount)
}
