package invoices

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/branchdesk/branchdesk/internal/apiclient"
	"github.com/branchdesk/branchdesk/internal/billing"
	"github.com/branchdesk/branchdesk/internal/masterdata/shared"
)

func snapshotOf(p apiclient.Product) *billing.ProductSnapshot {
	return &billing.ProductSnapshot{
		ProductID: p.ID,
		Name:      p.Name,
		UnitPrice: p.Price,
		TaxRate:   p.TaxRate,
	}
}

// applyForm copies the posted builder fields onto d. Rows are matched by
// position: product_id and quantity are repeated once per draft line. A
// product missing from catalog keeps its snapshot if it was already on the
// line and is cleared otherwise.
func applyForm(d *billing.Draft, form url.Values, catalog []apiclient.Product) {
	if number := strings.TrimSpace(form.Get("invoice_number")); number != "" {
		d.InvoiceNumber = number
	}
	d.Customer = billing.Customer{
		Name:    strings.TrimSpace(form.Get("customer_name")),
		Email:   strings.TrimSpace(form.Get("customer_email")),
		Phone:   strings.TrimSpace(form.Get("customer_phone")),
		Address: strings.TrimSpace(form.Get("customer_address")),
	}
	d.Notes = form.Get("notes")
	d.SetDiscount(parseDiscount(form.Get("discount")))

	byID := make(map[int64]apiclient.Product, len(catalog))
	for _, p := range catalog {
		byID[p.ID] = p
	}
	ids := form["product_id"]
	qtys := form["quantity"]
	for i := range d.Lines {
		if i < len(ids) {
			id, err := shared.ParseID(ids[i])
			switch {
			case err != nil:
				_ = d.SetProduct(i, nil)
			case hasProduct(byID, id):
				_ = d.SetProduct(i, snapshotOf(byID[id]))
			default:
				if cur := d.Lines[i].Product; cur == nil || cur.ProductID != id {
					_ = d.SetProduct(i, nil)
				}
			}
		}
		if i < len(qtys) {
			qty, err := strconv.Atoi(strings.TrimSpace(qtys[i]))
			if err != nil {
				qty = 1
			}
			_ = d.SetQuantity(i, qty)
		}
	}
}

func hasProduct(byID map[int64]apiclient.Product, id int64) bool {
	_, ok := byID[id]
	return ok
}

// parseDiscount treats blank or malformed input as zero.
func parseDiscount(raw string) decimal.Decimal {
	v, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero
	}
	return v
}

// builderRows renders each draft line with its own product selector.
func builderRows(d *billing.Draft, t billing.Totals, catalog []apiclient.Product) []BuilderRow {
	rows := make([]BuilderRow, 0, len(d.Lines))
	for i, line := range d.Lines {
		row := BuilderRow{
			Index:    i,
			Quantity: line.Quantity,
			Total:    billing.FormatMoney(decimal.Zero),
			Tax:      billing.FormatMoney(decimal.Zero),
		}
		var selected int64
		if line.Product != nil {
			selected = line.Product.ProductID
		}
		found := false
		for _, p := range catalog {
			opt := ProductOption{
				Value:    p.ID,
				Label:    p.Name + " - " + billing.FormatMoney(p.Price),
				Price:    p.Price.String(),
				TaxRate:  p.TaxRate.String(),
				Selected: p.ID == selected,
			}
			found = found || opt.Selected
			row.Options = append(row.Options, opt)
		}
		// A snapshot whose product left the catalog still renders selected.
		if line.Product != nil && !found {
			row.Options = append(row.Options, ProductOption{
				Value:    line.Product.ProductID,
				Label:    line.Product.Name + " - " + billing.FormatMoney(line.Product.UnitPrice),
				Price:    line.Product.UnitPrice.String(),
				TaxRate:  line.Product.TaxRate.String(),
				Selected: true,
			})
		}
		if res, ok := t.Line(i); ok {
			row.Total = billing.FormatMoney(res.Total)
			row.Tax = billing.FormatMoney(res.Tax)
		}
		rows = append(rows, row)
	}
	return rows
}

// Submission builds the create request from the same Totals the preview
// shows.
func Submission(d *billing.Draft, t billing.Totals) apiclient.InvoiceInput {
	items := t.Items()
	in := apiclient.InvoiceInput{
		BranchID:        d.BranchID,
		InvoiceNumber:   d.InvoiceNumber,
		CustomerName:    d.Customer.Name,
		CustomerEmail:   d.Customer.Email,
		CustomerPhone:   d.Customer.Phone,
		CustomerAddress: d.Customer.Address,
		Items:           make([]apiclient.InvoiceItemInput, 0, len(items)),
		Subtotal:        t.Subtotal.InexactFloat64(),
		TaxAmount:       t.Tax.InexactFloat64(),
		Discount:        t.Discount.InexactFloat64(),
		TotalAmount:     t.Total.InexactFloat64(),
		Notes:           d.Notes,
	}
	for _, item := range items {
		in.Items = append(in.Items, apiclient.InvoiceItemInput{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity.InexactFloat64(),
			UnitPrice:   item.UnitPrice.InexactFloat64(),
			TaxRate:     item.TaxRate.InexactFloat64(),
			Total:       item.Total.InexactFloat64(),
		})
	}
	return in
}
