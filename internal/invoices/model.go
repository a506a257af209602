package invoices

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/branchdesk/branchdesk/internal/apiclient"
	"github.com/branchdesk/branchdesk/internal/billing"
	"github.com/branchdesk/branchdesk/internal/masterdata/shared"
)

// Placeholders used by the viewer when the owning branch or organization is
// not in the cache.
const (
	UnknownBranch       = "Branch"
	UnknownOrganization = "Organization"
	defaultBillColor    = "#000"
	defaultBillFont     = "Arial"
)

// Row is one line of the invoice table.
type Row struct {
	ID         int64
	Number     string
	BranchName string
	Customer   string
	Total      decimal.Decimal
	CreatedAt  time.Time
}

// ListPage backs the invoice list; nothing loads until a branch is picked.
type ListPage struct {
	Branches []shared.Option
	BranchID int64
	Selected bool
	Rows     []Row
	Error    string
}

// ProductOption is one entry of a line's product selector. Price and tax
// travel as data attributes for the live preview.
type ProductOption struct {
	Value    int64
	Label    string
	Price    string
	TaxRate  string
	Selected bool
}

// BuilderRow is one draft line as rendered.
type BuilderRow struct {
	Index    int
	Options  []ProductOption
	Quantity int
	Total    string
	Tax      string
}

// Summary is the formatted totals block.
type Summary struct {
	Subtotal string
	Tax      string
	Discount string
	Total    string
}

// BuilderPage backs the invoice builder. Draft is nil until a branch is
// chosen.
type BuilderPage struct {
	Branches   []shared.Option
	BranchID   int64
	BranchName string
	Draft      *billing.Draft
	Rows       []BuilderRow
	Summary    Summary
	Error      string
	Errors     map[string]string
}

// PreviewLine is the priced value of one draft line.
type PreviewLine struct {
	Index int    `json:"index"`
	Total string `json:"total"`
	Tax   string `json:"tax"`
}

// Preview is the live preview payload.
type Preview struct {
	Lines    []PreviewLine `json:"lines"`
	Subtotal string        `json:"subtotal"`
	Tax      string        `json:"tax"`
	Discount string        `json:"discount"`
	Total    string        `json:"total"`
}

// Document is a stored invoice dressed with its branch template.
type Document struct {
	Invoice          apiclient.Invoice
	Items            []apiclient.InvoiceItem
	OrganizationName string
	BranchName       string
	BranchAddress    string
	BranchPhone      string
	BillColor        string
	BillFont         string
	BillIcon         string
}

// ViewPage backs the on-screen viewer.
type ViewPage struct {
	Document Document
}

type customerForm struct {
	Name string `validate:"required"`
}

func summaryOf(t billing.Totals) Summary {
	return Summary{
		Subtotal: billing.FormatMoney(t.Subtotal),
		Tax:      billing.FormatMoney(t.Tax),
		Discount: billing.FormatMoney(t.Discount),
		Total:    billing.FormatMoney(t.Total),
	}
}

// previewOf reports every draft line, blank ones at $0.00.
func previewOf(d *billing.Draft, t billing.Totals) Preview {
	p := Preview{Lines: make([]PreviewLine, 0, len(d.Lines))}
	for i := range d.Lines {
		line := PreviewLine{Index: i, Total: billing.FormatMoney(decimal.Zero), Tax: billing.FormatMoney(decimal.Zero)}
		if res, ok := t.Line(i); ok {
			line.Total = billing.FormatMoney(res.Total)
			line.Tax = billing.FormatMoney(res.Tax)
		}
		p.Lines = append(p.Lines, line)
	}
	s := summaryOf(t)
	p.Subtotal, p.Tax, p.Discount, p.Total = s.Subtotal, s.Tax, s.Discount, s.Total
	return p
}

func rowsOf(invoices []apiclient.Invoice, branches []apiclient.Branch) []Row {
	names := make(map[int64]string, len(branches))
	for _, b := range branches {
		names[b.ID] = b.Name
	}
	rows := make([]Row, 0, len(invoices))
	for _, inv := range invoices {
		rows = append(rows, Row{
			ID:         inv.ID,
			Number:     inv.InvoiceNumber,
			BranchName: names[inv.BranchID],
			Customer:   inv.CustomerName,
			Total:      inv.TotalAmount,
			CreatedAt:  inv.CreatedAt.Time,
		})
	}
	return rows
}
