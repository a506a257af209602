package apiclient

import (
	"context"
	"net/http"
)

type invoicesResponse struct {
	Invoices []Invoice `json:"invoices"`
}

type invoiceResponse struct {
	Invoice Invoice       `json:"invoice"`
	Items   []InvoiceItem `json:"items"`
}

// InvoiceDetail is an invoice together with its stored lines.
type InvoiceDetail struct {
	Invoice Invoice
	Items   []InvoiceItem
}

// ListInvoices returns the invoices issued by one branch.
func (c *Client) ListInvoices(ctx context.Context, branchID int64) ([]Invoice, error) {
	var resp invoicesResponse
	path := idPath("/invoices", branchID)
	if err := c.do(ctx, "invoices.list", http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Invoices, nil
}

// CreateInvoice posts a new invoice with its items embedded.
func (c *Client) CreateInvoice(ctx context.Context, in InvoiceInput) error {
	return c.do(ctx, "invoices.create", http.MethodPost, "/invoices", in, nil)
}

// GetInvoice fetches one invoice and its items.
func (c *Client) GetInvoice(ctx context.Context, id int64) (InvoiceDetail, error) {
	var resp invoiceResponse
	if err := c.do(ctx, "invoices.get", http.MethodGet, idPath("/invoice", id), nil, &resp); err != nil {
		return InvoiceDetail{}, err
	}
	return InvoiceDetail{Invoice: resp.Invoice, Items: resp.Items}, nil
}
