package apiclient

import "github.com/shopspring/decimal"

// User is the account returned by the login endpoint.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	FullName string `json:"full_name"`
}

// Organization is the top-level tenant owning branches and branch types.
type Organization struct {
	ID      int64  `json:"id"`
	UserID  int64  `json:"user_id,omitempty"`
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	TaxID   string `json:"tax_id"`
}

// BranchType is an organization-scoped label assignable to branches.
type BranchType struct {
	ID             int64  `json:"id"`
	OrganizationID int64  `json:"organization_id"`
	Name           string `json:"name"`
	Description    string `json:"description"`
}

// Branch carries the invoice template styling used by the viewer.
type Branch struct {
	ID             int64  `json:"id"`
	OrganizationID int64  `json:"organization_id"`
	BranchTypeID   *int64 `json:"branch_type_id"`
	BranchTypeName string `json:"branch_type_name,omitempty"`
	Name           string `json:"name"`
	Address        string `json:"address"`
	Phone          string `json:"phone"`
	Email          string `json:"email"`
	BillColor      string `json:"bill_color"`
	BillFont       string `json:"bill_font"`
	BillIcon       string `json:"bill_icon"`
}

// Product is a sellable item scoped to a branch.
type Product struct {
	ID            int64           `json:"id"`
	BranchID      int64           `json:"branch_id"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
	TaxRate       decimal.Decimal `json:"tax_rate"`
	StockQuantity int64           `json:"stock_quantity"`
	Unit          string          `json:"unit"`
}

// Invoice is a billing document issued by a branch.
type Invoice struct {
	ID              int64           `json:"id"`
	BranchID        int64           `json:"branch_id"`
	InvoiceNumber   string          `json:"invoice_number"`
	CustomerName    string          `json:"customer_name"`
	CustomerEmail   string          `json:"customer_email"`
	CustomerPhone   string          `json:"customer_phone"`
	CustomerAddress string          `json:"customer_address"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	TaxAmount       decimal.Decimal `json:"tax_amount"`
	Discount        decimal.Decimal `json:"discount"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	Notes           string          `json:"notes"`
	CreatedAt       Timestamp       `json:"created_at"`
}

// InvoiceItem is a stored invoice line with its product snapshot.
type InvoiceItem struct {
	ID          int64           `json:"id,omitempty"`
	InvoiceID   int64           `json:"invoice_id,omitempty"`
	ProductID   int64           `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TaxRate     decimal.Decimal `json:"tax_rate"`
	Total       decimal.Decimal `json:"total"`
}

// DashboardStats holds the four headline counters.
type DashboardStats struct {
	TotalBranches int64           `json:"totalBranches"`
	TotalProducts int64           `json:"totalProducts"`
	TotalInvoices int64           `json:"totalInvoices"`
	TotalSales    decimal.Decimal `json:"totalSales"`
}

// BranchSales is one entry of the per-branch sales breakdown.
type BranchSales struct {
	Name  string          `json:"name"`
	Total decimal.Decimal `json:"total"`
}

// RecentInvoice is a dashboard row summarising a recent invoice.
type RecentInvoice struct {
	ID            int64           `json:"id"`
	InvoiceNumber string          `json:"invoice_number"`
	BranchName    string          `json:"branch_name"`
	CustomerName  string          `json:"customer_name"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	CreatedAt     Timestamp       `json:"created_at"`
}

// DashboardSummary is the aggregate returned for one organization.
type DashboardSummary struct {
	Stats          DashboardStats  `json:"stats"`
	SalesByBranch  []BranchSales   `json:"salesByBranch"`
	RecentInvoices []RecentInvoice `json:"recentInvoices"`
}
