package apiclient

// Credentials is the login request body.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Registration is the register request body.
type Registration struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Password string `json:"password"`
}

// OrganizationInput is the create/update body for organizations.
type OrganizationInput struct {
	UserID  int64  `json:"user_id"`
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	TaxID   string `json:"tax_id"`
}

// BranchTypeInput is the create/update body for branch types.
type BranchTypeInput struct {
	OrganizationID int64  `json:"organization_id"`
	Name           string `json:"name"`
	Description    string `json:"description"`
}

// BranchInput is the create/update body for branches. A nil BranchTypeID is
// sent as JSON null.
type BranchInput struct {
	OrganizationID int64  `json:"organization_id"`
	BranchTypeID   *int64 `json:"branch_type_id"`
	Name           string `json:"name"`
	Address        string `json:"address"`
	Phone          string `json:"phone"`
	Email          string `json:"email"`
	BillColor      string `json:"bill_color"`
	BillFont       string `json:"bill_font"`
	BillIcon       string `json:"bill_icon"`
}

// ProductInput is the create/update body for products.
type ProductInput struct {
	BranchID      int64   `json:"branch_id"`
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	Price         float64 `json:"price"`
	TaxRate       float64 `json:"tax_rate"`
	StockQuantity int64   `json:"stock_quantity"`
	Unit          string  `json:"unit"`
}

// InvoiceItemInput is one submitted invoice line.
type InvoiceItemInput struct {
	ProductID   int64   `json:"product_id"`
	ProductName string  `json:"product_name"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	TaxRate     float64 `json:"tax_rate"`
	Total       float64 `json:"total"`
}

// InvoiceInput is the create body for invoices, items embedded.
type InvoiceInput struct {
	BranchID        int64              `json:"branch_id"`
	InvoiceNumber   string             `json:"invoice_number"`
	CustomerName    string             `json:"customer_name"`
	CustomerEmail   string             `json:"customer_email"`
	CustomerPhone   string             `json:"customer_phone"`
	CustomerAddress string             `json:"customer_address"`
	Items           []InvoiceItemInput `json:"items"`
	Subtotal        float64            `json:"subtotal"`
	TaxAmount       float64            `json:"tax_amount"`
	Discount        float64            `json:"discount"`
	TotalAmount     float64            `json:"total_amount"`
	Notes           string             `json:"notes"`
}
