package shared

// Form defaults applied when a create form opens.
const (
	DefaultBillColor = "#000000"
	DefaultBillFont  = "Arial"
	DefaultUnit      = "pcs"
)

// Fallback notices shown when the API rejects a save without a message.
const (
	OrganizationSaveFailed = "Error saving organization"
	BranchTypeSaveFailed   = "Error saving branch type"
	BranchSaveFailed       = "Error saving branch"
	ProductSaveFailed      = "Error saving product"
	ProductDeleteFailed    = "Error deleting product"
	LoadFailed             = "Error loading data"
)

// BillFonts lists the fonts offered for invoice templates.
var BillFonts = []string{"Arial", "Helvetica", "Times New Roman", "Georgia", "Courier New", "Verdana"}
