package products

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/branchdesk/branchdesk/internal/apiclient"
	"github.com/branchdesk/branchdesk/internal/masterdata/shared"
)

func parseForm(r *http.Request) Form {
	return Form{
		BranchID:      shared.FormID(r, "branch_id"),
		Name:          r.PostFormValue("name"),
		Description:   r.PostFormValue("description"),
		Price:         strings.TrimSpace(r.PostFormValue("price")),
		TaxRate:       strings.TrimSpace(r.PostFormValue("tax_rate")),
		StockQuantity: strings.TrimSpace(r.PostFormValue("stock_quantity")),
		Unit:          strings.TrimSpace(r.PostFormValue("unit")),
	}
}

// validate checks the form and converts it into the request body. Blank tax
// and stock fall back to 0, a blank unit to the default unit.
func validate(f Form) (apiclient.ProductInput, map[string]string) {
	errs := shared.Validate(f)
	in := apiclient.ProductInput{
		BranchID:    f.BranchID,
		Name:        f.Name,
		Description: f.Description,
		Unit:        f.Unit,
	}
	if in.Unit == "" {
		in.Unit = shared.DefaultUnit
	}

	if f.Price != "" {
		price, err := decimal.NewFromString(f.Price)
		if err != nil || price.IsNegative() {
			errs["Price"] = "Enter a price of 0 or more"
		} else {
			in.Price = price.InexactFloat64()
		}
	}
	if f.TaxRate != "" {
		rate, err := decimal.NewFromString(f.TaxRate)
		if err != nil || rate.IsNegative() {
			errs["TaxRate"] = "Enter a tax rate of 0 or more"
		} else {
			in.TaxRate = rate.InexactFloat64()
		}
	}
	if f.StockQuantity != "" {
		stock, err := strconv.ParseInt(f.StockQuantity, 10, 64)
		if err != nil {
			errs["StockQuantity"] = "Enter a whole number"
		} else {
			in.StockQuantity = stock
		}
	}
	return in, errs
}
