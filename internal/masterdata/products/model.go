package products

import (
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/branchdesk/branchdesk/internal/apiclient"
	"github.com/branchdesk/branchdesk/internal/masterdata/shared"
)

// Row is one line of the product table.
type Row struct {
	ID            int64
	Name          string
	Price         decimal.Decimal
	TaxRate       decimal.Decimal
	StockQuantity int64
	Unit          string
}

// ListPage backs the product list. Without a branch the table is not
// loaded at all.
type ListPage struct {
	Branches []shared.Option
	BranchID int64
	Selected bool
	Rows     []Row
	Error    string
}

// Form keeps the submitted text so a failed save re-renders it verbatim.
type Form struct {
	BranchID      int64  `validate:"required"`
	Name          string `validate:"required"`
	Description   string
	Price         string `validate:"required"`
	TaxRate       string
	StockQuantity string
	Unit          string
}

// FormPage backs the product form.
type FormPage struct {
	Modal    shared.Modal
	Form     Form
	Branches []shared.Option
}

// DeletePage backs the delete confirmation.
type DeletePage struct {
	Product apiclient.Product
}

func defaultForm(branchID int64) Form {
	return Form{
		BranchID:      branchID,
		TaxRate:       "0",
		StockQuantity: "0",
		Unit:          shared.DefaultUnit,
	}
}

func formOf(p apiclient.Product) Form {
	return Form{
		BranchID:      p.BranchID,
		Name:          p.Name,
		Description:   p.Description,
		Price:         p.Price.String(),
		TaxRate:       p.TaxRate.String(),
		StockQuantity: strconv.FormatInt(p.StockQuantity, 10),
		Unit:          p.Unit,
	}
}

func rowsOf(products []apiclient.Product) []Row {
	rows := make([]Row, 0, len(products))
	for _, p := range products {
		rows = append(rows, Row{
			ID:            p.ID,
			Name:          p.Name,
			Price:         p.Price,
			TaxRate:       p.TaxRate,
			StockQuantity: p.StockQuantity,
			Unit:          p.Unit,
		})
	}
	return rows
}
