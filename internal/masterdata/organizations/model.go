package organizations

import (
	"github.com/branchdesk/branchdesk/internal/apiclient"
	"github.com/branchdesk/branchdesk/internal/masterdata/shared"
)

// Row is one line of the organization table.
type Row struct {
	ID    int64
	Name  string
	Email string
	Phone string
}

// ListPage backs the organization list.
type ListPage struct {
	Rows  []Row
	Error string
}

// Form carries the editable organization fields.
type Form struct {
	Name    string `validate:"required"`
	Address string
	Phone   string
	Email   string
	TaxID   string
}

// FormPage backs the organization form.
type FormPage struct {
	Modal shared.Modal
	Form  Form
}

func rowsOf(orgs []apiclient.Organization) []Row {
	rows := make([]Row, 0, len(orgs))
	for _, o := range orgs {
		rows = append(rows, Row{ID: o.ID, Name: o.Name, Email: o.Email, Phone: o.Phone})
	}
	return rows
}

func formOf(o apiclient.Organization) Form {
	return Form{Name: o.Name, Address: o.Address, Phone: o.Phone, Email: o.Email, TaxID: o.TaxID}
}

func (f Form) input(userID int64) apiclient.OrganizationInput {
	return apiclient.OrganizationInput{
		UserID:  userID,
		Name:    f.Name,
		Address: f.Address,
		Phone:   f.Phone,
		Email:   f.Email,
		TaxID:   f.TaxID,
	}
}
