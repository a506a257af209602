package branchtypes

import (
	"github.com/branchdesk/branchdesk/internal/apiclient"
	"github.com/branchdesk/branchdesk/internal/masterdata/shared"
)

// Row is one line of the branch type table.
type Row struct {
	ID          int64
	Name        string
	Description string
}

// ListPage backs the branch type list. Selected is false until an
// organization is picked; nothing is loaded before that.
type ListPage struct {
	Organizations  []shared.Option
	OrganizationID int64
	Selected       bool
	Rows           []Row
	Error          string
}

// Form carries the editable branch type fields.
type Form struct {
	OrganizationID int64  `validate:"required"`
	Name           string `validate:"required"`
	Description    string
}

// FormPage backs the branch type form.
type FormPage struct {
	Modal         shared.Modal
	Form          Form
	Organizations []shared.Option
}

// OptionJSON is one entry of the cascade endpoint.
type OptionJSON struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func rowsOf(types []apiclient.BranchType) []Row {
	rows := make([]Row, 0, len(types))
	for _, bt := range types {
		rows = append(rows, Row{ID: bt.ID, Name: bt.Name, Description: bt.Description})
	}
	return rows
}

func formOf(bt apiclient.BranchType) Form {
	return Form{OrganizationID: bt.OrganizationID, Name: bt.Name, Description: bt.Description}
}

func (f Form) input() apiclient.BranchTypeInput {
	return apiclient.BranchTypeInput{OrganizationID: f.OrganizationID, Name: f.Name, Description: f.Description}
}
