package branches

import (
	"github.com/branchdesk/branchdesk/internal/apiclient"
	"github.com/branchdesk/branchdesk/internal/masterdata/shared"
)

// Row is one line of the branch table.
type Row struct {
	ID               int64
	Name             string
	OrganizationName string
	BranchTypeName   string
	Phone            string
}

// ListPage backs the branch list.
type ListPage struct {
	Organizations  []shared.Option
	OrganizationID int64
	Rows           []Row
	Error          string
}

// Form carries the editable branch fields.
type Form struct {
	OrganizationID int64 `validate:"required"`
	BranchTypeID   int64
	Name           string `validate:"required"`
	Address        string
	Phone          string
	Email          string
	BillColor      string
	BillFont       string
	BillIcon       string
}

// FormPage backs the branch form. BranchTypes is derived from the branch
// type cache for the selected organization.
type FormPage struct {
	Modal         shared.Modal
	Form          Form
	Organizations []shared.Option
	BranchTypes   []shared.Option
	Fonts         []string
}

func defaultForm(orgID int64) Form {
	return Form{
		OrganizationID: orgID,
		BillColor:      shared.DefaultBillColor,
		BillFont:       shared.DefaultBillFont,
	}
}

func formOf(b apiclient.Branch) Form {
	f := Form{
		OrganizationID: b.OrganizationID,
		Name:           b.Name,
		Address:        b.Address,
		Phone:          b.Phone,
		Email:          b.Email,
		BillColor:      b.BillColor,
		BillFont:       b.BillFont,
		BillIcon:       b.BillIcon,
	}
	if b.BranchTypeID != nil {
		f.BranchTypeID = *b.BranchTypeID
	}
	return f
}

func (f Form) input() apiclient.BranchInput {
	in := apiclient.BranchInput{
		OrganizationID: f.OrganizationID,
		Name:           f.Name,
		Address:        f.Address,
		Phone:          f.Phone,
		Email:          f.Email,
		BillColor:      f.BillColor,
		BillFont:       f.BillFont,
		BillIcon:       f.BillIcon,
	}
	if f.BranchTypeID != 0 {
		id := f.BranchTypeID
		in.BranchTypeID = &id
	}
	return in
}

// rowsOf joins organization and branch type names from the caches. A name
// sent by the API wins over the cache lookup.
func rowsOf(branches []apiclient.Branch, orgs []apiclient.Organization, types []apiclient.BranchType) []Row {
	orgNames := make(map[int64]string, len(orgs))
	for _, o := range orgs {
		orgNames[o.ID] = o.Name
	}
	typeNames := make(map[int64]string, len(types))
	for _, bt := range types {
		typeNames[bt.ID] = bt.Name
	}
	rows := make([]Row, 0, len(branches))
	for _, b := range branches {
		row := Row{ID: b.ID, Name: b.Name, OrganizationName: orgNames[b.OrganizationID], Phone: b.Phone, BranchTypeName: b.BranchTypeName}
		if row.BranchTypeName == "" && b.BranchTypeID != nil {
			row.BranchTypeName = typeNames[*b.BranchTypeID]
		}
		rows = append(rows, row)
	}
	return rows
}
