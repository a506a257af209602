package webtest

import (
	"context"
	"sync"

	"github.com/branchdesk/branchdesk/internal/apiclient"
)

// Call records one write made against FakeAPI.
type Call struct {
	Op   string
	ID   int64
	Body any
}

// FakeAPI is an in-memory stand-in for the invoicing API. List answers
// come from the exported slices; Err, when set, fails every call.
type FakeAPI struct {
	mu sync.Mutex

	Organizations []apiclient.Organization
	BranchTypes   []apiclient.BranchType
	Branches      []apiclient.Branch
	Products      []apiclient.Product
	Invoices      []apiclient.Invoice
	Detail        map[int64]apiclient.InvoiceDetail
	Summary       map[int64]apiclient.DashboardSummary

	Err      error
	WriteErr error
	Calls    []Call
	Reads    []Call
}

func (f *FakeAPI) read(op string, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Reads = append(f.Reads, Call{Op: op, ID: id})
	return f.Err
}

func (f *FakeAPI) write(op string, id int64, body any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, Call{Op: op, ID: id, Body: body})
	if f.WriteErr != nil {
		return f.WriteErr
	}
	return f.Err
}

// Writes returns a copy of the recorded writes.
func (f *FakeAPI) Writes() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.Calls...)
}

// ReadCount counts recorded reads of op.
func (f *FakeAPI) ReadCount(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.Reads {
		if c.Op == op {
			n++
		}
	}
	return n
}

func (f *FakeAPI) Login(ctx context.Context, creds apiclient.Credentials) (apiclient.User, error) {
	return apiclient.User{}, f.write("login", 0, creds)
}

func (f *FakeAPI) Register(ctx context.Context, reg apiclient.Registration) error {
	return f.write("register", 0, reg)
}

func (f *FakeAPI) ListOrganizations(ctx context.Context, userID int64) ([]apiclient.Organization, error) {
	if err := f.read("organizations.list", userID); err != nil {
		return nil, err
	}
	return f.Organizations, nil
}

func (f *FakeAPI) CreateOrganization(ctx context.Context, in apiclient.OrganizationInput) error {
	return f.write("organizations.create", 0, in)
}

func (f *FakeAPI) UpdateOrganization(ctx context.Context, id int64, in apiclient.OrganizationInput) error {
	return f.write("organizations.update", id, in)
}

func (f *FakeAPI) ListBranchTypes(ctx context.Context, orgID int64) ([]apiclient.BranchType, error) {
	if err := f.read("branch_types.list", orgID); err != nil {
		return nil, err
	}
	var out []apiclient.BranchType
	for _, bt := range f.BranchTypes {
		if bt.OrganizationID == orgID {
			out = append(out, bt)
		}
	}
	return out, nil
}

func (f *FakeAPI) CreateBranchType(ctx context.Context, in apiclient.BranchTypeInput) error {
	return f.write("branch_types.create", 0, in)
}

func (f *FakeAPI) UpdateBranchType(ctx context.Context, id int64, in apiclient.BranchTypeInput) error {
	return f.write("branch_types.update", id, in)
}

func (f *FakeAPI) ListBranches(ctx context.Context, orgID int64) ([]apiclient.Branch, error) {
	if err := f.read("branches.list", orgID); err != nil {
		return nil, err
	}
	var out []apiclient.Branch
	for _, b := range f.Branches {
		if b.OrganizationID == orgID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *FakeAPI) CreateBranch(ctx context.Context, in apiclient.BranchInput) error {
	return f.write("branches.create", 0, in)
}

func (f *FakeAPI) UpdateBranch(ctx context.Context, id int64, in apiclient.BranchInput) error {
	return f.write("branches.update", id, in)
}

func (f *FakeAPI) ListProducts(ctx context.Context, branchID int64) ([]apiclient.Product, error) {
	if err := f.read("products.list", branchID); err != nil {
		return nil, err
	}
	var out []apiclient.Product
	for _, p := range f.Products {
		if p.BranchID == branchID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *FakeAPI) CreateProduct(ctx context.Context, in apiclient.ProductInput) error {
	return f.write("products.create", 0, in)
}

func (f *FakeAPI) UpdateProduct(ctx context.Context, id int64, in apiclient.ProductInput) error {
	return f.write("products.update", id, in)
}

func (f *FakeAPI) DeleteProduct(ctx context.Context, id int64) error {
	return f.write("products.delete", id, nil)
}

func (f *FakeAPI) ListInvoices(ctx context.Context, branchID int64) ([]apiclient.Invoice, error) {
	if err := f.read("invoices.list", branchID); err != nil {
		return nil, err
	}
	var out []apiclient.Invoice
	for _, inv := range f.Invoices {
		if inv.BranchID == branchID {
			out = append(out, inv)
		}
	}
	return out, nil
}

func (f *FakeAPI) CreateInvoice(ctx context.Context, in apiclient.InvoiceInput) error {
	return f.write("invoices.create", 0, in)
}

func (f *FakeAPI) GetInvoice(ctx context.Context, id int64) (apiclient.InvoiceDetail, error) {
	if err := f.read("invoices.get", id); err != nil {
		return apiclient.InvoiceDetail{}, err
	}
	detail, ok := f.Detail[id]
	if !ok {
		return apiclient.InvoiceDetail{}, &apiclient.APIError{Status: 404, Message: "Invoice not found"}
	}
	return detail, nil
}

func (f *FakeAPI) Dashboard(ctx context.Context, orgID int64) (apiclient.DashboardSummary, error) {
	if err := f.read("dashboard.get", orgID); err != nil {
		return apiclient.DashboardSummary{}, err
	}
	return f.Summary[orgID], nil
}
