package state

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/branchdesk/branchdesk/internal/apiclient"
	"github.com/branchdesk/branchdesk/internal/billing"
)

// API is the subset of the invoicing API used to fill the caches.
type API interface {
	ListOrganizations(ctx context.Context, userID int64) ([]apiclient.Organization, error)
	ListBranchTypes(ctx context.Context, orgID int64) ([]apiclient.BranchType, error)
	ListBranches(ctx context.Context, orgID int64) ([]apiclient.Branch, error)
	ListProducts(ctx context.Context, branchID int64) ([]apiclient.Product, error)
	ListInvoices(ctx context.Context, branchID int64) ([]apiclient.Invoice, error)
}

// Controller owns the workspace of every session. Handlers read cached
// lists through it and ask it to reload after each mutation.
type Controller struct {
	api    API
	store  *Store
	logger *slog.Logger
}

// NewController wires the controller.
func NewController(api API, store *Store, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{api: api, store: store, logger: logger}
}

// load fetches a fresh list and replaces the snapshot. A failed fetch leaves
// the cache untouched. The caller always gets the list it fetched, even when
// a newer load has already claimed the snapshot.
func load[T any](ctx context.Context, c *Controller, session string, kind Kind, scope int64, fetch func(context.Context) ([]T, error)) ([]T, error) {
	ticket, err := c.store.Begin(ctx, session, kind)
	if err != nil {
		return nil, err
	}
	items, err := fetch(ctx)
	if err != nil {
		return nil, err
	}
	fresh, err := Commit(ctx, c.store, ticket, scope, items)
	if err != nil {
		return nil, err
	}
	if !fresh {
		c.logger.Debug("stale load discarded", slog.String("kind", string(kind)), slog.Int64("scope", scope), slog.Int64("generation", ticket.Generation))
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// LoadOrganizations reloads the organizations owned by userID.
func (c *Controller) LoadOrganizations(ctx context.Context, session string, userID int64) ([]apiclient.Organization, error) {
	return load(ctx, c, session, KindOrganizations, userID, func(ctx context.Context) ([]apiclient.Organization, error) {
		return c.api.ListOrganizations(ctx, userID)
	})
}

// LoadBranchTypes reloads the branch types of orgID.
func (c *Controller) LoadBranchTypes(ctx context.Context, session string, orgID int64) ([]apiclient.BranchType, error) {
	return load(ctx, c, session, KindBranchTypes, orgID, func(ctx context.Context) ([]apiclient.BranchType, error) {
		return c.api.ListBranchTypes(ctx, orgID)
	})
}

// LoadBranches reloads the branches of orgID.
func (c *Controller) LoadBranches(ctx context.Context, session string, orgID int64) ([]apiclient.Branch, error) {
	return load(ctx, c, session, KindBranches, orgID, func(ctx context.Context) ([]apiclient.Branch, error) {
		return c.api.ListBranches(ctx, orgID)
	})
}

// LoadProducts reloads the products of branchID. Without a branch it does
// nothing and reports ok false.
func (c *Controller) LoadProducts(ctx context.Context, session string, branchID int64) ([]apiclient.Product, bool, error) {
	if branchID == 0 {
		return nil, false, nil
	}
	items, err := load(ctx, c, session, KindProducts, branchID, func(ctx context.Context) ([]apiclient.Product, error) {
		return c.api.ListProducts(ctx, branchID)
	})
	return items, err == nil, err
}

// LoadInvoices reloads the invoices of branchID. Without a branch it does
// nothing and reports ok false.
func (c *Controller) LoadInvoices(ctx context.Context, session string, branchID int64) ([]apiclient.Invoice, bool, error) {
	if branchID == 0 {
		return nil, false, nil
	}
	items, err := load(ctx, c, session, KindInvoices, branchID, func(ctx context.Context) ([]apiclient.Invoice, error) {
		return c.api.ListInvoices(ctx, branchID)
	})
	return items, err == nil, err
}

// EnsureOrganizations returns the cached organizations, loading them when
// the cache is empty.
func (c *Controller) EnsureOrganizations(ctx context.Context, session string, userID int64) ([]apiclient.Organization, error) {
	snap, err := c.Organizations(ctx, session)
	if err != nil {
		return nil, err
	}
	if len(snap.Items) > 0 {
		return snap.Items, nil
	}
	return c.LoadOrganizations(ctx, session, userID)
}

// EnsureBranches returns the cached branches. An empty cache is filled with
// the branches of the first organization of userID.
func (c *Controller) EnsureBranches(ctx context.Context, session string, userID int64) ([]apiclient.Branch, error) {
	snap, err := c.Branches(ctx, session)
	if err != nil {
		return nil, err
	}
	if len(snap.Items) > 0 {
		return snap.Items, nil
	}
	orgs, err := c.EnsureOrganizations(ctx, session, userID)
	if err != nil {
		return nil, err
	}
	if len(orgs) == 0 {
		return []apiclient.Branch{}, nil
	}
	return c.LoadBranches(ctx, session, orgs[0].ID)
}

// Organizations returns the cached organizations.
func (c *Controller) Organizations(ctx context.Context, session string) (Snapshot[apiclient.Organization], error) {
	return Get[apiclient.Organization](ctx, c.store, session, KindOrganizations)
}

// BranchTypes returns the cached branch types.
func (c *Controller) BranchTypes(ctx context.Context, session string) (Snapshot[apiclient.BranchType], error) {
	return Get[apiclient.BranchType](ctx, c.store, session, KindBranchTypes)
}

// Branches returns the cached branches.
func (c *Controller) Branches(ctx context.Context, session string) (Snapshot[apiclient.Branch], error) {
	return Get[apiclient.Branch](ctx, c.store, session, KindBranches)
}

// Products returns the cached products.
func (c *Controller) Products(ctx context.Context, session string) (Snapshot[apiclient.Product], error) {
	return Get[apiclient.Product](ctx, c.store, session, KindProducts)
}

// Invoices returns the cached invoices.
func (c *Controller) Invoices(ctx context.Context, session string) (Snapshot[apiclient.Invoice], error) {
	return Get[apiclient.Invoice](ctx, c.store, session, KindInvoices)
}

// BranchTypesFor filters the cached branch types by organization.
func (c *Controller) BranchTypesFor(ctx context.Context, session string, orgID int64) ([]apiclient.BranchType, error) {
	snap, err := c.BranchTypes(ctx, session)
	if err != nil {
		return nil, err
	}
	out := make([]apiclient.BranchType, 0, len(snap.Items))
	for _, bt := range snap.Items {
		if bt.OrganizationID == orgID {
			out = append(out, bt)
		}
	}
	return out, nil
}

// FindOrganization looks id up in the cache.
func (c *Controller) FindOrganization(ctx context.Context, session string, id int64) (apiclient.Organization, bool, error) {
	snap, err := c.Organizations(ctx, session)
	if err != nil {
		return apiclient.Organization{}, false, err
	}
	o, ok := find(snap.Items, func(o apiclient.Organization) bool { return o.ID == id })
	return o, ok, nil
}

// FindBranchType looks id up in the cache.
func (c *Controller) FindBranchType(ctx context.Context, session string, id int64) (apiclient.BranchType, bool, error) {
	snap, err := c.BranchTypes(ctx, session)
	if err != nil {
		return apiclient.BranchType{}, false, err
	}
	bt, ok := find(snap.Items, func(bt apiclient.BranchType) bool { return bt.ID == id })
	return bt, ok, nil
}

// FindBranch looks id up in the cache.
func (c *Controller) FindBranch(ctx context.Context, session string, id int64) (apiclient.Branch, bool, error) {
	snap, err := c.Branches(ctx, session)
	if err != nil {
		return apiclient.Branch{}, false, err
	}
	b, ok := find(snap.Items, func(b apiclient.Branch) bool { return b.ID == id })
	return b, ok, nil
}

// FindProduct looks id up in the cache.
func (c *Controller) FindProduct(ctx context.Context, session string, id int64) (apiclient.Product, bool, error) {
	snap, err := c.Products(ctx, session)
	if err != nil {
		return apiclient.Product{}, false, err
	}
	p, ok := find(snap.Items, func(p apiclient.Product) bool { return p.ID == id })
	return p, ok, nil
}

// Draft returns the session's invoice draft, if one is open.
func (c *Controller) Draft(ctx context.Context, session string) (*billing.Draft, bool, error) {
	var d billing.Draft
	found, err := c.store.GetDraft(ctx, session, &d)
	if err != nil {
		return nil, false, fmt.Errorf("state: load draft: %w", err)
	}
	if !found {
		return nil, false, nil
	}
	return &d, true, nil
}

// SaveDraft stores d as the session's open draft.
func (c *Controller) SaveDraft(ctx context.Context, session string, d *billing.Draft) error {
	if err := c.store.PutDraft(ctx, session, d); err != nil {
		return fmt.Errorf("state: save draft: %w", err)
	}
	return nil
}

// ClearDraft discards the open draft.
func (c *Controller) ClearDraft(ctx context.Context, session string) error {
	if err := c.store.DeleteDraft(ctx, session); err != nil {
		return fmt.Errorf("state: clear draft: %w", err)
	}
	return nil
}

// Reset forgets the whole workspace of session.
func (c *Controller) Reset(ctx context.Context, session string) error {
	return c.store.Reset(ctx, session)
}

func find[T any](items []T, match func(T) bool) (T, bool) {
	for _, item := range items {
		if match(item) {
			return item, true
		}
	}
	var zero T
	return zero, false
}
