// Package masterdata mounts the organization, branch type, branch and
// product screens under one prefix.
package masterdata

import (
	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/branchdesk/branchdesk/internal/masterdata/branches"
	"github.com/branchdesk/branchdesk/internal/masterdata/branchtypes"
	"github.com/branchdesk/branchdesk/internal/masterdata/organizations"
	"github.com/branchdesk/branchdesk/internal/masterdata/products"
	"github.com/branchdesk/branchdesk/internal/state"
	"github.com/branchdesk/branchdesk/internal/view"
)

// API is the write surface used by the master data screens.
type API interface {
	organizations.API
	branchtypes.API
	branches.API
	products.API
}

// Handler groups the master data sub-handlers.
type Handler struct {
	organizations *organizations.Handler
	branchTypes   *branchtypes.Handler
	branches      *branches.Handler
	products      *products.Handler
}

// NewHandler builds every sub-handler over the same API and workspace.
func NewHandler(logger *slog.Logger, api API, ctrl *state.Controller, page *view.Page) *Handler {
	return &Handler{
		organizations: organizations.NewHandler(logger, api, ctrl, page),
		branchTypes:   branchtypes.NewHandler(logger, api, ctrl, page),
		branches:      branches.NewHandler(logger, api, ctrl, page),
		products:      products.NewHandler(logger, api, ctrl, page),
	}
}

// MountRoutes registers master data routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/organizations", h.organizations.MountRoutes)
	r.Route("/branch-types", h.branchTypes.MountRoutes)
	r.Route("/branches", h.branches.MountRoutes)
	r.Route("/products", h.products.MountRoutes)
}
