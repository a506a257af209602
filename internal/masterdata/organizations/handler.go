package organizations

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/branchdesk/branchdesk/internal/apiclient"
	"github.com/branchdesk/branchdesk/internal/masterdata/shared"
	internalShared "github.com/branchdesk/branchdesk/internal/shared"
	"github.com/branchdesk/branchdesk/internal/state"
	"github.com/branchdesk/branchdesk/internal/view"
)

const listPath = "/masterdata/organizations"

// API is the write side of the organization endpoints.
type API interface {
	CreateOrganization(ctx context.Context, in apiclient.OrganizationInput) error
	UpdateOrganization(ctx context.Context, id int64, in apiclient.OrganizationInput) error
}

type Handler struct {
	logger *slog.Logger
	api    API
	state  *state.Controller
	page   *view.Page
}

func NewHandler(logger *slog.Logger, api API, ctrl *state.Controller, page *view.Page) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, api: api, state: ctrl, page: page}
}

// MountRoutes registers organization routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/new", h.New)
	r.Get("/{id}/edit", h.Edit)
	r.Post("/save", h.Save)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	session, user := shared.Actor(r)
	data := ListPage{}
	orgs, err := h.state.LoadOrganizations(r.Context(), session, user.ID)
	if err != nil {
		h.logger.Error("load organizations failed", "error", err)
		data.Error = internalShared.UserSafeMessage(err, shared.LoadFailed)
		if snap, cerr := h.state.Organizations(r.Context(), session); cerr == nil {
			orgs = snap.Items
		}
	}
	data.Rows = rowsOf(orgs)
	h.page.Render(w, r, "pages/organizations.html", "Organizations", data, http.StatusOK)
}

func (h *Handler) New(w http.ResponseWriter, r *http.Request) {
	h.page.Render(w, r, "pages/organization_form.html", "New Organization", FormPage{}, http.StatusOK)
}

func (h *Handler) Edit(w http.ResponseWriter, r *http.Request) {
	id, err := shared.URLID(r)
	if err != nil {
		http.Redirect(w, r, listPath, http.StatusSeeOther)
		return
	}
	session, _ := shared.Actor(r)
	org, found, err := h.state.FindOrganization(r.Context(), session, id)
	if err != nil {
		h.logger.Error("read organization cache failed", "error", err, "id", id)
	}
	if !found {
		http.Redirect(w, r, listPath, http.StatusSeeOther)
		return
	}
	h.page.Render(w, r, "pages/organization_form.html", "Edit Organization", FormPage{
		Modal: shared.Modal{Editing: true, ID: id},
		Form:  formOf(org),
	}, http.StatusOK)
}

func (h *Handler) Save(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}
	_, user := shared.Actor(r)
	id := shared.FormID(r, "id")
	form := Form{
		Name:    r.PostFormValue("name"),
		Address: r.PostFormValue("address"),
		Phone:   r.PostFormValue("phone"),
		Email:   r.PostFormValue("email"),
		TaxID:   r.PostFormValue("tax_id"),
	}
	page := FormPage{Modal: shared.Modal{Editing: id != 0, ID: id}, Form: form}
	if errs := shared.Validate(form); len(errs) > 0 {
		page.Modal.Errors = errs
		h.page.Render(w, r, "pages/organization_form.html", "Organization", page, http.StatusBadRequest)
		return
	}

	var err error
	if id == 0 {
		err = h.api.CreateOrganization(r.Context(), form.input(user.ID))
	} else {
		err = h.api.UpdateOrganization(r.Context(), id, form.input(user.ID))
	}
	if err != nil {
		h.logger.Error("save organization failed", "error", err, "id", id)
		page.Modal.Error = internalShared.UserSafeMessage(err, shared.OrganizationSaveFailed)
		h.page.Render(w, r, "pages/organization_form.html", "Organization", page, http.StatusBadRequest)
		return
	}
	h.page.RedirectWithFlash(w, r, listPath, "success", "Organization saved")
}
