package branches

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/branchdesk/branchdesk/internal/apiclient"
	"github.com/branchdesk/branchdesk/internal/masterdata/shared"
	internalShared "github.com/branchdesk/branchdesk/internal/shared"
	"github.com/branchdesk/branchdesk/internal/state"
	"github.com/branchdesk/branchdesk/internal/view"
)

const listPath = "/masterdata/branches"

// API is the write side of the branch endpoints.
type API interface {
	CreateBranch(ctx context.Context, in apiclient.BranchInput) error
	UpdateBranch(ctx context.Context, id int64, in apiclient.BranchInput) error
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

// MountRoutes registers branch routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/new", h.New)
	r.Get("/{id}/edit", h.Edit)
	r.Post("/save", h.Save)
}

// List shows the branches of the organization named in the query, falling
// back to the first cached organization.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	session, user := shared.Actor(r)
	data := ListPage{}

	orgs, err := h.state.EnsureOrganizations(r.Context(), session, user.ID)
	if err != nil {
		h.logger.Error("load organizations failed", "error", err)
		data.Error = internalShared.UserSafeMessage(err, shared.LoadFailed)
	}
	orgID := shared.QueryID(r, "organization_id")
	if orgID == 0 && len(orgs) > 0 {
		orgID = orgs[0].ID
	}
	data.OrganizationID = orgID
	data.Organizations = shared.OrganizationOptions(orgs, orgID)

	if orgID != 0 {
		branches, err := h.state.LoadBranches(r.Context(), session, orgID)
		if err != nil {
			h.logger.Error("load branches failed", "error", err, "organization_id", orgID)
			data.Error = internalShared.UserSafeMessage(err, shared.LoadFailed)
			if snap, cerr := h.state.Branches(r.Context(), session); cerr == nil && snap.Scope == orgID {
				branches = snap.Items
			}
		}
		types, err := h.state.BranchTypes(r.Context(), session)
		if err != nil {
			h.logger.Error("read branch type cache failed", "error", err)
		}
		data.Rows = rowsOf(branches, orgs, types.Items)
	}
	h.page.Render(w, r, "pages/branches.html", "Branches", data, http.StatusOK)
}

func (h *Handler) New(w http.ResponseWriter, r *http.Request) {
	session, user := shared.Actor(r)
	if _, err := h.state.EnsureOrganizations(r.Context(), session, user.ID); err != nil {
		h.logger.Error("load organizations failed", "error", err)
	}
	page := FormPage{Form: defaultForm(shared.QueryID(r, "organization_id"))}
	h.renderForm(w, r, session, page, true, http.StatusOK)
}

func (h *Handler) Edit(w http.ResponseWriter, r *http.Request) {
	id, err := shared.URLID(r)
	if err != nil {
		http.Redirect(w, r, listPath, http.StatusSeeOther)
		return
	}
	session, _ := shared.Actor(r)
	branch, found, err := h.state.FindBranch(r.Context(), session, id)
	if err != nil {
		h.logger.Error("read branch cache failed", "error", err, "id", id)
	}
	if !found {
		http.Redirect(w, r, listPath, http.StatusSeeOther)
		return
	}
	page := FormPage{Modal: shared.Modal{Editing: true, ID: id}, Form: formOf(branch)}
	h.renderForm(w, r, session, page, true, http.StatusOK)
}

func (h *Handler) Save(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}
	session, _ := shared.Actor(r)
	id := shared.FormID(r, "id")
	form := parseForm(r)
	page := FormPage{Modal: shared.Modal{Editing: id != 0, ID: id}, Form: form}
	if errs := validate(form); len(errs) > 0 {
		page.Modal.Errors = errs
		h.renderForm(w, r, session, page, false, http.StatusBadRequest)
		return
	}

	var err error
	if id == 0 {
		err = h.api.CreateBranch(r.Context(), form.input())
	} else {
		err = h.api.UpdateBranch(r.Context(), id, form.input())
	}
	if err != nil {
		h.logger.Error("save branch failed", "error", err, "id", id)
		page.Modal.Error = internalShared.UserSafeMessage(err, shared.BranchSaveFailed)
		h.renderForm(w, r, session, page, false, http.StatusBadRequest)
		return
	}
	h.page.RedirectWithFlash(w, r, listPath+"?organization_id="+strconv.FormatInt(form.OrganizationID, 10), "success", "Branch saved")
}

// renderForm fills the option lists from the caches. When refresh is set
// the branch types of the selected organization are reloaded first, the
// same way the form's organization selector does it.
func (h *Handler) renderForm(w http.ResponseWriter, r *http.Request, session string, page FormPage, refresh bool, status int) {
	ctx := r.Context()
	orgs, err := h.state.Organizations(ctx, session)
	if err != nil {
		h.logger.Error("read organization cache failed", "error", err)
	}
	page.Organizations = shared.OrganizationOptions(orgs.Items, page.Form.OrganizationID)
	page.Fonts = shared.BillFonts

	if orgID := page.Form.OrganizationID; orgID != 0 {
		if refresh {
			if _, err := h.state.LoadBranchTypes(ctx, session, orgID); err != nil {
				h.logger.Error("load branch types failed", "error", err, "organization_id", orgID)
			}
		}
		types, err := h.state.BranchTypesFor(ctx, session, orgID)
		if err != nil {
			h.logger.Error("read branch type cache failed", "error", err)
		}
		page.BranchTypes = shared.BranchTypeOptions(types, page.Form.BranchTypeID)
	}
	h.page.Render(w, r, "pages/branch_form.html", "Branch", page, status)
}
