package branchtypes

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/branchdesk/branchdesk/internal/apiclient"
	"github.com/branchdesk/branchdesk/internal/masterdata/shared"
	"github.com/branchdesk/branchdesk/internal/platform/httpx"
	internalShared "github.com/branchdesk/branchdesk/internal/shared"
	"github.com/branchdesk/branchdesk/internal/state"
	"github.com/branchdesk/branchdesk/internal/view"
)

const listPath = "/masterdata/branch-types"

// API is the write side of the branch type endpoints. Edits go out as PUT.
type API interface {
	CreateBranchType(ctx context.Context, in apiclient.BranchTypeInput) error
	UpdateBranchType(ctx context.Context, id int64, in apiclient.BranchTypeInput) error
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

// MountRoutes registers branch type routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/options", h.Options)
	r.Get("/new", h.New)
	r.Get("/{id}/edit", h.Edit)
	r.Post("/save", h.Save)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	session, user := shared.Actor(r)
	orgID := shared.QueryID(r, "organization_id")
	data := ListPage{OrganizationID: orgID, Selected: orgID != 0}

	orgs, err := h.state.EnsureOrganizations(r.Context(), session, user.ID)
	if err != nil {
		h.logger.Error("load organizations failed", "error", err)
		data.Error = internalShared.UserSafeMessage(err, shared.LoadFailed)
	}
	data.Organizations = shared.OrganizationOptions(orgs, orgID)

	if data.Selected {
		if _, err := h.state.LoadBranchTypes(r.Context(), session, orgID); err != nil {
			h.logger.Error("load branch types failed", "error", err, "organization_id", orgID)
			data.Error = internalShared.UserSafeMessage(err, shared.LoadFailed)
		}
		types, err := h.state.BranchTypesFor(r.Context(), session, orgID)
		if err != nil {
			h.logger.Error("read branch type cache failed", "error", err)
		}
		data.Rows = rowsOf(types)
	}
	h.page.Render(w, r, "pages/branch_types.html", "Branch Types", data, http.StatusOK)
}

// Options answers the branch form cascade with the types of one
// organization, refreshing the cache on the way.
func (h *Handler) Options(w http.ResponseWriter, r *http.Request) {
	session, _ := shared.Actor(r)
	orgID := shared.QueryID(r, "organization_id")
	out := []OptionJSON{}
	if orgID == 0 {
		httpx.JSON(w, http.StatusOK, out)
		return
	}
	types, err := h.state.LoadBranchTypes(r.Context(), session, orgID)
	if err != nil {
		h.logger.Error("load branch types failed", "error", err, "organization_id", orgID)
		httpx.RespondError(w, err, shared.LoadFailed)
		return
	}
	for _, bt := range types {
		if bt.OrganizationID == orgID {
			out = append(out, OptionJSON{ID: bt.ID, Name: bt.Name})
		}
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *Handler) New(w http.ResponseWriter, r *http.Request) {
	session, user := shared.Actor(r)
	orgID := shared.QueryID(r, "organization_id")
	orgs, err := h.state.EnsureOrganizations(r.Context(), session, user.ID)
	if err != nil {
		h.logger.Error("load organizations failed", "error", err)
	}
	h.page.Render(w, r, "pages/branch_type_form.html", "New Branch Type", FormPage{
		Form:          Form{OrganizationID: orgID},
		Organizations: shared.OrganizationOptions(orgs, orgID),
	}, http.StatusOK)
}

func (h *Handler) Edit(w http.ResponseWriter, r *http.Request) {
	id, err := shared.URLID(r)
	if err != nil {
		http.Redirect(w, r, listPath, http.StatusSeeOther)
		return
	}
	session, _ := shared.Actor(r)
	bt, found, err := h.state.FindBranchType(r.Context(), session, id)
	if err != nil {
		h.logger.Error("read branch type cache failed", "error", err, "id", id)
	}
	if !found {
		http.Redirect(w, r, listPath, http.StatusSeeOther)
		return
	}
	snap, err := h.state.Organizations(r.Context(), session)
	if err != nil {
		h.logger.Error("read organization cache failed", "error", err)
	}
	h.page.Render(w, r, "pages/branch_type_form.html", "Edit Branch Type", FormPage{
		Modal:         shared.Modal{Editing: true, ID: id},
		Form:          formOf(bt),
		Organizations: shared.OrganizationOptions(snap.Items, bt.OrganizationID),
	}, http.StatusOK)
}

func (h *Handler) Save(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}
	session, _ := shared.Actor(r)
	id := shared.FormID(r, "id")
	form := Form{
		OrganizationID: shared.FormID(r, "organization_id"),
		Name:           r.PostFormValue("name"),
		Description:    r.PostFormValue("description"),
	}
	page := FormPage{Modal: shared.Modal{Editing: id != 0, ID: id}, Form: form}
	if errs := shared.Validate(form); len(errs) > 0 {
		page.Modal.Errors = errs
		h.renderForm(w, r, session, page)
		return
	}

	var err error
	if id == 0 {
		err = h.api.CreateBranchType(r.Context(), form.input())
	} else {
		err = h.api.UpdateBranchType(r.Context(), id, form.input())
	}
	if err != nil {
		h.logger.Error("save branch type failed", "error", err, "id", id)
		page.Modal.Error = internalShared.UserSafeMessage(err, shared.BranchTypeSaveFailed)
		h.renderForm(w, r, session, page)
		return
	}
	h.page.RedirectWithFlash(w, r, listPath+"?organization_id="+strconv.FormatInt(form.OrganizationID, 10), "success", "Branch type saved")
}

func (h *Handler) renderForm(w http.ResponseWriter, r *http.Request, session string, page FormPage) {
	snap, err := h.state.Organizations(r.Context(), session)
	if err != nil {
		h.logger.Error("read organization cache failed", "error", err)
	}
	page.Organizations = shared.OrganizationOptions(snap.Items, page.Form.OrganizationID)
	h.page.Render(w, r, "pages/branch_type_form.html", "Branch Type", page, http.StatusBadRequest)
}
