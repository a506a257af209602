package products

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

const listPath = "/masterdata/products"

// API is the write side of the product endpoints.
type API interface {
	CreateProduct(ctx context.Context, in apiclient.ProductInput) error
	UpdateProduct(ctx context.Context, id int64, in apiclient.ProductInput) error
	DeleteProduct(ctx context.Context, id int64) error
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

// MountRoutes registers product routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/new", h.New)
	r.Get("/{id}/edit", h.Edit)
	r.Post("/save", h.Save)
	r.Get("/{id}/delete", h.ConfirmDelete)
	r.Post("/{id}/delete", h.Delete)
}

func listURL(branchID int64) string {
	if branchID == 0 {
		return listPath
	}
	return listPath + "?branch_id=" + strconv.FormatInt(branchID, 10)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	session, user := shared.Actor(r)
	branchID := shared.QueryID(r, "branch_id")
	data := ListPage{BranchID: branchID, Selected: branchID != 0}

	branches, err := h.state.EnsureBranches(r.Context(), session, user.ID)
	if err != nil {
		h.logger.Error("load branches failed", "error", err)
		data.Error = internalShared.UserSafeMessage(err, shared.LoadFailed)
	}
	data.Branches = shared.BranchOptions(branches, branchID)

	products, ok, err := h.state.LoadProducts(r.Context(), session, branchID)
	if err != nil {
		h.logger.Error("load products failed", "error", err, "branch_id", branchID)
		data.Error = internalShared.UserSafeMessage(err, shared.LoadFailed)
		if snap, cerr := h.state.Products(r.Context(), session); cerr == nil && snap.Scope == branchID {
			products = snap.Items
		}
	}
	if ok || err != nil {
		data.Rows = rowsOf(products)
	}
	h.page.Render(w, r, "pages/products.html", "Products", data, http.StatusOK)
}

func (h *Handler) New(w http.ResponseWriter, r *http.Request) {
	session, user := shared.Actor(r)
	if _, err := h.state.EnsureBranches(r.Context(), session, user.ID); err != nil {
		h.logger.Error("load branches failed", "error", err)
	}
	page := FormPage{Form: defaultForm(shared.QueryID(r, "branch_id"))}
	h.renderForm(w, r, session, page, http.StatusOK)
}

func (h *Handler) Edit(w http.ResponseWriter, r *http.Request) {
	session, _ := shared.Actor(r)
	product, ok := h.cached(w, r, session)
	if !ok {
		return
	}
	page := FormPage{Modal: shared.Modal{Editing: true, ID: product.ID}, Form: formOf(product)}
	h.renderForm(w, r, session, page, http.StatusOK)
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
	in, errs := validate(form)
	if len(errs) > 0 {
		page.Modal.Errors = errs
		h.renderForm(w, r, session, page, http.StatusBadRequest)
		return
	}

	var err error
	if id == 0 {
		err = h.api.CreateProduct(r.Context(), in)
	} else {
		err = h.api.UpdateProduct(r.Context(), id, in)
	}
	if err != nil {
		h.logger.Error("save product failed", "error", err, "id", id)
		page.Modal.Error = internalShared.UserSafeMessage(err, shared.ProductSaveFailed)
		h.renderForm(w, r, session, page, http.StatusBadRequest)
		return
	}
	h.page.RedirectWithFlash(w, r, listURL(form.BranchID), "success", "Product saved")
}

// ConfirmDelete asks before anything is sent to the API.
func (h *Handler) ConfirmDelete(w http.ResponseWriter, r *http.Request) {
	session, _ := shared.Actor(r)
	product, ok := h.cached(w, r, session)
	if !ok {
		return
	}
	h.page.Render(w, r, "pages/product_delete.html", "Delete Product", DeletePage{Product: product}, http.StatusOK)
}

// Delete sends DELETE only for an explicit confirm=yes; any other answer
// returns to the list untouched.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := shared.URLID(r)
	if err != nil {
		http.Redirect(w, r, listPath, http.StatusSeeOther)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}
	branchID := shared.FormID(r, "branch_id")
	if branchID == 0 {
		session, _ := shared.Actor(r)
		if p, found, _ := h.state.FindProduct(r.Context(), session, id); found {
			branchID = p.BranchID
		}
	}
	if r.PostFormValue("confirm") != "yes" {
		http.Redirect(w, r, listURL(branchID), http.StatusSeeOther)
		return
	}
	if err := h.api.DeleteProduct(r.Context(), id); err != nil {
		h.logger.Error("delete product failed", "error", err, "id", id)
		h.page.RedirectWithFlash(w, r, listURL(branchID), "error", internalShared.UserSafeMessage(err, shared.ProductDeleteFailed))
		return
	}
	h.page.RedirectWithFlash(w, r, listURL(branchID), "success", "Product deleted")
}

// cached resolves the {id} route parameter against the product cache and
// redirects to the list when it is unknown.
func (h *Handler) cached(w http.ResponseWriter, r *http.Request, session string) (apiclient.Product, bool) {
	id, err := shared.URLID(r)
	if err != nil {
		http.Redirect(w, r, listPath, http.StatusSeeOther)
		return apiclient.Product{}, false
	}
	product, found, err := h.state.FindProduct(r.Context(), session, id)
	if err != nil {
		h.logger.Error("read product cache failed", "error", err, "id", id)
	}
	if !found {
		http.Redirect(w, r, listPath, http.StatusSeeOther)
		return apiclient.Product{}, false
	}
	return product, true
}

func (h *Handler) renderForm(w http.ResponseWriter, r *http.Request, session string, page FormPage, status int) {
	branches, err := h.state.Branches(r.Context(), session)
	if err != nil {
		h.logger.Error("read branch cache failed", "error", err)
	}
	page.Branches = shared.BranchOptions(branches.Items, page.Form.BranchID)
	h.page.Render(w, r, "pages/product_form.html", "Product", page, status)
}
