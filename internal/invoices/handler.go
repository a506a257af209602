// Package invoices serves the invoice list, the draft builder with its live
// preview, and the printable viewer with PDF export.
package invoices

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"golang.org/x/sync/errgroup"

	"github.com/branchdesk/branchdesk/internal/apiclient"
	"github.com/branchdesk/branchdesk/internal/billing"
	"github.com/branchdesk/branchdesk/internal/masterdata/shared"
	"github.com/branchdesk/branchdesk/internal/platform/httpx"
	internalShared "github.com/branchdesk/branchdesk/internal/shared"
	"github.com/branchdesk/branchdesk/internal/state"
	"github.com/branchdesk/branchdesk/internal/view"
	"github.com/branchdesk/branchdesk/report"
)

const (
	listPath    = "/invoices"
	builderPath = "/invoices/new"

	createFailed  = "Error creating invoice"
	loadFailed    = "Error loading invoice"
	createdNotice = "Invoice created successfully!"
	expiredNotice = "The invoice draft has expired. Start a new invoice."

	pdfPerMinute = 20
)

// API is the invoice side of the invoicing API.
type API interface {
	CreateInvoice(ctx context.Context, in apiclient.InvoiceInput) error
	GetInvoice(ctx context.Context, id int64) (apiclient.InvoiceDetail, error)
}

// Renderer turns a self-contained HTML document into a PDF.
type Renderer interface {
	RenderHTML(ctx context.Context, html []byte) ([]byte, error)
}

type Handler struct {
	logger *slog.Logger
	api    API
	state  *state.Controller
	page   *view.Page
	pdf    Renderer
	now    func() time.Time
}

func NewHandler(logger *slog.Logger, api API, ctrl *state.Controller, page *view.Page, pdf Renderer) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, api: api, state: ctrl, page: page, pdf: pdf, now: time.Now}
}

// MountRoutes registers invoice routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/new", h.New)
	r.Post("/draft", h.UpdateDraft)
	r.Post("/draft/preview", h.Preview)
	r.Get("/{id}", h.View)
	r.With(httprate.LimitByIP(pdfPerMinute, time.Minute)).Get("/{id}/pdf", h.PDF)
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

	invoices, ok, err := h.state.LoadInvoices(r.Context(), session, branchID)
	if err != nil {
		h.logger.Error("load invoices failed", "error", err, "branch_id", branchID)
		data.Error = internalShared.UserSafeMessage(err, shared.LoadFailed)
		if snap, cerr := h.state.Invoices(r.Context(), session); cerr == nil && snap.Scope == branchID {
			invoices = snap.Items
		}
	}
	if ok || err != nil {
		data.Rows = rowsOf(invoices, branches)
	}
	h.page.Render(w, r, "pages/invoices.html", "Invoices", data, http.StatusOK)
}

// New opens a fresh draft for the chosen branch: new number, zero discount,
// one blank line. The branch's products are loaded alongside the branch
// list.
func (h *Handler) New(w http.ResponseWriter, r *http.Request) {
	session, user := shared.Actor(r)
	branchID := shared.QueryID(r, "branch_id")
	data := BuilderPage{BranchID: branchID}

	var (
		branches []apiclient.Branch
		catalog  []apiclient.Product
	)
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		branches, err = h.state.EnsureBranches(ctx, session, user.ID)
		return err
	})
	g.Go(func() error {
		var err error
		catalog, _, err = h.state.LoadProducts(ctx, session, branchID)
		return err
	})
	if err := g.Wait(); err != nil {
		h.logger.Error("load builder data failed", "error", err, "branch_id", branchID)
		data.Error = internalShared.UserSafeMessage(err, shared.LoadFailed)
	}
	data.Branches = shared.BranchOptions(branches, branchID)

	if branchID != 0 {
		draft := billing.NewDraft(branchID, billing.InvoiceNumber(h.now()))
		if err := h.state.SaveDraft(r.Context(), session, draft); err != nil {
			h.logger.Error("save draft failed", "error", err)
			httpx.RespondError(w, err, shared.LoadFailed)
			return
		}
		data.Draft = draft
	}
	h.renderBuilder(w, r, data, catalog, http.StatusOK)
}

// UpdateDraft applies the posted rows, then the requested action.
func (h *Handler) UpdateDraft(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}
	session, _ := shared.Actor(r)
	draft, catalog, ok := h.openDraft(w, r, session)
	if !ok {
		return
	}
	applyForm(draft, r.PostForm, catalog)

	data := BuilderPage{BranchID: draft.BranchID, Draft: draft}
	action := r.PostFormValue("action")
	switch {
	case action == "add":
		draft.AddLine()
	case strings.HasPrefix(action, "remove:"):
		i, err := strconv.Atoi(strings.TrimPrefix(action, "remove:"))
		if err == nil {
			err = draft.RemoveLine(i)
		}
		if err != nil {
			h.logger.Warn("remove draft line", "error", err, "action", action)
		}
	case action == "submit":
		h.submit(w, r, session, draft, catalog)
		return
	}

	if err := h.state.SaveDraft(r.Context(), session, draft); err != nil {
		h.logger.Error("save draft failed", "error", err)
		data.Error = internalShared.UserSafeMessage(err, createFailed)
	}
	h.renderBuilder(w, r, data, catalog, http.StatusOK)
}

// Preview prices the posted rows for the live preview. The draft keeps the
// posted values so a reload shows what the operator typed.
func (h *Handler) Preview(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad request", err.Error())
		return
	}
	session, _ := shared.Actor(r)
	draft, found, err := h.state.Draft(r.Context(), session)
	if err != nil {
		h.logger.Error("load draft failed", "error", err)
		httpx.RespondError(w, err, loadFailed)
		return
	}
	if !found {
		httpx.Problem(w, http.StatusNotFound, "Not Found", expiredNotice)
		return
	}
	applyForm(draft, r.PostForm, h.catalog(r.Context(), session, draft.BranchID))
	if err := h.state.SaveDraft(r.Context(), session, draft); err != nil {
		h.logger.Warn("save draft failed", "error", err)
	}
	httpx.JSON(w, http.StatusOK, previewOf(draft, draft.Totals()))
}

func (h *Handler) submit(w http.ResponseWriter, r *http.Request, session string, draft *billing.Draft, catalog []apiclient.Product) {
	data := BuilderPage{BranchID: draft.BranchID, Draft: draft}
	if errs := shared.Validate(customerForm{Name: draft.Customer.Name}); len(errs) > 0 {
		data.Errors = map[string]string{"CustomerName": errs["Name"]}
		h.keepDraft(r, session, draft)
		h.renderBuilder(w, r, data, catalog, http.StatusBadRequest)
		return
	}

	totals := draft.Totals()
	if err := h.api.CreateInvoice(r.Context(), Submission(draft, totals)); err != nil {
		h.logger.Error("create invoice failed", "error", err, "invoice_number", draft.InvoiceNumber)
		data.Error = internalShared.UserSafeMessage(err, createFailed)
		h.keepDraft(r, session, draft)
		h.renderBuilder(w, r, data, catalog, http.StatusBadRequest)
		return
	}
	if err := h.state.ClearDraft(r.Context(), session); err != nil {
		h.logger.Warn("clear draft failed", "error", err)
	}
	h.page.RedirectWithFlash(w, r, listURL(draft.BranchID), "success", createdNotice)
}

func (h *Handler) keepDraft(r *http.Request, session string, draft *billing.Draft) {
	if err := h.state.SaveDraft(r.Context(), session, draft); err != nil {
		h.logger.Warn("save draft failed", "error", err)
	}
}

// openDraft loads the session draft and the product catalog of its branch.
// A missing draft sends the operator back to the builder entry.
func (h *Handler) openDraft(w http.ResponseWriter, r *http.Request, session string) (*billing.Draft, []apiclient.Product, bool) {
	draft, found, err := h.state.Draft(r.Context(), session)
	if err != nil {
		h.logger.Error("load draft failed", "error", err)
		httpx.RespondError(w, err, loadFailed)
		return nil, nil, false
	}
	if !found {
		h.page.RedirectWithFlash(w, r, builderPath, "error", expiredNotice)
		return nil, nil, false
	}
	return draft, h.catalog(r.Context(), session, draft.BranchID), true
}

// catalog returns the cached products of branchID, reloading them when the
// cache holds another branch.
func (h *Handler) catalog(ctx context.Context, session string, branchID int64) []apiclient.Product {
	snap, err := h.state.Products(ctx, session)
	if err == nil && snap.Loaded && snap.Scope == branchID {
		return snap.Items
	}
	items, _, err := h.state.LoadProducts(ctx, session, branchID)
	if err != nil {
		h.logger.Error("load products failed", "error", err, "branch_id", branchID)
		return nil
	}
	return items
}

func (h *Handler) renderBuilder(w http.ResponseWriter, r *http.Request, data BuilderPage, catalog []apiclient.Product, status int) {
	session, _ := shared.Actor(r)
	if data.Branches == nil {
		snap, err := h.state.Branches(r.Context(), session)
		if err != nil {
			h.logger.Error("read branch cache failed", "error", err)
		}
		data.Branches = shared.BranchOptions(snap.Items, data.BranchID)
	}
	for _, opt := range data.Branches {
		if opt.Selected {
			data.BranchName = opt.Label
		}
	}
	if data.Draft != nil {
		totals := data.Draft.Totals()
		data.Rows = builderRows(data.Draft, totals, catalog)
		data.Summary = summaryOf(totals)
	}
	h.page.Render(w, r, "pages/invoice_builder.html", "New Invoice", data, status)
}

// View fetches the invoice fresh and dresses it from the cached branch and
// organization lists.
func (h *Handler) View(w http.ResponseWriter, r *http.Request) {
	doc, ok := h.document(w, r)
	if !ok {
		return
	}
	h.page.Render(w, r, "pages/invoice.html", "Invoice "+doc.Invoice.InvoiceNumber, ViewPage{Document: doc}, http.StatusOK)
}

// PDF renders the viewer document and converts it through Gotenberg.
func (h *Handler) PDF(w http.ResponseWriter, r *http.Request) {
	doc, ok := h.document(w, r)
	if !ok {
		return
	}
	html, err := h.page.Document("pages/invoice_pdf.html", "Invoice "+doc.Invoice.InvoiceNumber, doc)
	if err != nil {
		h.logger.Error("render invoice document failed", "error", err, "id", doc.Invoice.ID)
		httpx.RespondError(w, err, loadFailed)
		return
	}
	pdf, err := h.pdf.RenderHTML(r.Context(), html)
	if err != nil {
		h.logger.Error("render invoice pdf failed", "error", err, "id", doc.Invoice.ID)
		httpx.Problem(w, http.StatusBadGateway, "Bad Gateway", "PDF export is unavailable")
		return
	}
	report.WritePDF(w, doc.Invoice.InvoiceNumber+".pdf", pdf)
}

func (h *Handler) document(w http.ResponseWriter, r *http.Request) (Document, bool) {
	id, err := shared.URLID(r)
	if err != nil {
		httpx.RespondError(w, httpx.ErrNotFound, "Invoice not found")
		return Document{}, false
	}
	detail, err := h.api.GetInvoice(r.Context(), id)
	if err != nil {
		h.logger.Error("get invoice failed", "error", err, "id", id)
		var apiErr *apiclient.APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
			h.page.RedirectWithFlash(w, r, listPath, "error", internalShared.UserSafeMessage(err, loadFailed))
			return Document{}, false
		}
		httpx.RespondError(w, err, loadFailed)
		return Document{}, false
	}
	session, _ := shared.Actor(r)
	return h.dress(r.Context(), session, detail), true
}

// dress resolves the branch and organization from the caches. Either may be
// stale or absent; placeholders stand in for missing names.
func (h *Handler) dress(ctx context.Context, session string, detail apiclient.InvoiceDetail) Document {
	doc := Document{
		Invoice:          detail.Invoice,
		Items:            detail.Items,
		OrganizationName: UnknownOrganization,
		BranchName:       UnknownBranch,
		BillColor:        defaultBillColor,
		BillFont:         defaultBillFont,
	}
	branch, found, err := h.state.FindBranch(ctx, session, detail.Invoice.BranchID)
	if err != nil {
		h.logger.Warn("read branch cache failed", "error", err)
	}
	if !found {
		return doc
	}
	doc.BranchName = branch.Name
	doc.BranchAddress = branch.Address
	doc.BranchPhone = branch.Phone
	doc.BillIcon = branch.BillIcon
	if branch.BillColor != "" {
		doc.BillColor = branch.BillColor
	}
	if branch.BillFont != "" {
		doc.BillFont = branch.BillFont
	}
	if org, ok, _ := h.state.FindOrganization(ctx, session, branch.OrganizationID); ok {
		doc.OrganizationName = org.Name
	}
	return doc
}
