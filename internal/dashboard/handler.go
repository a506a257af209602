// Package dashboard renders the organization overview: headline counters,
// sales per branch and the latest invoices.
package dashboard

import (
	"context"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/singleflight"

	"github.com/branchdesk/branchdesk/internal/apiclient"
	"github.com/branchdesk/branchdesk/internal/billing"
	"github.com/branchdesk/branchdesk/internal/dashboard/svg"
	"github.com/branchdesk/branchdesk/internal/masterdata/shared"
	internalShared "github.com/branchdesk/branchdesk/internal/shared"
	"github.com/branchdesk/branchdesk/internal/state"
	"github.com/branchdesk/branchdesk/internal/view"
)

const chartWidth = 720

// API fetches the aggregate summary of one organization.
type API interface {
	Dashboard(ctx context.Context, orgID int64) (apiclient.DashboardSummary, error)
}

// Page backs the dashboard template. Empty means no organization exists
// yet, so nothing is fetched.
type Page struct {
	Empty            bool
	OrganizationName string
	Stats            apiclient.DashboardStats
	Chart            template.HTML
	Recent           []apiclient.RecentInvoice
	Error            string
}

type Handler struct {
	logger *slog.Logger
	api    API
	state  *state.Controller
	page   *view.Page
	group  singleflight.Group
}

func NewHandler(logger *slog.Logger, api API, ctrl *state.Controller, page *view.Page) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, api: api, state: ctrl, page: page}
}

// MountRoutes registers dashboard routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.Show)
}

// Show loads the summary of the first cached organization, loading the
// organizations first when the cache is empty.
func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	session, user := shared.Actor(r)
	data := Page{}

	orgs, err := h.state.EnsureOrganizations(r.Context(), session, user.ID)
	if err != nil {
		h.logger.Error("load organizations failed", "error", err)
		data.Error = internalShared.UserSafeMessage(err, shared.LoadFailed)
	}
	if len(orgs) == 0 {
		data.Empty = true
		h.page.Render(w, r, "pages/dashboard.html", "Dashboard", data, http.StatusOK)
		return
	}

	org := orgs[0]
	data.OrganizationName = org.Name
	summary, err := h.summary(r.Context(), org.ID)
	if err != nil {
		h.logger.Error("load dashboard failed", "error", err, "organization_id", org.ID)
		data.Error = internalShared.UserSafeMessage(err, shared.LoadFailed)
		h.page.Render(w, r, "pages/dashboard.html", "Dashboard", data, http.StatusOK)
		return
	}
	data.Stats = summary.Stats
	data.Recent = summary.RecentInvoices
	data.Chart = h.chart(summary.SalesByBranch)
	h.page.Render(w, r, "pages/dashboard.html", "Dashboard", data, http.StatusOK)
}

// summary collapses concurrent loads of the same organization into one
// upstream call.
func (h *Handler) summary(ctx context.Context, orgID int64) (apiclient.DashboardSummary, error) {
	key := "dashboard:" + strconv.FormatInt(orgID, 10)
	ch := h.group.DoChan(key, func() (interface{}, error) {
		return h.api.Dashboard(context.WithoutCancel(ctx), orgID)
	})
	select {
	case <-ctx.Done():
		return apiclient.DashboardSummary{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return apiclient.DashboardSummary{}, res.Err
		}
		return res.Val.(apiclient.DashboardSummary), nil
	}
}

func (h *Handler) chart(sales []apiclient.BranchSales) template.HTML {
	if len(sales) == 0 {
		return ""
	}
	bars := make([]svg.Bar, 0, len(sales))
	for _, s := range sales {
		bars = append(bars, svg.Bar{Label: s.Name, Value: s.Total, Display: billing.FormatMoney(s.Total)})
	}
	out, err := svg.HorizontalBars(chartWidth, bars, svg.BarOpts{
		Title:       "Sales by Branch",
		Description: "Total sales per branch relative to the best selling branch",
	})
	if err != nil {
		h.logger.Warn("render sales chart failed", "error", err)
		return ""
	}
	return out
}
