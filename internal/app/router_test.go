package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/branchdesk/branchdesk/internal/auth"
	"github.com/branchdesk/branchdesk/internal/dashboard"
	"github.com/branchdesk/branchdesk/internal/invoices"
	"github.com/branchdesk/branchdesk/internal/masterdata"
	"github.com/branchdesk/branchdesk/internal/observability"
	"github.com/branchdesk/branchdesk/internal/shared"
	"github.com/branchdesk/branchdesk/testing/webtest"
)

const csrfToken = "router-test-token"

type nopRenderer struct{}

func (nopRenderer) RenderHTML(ctx context.Context, html []byte) ([]byte, error) {
	return []byte("%PDF-1.4"), nil
}

type routerFixture struct {
	env     *webtest.Env
	handler http.Handler
	metrics *observability.Metrics
}

func newRouterFixture(t *testing.T, cfg *Config) routerFixture {
	t.Helper()
	env := webtest.New(t)
	api := &webtest.FakeAPI{}
	ctrl := env.Controller(api)
	metrics := observability.NewMetrics()
	handler := NewRouter(RouterParams{
		Logger:            newLogger(&strings.Builder{}, cfg),
		Config:            cfg,
		SessionManager:    env.Sessions,
		CSRFManager:       env.CSRF,
		AuthHandler:       auth.NewHandler(nil, auth.NewService(api), env.Page, env.Sessions, env.Store),
		DashboardHandler:  dashboard.NewHandler(nil, api, ctrl, env.Page),
		MasterDataHandler: masterdata.NewHandler(nil, api, ctrl, env.Page),
		InvoiceHandler:    invoices.NewHandler(nil, api, ctrl, env.Page, nopRenderer{}),
		Metrics:           metrics,
	})
	return routerFixture{env: env, handler: handler, metrics: metrics}
}

// session stores a session carrying the CSRF token and, when given, an
// identity, returning its id.
func (f routerFixture) session(t *testing.T, id *shared.Identity) string {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	sess, err := f.env.Sessions.Load(context.Background(), req)
	require.NoError(t, err)
	sess.Set(shared.CSRFSessionKey, csrfToken)
	if id != nil {
		sess.SetIdentity(*id)
	}
	require.NoError(t, f.env.Sessions.Commit(context.Background(), httptest.NewRecorder(), req, sess))
	return sess.ID
}

func (f routerFixture) do(req *http.Request, sid string) *httptest.ResponseRecorder {
	if sid != "" {
		req.AddCookie(&http.Cookie{Name: f.env.Sessions.CookieName(), Value: sid})
	}
	res := httptest.NewRecorder()
	f.handler.ServeHTTP(res, req)
	return res
}

func TestHealthz(t *testing.T) {
	f := newRouterFixture(t, &Config{})
	res := f.do(webtest.Get("/healthz"), "")
	assert.Equal(t, http.StatusOK, res.Code)
	assert.JSONEq(t, `{"status":"ok"}`, res.Body.String())
	assert.Contains(t, res.Header().Get("Content-Security-Policy"), "style-src 'self' 'unsafe-inline'")
	assert.Equal(t, "DENY", res.Header().Get("X-Frame-Options"))
}

func TestLandingRoutesBySession(t *testing.T) {
	f := newRouterFixture(t, &Config{})

	res := f.do(webtest.Get("/"), "")
	assert.Equal(t, http.StatusSeeOther, res.Code)
	assert.Equal(t, "/login", res.Header().Get("Location"))

	sid := f.session(t, &shared.Identity{ID: 7, Username: "ann", FullName: "Ann"})
	res = f.do(webtest.Get("/"), sid)
	assert.Equal(t, http.StatusSeeOther, res.Code)
	assert.Equal(t, "/dashboard", res.Header().Get("Location"))
}

func TestProtectedRoutesRequireIdentity(t *testing.T) {
	f := newRouterFixture(t, &Config{})
	for _, path := range []string{"/dashboard", "/masterdata/organizations", "/masterdata/products", "/invoices", "/invoices/new"} {
		res := f.do(webtest.Get(path), "")
		assert.Equal(t, http.StatusSeeOther, res.Code, path)
		assert.Equal(t, "/login", res.Header().Get("Location"), path)
	}
}

func TestAuthenticatedDashboardRendersAndSetsCookie(t *testing.T) {
	f := newRouterFixture(t, &Config{})
	sid := f.session(t, &shared.Identity{ID: 7, Username: "ann", FullName: "Ann"})

	res := f.do(webtest.Get("/dashboard"), sid)
	assert.Equal(t, http.StatusOK, res.Code)
	assert.Contains(t, res.Body.String(), "Create an organization to see its dashboard.")
	assert.Contains(t, res.Header().Get("Set-Cookie"), "test_session="+sid)
}

func TestMutationsRequireCSRFToken(t *testing.T) {
	f := newRouterFixture(t, &Config{})
	sid := f.session(t, &shared.Identity{ID: 7, Username: "ann"})

	res := f.do(webtest.PostForm("/logout", url.Values{}), sid)
	assert.Equal(t, http.StatusForbidden, res.Code)

	res = f.do(webtest.PostForm("/logout", url.Values{shared.CSRFFormField: {"wrong"}}), sid)
	assert.Equal(t, http.StatusForbidden, res.Code)
}

func TestCSRFHeaderAcceptedForScriptRequests(t *testing.T) {
	f := newRouterFixture(t, &Config{})
	sid := f.session(t, &shared.Identity{ID: 7, Username: "ann"})

	req := webtest.PostForm("/invoices/draft/preview", url.Values{"discount": {"0"}})
	req.Header.Set(shared.CSRFHeader, csrfToken)
	res := f.do(req, sid)

	// Passing the CSRF check lands on the preview handler, which has no
	// draft for this session yet.
	assert.Equal(t, http.StatusNotFound, res.Code)
	assert.Contains(t, res.Header().Get("Content-Type"), "application/json")
}

func TestLoginPostsAreRateLimited(t *testing.T) {
	f := newRouterFixture(t, &Config{LoginRateLimit: 2})
	sid := f.session(t, nil)

	post := func() int {
		form := url.Values{shared.CSRFFormField: {csrfToken}, "username": {""}, "password": {""}}
		return f.do(webtest.PostForm("/login", form), sid).Code
	}
	assert.Equal(t, http.StatusBadRequest, post())
	assert.Equal(t, http.StatusBadRequest, post())
	assert.Equal(t, http.StatusTooManyRequests, post())

	// Reads stay reachable.
	assert.Equal(t, http.StatusOK, f.do(webtest.Get("/login"), sid).Code)
}

func TestStaticAssetsAreCached(t *testing.T) {
	f := newRouterFixture(t, &Config{})
	res := f.do(webtest.Get("/static/css/app.css"), "")
	assert.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, "public, max-age=3600", res.Header().Get("Cache-Control"))
	assert.Contains(t, res.Header().Get("Content-Type"), "text/css")
}

func TestInvoicePreviewScriptDropsStaleResponses(t *testing.T) {
	f := newRouterFixture(t, &Config{})
	res := f.do(webtest.Get("/static/js/app.js"), "")
	require.Equal(t, http.StatusOK, res.Code)
	body := res.Body.String()
	assert.Contains(t, body, "var seq = ++latest;")
	assert.Contains(t, body, "if (!preview || seq !== latest) return;")
}

func TestMetricsEndpointRecordsRoutes(t *testing.T) {
	f := newRouterFixture(t, &Config{})
	f.do(webtest.Get("/healthz"), "")

	res := f.do(webtest.Get("/metrics"), "")
	assert.Equal(t, http.StatusOK, res.Code)
	assert.Contains(t, res.Body.String(), `branchdesk_http_requests_total{code="200",route="/healthz"} 1`)
}
