// Package webtest builds the session, template and workspace plumbing that
// handler tests share.
package webtest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/branchdesk/branchdesk/internal/shared"
	"github.com/branchdesk/branchdesk/internal/state"
	"github.com/branchdesk/branchdesk/internal/view"
)

// Env is a miniredis-backed session store, workspace and page renderer.
type Env struct {
	Redis    *miniredis.Miniredis
	Client   *redis.Client
	Sessions *shared.SessionManager
	CSRF     *shared.CSRFManager
	Store    *state.Store
	Page     *view.Page
}

// New starts a fresh Env for t.
func New(t *testing.T) *Env {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	templates, err := view.NewEngine()
	if err != nil {
		t.Fatalf("templates: %v", err)
	}
	csrf := shared.NewCSRFManager("csrfsecret")
	return &Env{
		Redis:    mr,
		Client:   client,
		Sessions: shared.NewSessionManager(client, "test_session", "secret", time.Hour, false),
		CSRF:     csrf,
		Store:    state.NewStore(client, time.Hour),
		Page:     view.NewPage(templates, csrf, nil),
	}
}

// Controller builds a workspace controller over api.
func (e *Env) Controller(api state.API) *state.Controller {
	return state.NewController(api, e.Store, nil)
}

// Login persists a session holding id and returns its id.
func (e *Env) Login(t *testing.T, id shared.Identity) string {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	sess, err := e.Sessions.Load(context.Background(), req)
	if err != nil {
		t.Fatalf("load session: %v", err)
	}
	sess.SetIdentity(id)
	if err := e.Sessions.Commit(context.Background(), httptest.NewRecorder(), req, sess); err != nil {
		t.Fatalf("commit session: %v", err)
	}
	return sess.ID
}

// Serve sends req through h inside session sid and commits the session.
func (e *Env) Serve(t *testing.T, h http.Handler, req *http.Request, sid string) *httptest.ResponseRecorder {
	t.Helper()
	if sid != "" {
		req.AddCookie(&http.Cookie{Name: e.Sessions.CookieName(), Value: sid})
	}
	sess, err := e.Sessions.Load(req.Context(), req)
	if err != nil {
		t.Fatalf("load session: %v", err)
	}
	ctx := shared.ContextWithSession(req.Context(), sess)
	req = req.WithContext(ctx)
	res := httptest.NewRecorder()
	h.ServeHTTP(res, req)
	if err := e.Sessions.Commit(ctx, res, req, sess); err != nil {
		t.Fatalf("commit session: %v", err)
	}
	return res
}

// Flash pops the oldest pending flash of session sid.
func (e *Env) Flash(t *testing.T, sid string) *shared.FlashMessage {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: e.Sessions.CookieName(), Value: sid})
	sess, err := e.Sessions.Load(context.Background(), req)
	if err != nil {
		t.Fatalf("load session: %v", err)
	}
	return sess.PopFlash()
}

// Get builds a GET request.
func Get(target string) *http.Request {
	return httptest.NewRequest(http.MethodGet, target, nil)
}

// PostForm builds a urlencoded POST request.
func PostForm(target string, values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}
