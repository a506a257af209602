package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/branchdesk/branchdesk/internal/auth"
	"github.com/branchdesk/branchdesk/internal/shared"
)

func withIdentity(t *testing.T, req *http.Request, id *shared.Identity) *http.Request {
	t.Helper()
	f := newAuthHandler(t, &stubAPI{})
	sess, err := f.sessions.Load(req.Context(), req)
	if err != nil {
		t.Fatalf("load session: %v", err)
	}
	if id != nil {
		sess.SetIdentity(*id)
	}
	return req.WithContext(shared.ContextWithSession(req.Context(), sess))
}

func TestGuardRoutes(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusTeapot) })
	alice := &shared.Identity{ID: 7, Username: "alice"}

	cases := []struct {
		name     string
		handler  http.Handler
		identity *shared.Identity
		status   int
		location string
	}{
		{name: "protected without identity", handler: auth.RequireIdentity(ok), status: http.StatusSeeOther, location: "/login"},
		{name: "protected with identity", handler: auth.RequireIdentity(ok), identity: alice, status: http.StatusTeapot},
		{name: "login without identity", handler: auth.RedirectAuthenticated(ok), status: http.StatusTeapot},
		{name: "login with identity", handler: auth.RedirectAuthenticated(ok), identity: alice, status: http.StatusSeeOther, location: "/dashboard"},
		{name: "landing without identity", handler: http.HandlerFunc(auth.Landing), status: http.StatusSeeOther, location: "/login"},
		{name: "landing with identity", handler: http.HandlerFunc(auth.Landing), identity: alice, status: http.StatusSeeOther, location: "/dashboard"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := withIdentity(t, httptest.NewRequest(http.MethodGet, "/somewhere", nil), tc.identity)
			res := httptest.NewRecorder()
			tc.handler.ServeHTTP(res, req)
			assert.Equal(t, tc.status, res.Code)
			assert.Equal(t, tc.location, res.Header().Get("Location"))
		})
	}
}
