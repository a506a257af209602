package shared

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	internalShared "github.com/branchdesk/branchdesk/internal/shared"
)

// ParseID parses a positive entity id.
func ParseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidID
	}
	return id, nil
}

// QueryID reads an optional id from the query string; absent or malformed
// values yield 0.
func QueryID(r *http.Request, key string) int64 {
	id, err := ParseID(r.URL.Query().Get(key))
	if err != nil {
		return 0
	}
	return id
}

// FormID reads an optional id from the posted form.
func FormID(r *http.Request, key string) int64 {
	id, err := ParseID(r.PostFormValue(key))
	if err != nil {
		return 0
	}
	return id
}

// URLID reads the {id} route parameter.
func URLID(r *http.Request) (int64, error) {
	return ParseID(chi.URLParam(r, "id"))
}

// Actor returns the session id and identity behind the request.
func Actor(r *http.Request) (string, internalShared.Identity) {
	sess := internalShared.SessionFromContext(r.Context())
	if sess == nil {
		return "", internalShared.Identity{}
	}
	id, _ := sess.Identity()
	return sess.ID, id
}
