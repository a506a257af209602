// Package httpx provides HTTP response utilities.
package httpx

import (
	"errors"
	"net/http"

	"github.com/branchdesk/branchdesk/internal/shared"
)

// Sentinel errors for the handler layer.
var (
	ErrNotFound   = errors.New("resource not found")
	ErrValidation = errors.New("validation failed")
)

// upstream is implemented by API client errors.
type upstream interface {
	UserMessage() string
}

type transport interface {
	Transport() bool
}

// RespondError maps errors to RFC7807 responses. Failures reported by the
// API server surface their message (or fallback) as the detail.
func RespondError(w http.ResponseWriter, err error, fallback string) {
	var up upstream
	var tr transport
	switch {
	case errors.Is(err, ErrNotFound):
		Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, ErrValidation):
		Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	case errors.As(err, &up):
		Problem(w, http.StatusBadGateway, "Upstream Rejected", shared.UserSafeMessage(err, fallback))
	case errors.As(err, &tr):
		Problem(w, http.StatusBadGateway, "Upstream Unavailable", shared.UserSafeMessage(err, fallback))
	default:
		Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
