package auth

import (
	"github.com/branchdesk/branchdesk/internal/apiclient"
	"github.com/branchdesk/branchdesk/internal/shared"
)

const (
	loginFailed        = "Login failed"
	registrationFailed = "Registration failed"
	registeredNotice   = "Registration successful! Please login."
)

type loginForm struct {
	Username string `validate:"required"`
	Password string `validate:"required"`
}

type registerForm struct {
	Username string `validate:"required"`
	Email    string `validate:"required"`
	FullName string `validate:"required"`
	Password string `validate:"required"`
}

// authPageData backs the combined login/register page. Mode selects which
// of the two forms is visible.
type authPageData struct {
	Mode     string
	Login    loginForm
	Register registerForm
	Error    string
	Errors   map[string]string
}

func identityOf(u apiclient.User) shared.Identity {
	return shared.Identity{ID: u.ID, Username: u.Username, FullName: u.FullName}
}
