package auth

import (
	"context"

	"github.com/branchdesk/branchdesk/internal/apiclient"
	"github.com/branchdesk/branchdesk/internal/shared"
)

// API is the slice of the invoicing API used for authentication.
type API interface {
	Login(ctx context.Context, creds apiclient.Credentials) (apiclient.User, error)
	Register(ctx context.Context, reg apiclient.Registration) error
}

// Service wraps authentication calls against the API server. Credentials
// are checked remotely; only the returned identity is kept locally.
type Service struct {
	api API
}

// NewService constructs a new Service.
func NewService(api API) *Service {
	return &Service{api: api}
}

// Authenticate exchanges credentials for the identity stored in the session.
func (s *Service) Authenticate(ctx context.Context, username, password string) (shared.Identity, error) {
	user, err := s.api.Login(ctx, apiclient.Credentials{Username: username, Password: password})
	if err != nil {
		return shared.Identity{}, err
	}
	return identityOf(user), nil
}

// Register creates a new account.
func (s *Service) Register(ctx context.Context, form registerForm) error {
	return s.api.Register(ctx, apiclient.Registration{
		Username: form.Username,
		Email:    form.Email,
		FullName: form.FullName,
		Password: form.Password,
	})
}
