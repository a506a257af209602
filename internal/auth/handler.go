package auth

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/branchdesk/branchdesk/internal/shared"
	"github.com/branchdesk/branchdesk/internal/view"
)

// Workspace is reset when a user signs out.
type Workspace interface {
	Reset(ctx context.Context, session string) error
}

// Handler wires HTTP endpoints for authentication flows.
type Handler struct {
	logger         *slog.Logger
	service        *Service
	page           *view.Page
	sessionManager *shared.SessionManager
	workspace      Workspace
	validator      *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, page *view.Page, sessions *shared.SessionManager, workspace Workspace) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		logger:         logger,
		service:        service,
		page:           page,
		sessionManager: sessions,
		workspace:      workspace,
		validator:      validator.New(),
	}
}

// MountRoutes registers auth routes on provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(RedirectAuthenticated)
		r.Get("/login", h.showLogin)
		r.Post("/login", h.handleLogin)
		r.Post("/register", h.handleRegister)
	})
	r.Post("/logout", h.handleLogout)
}

func (h *Handler) showLogin(w http.ResponseWriter, r *http.Request) {
	mode := "login"
	if r.URL.Query().Get("mode") == "register" {
		mode = "register"
	}
	h.page.Render(w, r, "pages/login.html", "Login", authPageData{Mode: mode}, http.StatusOK)
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	form := loginForm{
		Username: r.PostFormValue("username"),
		Password: r.PostFormValue("password"),
	}
	data := authPageData{Mode: "login", Login: form, Errors: h.fieldErrors(form)}
	if len(data.Errors) > 0 {
		h.page.Render(w, r, "pages/login.html", "Login", data, http.StatusBadRequest)
		return
	}

	identity, err := h.service.Authenticate(r.Context(), form.Username, form.Password)
	if err != nil {
		h.logger.Info("login rejected", slog.String("username", form.Username), slog.Any("error", err))
		data.Login.Password = ""
		data.Error = shared.UserSafeMessage(err, loginFailed)
		h.page.Render(w, r, "pages/login.html", "Login", data, http.StatusUnauthorized)
		return
	}

	sess := shared.SessionFromContext(r.Context())
	if sess == nil {
		h.logger.Error("session missing during login")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	h.sessionManager.Renew(sess)
	sess.SetIdentity(identity)
	http.Redirect(w, r, dashboardPath, http.StatusSeeOther)
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	form := registerForm{
		Username: r.PostFormValue("username"),
		Email:    r.PostFormValue("email"),
		FullName: r.PostFormValue("full_name"),
		Password: r.PostFormValue("password"),
	}
	data := authPageData{Mode: "register", Register: form, Errors: h.fieldErrors(form)}
	if len(data.Errors) > 0 {
		h.page.Render(w, r, "pages/login.html", "Register", data, http.StatusBadRequest)
		return
	}

	if err := h.service.Register(r.Context(), form); err != nil {
		h.logger.Info("registration rejected", slog.String("username", form.Username), slog.Any("error", err))
		data.Register.Password = ""
		data.Error = shared.UserSafeMessage(err, registrationFailed)
		h.page.Render(w, r, "pages/login.html", "Register", data, http.StatusBadRequest)
		return
	}

	h.page.RedirectWithFlash(w, r, loginPath, "success", registeredNotice)
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	if sess != nil {
		if h.workspace != nil {
			if err := h.workspace.Reset(r.Context(), sess.ID); err != nil {
				h.logger.Warn("reset workspace", slog.Any("error", err))
			}
		}
		h.sessionManager.Destroy(sess)
	}
	http.Redirect(w, r, loginPath, http.StatusSeeOther)
}

func (h *Handler) fieldErrors(form any) map[string]string {
	errs := make(map[string]string)
	if err := h.validator.Struct(form); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok {
			for _, fieldErr := range verrs {
				errs[fieldErr.Field()] = "This field is required"
			}
		}
	}
	return errs
}

// ShowLoginForTest exposes the GET handler for tests.
func (h *Handler) ShowLoginForTest(w http.ResponseWriter, r *http.Request) {
	h.showLogin(w, r)
}

// HandleLoginForTest exposes the POST handler for tests.
func (h *Handler) HandleLoginForTest(w http.ResponseWriter, r *http.Request) {
	h.handleLogin(w, r)
}

// HandleRegisterForTest exposes the register handler for tests.
func (h *Handler) HandleRegisterForTest(w http.ResponseWriter, r *http.Request) {
	h.handleRegister(w, r)
}

// HandleLogoutForTest exposes the logout handler for tests.
func (h *Handler) HandleLogoutForTest(w http.ResponseWriter, r *http.Request) {
	h.handleLogout(w, r)
}
