// internal/app/features/login/handler.go
package login

import (
	"github.com/go-chi/chi/v5"
	"github.com/jjprojectslab/comunify/internal/app/features/shared"
	identitystore "github.com/jjprojectslab/comunify/internal/app/store/identities"
	"github.com/jjprojectslab/comunify/internal/app/system/auth"
	"github.com/jjprojectslab/comunify/internal/app/system/ratelimit"
)

// Config holds the sign-in policy.
type Config struct {
	// RequireEmailConfirmation blocks password sign-in until the email is confirmed.
	RequireEmailConfirmation bool
}

// Handler serves the /auth endpoints for password accounts.
type Handler struct {
	shared.Deps

	sessions *auth.SessionManager
	limiter  *ratelimit.Limiter
	cfg      Config

	identities *identitystore.Store
	accounts   shared.Accounts
	placement  shared.Placement
}

// NewHandler wires a login Handler. limiter throttles sign-in and sign-up by
// client IP; nil disables throttling.
func NewHandler(d shared.Deps, sm *auth.SessionManager, limiter *ratelimit.Limiter, cfg Config) *Handler {
	return &Handler{
		Deps:       d,
		sessions:   sm,
		limiter:    limiter,
		cfg:        cfg,
		identities: identitystore.New(d.DB),
		accounts:   shared.NewAccounts(d.DB),
		placement:  shared.NewPlacement(d.DB),
	}
}

// Routes mounts sign-up, sign-in and account endpoints (typically under "/auth").
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		if h.limiter != nil {
			pr.Use(h.limiter.Middleware)
		}
		pr.Post("/signup", h.HandleSignUp)
	})
	r.Post("/signin", h.HandleSignIn)
	r.Post("/signout", h.HandleSignOut)

	r.Group(func(pr chi.Router) {
		pr.Use(h.sessions.RequireSignedIn)
		pr.Get("/me", h.HandleMe)
		pr.Post("/password", h.HandleChangePassword)
	})
	return r
}
