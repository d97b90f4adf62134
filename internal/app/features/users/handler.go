// internal/app/features/users/handler.go
package users

import (
	"errors"

	"github.com/go-chi/chi/v5"
	uierrors "github.com/jjprojectslab/comunify/internal/app/features/errors"
	"github.com/jjprojectslab/comunify/internal/app/features/shared"
	"github.com/jjprojectslab/comunify/internal/app/policy/userpolicy"
	areamemberstore "github.com/jjprojectslab/comunify/internal/app/store/areamembers"
	identitystore "github.com/jjprojectslab/comunify/internal/app/store/identities"
	locationstore "github.com/jjprojectslab/comunify/internal/app/store/locations"
	profilestore "github.com/jjprojectslab/comunify/internal/app/store/profiles"
	userrolestore "github.com/jjprojectslab/comunify/internal/app/store/userroles"
	"github.com/jjprojectslab/comunify/internal/app/system/auth"
	"github.com/jjprojectslab/comunify/internal/app/system/authz"
)

// Handler serves user administration.
type Handler struct {
	shared.Deps

	profiles   *profilestore.Store
	identities *identitystore.Store
	roles      *userrolestore.Store
	members    *areamemberstore.Store
	locs       *locationstore.Store
	accounts   shared.Accounts
	placement  shared.Placement
}

func NewHandler(d shared.Deps) *Handler {
	return &Handler{
		Deps:       d,
		profiles:   profilestore.New(d.DB),
		identities: identitystore.New(d.DB),
		roles:      userrolestore.New(d.DB),
		members:    areamemberstore.New(d.DB),
		locs:       locationstore.New(d.DB),
		accounts:   shared.NewAccounts(d.DB),
		placement:  shared.NewPlacement(d.DB),
	}
}

// Routes mounts user administration under "/users".
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)
	r.Use(sm.RequireRole(authz.AllowedRoles(authz.Users)...))

	r.Get("/", h.HandleList)
	r.Post("/", h.HandleCreate)
	r.Get("/pastors", h.HandlePastors)
	r.Put("/{id}", h.HandleUpdate)
	r.Delete("/{id}", h.HandleDelete)
	r.Get("/{id}/roles", h.HandleGetRoles)
	r.Put("/{id}/roles", h.HandleSetRoles)
	r.Post("/{id}/confirm-email", h.HandleConfirmEmail)
	return r
}

// policyErr maps userpolicy failures onto the error taxonomy.
func policyErr(err error) error {
	switch {
	case errors.Is(err, userpolicy.ErrEscalation):
		return uierrors.Unauthorized(err.Error())
	case errors.Is(err, userpolicy.ErrSelfDelete), errors.Is(err, userpolicy.ErrRoleNotGrant):
		return uierrors.Validation(err.Error())
	default:
		return err
	}
}
