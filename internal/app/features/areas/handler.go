// internal/app/features/areas/handler.go
package areas

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	uierrors "github.com/jjprojectslab/comunify/internal/app/features/errors"
	"github.com/jjprojectslab/comunify/internal/app/features/shared"
	"github.com/jjprojectslab/comunify/internal/app/policy/areapolicy"
	areamemberstore "github.com/jjprojectslab/comunify/internal/app/store/areamembers"
	areastore "github.com/jjprojectslab/comunify/internal/app/store/areas"
	locationstore "github.com/jjprojectslab/comunify/internal/app/store/locations"
	profilestore "github.com/jjprojectslab/comunify/internal/app/store/profiles"
	"github.com/jjprojectslab/comunify/internal/app/system/auth"
	"github.com/jjprojectslab/comunify/internal/app/system/authz"
	"github.com/jjprojectslab/comunify/internal/domain/models"
)

// Handler serves areas and their rosters.
type Handler struct {
	shared.Deps

	areas    *areastore.Store
	members  *areamemberstore.Store
	locs     *locationstore.Store
	profiles *profilestore.Store
}

func NewHandler(d shared.Deps) *Handler {
	return &Handler{
		Deps:     d,
		areas:    areastore.New(d.DB),
		members:  areamemberstore.New(d.DB),
		locs:     locationstore.New(d.DB),
		profiles: profilestore.New(d.DB),
	}
}

// Routes mounts area management under "/areas".
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)
	r.Use(sm.RequireRole(authz.AllowedRoles(authz.Areas)...))

	r.Get("/", h.HandleList)
	r.Post("/", h.HandleCreate)
	r.Put("/{id}", h.HandleUpdate)
	r.Delete("/{id}", h.HandleDelete)

	r.Get("/{id}/members", h.HandleMembers)
	r.Post("/{id}/members", h.HandleAddMember)
	r.Delete("/{id}/members/{userID}", h.HandleRemoveMember)
	r.Put("/{id}/members/{userID}/leader", h.HandleSetLeader)
	r.Get("/{id}/available-users", h.HandleAvailableUsers)
	return r
}

var errAreaNotFound = uierrors.NotFound("Area not found.")

// scopedArea loads the {id} area through the actor's location scope. An area
// outside the scope is reported as not found.
func (h *Handler) scopedArea(ctx context.Context, r *http.Request, a authz.Actor) (models.Area, error) {
	id, err := shared.PathID(r, "id")
	if err != nil {
		return models.Area{}, err
	}
	area, err := h.areas.Get(ctx, id, areapolicy.Scope(a))
	if err != nil {
		return models.Area{}, shared.StoreErr(err, errAreaNotFound.Message)
	}
	return area, nil
}

// policyErr maps areapolicy failures onto the error taxonomy.
func policyErr(err error) error {
	if errors.Is(err, areapolicy.ErrLocationRequired) || errors.Is(err, areapolicy.ErrNoLocation) {
		return uierrors.Validation(err.Error())
	}
	return err
}
