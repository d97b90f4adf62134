// internal/app/features/locations/handler.go
package locations

import (
	"github.com/go-chi/chi/v5"
	"github.com/jjprojectslab/comunify/internal/app/features/shared"
	areamemberstore "github.com/jjprojectslab/comunify/internal/app/store/areamembers"
	areastore "github.com/jjprojectslab/comunify/internal/app/store/areas"
	locationstore "github.com/jjprojectslab/comunify/internal/app/store/locations"
	organizationstore "github.com/jjprojectslab/comunify/internal/app/store/organizations"
	profilestore "github.com/jjprojectslab/comunify/internal/app/store/profiles"
	"github.com/jjprojectslab/comunify/internal/app/system/auth"
	"github.com/jjprojectslab/comunify/internal/app/system/authz"
)

// Handler serves the location endpoints.
type Handler struct {
	shared.Deps

	locs     *locationstore.Store
	orgs     *organizationstore.Store
	areas    *areastore.Store
	members  *areamemberstore.Store
	profiles *profilestore.Store
}

func NewHandler(d shared.Deps) *Handler {
	return &Handler{
		Deps:     d,
		locs:     locationstore.New(d.DB),
		orgs:     organizationstore.New(d.DB),
		areas:    areastore.New(d.DB),
		members:  areamemberstore.New(d.DB),
		profiles: profilestore.New(d.DB),
	}
}

// Routes mounts the location routes under "/locations".
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireRole(authz.AllowedRoles(authz.Users)...))
		pr.Get("/", h.HandleList)
	})

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireRole(authz.AllowedRoles(authz.OrgMutation)...))
		pr.Post("/", h.HandleCreate)
		pr.Put("/{id}", h.HandleUpdate)
		pr.Delete("/{id}", h.HandleDelete)
	})

	return r
}
