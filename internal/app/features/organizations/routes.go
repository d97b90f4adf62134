// internal/app/features/organizations/routes.go
package organizations

import (
	"github.com/go-chi/chi/v5"
	"github.com/jjprojectslab/comunify/internal/app/system/auth"
	"github.com/jjprojectslab/comunify/internal/app/system/authz"
)

// Routes mounts the organization routes (typically under "/organizations").
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	// Public lookups used by the sign-up form.
	r.Get("/", h.HandleList)
	r.Get("/search", h.HandleSearch)
	r.Get("/{id}/locations", h.HandleLocations)

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(sm.RequireRole(authz.AllowedRoles(authz.Users)...))
		pr.Get("/with-locations", h.HandleWithLocations)
	})

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(sm.RequireRole(authz.AllowedRoles(authz.OrgMutation)...))
		pr.Post("/", h.HandleCreate)
		pr.Put("/{id}", h.HandleUpdate)
		pr.Delete("/{id}", h.HandleDelete)
	})

	return r
}
