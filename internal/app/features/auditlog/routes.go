// internal/app/features/auditlog/routes.go
package auditlog

import (
	"github.com/go-chi/chi/v5"
	"github.com/jjprojectslab/comunify/internal/app/system/auth"
	"github.com/jjprojectslab/comunify/internal/app/system/authz"
)

// Routes mounts the audit log (typically under "/audit").
// SUPER_ADMIN sees every event; ADMIN only its organization's.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(sm.RequireRole(authz.AllowedRoles(authz.Audit)...))
		pr.Get("/", h.HandleList)
	})

	return r
}
