// internal/app/features/auditlog/handler.go
package auditlog

import (
	"github.com/jjprojectslab/comunify/internal/app/features/shared"
	"github.com/jjprojectslab/comunify/internal/app/store/audit"
	organizationstore "github.com/jjprojectslab/comunify/internal/app/store/organizations"
	profilestore "github.com/jjprojectslab/comunify/internal/app/store/profiles"
)

type Handler struct {
	shared.Deps

	events   *audit.Store
	profiles *profilestore.Store
	orgs     *organizationstore.Store
}

// NewHandler constructs an audit log handler bound to d.DB.
func NewHandler(d shared.Deps) *Handler {
	return &Handler{
		Deps:     d,
		events:   audit.New(d.DB),
		profiles: profilestore.New(d.DB),
		orgs:     organizationstore.New(d.DB),
	}
}
