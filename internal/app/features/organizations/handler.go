// internal/app/features/organizations/handler.go
package organizations

import (
	"github.com/jjprojectslab/comunify/internal/app/features/shared"
	areamemberstore "github.com/jjprojectslab/comunify/internal/app/store/areamembers"
	areastore "github.com/jjprojectslab/comunify/internal/app/store/areas"
	locationstore "github.com/jjprojectslab/comunify/internal/app/store/locations"
	organizationstore "github.com/jjprojectslab/comunify/internal/app/store/organizations"
	profilestore "github.com/jjprojectslab/comunify/internal/app/store/profiles"
)

const (
	searchLimit = 10
	listLimit   = 50
)

// Handler serves the organization endpoints.
type Handler struct {
	shared.Deps

	orgs     *organizationstore.Store
	locs     *locationstore.Store
	areas    *areastore.Store
	members  *areamemberstore.Store
	profiles *profilestore.Store
}

// NewHandler constructs an organizations Handler.
func NewHandler(d shared.Deps) *Handler {
	return &Handler{
		Deps:     d,
		orgs:     organizationstore.New(d.DB),
		locs:     locationstore.New(d.DB),
		areas:    areastore.New(d.DB),
		members:  areamemberstore.New(d.DB),
		profiles: profilestore.New(d.DB),
	}
}
