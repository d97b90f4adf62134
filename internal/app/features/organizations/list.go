// internal/app/features/organizations/list.go
package organizations

import (
	"context"
	"net/http"

	"github.com/dalemusser/waffle/pantry/query"
	"github.com/jjprojectslab/comunify/internal/app/features/shared"
	"github.com/jjprojectslab/comunify/internal/app/store/queries/orgtree"
	"github.com/jjprojectslab/comunify/internal/app/system/authz"
	"github.com/jjprojectslab/comunify/internal/app/system/envelope"
	"github.com/jjprojectslab/comunify/internal/app/system/timeouts"
	"github.com/jjprojectslab/comunify/internal/domain/models"
)

// HandleSearch returns up to ten organizations whose name contains q,
// ignoring case and accents. An empty q yields an empty list.
//
// Route: GET /organizations/search?q=
func (h *Handler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	q := query.Get(r, "q")
	if q == "" {
		envelope.OK(w, http.StatusOK, []models.Organization{})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	orgs, err := h.orgs.Search(ctx, q, searchLimit)
	if err != nil {
		h.Errors().Respond(w, r, shared.StoreErr(err, ""))
		return
	}
	envelope.OK(w, http.StatusOK, orgs)
}

// HandleList returns organizations ordered by name.
//
// Route: GET /organizations
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	orgs, err := h.orgs.List(ctx, listLimit)
	if err != nil {
		h.Errors().Respond(w, r, shared.StoreErr(err, ""))
		return
	}
	envelope.OK(w, http.StatusOK, orgs)
}

// HandleLocations returns an organization's locations, main campus first.
//
// Route: GET /organizations/{id}/locations
func (h *Handler) HandleLocations(w http.ResponseWriter, r *http.Request) {
	orgID, err := shared.PathID(r, "id")
	if err != nil {
		h.Errors().Respond(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	locs, err := h.locs.ListByOrg(ctx, orgID)
	if err != nil {
		h.Errors().Respond(w, r, shared.StoreErr(err, ""))
		return
	}
	envelope.OK(w, http.StatusOK, locs)
}

// HandleWithLocations returns every organization with its locations and pastors.
//
// Route: GET /organizations/with-locations
func (h *Handler) HandleWithLocations(w http.ResponseWriter, r *http.Request) {
	if _, ok := shared.Gate(w, r, h.Errors(), authz.Users); !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	tree, err := orgtree.List(ctx, h.DB)
	if err != nil {
		h.Errors().Respond(w, r, shared.StoreErr(err, ""))
		return
	}
	envelope.OK(w, http.StatusOK, tree)
}
