// internal/app/features/locations/list.go
package locations

import (
	"context"
	"net/http"

	"github.com/jjprojectslab/comunify/internal/app/features/shared"
	"github.com/jjprojectslab/comunify/internal/app/system/authz"
	"github.com/jjprojectslab/comunify/internal/app/system/envelope"
	"github.com/jjprojectslab/comunify/internal/app/system/timeouts"
)

// HandleList returns every location ordered by name.
//
// Route: GET /locations
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	if _, ok := shared.Gate(w, r, h.Errors(), authz.Users); !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	locs, err := h.locs.ListAll(ctx)
	if err != nil {
		h.Errors().Respond(w, r, shared.StoreErr(err, ""))
		return
	}
	envelope.OK(w, http.StatusOK, locs)
}
