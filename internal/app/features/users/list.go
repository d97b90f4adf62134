// internal/app/features/users/list.go
package users

import (
	"context"
	"net/http"

	"github.com/jjprojectslab/comunify/internal/app/features/shared"
	"github.com/jjprojectslab/comunify/internal/app/store/queries/userlist"
	"github.com/jjprojectslab/comunify/internal/app/system/authz"
	"github.com/jjprojectslab/comunify/internal/app/system/envelope"
	"github.com/jjprojectslab/comunify/internal/app/system/timeouts"
	"github.com/jjprojectslab/comunify/internal/domain/models"
)

// HandleList returns every user with organization, location and roles.
//
// Route: GET /users
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	if _, ok := shared.Gate(w, r, h.Errors(), authz.Users); !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	users, err := userlist.List(ctx, h.DB)
	if err != nil {
		h.Errors().Respond(w, r, shared.StoreErr(err, ""))
		return
	}
	envelope.OK(w, http.StatusOK, users)
}

// HandlePastors returns profiles whose primary role is PASTOR, by name.
//
// Route: GET /users/pastors
func (h *Handler) HandlePastors(w http.ResponseWriter, r *http.Request) {
	if _, ok := shared.Gate(w, r, h.Errors(), authz.Users); !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	pastors, err := h.profiles.ListByRole(ctx, models.RolePastor)
	if err != nil {
		h.Errors().Respond(w, r, shared.StoreErr(err, ""))
		return
	}
	envelope.OK(w, http.StatusOK, pastors)
}

// HandleGetRoles returns a user's granted roles in priority order.
//
// Route: GET /users/{id}/roles
func (h *Handler) HandleGetRoles(w http.ResponseWriter, r *http.Request) {
	if _, ok := shared.Gate(w, r, h.Errors(), authz.Users); !ok {
		return
	}
	id, err := shared.PathID(r, "id")
	if err != nil {
		h.Errors().Respond(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	roles, err := h.roles.ListByUser(ctx, id)
	if err != nil {
		h.Errors().Respond(w, r, shared.StoreErr(err, ""))
		return
	}
	envelope.OK(w, http.StatusOK, roles)
}
