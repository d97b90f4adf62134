// internal/app/features/users/update.go
package users

import (
	"context"
	"net/http"

	"github.com/jjprojectslab/comunify/internal/app/features/shared"
	"github.com/jjprojectslab/comunify/internal/app/policy/userpolicy"
	"github.com/jjprojectslab/comunify/internal/app/store/audit"
	profilestore "github.com/jjprojectslab/comunify/internal/app/store/profiles"
	"github.com/jjprojectslab/comunify/internal/app/system/auditlog"
	"github.com/jjprojectslab/comunify/internal/app/system/authz"
	"github.com/jjprojectslab/comunify/internal/app/system/envelope"
	"github.com/jjprojectslab/comunify/internal/app/system/revalidate"
	"github.com/jjprojectslab/comunify/internal/app/system/timeouts"
	"github.com/jjprojectslab/comunify/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// HandleUpdate edits a profile's name, organization, location and active flag.
// A new location must belong to the resulting organization.
//
// Route: PUT /users/{id}
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	actor, ok := shared.Gate(w, r, h.Errors(), authz.Users)
	if !ok {
		return
	}
	id, err := shared.PathID(r, "id")
	if err != nil {
		h.Errors().Respond(w, r, err)
		return
	}
	var req updateRequest
	if err := shared.DecodeValid(w, r, &req); err != nil {
		h.Errors().Respond(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	target, err := h.profiles.GetByID(ctx, id)
	if err != nil {
		h.Errors().Respond(w, r, shared.StoreErr(err, "User not found."))
		return
	}
	if err := userpolicy.CheckTarget(actor, target.Role); err != nil {
		h.Errors().Respond(w, r, policyErr(err))
		return
	}

	p := profilestore.Patch{FullName: req.FullName, IsActive: req.IsActive}
	if req.OrganizationID != nil || req.LocationID != nil {
		orgID, locID, err := h.mergePlacement(ctx, target, req)
		if err != nil {
			h.Errors().Respond(w, r, err)
			return
		}
		p.OrganizationID, p.ClearOrganization = orgID, orgID == nil
		p.LocationID, p.ClearLocation = locID, locID == nil
	}

	updated, err := h.profiles.Update(ctx, id, p)
	if err != nil {
		h.Errors().Respond(w, r, shared.StoreErr(err, "User not found."))
		return
	}

	h.Audit.Admin(ctx, r, audit.EventUserUpdated, actor.ID, auditlog.Target{
		UserID:         &updated.ID,
		OrganizationID: updated.OrganizationID,
	})
	h.Notifier().Revalidate(ctx, revalidate.Users, revalidate.Dashboard)
	envelope.OK(w, http.StatusOK, updated)
}

// mergePlacement applies the requested organization and location to the
// profile's current ones and validates the result. Detaching the
// organization also detaches the location unless a new one is given.
func (h *Handler) mergePlacement(ctx context.Context, cur models.Profile, req updateRequest) (*primitive.ObjectID, *primitive.ObjectID, error) {
	orgID, locID := cur.OrganizationID, cur.LocationID
	if req.OrganizationID != nil {
		id, err := shared.OptionalID(req.OrganizationID, "Organization")
		if err != nil {
			return nil, nil, err
		}
		orgID = id
		if id == nil && req.LocationID == nil {
			locID = nil
		}
	}
	if req.LocationID != nil {
		id, err := shared.OptionalID(req.LocationID, "Location")
		if err != nil {
			return nil, nil, err
		}
		locID = id
	}
	return h.placement.Resolve(ctx, orgID, locID)
}
