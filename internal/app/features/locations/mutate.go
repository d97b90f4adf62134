// internal/app/features/locations/mutate.go
package locations

import (
	"context"
	"errors"
	"net/http"

	uierrors "github.com/jjprojectslab/comunify/internal/app/features/errors"
	"github.com/jjprojectslab/comunify/internal/app/features/shared"
	"github.com/jjprojectslab/comunify/internal/app/store/audit"
	locationstore "github.com/jjprojectslab/comunify/internal/app/store/locations"
	"github.com/jjprojectslab/comunify/internal/app/system/auditlog"
	"github.com/jjprojectslab/comunify/internal/app/system/authz"
	"github.com/jjprojectslab/comunify/internal/app/system/envelope"
	"github.com/jjprojectslab/comunify/internal/app/system/revalidate"
	"github.com/jjprojectslab/comunify/internal/app/system/timeouts"
	"github.com/jjprojectslab/comunify/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// HandleCreate adds a location to an existing organization.
//
// Route: POST /locations
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	actor, ok := shared.Gate(w, r, h.Errors(), authz.OrgMutation)
	if !ok {
		return
	}
	var req createRequest
	if err := shared.DecodeValid(w, r, &req); err != nil {
		h.Errors().Respond(w, r, err)
		return
	}
	orgID, _ := primitive.ObjectIDFromHex(req.OrganizationID)
	pastorID, err := shared.OptionalID(req.PastorID, "Pastor")
	if err != nil {
		h.Errors().Respond(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.checkRefs(ctx, &orgID, pastorID); err != nil {
		h.Errors().Respond(w, r, err)
		return
	}

	loc, err := h.locs.Create(ctx, models.Location{
		OrganizationID: orgID,
		Name:           req.Name,
		City:           req.City,
		Country:        req.Country,
		Address:        req.Address,
		Phone:          req.Phone,
		IsMainCampus:   req.IsMainCampus,
		PastorID:       pastorID,
	})
	if err != nil {
		h.Errors().Respond(w, r, shared.StoreErr(err, ""))
		return
	}

	h.Audit.Admin(ctx, r, audit.EventLocationCreated, actor.ID, auditlog.Target{
		OrganizationID: &orgID,
		Details:        map[string]string{"location_id": loc.ID.Hex(), "name": loc.Name},
	})
	h.Notifier().Revalidate(ctx, revalidate.Locations, revalidate.Organizations)
	envelope.OK(w, http.StatusCreated, loc)
}

// HandleUpdate patches a location.
//
// Route: PUT /locations/{id}
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	actor, ok := shared.Gate(w, r, h.Errors(), authz.OrgMutation)
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

	p := locationstore.Patch{
		Name:         req.Name,
		City:         req.City,
		Country:      req.Country,
		Address:      req.Address,
		Phone:        req.Phone,
		IsMainCampus: req.IsMainCampus,
	}
	if req.OrganizationID != nil {
		orgID, _ := primitive.ObjectIDFromHex(*req.OrganizationID)
		p.OrganizationID = &orgID
	}
	if req.PastorID != nil {
		if *req.PastorID == "" {
			p.ClearPastor = true
		} else if p.PastorID, err = shared.OptionalID(req.PastorID, "Pastor"); err != nil {
			h.Errors().Respond(w, r, err)
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.checkRefs(ctx, p.OrganizationID, p.PastorID); err != nil {
		h.Errors().Respond(w, r, err)
		return
	}

	loc, err := h.locs.Update(ctx, id, p)
	if err != nil {
		h.Errors().Respond(w, r, shared.StoreErr(err, "Location not found."))
		return
	}

	h.Audit.Admin(ctx, r, audit.EventLocationUpdated, actor.ID, auditlog.Target{
		OrganizationID: &loc.OrganizationID,
		Details:        map[string]string{"location_id": loc.ID.Hex()},
	})
	h.Notifier().Revalidate(ctx, revalidate.Locations, revalidate.Organizations)
	envelope.OK(w, http.StatusOK, loc)
}

// checkRefs verifies that the referenced organization and pastor exist.
func (h *Handler) checkRefs(ctx context.Context, orgID, pastorID *primitive.ObjectID) error {
	if orgID != nil {
		if _, err := h.orgs.GetByID(ctx, *orgID); err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return uierrors.Validation("Organization does not exist.")
			}
			return shared.StoreErr(err, "")
		}
	}
	if pastorID != nil {
		if _, err := h.profiles.GetByID(ctx, *pastorID); err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return uierrors.Validation("Pastor does not exist.")
			}
			return shared.StoreErr(err, "")
		}
	}
	return nil
}
