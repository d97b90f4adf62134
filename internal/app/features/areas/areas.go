// internal/app/features/areas/areas.go
package areas

import (
	"context"
	"net/http"

	"github.com/jjprojectslab/comunify/internal/app/features/shared"
	"github.com/jjprojectslab/comunify/internal/app/policy/areapolicy"
	"github.com/jjprojectslab/comunify/internal/app/store/audit"
	areastore "github.com/jjprojectslab/comunify/internal/app/store/areas"
	"github.com/jjprojectslab/comunify/internal/app/system/auditlog"
	"github.com/jjprojectslab/comunify/internal/app/system/authz"
	"github.com/jjprojectslab/comunify/internal/app/system/envelope"
	"github.com/jjprojectslab/comunify/internal/app/system/revalidate"
	"github.com/jjprojectslab/comunify/internal/app/system/timeouts"
	"github.com/jjprojectslab/comunify/internal/app/system/txn"
	"github.com/jjprojectslab/comunify/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// HandleList returns the areas the caller can see, newest first, with
// member counts.
//
// Route: GET /areas
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	actor, ok := shared.Gate(w, r, h.Errors(), authz.Areas)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := h.areas.List(ctx, areapolicy.Scope(actor))
	if err != nil {
		h.Errors().Respond(w, r, shared.StoreErr(err, ""))
		return
	}

	ids := make([]primitive.ObjectID, len(list))
	locIDs := make([]primitive.ObjectID, 0, len(list))
	for i, a := range list {
		ids[i] = a.ID
		locIDs = append(locIDs, a.LocationID)
	}
	counts, err := h.members.CountByAreas(ctx, ids)
	if err != nil {
		h.Errors().Respond(w, r, shared.StoreErr(err, ""))
		return
	}
	names, err := h.locs.NamesByIDs(ctx, locIDs)
	if err != nil {
		h.Errors().Respond(w, r, shared.StoreErr(err, ""))
		return
	}

	out := make([]areaView, len(list))
	for i, a := range list {
		out[i] = areaView{Area: a, LocationName: names[a.LocationID], MemberCount: counts[a.ID]}
	}
	envelope.OK(w, http.StatusOK, out)
}

// HandleCreate creates an area. Callers other than SUPER_ADMIN always create
// in their own location, whatever location_id they send.
//
// Route: POST /areas
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	actor, ok := shared.Gate(w, r, h.Errors(), authz.Areas)
	if !ok {
		return
	}
	var req createRequest
	if err := shared.DecodeValid(w, r, &req); err != nil {
		h.Errors().Respond(w, r, err)
		return
	}
	requested, err := shared.OptionalID(req.LocationID, "Location")
	if err != nil {
		h.Errors().Respond(w, r, err)
		return
	}
	locID, err := areapolicy.CreateLocation(actor, requested)
	if err != nil {
		h.Errors().Respond(w, r, policyErr(err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	loc, err := h.locs.GetByID(ctx, locID)
	if err != nil {
		h.Errors().Respond(w, r, shared.StoreErr(err, "Location not found."))
		return
	}

	area, err := h.areas.Create(ctx, models.Area{
		Name:        req.Name,
		Description: req.Description,
		LocationID:  locID,
		CreatedBy:   actor.ID,
	})
	if err != nil {
		h.Errors().Respond(w, r, shared.StoreErr(err, ""))
		return
	}

	h.Audit.Admin(ctx, r, audit.EventAreaCreated, actor.ID, auditlog.Target{
		OrganizationID: &loc.OrganizationID,
		Details:        map[string]string{"area_id": area.ID.Hex(), "location_id": locID.Hex()},
	})
	h.Notifier().Revalidate(ctx, revalidate.Areas)
	envelope.OK(w, http.StatusCreated, areaView{Area: area, LocationName: loc.Name})
}

// HandleUpdate edits an in-scope area. Only a SUPER_ADMIN may move it to
// another location.
//
// Route: PUT /areas/{id}
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	actor, ok := shared.Gate(w, r, h.Errors(), authz.Areas)
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
	requested, err := shared.OptionalID(req.LocationID, "Location")
	if err != nil {
		h.Errors().Respond(w, r, err)
		return
	}
	move := areapolicy.UpdateLocation(actor, requested)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if move != nil {
		if _, err := h.locs.GetByID(ctx, *move); err != nil {
			h.Errors().Respond(w, r, shared.StoreErr(err, "Location not found."))
			return
		}
	}

	area, err := h.areas.Update(ctx, id, areapolicy.Scope(actor), areastore.Patch{
		Name:        req.Name,
		Description: req.Description,
		LocationID:  move,
	})
	if err != nil {
		h.Errors().Respond(w, r, shared.StoreErr(err, errAreaNotFound.Message))
		return
	}

	h.Audit.Admin(ctx, r, audit.EventAreaUpdated, actor.ID, auditlog.Target{
		Details: map[string]string{"area_id": area.ID.Hex()},
	})
	h.Notifier().Revalidate(ctx, revalidate.Areas, revalidate.AreaPath(area.ID.Hex()))
	envelope.OK(w, http.StatusOK, area)
}

// HandleDelete removes an in-scope area and its memberships.
//
// Route: DELETE /areas/{id}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	actor, ok := shared.Gate(w, r, h.Errors(), authz.Areas)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	area, err := h.scopedArea(ctx, r, actor)
	if err != nil {
		h.Errors().Respond(w, r, err)
		return
	}

	err = txn.Run(ctx, h.DB.Client(), h.Logger(), func(ctx context.Context) error {
		if _, err := h.members.DeleteByAreas(ctx, []primitive.ObjectID{area.ID}); err != nil {
			return err
		}
		_, err := h.areas.Delete(ctx, area.ID, areapolicy.Scope(actor))
		return err
	})
	if err != nil {
		h.Errors().Respond(w, r, shared.StoreErr(err, ""))
		return
	}

	h.Audit.Admin(ctx, r, audit.EventAreaDeleted, actor.ID, auditlog.Target{
		Details: map[string]string{"area_id": area.ID.Hex(), "name": area.Name},
	})
	h.Notifier().Revalidate(ctx, revalidate.Areas, revalidate.AreaPath(area.ID.Hex()))
	envelope.OK(w, http.StatusOK, map[string]string{"id": area.ID.Hex()})
}
