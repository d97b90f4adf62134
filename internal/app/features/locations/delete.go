// internal/app/features/locations/delete.go
package locations

import (
	"context"
	"errors"
	"net/http"

	uierrors "github.com/jjprojectslab/comunify/internal/app/features/errors"
	"github.com/jjprojectslab/comunify/internal/app/features/shared"
	"github.com/jjprojectslab/comunify/internal/app/store/audit"
	"github.com/jjprojectslab/comunify/internal/app/system/auditlog"
	"github.com/jjprojectslab/comunify/internal/app/system/authz"
	"github.com/jjprojectslab/comunify/internal/app/system/envelope"
	"github.com/jjprojectslab/comunify/internal/app/system/revalidate"
	"github.com/jjprojectslab/comunify/internal/app/system/timeouts"
	"github.com/jjprojectslab/comunify/internal/app/system/txn"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

var errLocationNotFound = uierrors.NotFound("Location not found.")

// HandleDelete removes a location, its areas and their memberships, and
// detaches the profiles assigned to it.
//
// Route: DELETE /locations/{id}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	actor, ok := shared.Gate(w, r, h.Errors(), authz.OrgMutation)
	if !ok {
		return
	}
	id, err := shared.PathID(r, "id")
	if err != nil {
		h.Errors().Respond(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	var orgID primitive.ObjectID
	err = txn.Run(ctx, h.DB.Client(), h.Logger(), func(ctx context.Context) error {
		loc, err := h.locs.GetByID(ctx, id)
		if errors.Is(err, mongo.ErrNoDocuments) {
			return errLocationNotFound
		}
		if err != nil {
			return err
		}
		orgID = loc.OrganizationID

		ids := []primitive.ObjectID{id}
		areaIDs, err := h.areas.IDsByLocations(ctx, ids)
		if err != nil {
			return err
		}
		if _, err := h.members.DeleteByAreas(ctx, areaIDs); err != nil {
			return err
		}
		if _, err := h.areas.DeleteByIDs(ctx, areaIDs); err != nil {
			return err
		}
		if _, err := h.profiles.DetachLocations(ctx, ids); err != nil {
			return err
		}
		_, err = h.locs.Delete(ctx, id)
		return err
	})
	if err != nil {
		h.Errors().Respond(w, r, shared.StoreErr(err, ""))
		return
	}

	h.Logger().Info("location deleted", zap.String("location_id", id.Hex()))
	h.Audit.Admin(ctx, r, audit.EventLocationDeleted, actor.ID, auditlog.Target{
		OrganizationID: &orgID,
		Details:        map[string]string{"location_id": id.Hex()},
	})
	h.Notifier().Revalidate(ctx, revalidate.Locations, revalidate.Organizations, revalidate.Areas, revalidate.Users)
	envelope.OK(w, http.StatusOK, map[string]string{"id": id.Hex()})
}
