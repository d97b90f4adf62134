// internal/app/features/organizations/delete.go
package organizations

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

var errOrgNotFound = uierrors.NotFound("Organization not found.")

// HandleDelete deletes an organization together with its locations, their
// areas and memberships, and detaches every profile that belonged to it.
// Repeating the call after a partial failure removes what is left.
//
// Route: DELETE /organizations/{id}
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

	var removed cascade
	err = txn.Run(ctx, h.DB.Client(), h.Logger(), func(ctx context.Context) error {
		var err error
		removed, err = h.cascade(ctx, id)
		return err
	})
	if errors.Is(err, errOrgNotFound) {
		h.Errors().Respond(w, r, errOrgNotFound)
		return
	}
	if err != nil {
		h.Errors().Respond(w, r, shared.StoreErr(err, ""))
		return
	}

	h.Logger().Info("organization deleted",
		zap.String("org_id", id.Hex()),
		zap.Int64("locations", removed.locations),
		zap.Int64("areas", removed.areas),
		zap.Int64("area_members", removed.members),
		zap.Int64("profiles_detached", removed.profiles))
	h.Audit.Admin(ctx, r, audit.EventOrgDeleted, actor.ID, auditlog.Target{OrganizationID: &id})
	h.Notifier().Revalidate(ctx,
		revalidate.Organizations, revalidate.Locations, revalidate.Areas, revalidate.Users, revalidate.Dashboard)
	envelope.OK(w, http.StatusOK, map[string]string{"id": id.Hex()})
}

type cascade struct {
	locations, areas, members, profiles int64
}

func (h *Handler) cascade(ctx context.Context, id primitive.ObjectID) (cascade, error) {
	var c cascade

	found := true
	if _, err := h.orgs.GetByID(ctx, id); err != nil {
		if !errors.Is(err, mongo.ErrNoDocuments) {
			return c, err
		}
		found = false
	}

	locIDs, err := h.locs.IDsByOrg(ctx, id)
	if err != nil {
		return c, err
	}
	areaIDs, err := h.areas.IDsByLocations(ctx, locIDs)
	if err != nil {
		return c, err
	}
	if c.members, err = h.members.DeleteByAreas(ctx, areaIDs); err != nil {
		return c, err
	}
	if c.areas, err = h.areas.DeleteByIDs(ctx, areaIDs); err != nil {
		return c, err
	}
	if c.locations, err = h.locs.DeleteByOrg(ctx, id); err != nil {
		return c, err
	}
	if c.profiles, err = h.profiles.DetachOrganization(ctx, id); err != nil {
		return c, err
	}

	// The organization row goes last so a failed run can be retried.
	if !found {
		if c == (cascade{}) {
			return c, errOrgNotFound
		}
		return c, nil
	}
	if _, err := h.orgs.Delete(ctx, id); err != nil {
		return c, err
	}
	return c, nil
}
