// internal/app/features/users/delete.go
package users

import (
	"context"
	"net/http"

	"github.com/jjprojectslab/comunify/internal/app/features/shared"
	"github.com/jjprojectslab/comunify/internal/app/policy/userpolicy"
	"github.com/jjprojectslab/comunify/internal/app/store/audit"
	"github.com/jjprojectslab/comunify/internal/app/system/auditlog"
	"github.com/jjprojectslab/comunify/internal/app/system/authz"
	"github.com/jjprojectslab/comunify/internal/app/system/envelope"
	"github.com/jjprojectslab/comunify/internal/app/system/revalidate"
	"github.com/jjprojectslab/comunify/internal/app/system/timeouts"
	"github.com/jjprojectslab/comunify/internal/app/system/txn"
)

// HandleDelete removes an account: roles, area memberships, identity and
// profile. Locations it pastored lose their pastor.
//
// Route: DELETE /users/{id}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	actor, ok := shared.Gate(w, r, h.Errors(), authz.Users)
	if !ok {
		return
	}
	id, err := shared.PathID(r, "id")
	if err != nil {
		h.Errors().Respond(w, r, err)
		return
	}
	if err := userpolicy.CheckDelete(actor, id); err != nil {
		h.Errors().Respond(w, r, policyErr(err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
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

	err = txn.Run(ctx, h.DB.Client(), h.Logger(), func(ctx context.Context) error {
		if _, err := h.roles.DeleteByUser(ctx, id); err != nil {
			return err
		}
		if _, err := h.members.DeleteByUser(ctx, id); err != nil {
			return err
		}
		if _, err := h.locs.ClearPastor(ctx, id); err != nil {
			return err
		}
		if _, err := h.identities.Delete(ctx, id); err != nil {
			return err
		}
		_, err := h.profiles.Delete(ctx, id)
		return err
	})
	if err != nil {
		h.Errors().Respond(w, r, shared.StoreErr(err, ""))
		return
	}

	h.Audit.Admin(ctx, r, audit.EventUserDeleted, actor.ID, auditlog.Target{
		UserID:         &id,
		OrganizationID: target.OrganizationID,
		Details:        map[string]string{"email": target.Email},
	})
	h.Notifier().Revalidate(ctx, revalidate.Users, revalidate.Areas, revalidate.Locations, revalidate.Dashboard)
	envelope.OKMessage(w, http.StatusOK, map[string]string{"id": id.Hex()}, "User deleted.")
}
