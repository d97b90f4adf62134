// internal/app/features/users/roles.go
package users

import (
	"context"
	"net/http"
	"strings"

	uierrors "github.com/jjprojectslab/comunify/internal/app/features/errors"
	"github.com/jjprojectslab/comunify/internal/app/features/shared"
	"github.com/jjprojectslab/comunify/internal/app/policy/userpolicy"
	"github.com/jjprojectslab/comunify/internal/app/store/audit"
	"github.com/jjprojectslab/comunify/internal/app/system/auditlog"
	"github.com/jjprojectslab/comunify/internal/app/system/authz"
	"github.com/jjprojectslab/comunify/internal/app/system/envelope"
	"github.com/jjprojectslab/comunify/internal/app/system/revalidate"
	"github.com/jjprojectslab/comunify/internal/app/system/timeouts"
	"github.com/jjprojectslab/comunify/internal/app/system/txn"
	"github.com/jjprojectslab/comunify/internal/domain/models"
	"go.uber.org/zap"
)

// HandleSetRoles replaces a user's role set. Only the difference is written,
// then the profile's primary role is recomputed from the new set.
//
// Route: PUT /users/{id}/roles
func (h *Handler) HandleSetRoles(w http.ResponseWriter, r *http.Request) {
	actor, ok := shared.Gate(w, r, h.Errors(), authz.Users)
	if !ok {
		return
	}
	id, err := shared.PathID(r, "id")
	if err != nil {
		h.Errors().Respond(w, r, err)
		return
	}
	var req rolesRequest
	if err := shared.DecodeValid(w, r, &req); err != nil {
		h.Errors().Respond(w, r, err)
		return
	}
	target := make([]models.Role, 0, len(req.Roles))
	for _, s := range req.Roles {
		role, ok := models.ParseRole(s)
		if !ok {
			h.Errors().Respond(w, r, uierrors.Validation("Unknown role "+strings.TrimSpace(s)+"."))
			return
		}
		target = append(target, role)
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if _, err := h.profiles.GetByID(ctx, id); err != nil {
		h.Errors().Respond(w, r, shared.StoreErr(err, "User not found."))
		return
	}
	current, err := h.roles.ListByUser(ctx, id)
	if err != nil {
		h.Errors().Respond(w, r, shared.StoreErr(err, ""))
		return
	}
	diff := authz.Reconcile(current, target)
	if err := userpolicy.CheckRoleChange(actor, diff); err != nil {
		h.Errors().Respond(w, r, policyErr(err))
		return
	}

	err = txn.Run(ctx, h.DB.Client(), h.Logger(), func(ctx context.Context) error {
		for _, role := range diff.Add {
			if err := h.roles.Add(ctx, id, role); err != nil {
				return err
			}
		}
		for _, role := range diff.Remove {
			if err := h.roles.Remove(ctx, id, role); err != nil {
				return err
			}
		}
		return h.profiles.SetRole(ctx, id, diff.Primary)
	})
	if err != nil {
		h.Errors().Respond(w, r, shared.StoreErr(err, "User not found."))
		return
	}

	h.Logger().Info("user roles changed",
		zap.String("user_id", id.Hex()),
		zap.Any("added", diff.Add),
		zap.Any("removed", diff.Remove),
		zap.String("primary", string(diff.Primary)))
	h.Audit.Admin(ctx, r, audit.EventUserRolesChanged, actor.ID, auditlog.Target{
		UserID:  &id,
		Details: map[string]string{"roles": joinRoles(diff.Apply(current)), "primary": string(diff.Primary)},
	})
	h.Notifier().Revalidate(ctx, revalidate.Users, revalidate.Dashboard)
	envelope.OK(w, http.StatusOK, map[string]any{"roles": diff.Apply(current), "primary": diff.Primary})
}

func joinRoles(roles []models.Role) string {
	parts := make([]string, len(roles))
	for i, r := range roles {
		parts[i] = string(r)
	}
	return strings.Join(parts, ",")
}
