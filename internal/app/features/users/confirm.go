// internal/app/features/users/confirm.go
package users

import (
	"context"
	"net/http"

	"github.com/jjprojectslab/comunify/internal/app/features/shared"
	"github.com/jjprojectslab/comunify/internal/app/store/audit"
	"github.com/jjprojectslab/comunify/internal/app/system/auditlog"
	"github.com/jjprojectslab/comunify/internal/app/system/authz"
	"github.com/jjprojectslab/comunify/internal/app/system/envelope"
	"github.com/jjprojectslab/comunify/internal/app/system/revalidate"
	"github.com/jjprojectslab/comunify/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// HandleConfirmEmail marks a user's email confirmed so they can sign in.
//
// Route: POST /users/{id}/confirm-email
func (h *Handler) HandleConfirmEmail(w http.ResponseWriter, r *http.Request) {
	actor, ok := shared.Gate(w, r, h.Errors(), authz.Users)
	if !ok {
		return
	}
	id, err := shared.PathID(r, "id")
	if err != nil {
		h.Errors().Respond(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.identities.ConfirmEmail(ctx, id); err != nil {
		h.Errors().Respond(w, r, shared.StoreErr(err, "User not found."))
		return
	}
	// The identity is what sign-in checks; a stale profile flag is only logged.
	if err := h.profiles.SetEmailVerified(ctx, id, true); err != nil {
		h.Logger().Warn("profile email_verified not updated", zap.String("user_id", id.Hex()), zap.Error(err))
	}

	h.Audit.Admin(ctx, r, audit.EventUserEmailConfirmed, actor.ID, auditlog.Target{UserID: &id})
	h.Notifier().Revalidate(ctx, revalidate.Users)
	envelope.OKMessage(w, http.StatusOK, map[string]string{"id": id.Hex()},
		"Email confirmed. The user can now sign in.")
}
