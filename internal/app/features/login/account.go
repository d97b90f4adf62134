// internal/app/features/login/account.go
package login

import (
	"context"
	"errors"
	"net/http"

	uierrors "github.com/jjprojectslab/comunify/internal/app/features/errors"
	"github.com/jjprojectslab/comunify/internal/app/features/shared"
	identitystore "github.com/jjprojectslab/comunify/internal/app/store/identities"
	"github.com/jjprojectslab/comunify/internal/app/store/queries/userlist"
	"github.com/jjprojectslab/comunify/internal/app/system/envelope"
	"github.com/jjprojectslab/comunify/internal/app/system/timeouts"
)

// HandleMe returns the caller's profile with organization and location names
// and roles.
//
// Route: GET /auth/me
func (h *Handler) HandleMe(w http.ResponseWriter, r *http.Request) {
	actor, ok := shared.SignedIn(w, r, h.Errors())
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := userlist.Get(ctx, h.DB, actor.ID)
	if err != nil {
		h.Errors().Respond(w, r, shared.StoreErr(err, "Profile not found."))
		return
	}
	envelope.OK(w, http.StatusOK, u)
}

// HandleChangePassword replaces the caller's password after checking the
// current one.
//
// Route: POST /auth/password
func (h *Handler) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	actor, ok := shared.SignedIn(w, r, h.Errors())
	if !ok {
		return
	}
	var req changePasswordRequest
	if err := shared.DecodeValid(w, r, &req); err != nil {
		h.Errors().Respond(w, r, err)
		return
	}
	if req.CurrentPassword == req.NewPassword {
		h.Errors().Respond(w, r, uierrors.Validation("New password must be different from the current one."))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	err := h.identities.CheckPassword(ctx, actor.ID, req.CurrentPassword)
	if errors.Is(err, identitystore.ErrInvalidCredentials) {
		h.Errors().Respond(w, r, uierrors.Validation("Current password is incorrect."))
		return
	}
	if err != nil {
		h.Errors().Respond(w, r, shared.StoreErr(err, ""))
		return
	}
	if err := h.identities.SetPassword(ctx, actor.ID, req.NewPassword); err != nil {
		h.Errors().Respond(w, r, shared.StoreErr(err, ""))
		return
	}

	h.Audit.PasswordChanged(ctx, r, actor.ID)
	envelope.OKMessage(w, http.StatusOK, nil, "Password updated.")
}
