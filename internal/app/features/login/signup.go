// internal/app/features/login/signup.go
package login

import (
	"context"
	"errors"
	"net/http"

	uierrors "github.com/jjprojectslab/comunify/internal/app/features/errors"
	"github.com/jjprojectslab/comunify/internal/app/features/shared"
	identitystore "github.com/jjprojectslab/comunify/internal/app/store/identities"
	profilestore "github.com/jjprojectslab/comunify/internal/app/store/profiles"
	"github.com/jjprojectslab/comunify/internal/app/system/envelope"
	"github.com/jjprojectslab/comunify/internal/app/system/normalize"
	"github.com/jjprojectslab/comunify/internal/app/system/revalidate"
	"github.com/jjprojectslab/comunify/internal/app/system/timeouts"
	"github.com/jjprojectslab/comunify/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// HandleSignUp creates a MEMBER account attached to the chosen organization
// and location. When email confirmation is required the caller must confirm
// before signing in; otherwise a session starts immediately.
//
// Route: POST /auth/signup
func (h *Handler) HandleSignUp(w http.ResponseWriter, r *http.Request) {
	var req signUpRequest
	if err := shared.DecodeValid(w, r, &req); err != nil {
		h.Errors().Respond(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	orgHex, locHex := req.OrganizationID, req.LocationID
	orgID, _ := shared.OptionalID(&orgHex, "Organization")
	locID, _ := shared.OptionalID(&locHex, "Location")
	orgID, locID, err := h.placement.Resolve(ctx, orgID, locID)
	if err != nil {
		h.Errors().Respond(w, r, err)
		return
	}

	confirmed := !h.cfg.RequireEmailConfirmation
	id := primitive.NewObjectID()
	p, err := h.accounts.Create(ctx, h.Logger(), func(ctx context.Context) error {
		_, err := h.identities.Create(ctx, id, req.Email, req.Password, confirmed)
		return err
	}, models.Profile{
		ID:             id,
		FullName:       normalize.Name(req.FirstName + " " + req.LastName),
		Email:          req.Email,
		Role:           models.RoleMember,
		OrganizationID: orgID,
		LocationID:     locID,
		IsActive:       true,
		EmailVerified:  confirmed,
	})
	switch {
	case errors.Is(err, identitystore.ErrDuplicateEmail), errors.Is(err, profilestore.ErrDuplicateEmail):
		h.Errors().Respond(w, r, uierrors.Validation("An account with this email already exists."))
		return
	case err != nil:
		h.Errors().Respond(w, r, shared.StoreErr(err, ""))
		return
	}

	h.Audit.SignUp(ctx, r, id, orgID, "password")
	h.Notifier().Revalidate(ctx, revalidate.Users)

	if !confirmed {
		envelope.OKMessage(w, http.StatusCreated, p,
			"Account created. Check your email to confirm your account before signing in.")
		return
	}
	if err := h.sessions.SignIn(w, r, id.Hex()); err != nil {
		h.Logger().Warn("session start after sign-up failed", zap.String("user_id", id.Hex()), zap.Error(err))
	}
	envelope.OKMessage(w, http.StatusCreated, p, "Account created.")
}
