// internal/app/features/users/create.go
package users

import (
	"context"
	"errors"
	"net/http"

	uierrors "github.com/jjprojectslab/comunify/internal/app/features/errors"
	"github.com/jjprojectslab/comunify/internal/app/features/shared"
	"github.com/jjprojectslab/comunify/internal/app/policy/userpolicy"
	"github.com/jjprojectslab/comunify/internal/app/store/audit"
	identitystore "github.com/jjprojectslab/comunify/internal/app/store/identities"
	profilestore "github.com/jjprojectslab/comunify/internal/app/store/profiles"
	"github.com/jjprojectslab/comunify/internal/app/system/auditlog"
	"github.com/jjprojectslab/comunify/internal/app/system/authz"
	"github.com/jjprojectslab/comunify/internal/app/system/envelope"
	"github.com/jjprojectslab/comunify/internal/app/system/revalidate"
	"github.com/jjprojectslab/comunify/internal/app/system/timeouts"
	"github.com/jjprojectslab/comunify/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// HandleCreate creates an account on behalf of an administrator. The email
// starts unconfirmed.
//
// Route: POST /users
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	actor, ok := shared.Gate(w, r, h.Errors(), authz.Users)
	if !ok {
		return
	}
	var req createRequest
	if err := shared.DecodeValid(w, r, &req); err != nil {
		h.Errors().Respond(w, r, err)
		return
	}
	role := models.Role(req.Role)
	if err := userpolicy.CheckCreateRole(role); err != nil {
		h.Errors().Respond(w, r, policyErr(err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	orgID, _ := shared.OptionalID(&req.OrganizationID, "Organization")
	locID, _ := shared.OptionalID(&req.LocationID, "Location")
	orgID, locID, err := h.placement.Resolve(ctx, orgID, locID)
	if err != nil {
		h.Errors().Respond(w, r, err)
		return
	}

	id := primitive.NewObjectID()
	created, err := h.accounts.Create(ctx, h.Logger(), func(ctx context.Context) error {
		_, err := h.identities.Create(ctx, id, req.Email, req.Password, false)
		return err
	}, models.Profile{
		ID:             id,
		FullName:       req.fullName(),
		Email:          req.Email,
		Role:           role,
		OrganizationID: orgID,
		LocationID:     locID,
		IsActive:       true,
	})
	switch {
	case errors.Is(err, identitystore.ErrDuplicateEmail), errors.Is(err, profilestore.ErrDuplicateEmail):
		h.Errors().Respond(w, r, uierrors.Validation("A user with this email already exists."))
		return
	case errors.Is(err, identitystore.ErrPasswordTooShort):
		h.Errors().Respond(w, r, uierrors.Validation(err.Error()))
		return
	case err != nil:
		h.Errors().Respond(w, r, shared.StoreErr(err, ""))
		return
	}

	h.Audit.Admin(ctx, r, audit.EventUserCreated, actor.ID, auditlog.Target{
		UserID:         &created.ID,
		OrganizationID: created.OrganizationID,
		Details:        map[string]string{"role": string(role)},
	})
	h.Notifier().Revalidate(ctx, revalidate.Users, revalidate.Dashboard)
	envelope.OKMessage(w, http.StatusCreated, created,
		"User created. They must confirm their email before signing in, or you can confirm it for them.")
}
