// internal/app/features/authgoogle/account.go
package authgoogle

import (
	"context"
	"errors"
	"net/http"

	"github.com/jjprojectslab/comunify/internal/app/store/audit"
	"github.com/jjprojectslab/comunify/internal/app/system/normalize"
	"github.com/jjprojectslab/comunify/internal/app/system/revalidate"
	"github.com/jjprojectslab/comunify/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	errEmailUnverified = errors.New("google email is not verified")
	errUserDisabled    = errors.New("user disabled")
)

// resolveUser finds the profile for a Google account. Lookup is by Google
// subject, then by email (linking the subject to that identity). With no
// match a new MEMBER account is created.
func (h *Handler) resolveUser(ctx context.Context, r *http.Request, info *googleUserInfo) (models.Profile, error) {
	email := normalize.Email(info.Email)

	ident, err := h.identities.GetByGoogleSubject(ctx, info.ID)
	if err == nil {
		return h.activeProfile(ctx, r, ident.ID, email)
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return models.Profile{}, err
	}

	if !info.EmailVerified {
		h.Audit.LoginFailed(ctx, r, audit.EventLoginFailedUnconfirmed, nil, email, "google email unverified")
		return models.Profile{}, errEmailUnverified
	}

	ident, err = h.identities.GetByEmail(ctx, email)
	switch {
	case err == nil:
		if err := h.identities.LinkGoogle(ctx, ident.ID, info.ID); err != nil {
			return models.Profile{}, err
		}
		h.Audit.GoogleLinked(ctx, r, ident.ID)
		return h.activeProfile(ctx, r, ident.ID, email)
	case !errors.Is(err, mongo.ErrNoDocuments):
		return models.Profile{}, err
	}

	return h.createAccount(ctx, r, info, email)
}

func (h *Handler) activeProfile(ctx context.Context, r *http.Request, id primitive.ObjectID, email string) (models.Profile, error) {
	p, err := h.profiles.GetByID(ctx, id)
	if err != nil {
		return models.Profile{}, err
	}
	if !p.IsActive {
		h.Audit.LoginFailed(ctx, r, audit.EventLoginFailedUserDisabled, &id, email, "user disabled")
		return models.Profile{}, errUserDisabled
	}
	return p, nil
}

func (h *Handler) createAccount(ctx context.Context, r *http.Request, info *googleUserInfo, email string) (models.Profile, error) {
	id := primitive.NewObjectID()
	name := normalize.Name(info.Name)
	if name == "" {
		name = email
	}

	p, err := h.accounts.Create(ctx, h.Logger(), func(ctx context.Context) error {
		_, err := h.identities.CreateGoogle(ctx, id, email, info.ID)
		return err
	}, models.Profile{
		ID:            id,
		FullName:      name,
		Email:         email,
		Role:          models.RoleMember,
		IsActive:      true,
		EmailVerified: true,
	})
	if err != nil {
		return models.Profile{}, err
	}

	h.Audit.SignUp(ctx, r, id, nil, "google")
	h.Notifier().Revalidate(ctx, revalidate.Users)
	return p, nil
}
