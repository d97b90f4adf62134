// internal/app/features/shared/accounts.go
package shared

import (
	"context"
	stderrors "errors"

	identitystore "github.com/jjprojectslab/comunify/internal/app/store/identities"
	profilestore "github.com/jjprojectslab/comunify/internal/app/store/profiles"
	userrolestore "github.com/jjprojectslab/comunify/internal/app/store/userroles"
	"github.com/jjprojectslab/comunify/internal/app/system/txn"
	"github.com/jjprojectslab/comunify/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Accounts writes the identity, profile and role rows of a new user.
type Accounts struct {
	db         *mongo.Database
	Identities *identitystore.Store
	Profiles   *profilestore.Store
	Roles      *userrolestore.Store
}

// NewAccounts builds Accounts over db.
func NewAccounts(db *mongo.Database) Accounts {
	return Accounts{
		db:         db,
		Identities: identitystore.New(db),
		Profiles:   profilestore.New(db),
		Roles:      userrolestore.New(db),
	}
}

// Create runs insertIdentity, then stores p and grants p.Role, all keyed by
// p.ID. Without transactions a failed step removes the rows written before
// it, so the email can be used again.
func (a Accounts) Create(ctx context.Context, log *zap.Logger, insertIdentity func(ctx context.Context) error, p models.Profile) (models.Profile, error) {
	var created models.Profile
	err := txn.Run(ctx, a.db.Client(), log, func(ctx context.Context) error {
		if err := insertIdentity(ctx); err != nil {
			return err
		}
		var err error
		if created, err = a.Profiles.Create(ctx, p); err != nil {
			return a.undo(ctx, log, p, err, false)
		}
		if err := a.Roles.Add(ctx, p.ID, p.Role); err != nil {
			return a.undo(ctx, log, p, err, true)
		}
		return nil
	})
	if err != nil {
		return models.Profile{}, err
	}
	return created, nil
}

// undo removes the rows of a partially created account and returns cause.
func (a Accounts) undo(ctx context.Context, log *zap.Logger, p models.Profile, cause error, profileWritten bool) error {
	var errs []error
	if profileWritten {
		if _, err := a.Roles.DeleteByUser(ctx, p.ID); err != nil {
			errs = append(errs, err)
		}
		if _, err := a.Profiles.Delete(ctx, p.ID); err != nil {
			errs = append(errs, err)
		}
	}
	if _, err := a.Identities.Delete(ctx, p.ID); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 && log != nil {
		log.Error("account rollback incomplete",
			zap.String("user_id", p.ID.Hex()), zap.Error(stderrors.Join(errs...)))
	}
	return cause
}
