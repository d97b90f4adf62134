// internal/app/features/shared/placement.go
package shared

import (
	"context"
	stderrors "errors"

	uierrors "github.com/jjprojectslab/comunify/internal/app/features/errors"
	locationstore "github.com/jjprojectslab/comunify/internal/app/store/locations"
	organizationstore "github.com/jjprojectslab/comunify/internal/app/store/organizations"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Placement checks where a profile is attached.
type Placement struct {
	Orgs *organizationstore.Store
	Locs *locationstore.Store
}

// NewPlacement builds a Placement over db.
func NewPlacement(db *mongo.Database) Placement {
	return Placement{Orgs: organizationstore.New(db), Locs: locationstore.New(db)}
}

// Resolve validates an optional organization and location. A location alone
// implies its organization; a location from another organization is rejected.
func (pl Placement) Resolve(ctx context.Context, orgID, locID *primitive.ObjectID) (*primitive.ObjectID, *primitive.ObjectID, error) {
	if orgID != nil {
		if _, err := pl.Orgs.GetByID(ctx, *orgID); err != nil {
			if stderrors.Is(err, mongo.ErrNoDocuments) {
				return nil, nil, uierrors.Validation("Organization does not exist.")
			}
			return nil, nil, StoreErr(err, "")
		}
	}
	if locID == nil {
		return orgID, nil, nil
	}

	loc, err := pl.Locs.GetByID(ctx, *locID)
	if stderrors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil, uierrors.Validation("Location does not exist.")
	}
	if err != nil {
		return nil, nil, StoreErr(err, "")
	}
	if orgID == nil {
		orgID = &loc.OrganizationID
	} else if *orgID != loc.OrganizationID {
		return nil, nil, uierrors.Validation("Location does not belong to the selected organization.")
	}
	return orgID, locID, nil
}
