package profilestore

import (
	"context"

	"github.com/jjprojectslab/comunify/internal/app/system/auth"
	"github.com/jjprojectslab/comunify/internal/app/system/timeouts"
	"github.com/jjprojectslab/comunify/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Fetcher implements auth.UserFetcher, loading the profile on each request
// so role and location changes apply immediately.
type Fetcher struct {
	profiles *mongo.Collection
}

// NewFetcher creates a UserFetcher over db.
func NewFetcher(db *mongo.Database) *Fetcher {
	return &Fetcher{profiles: db.Collection("profiles")}
}

// FetchUser returns nil when the ID is malformed, the profile is missing or
// inactive, or the lookup fails.
func (f *Fetcher) FetchUser(ctx context.Context, userID string) *auth.SessionUser {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, timeouts.Short())
	defer cancel()

	var p models.Profile
	proj := options.FindOne().SetProjection(bson.M{
		"_id":             1,
		"full_name":       1,
		"email":           1,
		"role":            1,
		"organization_id": 1,
		"location_id":     1,
		"is_active":       1,
	})
	if err := f.profiles.FindOne(ctx, bson.M{"_id": oid}, proj).Decode(&p); err != nil {
		return nil
	}
	if !p.IsActive {
		return nil
	}

	su := &auth.SessionUser{
		ID:    p.ID.Hex(),
		Name:  p.FullName,
		Email: p.Email,
		Role:  p.Role,
	}
	if p.OrganizationID != nil {
		su.OrganizationID = p.OrganizationID.Hex()
	}
	if p.LocationID != nil {
		su.LocationID = p.LocationID.Hex()
	}
	return su
}
