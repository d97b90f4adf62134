package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"github.com/jjprojectslab/comunify/internal/app/system/slug"
	"github.com/jjprojectslab/comunify/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// WithChiURLParams adds chi URL parameters (key, value pairs) to the request.
func WithChiURLParams(r *http.Request, kv ...string) *http.Request {
	rctx := chi.NewRouteContext()
	for i := 0; i+1 < len(kv); i += 2 {
		rctx.URLParams.Add(kv[i], kv[i+1])
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures inserts test data directly into the collections.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a Fixtures for db.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database.
func (f *Fixtures) DB() *mongo.Database { return f.db }

func (f *Fixtures) insert(ctx context.Context, coll string, doc any) {
	f.t.Helper()
	if _, err := f.db.Collection(coll).InsertOne(ctx, doc); err != nil {
		f.t.Fatalf("insert into %s: %v", coll, err)
	}
}

// CreateOrganization inserts an organization whose slug derives from name.
func (f *Fixtures) CreateOrganization(ctx context.Context, name string) models.Organization {
	f.t.Helper()
	now := time.Now().UTC()
	org := models.Organization{
		ID:        primitive.NewObjectID(),
		Name:      name,
		NameCI:    text.Fold(name),
		Slug:      slug.Slugify(name),
		CreatedAt: now,
		UpdatedAt: now,
	}
	f.insert(ctx, "organizations", org)
	return org
}

// CreateLocation inserts a location of orgID.
func (f *Fixtures) CreateLocation(ctx context.Context, orgID primitive.ObjectID, name string, mainCampus bool) models.Location {
	f.t.Helper()
	now := time.Now().UTC()
	loc := models.Location{
		ID:             primitive.NewObjectID(),
		OrganizationID: orgID,
		Name:           name,
		NameCI:         text.Fold(name),
		City:           "Test City",
		Country:        "Testland",
		IsMainCampus:   mainCampus,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	f.insert(ctx, "locations", loc)
	return loc
}

// ProfileOpts customises CreateProfile. Zero values pick sensible defaults.
type ProfileOpts struct {
	Roles      []models.Role // default MEMBER
	OrgID      *primitive.ObjectID
	LocationID *primitive.ObjectID
	Inactive   bool
	CreatedAt  time.Time
}

// CreateProfile inserts a profile and its user_roles. The profile's primary
// role is derived from opts.Roles.
func (f *Fixtures) CreateProfile(ctx context.Context, name, email string, opts ProfileOpts) models.Profile {
	f.t.Helper()
	roles := opts.Roles
	if len(roles) == 0 {
		roles = []models.Role{models.RoleMember}
	}
	created := opts.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}
	p := models.Profile{
		ID:             primitive.NewObjectID(),
		FullName:       name,
		FullNameCI:     text.Fold(name),
		Email:          email,
		Role:           models.PrimaryRole(roles),
		OrganizationID: opts.OrgID,
		LocationID:     opts.LocationID,
		IsActive:       !opts.Inactive,
		CreatedAt:      created,
		UpdatedAt:      created,
	}
	f.insert(ctx, "profiles", p)
	for _, r := range roles {
		f.insert(ctx, "user_roles", models.UserRole{ID: primitive.NewObjectID(), UserID: p.ID, Role: r, CreatedAt: created})
	}
	return p
}

// CreateArea inserts an area in locationID.
func (f *Fixtures) CreateArea(ctx context.Context, name string, locationID, createdBy primitive.ObjectID) models.Area {
	f.t.Helper()
	now := time.Now().UTC()
	a := models.Area{
		ID:         primitive.NewObjectID(),
		Name:       name,
		NameCI:     text.Fold(name),
		LocationID: locationID,
		CreatedBy:  createdBy,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	f.insert(ctx, "areas", a)
	return a
}

// AddAreaMember inserts a membership row without any duplicate check.
func (f *Fixtures) AddAreaMember(ctx context.Context, areaID, userID primitive.ObjectID, leader bool, addedAt time.Time) models.AreaMember {
	f.t.Helper()
	m := models.AreaMember{
		ID:       primitive.NewObjectID(),
		AreaID:   areaID,
		UserID:   userID,
		IsLeader: leader,
		AddedAt:  addedAt,
	}
	f.insert(ctx, "area_members", m)
	return m
}

// Ptr returns a pointer to id.
func Ptr(id primitive.ObjectID) *primitive.ObjectID { return &id }
