// internal/app/store/locations/locationstore.go
package locationstore

import (
	"context"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
	"github.com/jjprojectslab/comunify/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("locations")}
}

func (s *Store) Create(ctx context.Context, loc models.Location) (models.Location, error) {
	now := time.Now().UTC()
	loc.ID = primitive.NewObjectID()
	loc.NameCI = text.Fold(loc.Name)
	loc.CreatedAt = now
	loc.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, loc); err != nil {
		return models.Location{}, err
	}
	return loc, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Location, error) {
	var loc models.Location
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&loc); err != nil {
		return models.Location{}, err
	}
	return loc, nil
}

// Patch lists the fields an update may change. A nil field is left alone;
// a pointer to "" clears an optional text field. ClearPastor removes the
// pastor reference.
type Patch struct {
	OrganizationID *primitive.ObjectID
	Name           *string
	City           *string
	Country        *string
	Address        *string
	Phone          *string
	IsMainCampus   *bool
	PastorID       *primitive.ObjectID
	ClearPastor    bool
}

// Update applies p and returns the updated location, or
// mongo.ErrNoDocuments when id does not exist.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, p Patch) (models.Location, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	unset := bson.M{}
	if p.OrganizationID != nil {
		set["organization_id"] = *p.OrganizationID
	}
	if p.Name != nil {
		set["name"] = *p.Name
		set["name_ci"] = text.Fold(*p.Name)
	}
	for field, v := range map[string]*string{"city": p.City, "country": p.Country, "address": p.Address, "phone": p.Phone} {
		switch {
		case v == nil:
		case *v == "":
			unset[field] = ""
		default:
			set[field] = *v
		}
	}
	if p.IsMainCampus != nil {
		set["is_main_campus"] = *p.IsMainCampus
	}
	switch {
	case p.ClearPastor:
		unset["pastor_id"] = ""
	case p.PastorID != nil:
		set["pastor_id"] = *p.PastorID
	}

	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}
	var loc models.Location
	err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&loc)
	if err != nil {
		return models.Location{}, err
	}
	return loc, nil
}

// Delete removes a location by ID and returns the number deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// DeleteByOrg removes every location of orgID.
func (s *Store) DeleteByOrg(ctx context.Context, orgID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"organization_id": orgID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// ListByOrg returns orgID's locations, main campus first, then by name.
func (s *Store) ListByOrg(ctx context.Context, orgID primitive.ObjectID) ([]models.Location, error) {
	return s.Find(ctx, bson.M{"organization_id": orgID}, options.Find().SetSort(mainCampusFirst))
}

// ListByOrgs returns the locations of several organizations in the same order.
func (s *Store) ListByOrgs(ctx context.Context, orgIDs []primitive.ObjectID) ([]models.Location, error) {
	if len(orgIDs) == 0 {
		return []models.Location{}, nil
	}
	return s.Find(ctx, bson.M{"organization_id": bson.M{"$in": orgIDs}}, options.Find().SetSort(mainCampusFirst))
}

// ListAll returns every location ordered by name.
func (s *Store) ListAll(ctx context.Context) ([]models.Location, error) {
	return s.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name_ci", Value: 1}, {Key: "_id", Value: 1}}))
}

// IDsByOrg returns the IDs of orgID's locations.
func (s *Store) IDsByOrg(ctx context.Context, orgID primitive.ObjectID) ([]primitive.ObjectID, error) {
	locs, err := s.Find(ctx, bson.M{"organization_id": orgID}, options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, err
	}
	ids := make([]primitive.ObjectID, 0, len(locs))
	for _, l := range locs {
		ids = append(ids, l.ID)
	}
	return ids, nil
}

// CountByOrg counts orgID's locations.
func (s *Store) CountByOrg(ctx context.Context, orgID primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"organization_id": orgID})
}

// ClearPastor removes userID as pastor from every location.
func (s *Store) ClearPastor(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	res, err := s.c.UpdateMany(ctx, bson.M{"pastor_id": userID}, bson.M{
		"$unset": bson.M{"pastor_id": ""},
		"$set":   bson.M{"updated_at": time.Now().UTC()},
	})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// NamesByIDs maps location IDs to names.
func (s *Store) NamesByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]string, error) {
	out := make(map[primitive.ObjectID]string, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	locs, err := s.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, options.Find().SetProjection(bson.M{"name": 1}))
	if err != nil {
		return nil, err
	}
	for _, l := range locs {
		out[l.ID] = l.Name
	}
	return out, nil
}

// Find returns locations matching filter.
func (s *Store) Find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]models.Location, error) {
	cur, err := s.c.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	locs := []models.Location{}
	if err := cur.All(ctx, &locs); err != nil {
		return nil, err
	}
	return locs, nil
}

var mainCampusFirst = bson.D{
	{Key: "is_main_campus", Value: -1},
	{Key: "name_ci", Value: 1},
	{Key: "_id", Value: 1},
}
