// internal/app/store/identities/identitystore.go
package identitystore

import (
	"context"
	"errors"
	"fmt"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/jjprojectslab/comunify/internal/app/system/normalize"
	"github.com/jjprojectslab/comunify/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength is the shortest password accepted at sign-up and on change.
const MinPasswordLength = 6

var (
	ErrDuplicateEmail     = errors.New("an account with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailNotConfirmed  = errors.New("email not confirmed")
	ErrPasswordTooShort   = fmt.Errorf("password must be at least %d characters", MinPasswordLength)
)

type Store struct {
	c    *mongo.Collection
	cost int
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("identities"), cost: bcrypt.DefaultCost}
}

// WithCost returns a copy of s hashing with the given bcrypt cost. Tests use
// bcrypt.MinCost.
func (s *Store) WithCost(cost int) *Store {
	cp := *s
	cp.cost = cost
	return &cp
}

func (s *Store) hash(password string) (string, error) {
	if len(password) < MinPasswordLength {
		return "", ErrPasswordTooShort
	}
	h, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(h), nil
}

// Create inserts a password identity. A zero id gets a new ObjectID.
func (s *Store) Create(ctx context.Context, id primitive.ObjectID, email, password string, confirmed bool) (models.Identity, error) {
	h, err := s.hash(password)
	if err != nil {
		return models.Identity{}, err
	}
	return s.insert(ctx, models.Identity{ID: id, Email: email, PasswordHash: h}, confirmed)
}

// CreateGoogle inserts an identity that signs in only through Google.
func (s *Store) CreateGoogle(ctx context.Context, id primitive.ObjectID, email, subject string) (models.Identity, error) {
	return s.insert(ctx, models.Identity{ID: id, Email: email, GoogleSubject: subject}, true)
}

func (s *Store) insert(ctx context.Context, ident models.Identity, confirmed bool) (models.Identity, error) {
	now := time.Now().UTC()
	if ident.ID.IsZero() {
		ident.ID = primitive.NewObjectID()
	}
	ident.Email = normalize.Email(ident.Email)
	ident.CreatedAt = now
	ident.UpdatedAt = now
	if confirmed {
		ident.EmailConfirmedAt = &now
	}
	if _, err := s.c.InsertOne(ctx, ident); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Identity{}, ErrDuplicateEmail
		}
		return models.Identity{}, err
	}
	return ident, nil
}

// Authenticate checks email and password. With requireConfirmed set, an
// identity whose email is unconfirmed yields ErrEmailNotConfirmed after the
// password has been verified.
func (s *Store) Authenticate(ctx context.Context, email, password string, requireConfirmed bool) (models.Identity, error) {
	ident, err := s.GetByEmail(ctx, email)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Identity{}, ErrInvalidCredentials
	}
	if err != nil {
		return models.Identity{}, err
	}
	if ident.PasswordHash == "" {
		return models.Identity{}, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(ident.PasswordHash), []byte(password)) != nil {
		return models.Identity{}, ErrInvalidCredentials
	}
	if requireConfirmed && ident.EmailConfirmedAt == nil {
		return models.Identity{}, ErrEmailNotConfirmed
	}
	return ident, nil
}

// CheckPassword reports ErrInvalidCredentials unless password matches id's hash.
func (s *Store) CheckPassword(ctx context.Context, id primitive.ObjectID, password string) error {
	ident, err := s.GetByID(ctx, id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrInvalidCredentials
	}
	if err != nil {
		return err
	}
	if ident.PasswordHash == "" || bcrypt.CompareHashAndPassword([]byte(ident.PasswordHash), []byte(password)) != nil {
		return ErrInvalidCredentials
	}
	return nil
}

func (s *Store) SetPassword(ctx context.Context, id primitive.ObjectID, password string) error {
	h, err := s.hash(password)
	if err != nil {
		return err
	}
	return s.set(ctx, id, bson.M{"password_hash": h})
}

// ConfirmEmail stamps the confirmation time. Already-confirmed identities keep
// their original timestamp.
func (s *Store) ConfirmEmail(ctx context.Context, id primitive.ObjectID) error {
	now := time.Now().UTC()
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id, "email_confirmed_at": bson.M{"$exists": false}},
		bson.M{"$set": bson.M{"email_confirmed_at": now, "updated_at": now}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		n, err := s.c.CountDocuments(ctx, bson.M{"_id": id})
		if err != nil {
			return err
		}
		if n == 0 {
			return mongo.ErrNoDocuments
		}
	}
	return nil
}

// LinkGoogle attaches a Google subject to an existing identity and marks its
// email confirmed.
func (s *Store) LinkGoogle(ctx context.Context, id primitive.ObjectID, subject string) error {
	now := time.Now().UTC()
	return s.set(ctx, id, bson.M{"google_subject": subject, "email_confirmed_at": now})
}

func (s *Store) set(ctx context.Context, id primitive.ObjectID, fields bson.M) error {
	fields["updated_at"] = time.Now().UTC()
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": fields})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Identity, error) {
	var ident models.Identity
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&ident)
	return ident, err
}

func (s *Store) GetByEmail(ctx context.Context, email string) (models.Identity, error) {
	var ident models.Identity
	err := s.c.FindOne(ctx, bson.M{"email": normalize.Email(email)}).Decode(&ident)
	return ident, err
}

func (s *Store) GetByGoogleSubject(ctx context.Context, subject string) (models.Identity, error) {
	var ident models.Identity
	err := s.c.FindOne(ctx, bson.M{"google_subject": subject}).Decode(&ident)
	return ident, err
}

func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
