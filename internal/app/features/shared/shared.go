// internal/app/features/shared/shared.go
package shared

import (
	stderrors "errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	uierrors "github.com/jjprojectslab/comunify/internal/app/features/errors"
	"github.com/jjprojectslab/comunify/internal/app/system/auditlog"
	"github.com/jjprojectslab/comunify/internal/app/system/authz"
	"github.com/jjprojectslab/comunify/internal/app/system/envelope"
	"github.com/jjprojectslab/comunify/internal/app/system/inputval"
	"github.com/jjprojectslab/comunify/internal/app/system/revalidate"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Deps are the collaborators every feature handler needs.
type Deps struct {
	DB     *mongo.Database
	Notify revalidate.Notifier
	Audit  *auditlog.Logger
	ErrLog *uierrors.ErrorLogger
	Log    *zap.Logger
}

// Notifier returns d.Notify, or a no-op when unset.
func (d Deps) Notifier() revalidate.Notifier {
	if d.Notify == nil {
		return revalidate.Nop{}
	}
	return d.Notify
}

// Logger returns d.Log, or a no-op logger when unset.
func (d Deps) Logger() *zap.Logger {
	if d.Log == nil {
		return zap.NewNop()
	}
	return d.Log
}

// Errors returns d.ErrLog, creating one from Logger when unset.
func (d Deps) Errors() *uierrors.ErrorLogger {
	if d.ErrLog == nil {
		return uierrors.NewErrorLogger(d.Logger())
	}
	return d.ErrLog
}

// SignedIn returns the caller or answers 401.
func SignedIn(w http.ResponseWriter, r *http.Request, el *uierrors.ErrorLogger) (authz.Actor, bool) {
	a, ok := authz.UserCtx(r)
	if !ok {
		el.Respond(w, r, uierrors.Unauthenticated())
		return authz.Actor{}, false
	}
	return a, true
}

// Gate returns the caller when their role is allowed for c, otherwise it
// answers 401 or 403.
func Gate(w http.ResponseWriter, r *http.Request, el *uierrors.ErrorLogger, c authz.Category) (authz.Actor, bool) {
	a, ok := SignedIn(w, r, el)
	if !ok {
		return authz.Actor{}, false
	}
	if !authz.CanManage(a.Role, c) {
		el.Respond(w, r, uierrors.Unauthorized(""))
		return authz.Actor{}, false
	}
	return a, true
}

// PathID parses the chi URL parameter key as an ObjectID.
func PathID(r *http.Request, key string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, key))
	if err != nil {
		return primitive.NilObjectID, uierrors.Validation("Invalid ID.")
	}
	return id, nil
}

// Normalizer is implemented by request bodies that clean their fields
// before validation.
type Normalizer interface {
	Normalize()
}

// DecodeValid decodes the JSON body into dst, normalizes it when dst is a
// Normalizer, and runs struct validation.
func DecodeValid(w http.ResponseWriter, r *http.Request, dst any) error {
	if err := envelope.Decode(w, r, dst); err != nil {
		return uierrors.Validation("Invalid request body.")
	}
	if n, ok := dst.(Normalizer); ok {
		n.Normalize()
	}
	if err := inputval.Check(dst); err != nil {
		return uierrors.Validation(err.Error())
	}
	return nil
}

// StoreErr maps a store error to a typed error: mongo.ErrNoDocuments becomes
// NotFound(notFound), anything else a data-store failure.
func StoreErr(err error, notFound string) error {
	var typed *uierrors.Error
	switch {
	case stderrors.As(err, &typed):
		return typed
	case stderrors.Is(err, mongo.ErrNoDocuments):
		return uierrors.NotFound(notFound)
	default:
		return uierrors.DataStore("A database error occurred.", err)
	}
}

// OptionalID parses an optional hex ID from a request body. Empty is nil.
func OptionalID(hex *string, label string) (*primitive.ObjectID, error) {
	if hex == nil || *hex == "" {
		return nil, nil
	}
	id, err := primitive.ObjectIDFromHex(*hex)
	if err != nil {
		return nil, uierrors.Validation(label + " is not a valid ID.")
	}
	return &id, nil
}
