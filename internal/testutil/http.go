package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jjprojectslab/comunify/internal/app/system/auth"
	"github.com/jjprojectslab/comunify/internal/app/system/envelope"
	"github.com/jjprojectslab/comunify/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TestUser is the caller injected into handler tests.
type TestUser struct {
	ID             string
	Name           string
	Email          string
	Role           models.Role
	OrganizationID string
	LocationID     string
}

// UserFromProfile builds a TestUser matching a fixture profile.
func UserFromProfile(p models.Profile) TestUser {
	u := TestUser{ID: p.ID.Hex(), Name: p.FullName, Email: p.Email, Role: p.Role}
	if p.OrganizationID != nil {
		u.OrganizationID = p.OrganizationID.Hex()
	}
	if p.LocationID != nil {
		u.LocationID = p.LocationID.Hex()
	}
	return u
}

// SuperAdminUser returns an unscoped SUPER_ADMIN.
func SuperAdminUser() TestUser {
	return TestUser{ID: primitive.NewObjectID().Hex(), Name: "Root", Email: "root@test.com", Role: models.RoleSuperAdmin}
}

// RoleUser returns a user with role, scoped to locationID when non-zero.
func RoleUser(role models.Role, orgID, locationID primitive.ObjectID) TestUser {
	u := TestUser{ID: primitive.NewObjectID().Hex(), Name: "Test " + string(role), Email: "user@test.com", Role: role}
	if !orgID.IsZero() {
		u.OrganizationID = orgID.Hex()
	}
	if !locationID.IsZero() {
		u.LocationID = locationID.Hex()
	}
	return u
}

// WithUser injects user into the request context, bypassing the session.
func WithUser(r *http.Request, user TestUser) *http.Request {
	return auth.WithTestUser(r, &auth.SessionUser{
		ID:             user.ID,
		Name:           user.Name,
		Email:          user.Email,
		Role:           user.Role,
		OrganizationID: user.OrganizationID,
		LocationID:     user.LocationID,
	})
}

// JSONRequest builds a request with body encoded as JSON (nil for none).
func JSONRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, target, rd)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// Envelope is a decoded response whose data is kept raw for a second decode.
type Envelope struct {
	Success bool              `json:"success"`
	Data    json.RawMessage   `json:"data"`
	Message string            `json:"message"`
	Error   *envelope.Failure `json:"error"`
}

// Kind returns the failure kind or "".
func (e Envelope) Kind() string {
	if e.Error == nil {
		return ""
	}
	return e.Error.Kind
}

// DecodeEnvelope decodes rec's body; when dst is non-nil the data field is
// decoded into it.
func DecodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder, dst any) Envelope {
	t.Helper()
	var env Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v (body=%s)", err, rec.Body.String())
	}
	if dst != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, dst); err != nil {
			t.Fatalf("decode data: %v (data=%s)", err, env.Data)
		}
	}
	return env
}
