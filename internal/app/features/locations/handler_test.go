package locations

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jjprojectslab/comunify/internal/app/features/shared"
	"github.com/jjprojectslab/comunify/internal/app/system/revalidate"
	"github.com/jjprojectslab/comunify/internal/domain/models"
	"github.com/jjprojectslab/comunify/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newTestHandler(t *testing.T) (*Handler, *testutil.Fixtures, *testutil.RecordingNotifier) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	rn := &testutil.RecordingNotifier{}
	return NewHandler(shared.Deps{DB: db, Notify: rn}), testutil.NewFixtures(t, db), rn
}

func TestHandleList_Gate(t *testing.T) {
	h, fx, _ := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	org := fx.CreateOrganization(ctx, "Grace")
	fx.CreateLocation(ctx, org.ID, "North", true)

	tests := []struct {
		role models.Role
		want int
	}{
		{models.RoleMember, http.StatusForbidden},
		{models.RoleLeader, http.StatusOK},
		{models.RoleAdmin, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			req := testutil.WithUser(httptest.NewRequest(http.MethodGet, "/locations", nil),
				testutil.RoleUser(tt.role, org.ID, primitive.NilObjectID))
			rec := httptest.NewRecorder()
			h.HandleList(rec, req)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestHandleCreate(t *testing.T) {
	h, fx, rn := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	org := fx.CreateOrganization(ctx, "Grace")
	pastor := fx.CreateProfile(ctx, "Pedro", "pedro@test.com", testutil.ProfileOpts{Roles: []models.Role{models.RolePastor}})

	req := testutil.JSONRequest(t, http.MethodPost, "/locations", map[string]any{
		"organization_id": org.ID.Hex(),
		"name":            " North  Campus ",
		"city":            "Lima",
		"is_main_campus":  true,
		"pastor_id":       pastor.ID.Hex(),
	})
	rec := httptest.NewRecorder()
	h.HandleCreate(rec, testutil.WithUser(req, testutil.SuperAdminUser()))
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var loc models.Location
	testutil.DecodeEnvelope(t, rec, &loc)
	if loc.Name != "North Campus" || loc.OrganizationID != org.ID || !loc.IsMainCampus {
		t.Errorf("unexpected location %+v", loc)
	}
	if loc.PastorID == nil || *loc.PastorID != pastor.ID {
		t.Errorf("pastor_id = %v, want %s", loc.PastorID, pastor.ID.Hex())
	}
	if !rn.Saw(revalidate.Locations) {
		t.Error("expected locations revalidation")
	}

	t.Run("unknown organization", func(t *testing.T) {
		req := testutil.JSONRequest(t, http.MethodPost, "/locations", map[string]any{
			"organization_id": primitive.NewObjectID().Hex(),
			"name":            "South",
		})
		rec := httptest.NewRecorder()
		h.HandleCreate(rec, testutil.WithUser(req, testutil.SuperAdminUser()))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("admin is forbidden", func(t *testing.T) {
		req := testutil.JSONRequest(t, http.MethodPost, "/locations", map[string]any{"organization_id": org.ID.Hex(), "name": "X"})
		rec := httptest.NewRecorder()
		h.HandleCreate(rec, testutil.WithUser(req, testutil.RoleUser(models.RoleAdmin, org.ID, primitive.NilObjectID)))
		if rec.Code != http.StatusForbidden {
			t.Errorf("status = %d, want 403", rec.Code)
		}
	})
}

func TestHandleUpdate_ClearPastor(t *testing.T) {
	h, fx, _ := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	org := fx.CreateOrganization(ctx, "Grace")
	loc := fx.CreateLocation(ctx, org.ID, "North", true)
	pastor := fx.CreateProfile(ctx, "Pedro", "pedro@test.com", testutil.ProfileOpts{})
	if _, err := fx.DB().Collection("locations").UpdateByID(ctx, loc.ID, bson.M{"$set": bson.M{"pastor_id": pastor.ID}}); err != nil {
		t.Fatalf("seed pastor: %v", err)
	}

	req := testutil.JSONRequest(t, http.MethodPut, "/", map[string]any{"pastor_id": "", "city": ""})
	req = testutil.WithChiURLParams(testutil.WithUser(req, testutil.SuperAdminUser()), "id", loc.ID.Hex())
	rec := httptest.NewRecorder()
	h.HandleUpdate(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var got models.Location
	testutil.DecodeEnvelope(t, rec, &got)
	if got.PastorID != nil || got.City != "" {
		t.Errorf("pastor=%v city=%q, want both cleared", got.PastorID, got.City)
	}
}

func TestHandleDelete_Cascade(t *testing.T) {
	h, fx, _ := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	org := fx.CreateOrganization(ctx, "Grace")
	loc := fx.CreateLocation(ctx, org.ID, "North", true)
	other := fx.CreateLocation(ctx, org.ID, "South", false)
	p := fx.CreateProfile(ctx, "Ana", "ana@test.com", testutil.ProfileOpts{OrgID: testutil.Ptr(org.ID), LocationID: testutil.Ptr(loc.ID)})
	area := fx.CreateArea(ctx, "Youth", loc.ID, p.ID)
	fx.AddAreaMember(ctx, area.ID, p.ID, true, org.CreatedAt)
	fx.CreateArea(ctx, "Choir", other.ID, p.ID)

	req := testutil.WithChiURLParams(testutil.WithUser(httptest.NewRequest(http.MethodDelete, "/", nil), testutil.SuperAdminUser()), "id", loc.ID.Hex())
	rec := httptest.NewRecorder()
	h.HandleDelete(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	db := fx.DB()
	if n, _ := db.Collection("areas").CountDocuments(ctx, bson.M{}); n != 1 {
		t.Errorf("areas left = %d, want 1", n)
	}
	if n, _ := db.Collection("area_members").CountDocuments(ctx, bson.M{}); n != 0 {
		t.Errorf("area_members left = %d, want 0", n)
	}
	var prof models.Profile
	if err := db.Collection("profiles").FindOne(ctx, bson.M{"_id": p.ID}).Decode(&prof); err != nil {
		t.Fatalf("profile: %v", err)
	}
	if prof.LocationID != nil {
		t.Error("profile location not cleared")
	}
	if prof.OrganizationID == nil {
		t.Error("profile organization should be kept")
	}

	rec = httptest.NewRecorder()
	h.HandleDelete(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", rec.Code)
	}
}
