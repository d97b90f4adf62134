package arearoster_test

import (
	"testing"
	"time"

	"github.com/jjprojectslab/comunify/internal/app/store/queries/arearoster"
	"github.com/jjprojectslab/comunify/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestList_OrderAndSearch(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := fx.CreateOrganization(ctx, "Grace")
	loc := fx.CreateLocation(ctx, org.ID, "North", true)
	area := fx.CreateArea(ctx, "Worship", loc.ID, primitive.NewObjectID())
	at := testutil.ProfileOpts{LocationID: testutil.Ptr(loc.ID)}

	jose := fx.CreateProfile(ctx, "José Pérez", "jose@example.com", at)
	maria := fx.CreateProfile(ctx, "María López", "maria@church.test", at)
	leader := fx.CreateProfile(ctx, "Ana Ruiz", "ana@example.com", at)

	base := time.Now().UTC().Add(-time.Hour)
	fx.AddAreaMember(ctx, area.ID, jose.ID, false, base)
	fx.AddAreaMember(ctx, area.ID, maria.ID, false, base.Add(time.Minute))
	fx.AddAreaMember(ctx, area.ID, leader.ID, true, base)
	fx.AddAreaMember(ctx, area.ID, primitive.NewObjectID(), false, base) // profile gone

	all, err := arearoster.List(ctx, db, area.ID, "")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	want := []primitive.ObjectID{leader.ID, maria.ID, jose.ID}
	if len(all) != len(want) {
		t.Fatalf("got %d members, want %d", len(all), len(want))
	}
	for i, id := range want {
		if all[i].UserID != id {
			t.Errorf("row %d: got %s, want %s", i, all[i].User.FullName, id.Hex())
		}
	}
	if all[0].User.Email != "ana@example.com" {
		t.Errorf("joined email: got %q", all[0].User.Email)
	}

	tests := []struct {
		q    string
		want int
	}{
		{"perez", 1},
		{"PÉREZ", 1},
		{"example.com", 2},
		{"church", 1},
		{"a.b", 0},
		{"   ", 3},
	}
	for _, tc := range tests {
		got, err := arearoster.List(ctx, db, area.ID, tc.q)
		if err != nil {
			t.Fatalf("List(%q): %v", tc.q, err)
		}
		if len(got) != tc.want {
			t.Errorf("List(%q): got %d rows, want %d", tc.q, len(got), tc.want)
		}
	}
}
