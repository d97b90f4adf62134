package areamemberstore_test

import (
	"errors"
	"testing"
	"time"

	areamemberstore "github.com/jjprojectslab/comunify/internal/app/store/areamembers"
	"github.com/jjprojectslab/comunify/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_Add_RefusesExistingMember(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := areamemberstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	area, user, by := primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID()
	m, err := store.Add(ctx, area, user, &by)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if m.IsLeader || m.AddedBy == nil || *m.AddedBy != by {
		t.Errorf("unexpected member: %+v", m)
	}
	if _, err := store.Add(ctx, area, user, &by); !errors.Is(err, areamemberstore.ErrAlreadyMember) {
		t.Errorf("second Add: got %v, want ErrAlreadyMember", err)
	}
}

func TestStore_PairOperationsCoverDuplicates(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	store := areamemberstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	area, user := primitive.NewObjectID(), primitive.NewObjectID()
	now := time.Now().UTC()
	fx.AddAreaMember(ctx, area, user, false, now)
	fx.AddAreaMember(ctx, area, user, false, now.Add(time.Second))

	n, err := store.SetLeader(ctx, area, user, true)
	if err != nil || n != 2 {
		t.Fatalf("SetLeader = %d, %v; want 2", n, err)
	}
	rows, _ := store.ListByArea(ctx, area)
	for _, r := range rows {
		if !r.IsLeader {
			t.Errorf("row %s not promoted", r.ID.Hex())
		}
	}

	counts, err := store.CountByAreas(ctx, []primitive.ObjectID{area})
	if err != nil {
		t.Fatalf("CountByAreas: %v", err)
	}
	if counts[area] != 1 {
		t.Errorf("distinct member count: got %d, want 1", counts[area])
	}

	n, err = store.Remove(ctx, area, user)
	if err != nil || n != 2 {
		t.Errorf("Remove = %d, %v; want 2", n, err)
	}
	if ok, _ := store.Exists(ctx, area, user); ok {
		t.Error("membership should be gone")
	}
}

func TestStore_ListByArea_LeadersThenNewest(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	store := areamemberstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	area := primitive.NewObjectID()
	base := time.Now().UTC().Add(-time.Hour)
	old := fx.AddAreaMember(ctx, area, primitive.NewObjectID(), false, base)
	leader := fx.AddAreaMember(ctx, area, primitive.NewObjectID(), true, base)
	recent := fx.AddAreaMember(ctx, area, primitive.NewObjectID(), false, base.Add(time.Minute))
	fx.AddAreaMember(ctx, primitive.NewObjectID(), primitive.NewObjectID(), true, base)

	rows, err := store.ListByArea(ctx, area)
	if err != nil {
		t.Fatalf("ListByArea: %v", err)
	}
	want := []primitive.ObjectID{leader.ID, recent.ID, old.ID}
	if len(rows) != len(want) {
		t.Fatalf("got %d rows, want %d", len(rows), len(want))
	}
	for i, id := range want {
		if rows[i].ID != id {
			t.Errorf("row %d: got %s, want %s", i, rows[i].ID.Hex(), id.Hex())
		}
	}

	ids, err := store.MemberIDs(ctx, area)
	if err != nil || len(ids) != 3 {
		t.Errorf("MemberIDs = %v, %v", ids, err)
	}
}

func TestStore_DeleteByAreasAndUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	store := areamemberstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	a1, a2 := primitive.NewObjectID(), primitive.NewObjectID()
	u := primitive.NewObjectID()
	now := time.Now().UTC()
	fx.AddAreaMember(ctx, a1, u, false, now)
	fx.AddAreaMember(ctx, a2, u, false, now)
	fx.AddAreaMember(ctx, a2, primitive.NewObjectID(), false, now)

	if n, err := store.DeleteByUser(ctx, u); err != nil || n != 2 {
		t.Errorf("DeleteByUser = %d, %v; want 2", n, err)
	}
	if n, err := store.DeleteByAreas(ctx, []primitive.ObjectID{a1, a2}); err != nil || n != 1 {
		t.Errorf("DeleteByAreas = %d, %v; want 1", n, err)
	}
}
