package organizationstore_test

import (
	"errors"
	"testing"

	organizationstore "github.com/jjprojectslab/comunify/internal/app/store/organizations"
	"github.com/jjprojectslab/comunify/internal/app/system/indexes"
	"github.com/jjprojectslab/comunify/internal/domain/models"
	"github.com/jjprojectslab/comunify/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func strp(s string) *string { return &s }

func TestStore_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := organizationstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.Organization{Name: "Iglesia Comunidad de Fé", Slug: "iglesia-comunidad-de-fe"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.ID == primitive.NilObjectID {
		t.Error("expected ID to be assigned")
	}
	if created.NameCI != "iglesia comunidad de fe" {
		t.Errorf("NameCI: got %q, want %q", created.NameCI, "iglesia comunidad de fe")
	}
	if created.CreatedAt.IsZero() || created.UpdatedAt.IsZero() {
		t.Error("expected timestamps to be set")
	}
}

func TestStore_Create_DuplicateSlug(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	if err := indexes.EnsureAll(ctx, db, zap.NewNop()); err != nil {
		t.Fatalf("EnsureAll: %v", err)
	}
	store := organizationstore.New(db)

	if _, err := store.Create(ctx, models.Organization{Name: "Grace", Slug: "grace"}); err != nil {
		t.Fatalf("first Create: %v", err)
	}
	_, err := store.Create(ctx, models.Organization{Name: "Grace", Slug: "grace"})
	if !errors.Is(err, organizationstore.ErrDuplicateSlug) {
		t.Errorf("got %v, want ErrDuplicateSlug", err)
	}
}

func TestStore_SlugExists(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	store := organizationstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateOrganization(ctx, "Grace Church")

	if ok, err := store.SlugExists(ctx, "grace-church"); err != nil || !ok {
		t.Errorf("SlugExists(grace-church) = %v, %v; want true", ok, err)
	}
	if ok, err := store.SlugExists(ctx, "other"); err != nil || ok {
		t.Errorf("SlugExists(other) = %v, %v; want false", ok, err)
	}
}

func TestStore_Update_SetsAndClears(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := organizationstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org, err := store.Create(ctx, models.Organization{Name: "Grace", Slug: "grace", Phone: "555-0100", Website: "https://grace.test"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	updated, err := store.Update(ctx, org.ID, organizationstore.Patch{
		Name:  strp("Grace Fellowship"),
		Phone: strp(""),
		Email: strp("hello@grace.test"),
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Name != "Grace Fellowship" || updated.NameCI != "grace fellowship" {
		t.Errorf("name: got %q/%q", updated.Name, updated.NameCI)
	}
	if updated.Phone != "" {
		t.Errorf("phone should be cleared, got %q", updated.Phone)
	}
	if updated.Email != "hello@grace.test" {
		t.Errorf("email: got %q", updated.Email)
	}
	if updated.Website != "https://grace.test" {
		t.Errorf("website should be untouched, got %q", updated.Website)
	}
	if updated.Slug != "grace" {
		t.Errorf("slug must not change on rename, got %q", updated.Slug)
	}
}

func TestStore_Update_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := organizationstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := store.Update(ctx, primitive.NewObjectID(), organizationstore.Patch{Name: strp("x")})
	if !errors.Is(err, mongo.ErrNoDocuments) {
		t.Errorf("got %v, want ErrNoDocuments", err)
	}
}

func TestStore_Search(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	store := organizationstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateOrganization(ctx, "Iglesia Comunidad de Fé")
	fixtures.CreateOrganization(ctx, "Grace Church")
	fixtures.CreateOrganization(ctx, "Fe y Esperanza")

	got, err := store.Search(ctx, "FÉ", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Search(FÉ): got %d results, want 2", len(got))
	}
	if got[0].Name != "Fe y Esperanza" {
		t.Errorf("results should be ordered by name, got %q first", got[0].Name)
	}

	got, err = store.Search(ctx, "(", 10)
	if err != nil {
		t.Fatalf("Search with regex metachar: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Search((): got %d results, want 0", len(got))
	}
}

func TestStore_List_Limit(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	store := organizationstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	for _, n := range []string{"Charlie", "Alpha", "Bravo"} {
		fixtures.CreateOrganization(ctx, n)
	}
	got, err := store.List(ctx, 2)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 2 || got[0].Name != "Alpha" || got[1].Name != "Bravo" {
		t.Errorf("List: got %v", got)
	}
}

func TestStore_Delete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	store := organizationstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := fixtures.CreateOrganization(ctx, "Grace")
	n, err := store.Delete(ctx, org.ID)
	if err != nil || n != 1 {
		t.Fatalf("Delete = %d, %v; want 1, nil", n, err)
	}
	if _, err := store.GetByID(ctx, org.ID); !errors.Is(err, mongo.ErrNoDocuments) {
		t.Errorf("GetByID after delete: got %v, want ErrNoDocuments", err)
	}
}
