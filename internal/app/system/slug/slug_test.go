package slug

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Iglesia Comunidad de Fé", "iglesia-comunidad-de-fe"},
		{"  Grace   Church  ", "grace-church"},
		{"São Paulo -- Central", "sao-paulo-central"},
		{"Ñandú & Co.", "nandu-co"},
		{"already-a-slug", "already-a-slug"},
		{"-leading and trailing-", "leading-and-trailing"},
		{"Tabs\tand\nnewlines", "tabs-and-newlines"},
		{"!!!", ""},
		{"", ""},
		{"Church 2024", "church-2024"},
		{"Grace\u00a0Church", "grace-church"},
		{"Iglesia\u2003Central", "iglesia-central"},
		{"Casa\u3000de\u202fOración", "casa-de-oracion"},
		{"\ufeffHope", "hope"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := Slugify(tt.in); got != tt.want {
				t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSlugify_Idempotent(t *testing.T) {
	inputs := []string{
		"Iglesia Comunidad de Fé",
		"  Grace   Church  ",
		"Ünïcödé -- Tëst",
		"a-b-c",
		"---",
		"Mixed_Under_Scores",
	}
	for _, in := range inputs {
		once := Slugify(in)
		if twice := Slugify(once); twice != once {
			t.Errorf("Slugify not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestSlugify_Deterministic(t *testing.T) {
	in := "Église Évangélique"
	first := Slugify(in)
	for i := 0; i < 10; i++ {
		if got := Slugify(in); got != first {
			t.Fatalf("Slugify(%q) changed between calls: %q vs %q", in, first, got)
		}
	}
	if first != "eglise-evangelique" {
		t.Errorf("Slugify(%q) = %q, want %q", in, first, "eglise-evangelique")
	}
}

func TestUnique_NoCollision(t *testing.T) {
	g := Generator{Exists: func(context.Context, string) (bool, error) { return false, nil }}
	got, err := g.Unique(context.Background(), "Grace Church")
	if err != nil {
		t.Fatalf("Unique: %v", err)
	}
	if got != "grace-church" {
		t.Errorf("got %q, want %q", got, "grace-church")
	}
}

func TestUnique_CollisionAppendsBase36Timestamp(t *testing.T) {
	fixed := time.UnixMilli(1700000000000)
	taken := map[string]bool{"grace-church": true}
	g := Generator{
		Exists: func(_ context.Context, s string) (bool, error) { return taken[s], nil },
		Now:    func() time.Time { return fixed },
	}
	got, err := g.Unique(context.Background(), "Grace Church")
	if err != nil {
		t.Fatalf("Unique: %v", err)
	}
	want := "grace-church-" + Suffix(fixed)
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if Suffix(fixed) != "loyw3v28" {
		t.Errorf("Suffix = %q, want %q", Suffix(fixed), "loyw3v28")
	}
}

func TestUnique_RepeatedCollision(t *testing.T) {
	fixed := time.UnixMilli(1700000000000)
	taken := map[string]bool{"grace": true}
	taken["grace-"+Suffix(fixed)] = true
	g := Generator{
		Exists: func(_ context.Context, s string) (bool, error) { return taken[s], nil },
		Now:    func() time.Time { return fixed },
	}
	got, err := g.Unique(context.Background(), "Grace")
	if err != nil {
		t.Fatalf("Unique: %v", err)
	}
	if want := "grace-" + Suffix(fixed) + "-1"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestUnique_EmptyNameFallsBack(t *testing.T) {
	g := Generator{Exists: func(context.Context, string) (bool, error) { return false, nil }}
	got, err := g.Unique(context.Background(), "¡¿?!")
	if err != nil {
		t.Fatalf("Unique: %v", err)
	}
	if got != Fallback {
		t.Errorf("got %q, want %q", got, Fallback)
	}
}

func TestUnique_Exhausted(t *testing.T) {
	g := Generator{
		Exists:      func(context.Context, string) (bool, error) { return true, nil },
		MaxAttempts: 3,
	}
	if _, err := g.Unique(context.Background(), "x"); !errors.Is(err, ErrExhausted) {
		t.Errorf("err = %v, want ErrExhausted", err)
	}
}

func TestUnique_ExistsError(t *testing.T) {
	boom := errors.New("boom")
	g := Generator{Exists: func(context.Context, string) (bool, error) { return false, boom }}
	if _, err := g.Unique(context.Background(), "x"); !errors.Is(err, boom) {
		t.Errorf("err = %v, want boom", err)
	}
}
