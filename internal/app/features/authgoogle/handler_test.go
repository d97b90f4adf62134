package authgoogle

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/jjprojectslab/comunify/internal/app/features/shared"
	"github.com/jjprojectslab/comunify/internal/app/system/auth"
	"github.com/jjprojectslab/comunify/internal/domain/models"
	"github.com/jjprojectslab/comunify/internal/testutil"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

const testSessionKey = "0123456789abcdef0123456789abcdef"

func newTestHandler(t *testing.T, cfg Config) (*Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	sm, err := auth.NewSessionManager(testSessionKey, "comunify-test", "", time.Hour, false, zap.NewNop())
	if err != nil {
		t.Fatalf("session manager: %v", err)
	}
	return NewHandler(shared.Deps{DB: db}, sm, cfg), testutil.NewFixtures(t, db)
}

var testConfig = Config{ClientID: "client", ClientSecret: "secret", BaseURL: "https://app.test"}

func TestIsConfigured(t *testing.T) {
	h := &Handler{}
	if h.IsConfigured() {
		t.Error("empty config reported as configured")
	}
	h.cfg = testConfig
	if !h.IsConfigured() {
		t.Error("credentials present but not configured")
	}
}

func TestServeLogin_NotConfigured(t *testing.T) {
	h := &Handler{cfg: Config{BaseURL: "https://app.test"}}
	rec := httptest.NewRecorder()
	h.ServeLogin(rec, httptest.NewRequest(http.MethodGet, "/auth/google", nil))

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); !strings.Contains(loc, "error=google_not_configured") {
		t.Errorf("Location = %q", loc)
	}
}

func TestServeLogin_RedirectsWithState(t *testing.T) {
	h, _ := newTestHandler(t, testConfig)
	rec := httptest.NewRecorder()
	h.ServeLogin(rec, httptest.NewRequest(http.MethodGet, "/auth/google?return=/areas", nil))

	if rec.Code != http.StatusTemporaryRedirect {
		t.Fatalf("status = %d", rec.Code)
	}
	u, err := url.Parse(rec.Header().Get("Location"))
	if err != nil {
		t.Fatalf("parse redirect: %v", err)
	}
	if u.Host != "accounts.google.com" {
		t.Errorf("host = %q", u.Host)
	}
	state := u.Query().Get("state")
	if state == "" {
		t.Fatal("missing state")
	}
	if got := u.Query().Get("redirect_uri"); got != "https://app.test/auth/google/callback" {
		t.Errorf("redirect_uri = %q", got)
	}

	ctx, cancel := testutil.TestContext()
	defer cancel()
	ret, ok, err := h.states.Validate(ctx, state)
	if err != nil || !ok || ret != "/areas" {
		t.Errorf("Validate = %q %v %v", ret, ok, err)
	}
}

func TestServeCallback_RejectsUnknownState(t *testing.T) {
	h, _ := newTestHandler(t, testConfig)
	h.fetchUser = func(context.Context, *oauth2.Config, string) (*googleUserInfo, error) {
		t.Fatal("code exchanged despite bad state")
		return nil, nil
	}
	rec := httptest.NewRecorder()
	h.ServeCallback(rec, httptest.NewRequest(http.MethodGet, "/auth/google/callback?state=nope&code=c", nil))

	if loc := rec.Header().Get("Location"); !strings.Contains(loc, "error=invalid_state") {
		t.Errorf("Location = %q", loc)
	}
}

func TestServeCallback_CreatesAccountAndSignsIn(t *testing.T) {
	h, _ := newTestHandler(t, testConfig)
	h.fetchUser = func(_ context.Context, _ *oauth2.Config, code string) (*googleUserInfo, error) {
		if code != "good" {
			return nil, errors.New("bad code")
		}
		return &googleUserInfo{ID: "g-1", Email: "New@Test.com", EmailVerified: true, Name: "New Person"}, nil
	}
	ctx, cancel := testutil.TestContext()
	defer cancel()
	state, err := h.states.Issue(ctx, "/areas", time.Minute)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	rec := httptest.NewRecorder()
	h.ServeCallback(rec, httptest.NewRequest(http.MethodGet, "/auth/google/callback?state="+state+"&code=good", nil))

	if loc := rec.Header().Get("Location"); loc != "https://app.test/areas" {
		t.Fatalf("Location = %q", loc)
	}
	if rec.Header().Get("Set-Cookie") == "" {
		t.Error("expected session cookie")
	}
	p, err := h.profiles.GetByEmail(ctx, "new@test.com")
	if err != nil {
		t.Fatalf("profile not created: %v", err)
	}
	if p.Role != models.RoleMember || !p.EmailVerified || p.FullName != "New Person" {
		t.Errorf("profile = %+v", p)
	}
	if ident, err := h.identities.GetByGoogleSubject(ctx, "g-1"); err != nil || ident.ID != p.ID {
		t.Errorf("identity not linked to profile: %v", err)
	}
}

func TestResolveUser_LinksExistingEmail(t *testing.T) {
	h, fx := newTestHandler(t, testConfig)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	p := fx.CreateProfile(ctx, "Old Person", "old@test.com", testutil.ProfileOpts{})
	if _, err := h.identities.WithCost(4).Create(ctx, p.ID, "old@test.com", "secret123", true); err != nil {
		t.Fatalf("identity: %v", err)
	}

	r := httptest.NewRequest(http.MethodGet, "/auth/google/callback", nil)
	got, err := h.resolveUser(ctx, r, &googleUserInfo{ID: "g-2", Email: "old@test.com", EmailVerified: true})
	if err != nil {
		t.Fatalf("resolveUser: %v", err)
	}
	if got.ID != p.ID {
		t.Errorf("resolved %s, want %s", got.ID.Hex(), p.ID.Hex())
	}
	ident, err := h.identities.GetByGoogleSubject(ctx, "g-2")
	if err != nil || ident.ID != p.ID {
		t.Errorf("subject not linked: %v", err)
	}

	// Second sign-in goes through the subject lookup.
	got, err = h.resolveUser(ctx, r, &googleUserInfo{ID: "g-2", Email: "other@test.com"})
	if err != nil || got.ID != p.ID {
		t.Errorf("subject lookup = %v, %v", got.ID, err)
	}
}

func TestResolveUser_Rejections(t *testing.T) {
	h, fx := newTestHandler(t, testConfig)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	r := httptest.NewRequest(http.MethodGet, "/auth/google/callback", nil)

	if _, err := h.resolveUser(ctx, r, &googleUserInfo{ID: "g-3", Email: "x@test.com"}); !errors.Is(err, errEmailUnverified) {
		t.Errorf("unverified email: err = %v", err)
	}

	p := fx.CreateProfile(ctx, "Off", "off@test.com", testutil.ProfileOpts{Inactive: true})
	if _, err := h.identities.CreateGoogle(ctx, p.ID, "off@test.com", "g-4"); err != nil {
		t.Fatalf("identity: %v", err)
	}
	if _, err := h.resolveUser(ctx, r, &googleUserInfo{ID: "g-4", Email: "off@test.com", EmailVerified: true}); !errors.Is(err, errUserDisabled) {
		t.Errorf("inactive user: err = %v", err)
	}
}
