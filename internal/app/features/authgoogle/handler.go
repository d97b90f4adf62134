// internal/app/features/authgoogle/handler.go
package authgoogle

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/urlutil"
	"github.com/go-chi/chi/v5"
	"github.com/jjprojectslab/comunify/internal/app/features/shared"
	identitystore "github.com/jjprojectslab/comunify/internal/app/store/identities"
	"github.com/jjprojectslab/comunify/internal/app/store/oauthstate"
	profilestore "github.com/jjprojectslab/comunify/internal/app/store/profiles"
	"github.com/jjprojectslab/comunify/internal/app/system/auth"
	"github.com/jjprojectslab/comunify/internal/app/system/timeouts"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const userInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// Config holds the Google client credentials and the public base URL used
// for the callback and final redirects.
type Config struct {
	ClientID     string
	ClientSecret string
	BaseURL      string // e.g. "https://app.comunify.org"
}

// Handler runs the Google OAuth2 sign-in flow.
type Handler struct {
	shared.Deps

	sessions *auth.SessionManager
	states   *oauthstate.Store
	cfg      Config

	identities *identitystore.Store
	profiles   *profilestore.Store
	accounts   shared.Accounts

	// fetchUser is swapped out in tests.
	fetchUser func(ctx context.Context, oc *oauth2.Config, code string) (*googleUserInfo, error)
}

func NewHandler(d shared.Deps, sm *auth.SessionManager, cfg Config) *Handler {
	return &Handler{
		Deps:       d,
		sessions:   sm,
		states:     oauthstate.New(d.DB),
		cfg:        cfg,
		identities: identitystore.New(d.DB),
		profiles:   profilestore.New(d.DB),
		accounts:   shared.NewAccounts(d.DB),
		fetchUser:  exchangeAndFetch,
	}
}

// Routes mounts the flow under "/auth/google". Both routes are public.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeLogin)
	r.Get("/callback", h.ServeCallback)
	return r
}

// IsConfigured reports whether client credentials are present.
func (h *Handler) IsConfigured() bool {
	return h.cfg.ClientID != "" && h.cfg.ClientSecret != ""
}

func (h *Handler) oauth2Config() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     h.cfg.ClientID,
		ClientSecret: h.cfg.ClientSecret,
		RedirectURL:  h.cfg.BaseURL + "/auth/google/callback",
		Scopes: []string{
			"openid",
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
		},
		Endpoint: google.Endpoint,
	}
}

// ServeLogin redirects to Google's consent screen with a one-time state.
//
// Route: GET /auth/google?return=
func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	if !h.IsConfigured() {
		h.Logger().Warn("Google OAuth not configured")
		h.redirectToLogin(w, r, "google_not_configured")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	state, err := h.states.Issue(ctx, query.Get(r, "return"), oauthstate.DefaultTTL)
	if err != nil {
		h.Logger().Error("failed to save OAuth state", zap.Error(err))
		h.redirectToLogin(w, r, "internal")
		return
	}

	http.Redirect(w, r, h.oauth2Config().AuthCodeURL(state), http.StatusTemporaryRedirect)
}

// ServeCallback completes the flow: validates state, exchanges the code,
// resolves or creates the account and starts a session.
//
// Route: GET /auth/google/callback
func (h *Handler) ServeCallback(w http.ResponseWriter, r *http.Request) {
	if errParam := query.Get(r, "error"); errParam != "" {
		h.Logger().Warn("Google OAuth error",
			zap.String("error", errParam),
			zap.String("description", query.Get(r, "error_description")))
		h.redirectToLogin(w, r, "google_denied")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	state := query.Get(r, "state")
	if state == "" {
		h.redirectToLogin(w, r, "invalid_state")
		return
	}
	returnURL, valid, err := h.states.Validate(ctx, state)
	if err != nil {
		h.Logger().Error("failed to validate OAuth state", zap.Error(err))
		h.redirectToLogin(w, r, "internal")
		return
	}
	if !valid {
		h.Logger().Warn("invalid or expired OAuth state")
		h.redirectToLogin(w, r, "invalid_state")
		return
	}

	code := query.Get(r, "code")
	if code == "" {
		h.redirectToLogin(w, r, "invalid_code")
		return
	}
	info, err := h.fetchUser(ctx, h.oauth2Config(), code)
	if err != nil {
		h.Logger().Error("Google user lookup failed", zap.Error(err))
		h.redirectToLogin(w, r, "user_info")
		return
	}

	p, err := h.resolveUser(ctx, r, info)
	switch {
	case errors.Is(err, errEmailUnverified):
		h.redirectToLogin(w, r, "email_unverified")
		return
	case errors.Is(err, errUserDisabled):
		h.redirectToLogin(w, r, "account_disabled")
		return
	case err != nil:
		h.Logger().Error("Google account resolution failed", zap.Error(err))
		h.redirectToLogin(w, r, "internal")
		return
	}

	if err := h.sessions.SignIn(w, r, p.ID.Hex()); err != nil {
		h.Logger().Error("save session failed", zap.Error(err), zap.String("user_id", p.ID.Hex()))
		h.redirectToLogin(w, r, "session")
		return
	}
	h.Audit.LoginSuccess(ctx, r, p.ID, p.OrganizationID, "google")
	h.Logger().Info("user signed in via Google", zap.String("user_id", p.ID.Hex()))

	http.Redirect(w, r, h.cfg.BaseURL+urlutil.SafeReturn(returnURL, "", "/dashboard"), http.StatusSeeOther)
}

func (h *Handler) redirectToLogin(w http.ResponseWriter, r *http.Request, code string) {
	http.Redirect(w, r, h.cfg.BaseURL+"/login?error="+url.QueryEscape(code), http.StatusSeeOther)
}

type googleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"verified_email"`
	Name          string `json:"name"`
}

func exchangeAndFetch(ctx context.Context, oc *oauth2.Config, code string) (*googleUserInfo, error) {
	token, err := oc.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchange code: %w", err)
	}
	resp, err := oc.Client(ctx, token).Get(userInfoURL)
	if err != nil {
		return nil, fmt.Errorf("fetch user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("user info: unexpected status %d", resp.StatusCode)
	}
	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("decode user info: %w", err)
	}
	return &info, nil
}
