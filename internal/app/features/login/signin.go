// internal/app/features/login/signin.go
package login

import (
	"context"
	"errors"
	"net/http"

	uierrors "github.com/jjprojectslab/comunify/internal/app/features/errors"
	"github.com/jjprojectslab/comunify/internal/app/features/shared"
	"github.com/jjprojectslab/comunify/internal/app/store/audit"
	identitystore "github.com/jjprojectslab/comunify/internal/app/store/identities"
	"github.com/jjprojectslab/comunify/internal/app/store/queries/userlist"
	"github.com/jjprojectslab/comunify/internal/app/system/auth"
	"github.com/jjprojectslab/comunify/internal/app/system/envelope"
	"github.com/jjprojectslab/comunify/internal/app/system/ratelimit"
	"github.com/jjprojectslab/comunify/internal/app/system/timeouts"
	"go.uber.org/zap"
)

var (
	errBadCredentials = &uierrors.Error{Kind: uierrors.KindUnauthenticated, Message: "Incorrect email or password."}
	errUnconfirmed    = &uierrors.Error{Kind: uierrors.KindUnauthenticated, Message: "Please confirm your email before signing in."}
	errDisabled       = uierrors.Unauthorized("This account has been disabled.")
)

// HandleSignIn checks a password and starts a session.
//
// Route: POST /auth/signin
func (h *Handler) HandleSignIn(w http.ResponseWriter, r *http.Request) {
	ip := ratelimit.ClientIP(r)

	var req signInRequest
	if err := shared.DecodeValid(w, r, &req); err != nil {
		h.Errors().Respond(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if h.limiter != nil && !h.limiter.Allow(ip) {
		h.Audit.LoginFailed(ctx, r, audit.EventLoginFailedRateLimit, nil, req.Email, "rate limited")
		w.Header().Set("Retry-After", "5")
		envelope.Fail(w, http.StatusTooManyRequests, envelope.KindValidation, "Too many attempts. Please wait and try again.")
		return
	}

	ident, err := h.identities.Authenticate(ctx, req.Email, req.Password, h.cfg.RequireEmailConfirmation)
	switch {
	case errors.Is(err, identitystore.ErrInvalidCredentials):
		h.Audit.LoginFailed(ctx, r, audit.EventLoginFailedInvalid, nil, req.Email, "invalid credentials")
		h.Errors().Respond(w, r, errBadCredentials)
		return
	case errors.Is(err, identitystore.ErrEmailNotConfirmed):
		h.Audit.LoginFailed(ctx, r, audit.EventLoginFailedUnconfirmed, nil, req.Email, "email not confirmed")
		h.Errors().Respond(w, r, errUnconfirmed)
		return
	case err != nil:
		h.Errors().Respond(w, r, shared.StoreErr(err, ""))
		return
	}

	u, err := userlist.Get(ctx, h.DB, ident.ID)
	if err != nil {
		h.Errors().Respond(w, r, shared.StoreErr(err, "Account profile not found."))
		return
	}
	if !u.IsActive {
		h.Audit.LoginFailed(ctx, r, audit.EventLoginFailedUserDisabled, &ident.ID, req.Email, "user disabled")
		h.Errors().Respond(w, r, errDisabled)
		return
	}

	if err := h.sessions.SignIn(w, r, ident.ID.Hex()); err != nil {
		h.Errors().LogServerError(w, r, "session save failed", err, "Could not start your session.")
		return
	}
	if h.limiter != nil {
		h.limiter.Reset(ip)
	}

	h.Logger().Info("user signed in", zap.String("user_id", ident.ID.Hex()), zap.String("ip", ip))
	h.Audit.LoginSuccess(ctx, r, ident.ID, u.OrganizationID, "password")
	envelope.OK(w, http.StatusOK, u)
}

// HandleSignOut ends the session. It succeeds even when nobody is signed in.
//
// Route: POST /auth/signout
func (h *Handler) HandleSignOut(w http.ResponseWriter, r *http.Request) {
	var userID string
	if u, ok := auth.CurrentUser(r); ok {
		userID = u.ID
	}
	if err := h.sessions.SignOut(w, r); err != nil {
		h.Logger().Warn("session clear failed", zap.Error(err))
	}
	h.Audit.Logout(r.Context(), r, userID)
	envelope.OK(w, http.StatusOK, nil)
}
