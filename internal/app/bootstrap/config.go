// internal/app/bootstrap/config.go
package bootstrap

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/jjprojectslab/comunify/internal/app/system/auditlog"
	"github.com/jjprojectslab/comunify/internal/app/system/ratelimit"
	"go.uber.org/zap"
)

const minProdSessionKey = 32

// appConfigKeys defines the configuration keys for comunify.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, session_name, etc.
//   - Environment variables: COMUNIFY_MONGO_URI, COMUNIFY_SESSION_NAME, etc.
//   - Command-line flags: --mongo_uri, --session_name, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "comunify", Desc: "MongoDB database name"},
	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Session signing key (must be strong in production)"},
	{Name: "session_name", Default: "comunify-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},
	{Name: "session_max_age", Default: "24h", Desc: "Session cookie lifetime"},

	// View invalidation fan-out
	{Name: "redis_url", Default: "", Desc: "Redis URL for cross-instance view invalidation (blank keeps it in-process)"},
	{Name: "redis_channel", Default: "comunify:revalidate", Desc: "Redis pub/sub channel for view invalidation"},

	// Google OAuth configuration
	{Name: "google_client_id", Default: "", Desc: "Google OAuth2 client ID"},
	{Name: "google_client_secret", Default: "", Desc: "Google OAuth2 client secret"},
	{Name: "base_url", Default: "", Desc: "Public base URL used for OAuth callbacks"},

	{Name: "require_email_confirmation", Default: false, Desc: "Block sign-in until the email is confirmed"},
	{Name: "superadmin_email", Default: "", Desc: "Email of the profile promoted to SUPER_ADMIN on startup"},

	// Sign-in throttling
	{Name: "login_rate_limit", Default: "0.2", Desc: "Sign-in attempts per second per client IP"},
	{Name: "login_rate_burst", Default: 5, Desc: "Sign-in burst per client IP"},
	{Name: "trusted_proxies", Default: ratelimit.DefaultTrustedProxies, Desc: "Comma-separated CIDRs whose X-Forwarded-For is honored (blank trusts none)"},

	// Audit logging settings
	{Name: "audit_log_auth", Default: "all", Desc: "Auth event logging: 'all' (db+log), 'db', 'log', or 'off'"},
	{Name: "audit_log_admin", Default: "all", Desc: "Admin event logging: 'all' (db+log), 'db', 'log', or 'off'"},

	// Operation timeouts
	{Name: "timeout_short", Default: "2s", Desc: "Timeout for single-document operations"},
	{Name: "timeout_medium", Default: "10s", Desc: "Timeout for multi-step operations"},
	{Name: "timeout_long", Default: "30s", Desc: "Timeout for cascades and large listings"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig merges .env files, config files,
// environment variables (COMUNIFY_* for the app) and flags, with
// precedence flags > env > files > defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "COMUNIFY", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:      appValues.String("mongo_uri"),
		MongoDatabase: appValues.String("mongo_database"),
		SessionKey:    appValues.String("session_key"),
		SessionName:   appValues.String("session_name"),
		SessionDomain: appValues.String("session_domain"),
		SessionMaxAge: appValues.Duration("session_max_age", 24*time.Hour),

		RedisURL:     appValues.String("redis_url"),
		RedisChannel: appValues.String("redis_channel"),

		GoogleClientID:     appValues.String("google_client_id"),
		GoogleClientSecret: appValues.String("google_client_secret"),
		BaseURL:            appValues.String("base_url"),

		RequireEmailConfirmation: appValues.Bool("require_email_confirmation"),
		SuperAdminEmail:          appValues.String("superadmin_email"),

		LoginRateBurst: appValues.Int("login_rate_burst"),

		AuditLogAuth:  appValues.String("audit_log_auth"),
		AuditLogAdmin: appValues.String("audit_log_admin"),

		TimeoutShort:  appValues.Duration("timeout_short", 2*time.Second),
		TimeoutMedium: appValues.Duration("timeout_medium", 10*time.Second),
		TimeoutLong:   appValues.Duration("timeout_long", 30*time.Second),
	}

	rate, err := parseRate(appValues.String("login_rate_limit"))
	if err != nil {
		return nil, AppConfig{}, err
	}
	appCfg.LoginRateLimit = rate

	proxies, err := ratelimit.ParseProxies(appValues.String("trusted_proxies"))
	if err != nil {
		return nil, AppConfig{}, err
	}
	appCfg.TrustedProxies = proxies

	return coreCfg, appCfg, nil
}

func parseRate(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("login_rate_limit must be a positive number, got %q", s)
	}
	return v, nil
}

// ValidateConfig performs app-specific config validation. It returns an
// error to abort startup.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	if coreCfg.Env == "prod" && len(appCfg.SessionKey) < minProdSessionKey {
		return fmt.Errorf("session_key must be at least %d characters in production", minProdSessionKey)
	}

	if !auditlog.ValidMode(appCfg.AuditLogAuth) || !auditlog.ValidMode(appCfg.AuditLogAdmin) {
		return errors.New("audit_log_auth and audit_log_admin must be one of: all, db, log, off")
	}

	if (appCfg.GoogleClientID == "") != (appCfg.GoogleClientSecret == "") {
		return errors.New("google_client_id and google_client_secret must be set together")
	}
	if appCfg.GoogleEnabled() && appCfg.BaseURL == "" {
		return errors.New("base_url is required when Google sign-in is enabled")
	}

	if appCfg.LoginRateBurst <= 0 {
		return errors.New("login_rate_burst must be positive")
	}

	return nil
}
