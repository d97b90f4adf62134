// internal/app/bootstrap/appconfig.go
package bootstrap

import (
	"net/netip"
	"time"
)

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// WAFFLE's CoreConfig covers ports, TLS, logging, CORS and body limits.
// Everything specific to comunify lives here and is passed to every
// lifecycle hook.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI      string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase string // Database name within MongoDB

	// Session management configuration
	SessionKey    string        // Secret key for signing session cookies (must be strong in production)
	SessionName   string        // Cookie name for sessions (default: comunify-session)
	SessionDomain string        // Cookie domain (blank means current host)
	SessionMaxAge time.Duration // Cookie lifetime

	// Cross-instance view invalidation (blank URL keeps it in-process)
	RedisURL     string
	RedisChannel string

	// Google OAuth configuration
	GoogleClientID     string
	GoogleClientSecret string
	BaseURL            string // e.g., "https://app.comunify.org" or "http://localhost:3000"

	RequireEmailConfirmation bool
	SuperAdminEmail          string

	// Per-IP sign-in throttling
	LoginRateLimit float64 // tokens per second
	LoginRateBurst int
	TrustedProxies []netip.Prefix

	// Audit logging: all, db, log or off
	AuditLogAuth  string
	AuditLogAdmin string

	TimeoutShort  time.Duration
	TimeoutMedium time.Duration
	TimeoutLong   time.Duration
}

// GoogleEnabled reports whether Google sign-in is configured.
func (c AppConfig) GoogleEnabled() bool {
	return c.GoogleClientID != "" && c.GoogleClientSecret != ""
}
