// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"
	"net/http"

	"github.com/jjprojectslab/comunify/internal/app/store/audit"
	"github.com/jjprojectslab/comunify/internal/app/system/ratelimit"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Destination modes for a category.
const (
	ModeAll = "all" // MongoDB + zap
	ModeDB  = "db"  // MongoDB only
	ModeLog = "log" // zap only
	ModeOff = "off"
)

// ValidMode reports whether m is a known destination mode.
func ValidMode(m string) bool {
	switch m {
	case ModeAll, ModeDB, ModeLog, ModeOff:
		return true
	}
	return false
}

// Config holds audit logging configuration.
type Config struct {
	// Auth controls sign-up, sign-in, sign-out and password events.
	Auth string
	// Admin controls organization, location, user and area changes.
	Admin string
}

// Logger records audit events to MongoDB (via audit.Store) and zap.
type Logger struct {
	store  *audit.Store
	zapLog *zap.Logger
	config Config
}

// New creates a new audit Logger.
func New(store *audit.Store, zapLog *zap.Logger, config Config) *Logger {
	return &Logger{
		store:  store,
		zapLog: zapLog,
		config: config,
	}
}

func (l *Logger) logToZap(event audit.Event) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("category", event.Category),
		zap.String("event_type", event.EventType),
		zap.Bool("success", event.Success),
		zap.String("ip", event.IP),
	}
	if event.UserID != nil {
		fields = append(fields, zap.String("user_id", event.UserID.Hex()))
	}
	if event.ActorID != nil {
		fields = append(fields, zap.String("actor_id", event.ActorID.Hex()))
	}
	if event.OrganizationID != nil {
		fields = append(fields, zap.String("organization_id", event.OrganizationID.Hex()))
	}
	if event.FailureReason != "" {
		fields = append(fields, zap.String("failure_reason", event.FailureReason))
	}
	for k, v := range event.Details {
		fields = append(fields, zap.String("detail_"+k, v))
	}

	if event.Success {
		l.zapLog.Info("audit event", fields...)
	} else {
		l.zapLog.Warn("audit event", fields...)
	}
}

// Log records event according to its category's mode. A nil Logger is a no-op.
func (l *Logger) Log(ctx context.Context, event audit.Event) {
	if l == nil {
		return
	}

	var setting string
	switch event.Category {
	case audit.CategoryAuth:
		setting = l.config.Auth
	case audit.CategoryAdmin:
		setting = l.config.Admin
	default:
		setting = ModeAll
	}
	if setting == "" {
		setting = ModeAll
	}
	if setting == ModeOff {
		return
	}

	if setting == ModeAll || setting == ModeLog {
		l.logToZap(event)
	}
	if setting == ModeAll || setting == ModeDB {
		if err := l.store.Log(ctx, event); err != nil {
			l.zapLog.Error("failed to store audit event",
				zap.Error(err),
				zap.String("event_type", event.EventType),
			)
		}
	}
}

func authEvent(r *http.Request, eventType string, success bool) audit.Event {
	return audit.Event{
		Category:  audit.CategoryAuth,
		EventType: eventType,
		IP:        ratelimit.ClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   success,
	}
}

// --- Authentication Events ---

// SignUp logs a new account. method is "password" or "google".
func (l *Logger) SignUp(ctx context.Context, r *http.Request, userID primitive.ObjectID, orgID *primitive.ObjectID, method string) {
	ev := authEvent(r, audit.EventSignUp, true)
	ev.UserID = &userID
	ev.OrganizationID = orgID
	ev.Details = map[string]string{"auth_method": method}
	l.Log(ctx, ev)
}

// LoginSuccess logs a successful sign-in.
func (l *Logger) LoginSuccess(ctx context.Context, r *http.Request, userID primitive.ObjectID, orgID *primitive.ObjectID, method string) {
	ev := authEvent(r, audit.EventLoginSuccess, true)
	ev.UserID = &userID
	ev.OrganizationID = orgID
	ev.Details = map[string]string{"auth_method": method}
	l.Log(ctx, ev)
}

// LoginFailed logs a rejected sign-in. eventType is one of the
// audit.EventLoginFailed* constants; userID is nil when no account matched.
func (l *Logger) LoginFailed(ctx context.Context, r *http.Request, eventType string, userID *primitive.ObjectID, email, reason string) {
	ev := authEvent(r, eventType, false)
	ev.UserID = userID
	ev.FailureReason = reason
	if email != "" {
		ev.Details = map[string]string{"email": email}
	}
	l.Log(ctx, ev)
}

// Logout logs a sign-out. userID may be empty when no session was present.
func (l *Logger) Logout(ctx context.Context, r *http.Request, userID string) {
	ev := authEvent(r, audit.EventLogout, true)
	if oid, err := primitive.ObjectIDFromHex(userID); err == nil {
		ev.UserID = &oid
	}
	l.Log(ctx, ev)
}

// PasswordChanged logs a password change by the account owner.
func (l *Logger) PasswordChanged(ctx context.Context, r *http.Request, userID primitive.ObjectID) {
	ev := authEvent(r, audit.EventPasswordChanged, true)
	ev.UserID = &userID
	l.Log(ctx, ev)
}

// GoogleLinked logs a Google account attached to an existing identity.
func (l *Logger) GoogleLinked(ctx context.Context, r *http.Request, userID primitive.ObjectID) {
	ev := authEvent(r, audit.EventGoogleLinked, true)
	ev.UserID = &userID
	l.Log(ctx, ev)
}

// --- Admin Events ---

// Target identifies what an admin action touched.
type Target struct {
	UserID         *primitive.ObjectID
	OrganizationID *primitive.ObjectID
	Details        map[string]string
}

// Admin logs a successful administrative change performed by actorID.
func (l *Logger) Admin(ctx context.Context, r *http.Request, eventType string, actorID primitive.ObjectID, t Target) {
	ev := audit.Event{
		Category:       audit.CategoryAdmin,
		EventType:      eventType,
		ActorID:        &actorID,
		UserID:         t.UserID,
		OrganizationID: t.OrganizationID,
		Success:        true,
		Details:        t.Details,
	}
	if r != nil {
		ev.IP = ratelimit.ClientIP(r)
		ev.UserAgent = r.UserAgent()
	}
	l.Log(ctx, ev)
}

// SuperAdminPromoted logs the startup promotion of the configured account.
func (l *Logger) SuperAdminPromoted(ctx context.Context, userID primitive.ObjectID, email string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAdmin,
		EventType: audit.EventSuperAdminPromoted,
		UserID:    &userID,
		IP:        "startup",
		Success:   true,
		Details:   map[string]string{"email": email},
	})
}
