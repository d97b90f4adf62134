// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/dalemusser/waffle/config"
	"github.com/jjprojectslab/comunify/internal/app/store/audit"
	"github.com/jjprojectslab/comunify/internal/app/store/oauthstate"
	profilestore "github.com/jjprojectslab/comunify/internal/app/store/profiles"
	userrolestore "github.com/jjprojectslab/comunify/internal/app/store/userroles"
	"github.com/jjprojectslab/comunify/internal/app/system/auditlog"
	"github.com/jjprojectslab/comunify/internal/app/system/normalize"
	"github.com/jjprojectslab/comunify/internal/app/system/ratelimit"
	"github.com/jjprojectslab/comunify/internal/app/system/tasks"
	"github.com/jjprojectslab/comunify/internal/app/system/timeouts"
	"github.com/jjprojectslab/comunify/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Startup runs one-time initialization after schema setup and before the
// handler is built: timeouts, the superadmin promotion and periodic jobs.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	timeouts.Configure(timeouts.Config{
		Short:  appCfg.TimeoutShort,
		Medium: appCfg.TimeoutMedium,
		Long:   appCfg.TimeoutLong,
	})
	if appCfg.TrustedProxies != nil {
		ratelimit.TrustProxies(appCfg.TrustedProxies)
	}

	if appCfg.SuperAdminEmail != "" {
		al := newAuditLogger(deps, appCfg, logger)
		if err := ensureSuperAdmin(ctx, deps, appCfg.SuperAdminEmail, al, logger); err != nil {
			return fmt.Errorf("superadmin bootstrap: %w", err)
		}
	}

	deps.Jobs.Schedule(tasks.OAuthStateCleanupJob(oauthstate.New(deps.MongoDatabase), logger))
	return nil
}

func newAuditLogger(deps DBDeps, appCfg AppConfig, logger *zap.Logger) *auditlog.Logger {
	return auditlog.New(audit.New(deps.MongoDatabase), logger, auditlog.Config{
		Auth:  appCfg.AuditLogAuth,
		Admin: appCfg.AuditLogAdmin,
	})
}

// ensureSuperAdmin grants SUPER_ADMIN to the profile registered under email.
// A missing profile is only logged: the account must sign up first.
func ensureSuperAdmin(ctx context.Context, deps DBDeps, email string, al *auditlog.Logger, logger *zap.Logger) error {
	email = normalize.Email(email)
	profiles := profilestore.New(deps.MongoDatabase)
	roles := userrolestore.New(deps.MongoDatabase)

	p, err := profiles.GetByEmail(ctx, email)
	if errors.Is(err, mongo.ErrNoDocuments) {
		logger.Warn("superadmin_email has no profile yet; sign up, then restart", zap.String("email", email))
		return nil
	}
	if err != nil {
		return err
	}

	held, err := roles.ListByUser(ctx, p.ID)
	if err != nil {
		return err
	}
	if p.Role == models.RoleSuperAdmin && slices.Contains(held, models.RoleSuperAdmin) {
		logger.Debug("superadmin already in place", zap.String("user_id", p.ID.Hex()))
		return nil
	}

	if err := roles.Add(ctx, p.ID, models.RoleSuperAdmin); err != nil {
		return err
	}
	if err := profiles.SetRole(ctx, p.ID, models.RoleSuperAdmin); err != nil {
		return err
	}
	al.SuperAdminPromoted(ctx, p.ID, email)
	logger.Info("promoted superadmin", zap.String("user_id", p.ID.Hex()), zap.String("email", email))
	return nil
}
