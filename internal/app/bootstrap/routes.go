// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"
	"time"

	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	areasfeature "github.com/jjprojectslab/comunify/internal/app/features/areas"
	auditlogfeature "github.com/jjprojectslab/comunify/internal/app/features/auditlog"
	authgooglefeature "github.com/jjprojectslab/comunify/internal/app/features/authgoogle"
	errorsfeature "github.com/jjprojectslab/comunify/internal/app/features/errors"
	healthfeature "github.com/jjprojectslab/comunify/internal/app/features/health"
	locationsfeature "github.com/jjprojectslab/comunify/internal/app/features/locations"
	loginfeature "github.com/jjprojectslab/comunify/internal/app/features/login"
	organizationsfeature "github.com/jjprojectslab/comunify/internal/app/features/organizations"
	"github.com/jjprojectslab/comunify/internal/app/features/shared"
	usersfeature "github.com/jjprojectslab/comunify/internal/app/features/users"
	viewsfeature "github.com/jjprojectslab/comunify/internal/app/features/views"
	profilestore "github.com/jjprojectslab/comunify/internal/app/store/profiles"
	"github.com/jjprojectslab/comunify/internal/app/system/auth"
	"github.com/jjprojectslab/comunify/internal/app/system/ratelimit"
	"github.com/jjprojectslab/comunify/internal/app/system/reqlog"
	"github.com/jjprojectslab/comunify/internal/app/system/revalidate"
	"github.com/jjprojectslab/comunify/internal/app/system/tasks"
	"go.uber.org/zap"
)

const loginLimiterIdle = 15 * time.Minute

// BuildHandler constructs the root HTTP handler (router).
//
// It wires the session manager, the view invalidation hub (bridged over
// Redis when configured), the sign-in rate limiter and the audit logger,
// then mounts every feature router.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, appCfg.SessionMaxAge, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// Fresh profile data on each request so role changes and deactivation
	// take effect immediately.
	sessionMgr.SetUserFetcher(profilestore.NewFetcher(deps.MongoDatabase))

	hub := revalidate.NewHub(logger)
	if deps.Redis != nil {
		bridge := revalidate.NewRedisBridge(deps.Redis, appCfg.RedisChannel, hub, logger)
		hub.SetPublisher(bridge)
		deps.Jobs.Go("revalidate-redis", bridge.Listen)
	}

	limiter := ratelimit.New(appCfg.LoginRateLimit, appCfg.LoginRateBurst, loginLimiterIdle)
	deps.Jobs.Schedule(tasks.LimiterSweepJob(limiter, logger))

	d := shared.Deps{
		DB:     deps.MongoDatabase,
		Notify: hub,
		Audit:  newAuditLogger(deps, appCfg, logger),
		ErrLog: errorsfeature.NewErrorLogger(logger),
		Log:    logger,
	}

	r := chi.NewRouter()
	r.Use(reqlog.Middleware(logger))

	// Global auth middleware: loads SessionUser into context if signed in.
	r.Use(sessionMgr.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators
	r.Mount("/health", healthfeature.Routes(healthfeature.NewHandler(deps.MongoClient, deps.Redis, logger)))
	r.Mount("/views", viewsfeature.Routes(viewsfeature.NewHandler(hub)))

	// Authentication
	loginHandler := loginfeature.NewHandler(d, sessionMgr, limiter, loginfeature.Config{
		RequireEmailConfirmation: appCfg.RequireEmailConfirmation,
	})
	googleHandler := authgooglefeature.NewHandler(d, sessionMgr, authgooglefeature.Config{
		ClientID:     appCfg.GoogleClientID,
		ClientSecret: appCfg.GoogleClientSecret,
		BaseURL:      appCfg.BaseURL,
	})
	r.Route("/auth", func(ar chi.Router) {
		ar.Mount("/google", authgooglefeature.Routes(googleHandler))
		ar.Mount("/", loginfeature.Routes(loginHandler))
	})

	// Tenancy
	r.Mount("/organizations", organizationsfeature.Routes(organizationsfeature.NewHandler(d), sessionMgr))
	r.Mount("/locations", locationsfeature.Routes(locationsfeature.NewHandler(d), sessionMgr))

	// People and ministry areas
	r.Mount("/users", usersfeature.Routes(usersfeature.NewHandler(d), sessionMgr))
	r.Mount("/areas", areasfeature.Routes(areasfeature.NewHandler(d), sessionMgr))

	r.Mount("/audit", auditlogfeature.Routes(auditlogfeature.NewHandler(d), sessionMgr))

	return r, nil
}
