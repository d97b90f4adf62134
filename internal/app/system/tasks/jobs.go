// internal/app/system/tasks/jobs.go
package tasks

import (
	"context"
	"time"

	"github.com/jjprojectslab/comunify/internal/app/store/oauthstate"
	"github.com/jjprojectslab/comunify/internal/app/system/ratelimit"
	"go.uber.org/zap"
)

// OAuthStateCleanupJob removes expired OAuth state tokens.
// This is a backup for when MongoDB's TTL index cleanup is delayed.
func OAuthStateCleanupJob(stateStore *oauthstate.Store, logger *zap.Logger) Job {
	return Job{
		Name:     "oauth-state-cleanup",
		Interval: 1 * time.Hour,
		Run: func(ctx context.Context) error {
			count, err := stateStore.CleanupExpired(ctx)
			if err != nil {
				return err
			}
			if count > 0 {
				logger.Debug("cleaned up expired OAuth states", zap.Int64("count", count))
			}
			return nil
		},
	}
}

// LimiterSweepJob drops idle sign-in rate limiter buckets.
func LimiterSweepJob(l *ratelimit.Limiter, logger *zap.Logger) Job {
	return Job{
		Name:     "ratelimit-sweep",
		Interval: 5 * time.Minute,
		Run: func(context.Context) error {
			if n := l.Sweep(); n > 0 {
				logger.Debug("swept idle rate limit buckets", zap.Int("count", n))
			}
			return nil
		},
	}
}
