// internal/app/system/tasks/runner.go
package tasks

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Job is a periodic background task.
type Job struct {
	Name     string
	Interval time.Duration
	Run      func(ctx context.Context) error
}

// Runner owns the app's background goroutines and stops them together.
type Runner struct {
	log     *zap.Logger
	timeout time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewRunner creates a runner. Each job run gets at most timeout.
func NewRunner(logger *zap.Logger, timeout time.Duration) *Runner {
	ctx, cancel := context.WithCancel(context.Background())
	return &Runner{log: logger, timeout: timeout, ctx: ctx, cancel: cancel}
}

// Schedule runs j every j.Interval until Stop. The first run happens after
// one interval.
func (r *Runner) Schedule(j Job) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		ticker := time.NewTicker(j.Interval)
		defer ticker.Stop()
		for {
			select {
			case <-r.ctx.Done():
				return
			case <-ticker.C:
				r.runOnce(j)
			}
		}
	}()
	r.log.Info("background job scheduled", zap.String("job", j.Name), zap.Duration("interval", j.Interval))
}

func (r *Runner) runOnce(j Job) {
	ctx, cancel := context.WithTimeout(r.ctx, r.timeout)
	defer cancel()
	if err := j.Run(ctx); err != nil {
		r.log.Error("background job failed", zap.String("job", j.Name), zap.Error(err))
	}
}

// Go runs a long-lived loop that must return once ctx is cancelled.
func (r *Runner) Go(name string, fn func(ctx context.Context)) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		fn(r.ctx)
		r.log.Debug("background loop exited", zap.String("loop", name))
	}()
}

// Stop cancels every job and loop and waits for them to finish.
func (r *Runner) Stop() {
	r.cancel()
	r.wg.Wait()
}
