package cronrunner

import (
	"context"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Runner schedules the maintenance jobs (price refresh, retention cleanup).
// Every job receives the process context, so shutdown cancels in-flight
// work instead of waiting it out.
type Runner struct {
	cron    *cron.Cron
	logger  *zap.Logger
	baseCtx context.Context
}

func New(logger *zap.Logger, baseCtx context.Context) *Runner {
	if baseCtx == nil {
		baseCtx = context.Background()
	}
	return &Runner{
		cron:    cron.New(),
		logger:  logger,
		baseCtx: baseCtx,
	}
}

// Add registers a named job on a cron spec ("@every 24h" and friends).
// Job errors are logged, not fatal; a failing job runs again next time.
func (r *Runner) Add(name, spec string, job func(context.Context) error) error {
	_, err := r.cron.AddFunc(spec, func() {
		r.logger.Info("job starting", zap.String("job", name))
		if err := job(r.baseCtx); err != nil {
			if r.baseCtx.Err() != nil {
				return
			}
			r.logger.Error("job failed", zap.String("job", name), zap.Error(err))
			return
		}
		r.logger.Info("job finished", zap.String("job", name))
	})
	return err
}

func (r *Runner) Start() {
	r.logger.Info("cron started")
	r.cron.Start()
}

// Stop halts scheduling and waits for running jobs to return.
func (r *Runner) Stop() {
	<-r.cron.Stop().Done()
	r.logger.Info("cron stopped")
}
