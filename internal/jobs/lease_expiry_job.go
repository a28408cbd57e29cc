package jobs

import (
	"context"
	"log/slog"

	"shipalong/internal/usecase/commands"

	"github.com/robfig/cron/v3"
)

// LeaseExpiryJob is the reconciliation sweep for reservation holds. It
// periodically reclaims capacity from leases past their expiry, covering
// fast-path timers lost to restarts and expiry actions that failed.
type LeaseExpiryJob struct {
	capacity commands.CapacityCommands
	schedule string
	cron     *cron.Cron
	logger   *slog.Logger
}

func NewLeaseExpiryJob(capacityCommands commands.CapacityCommands, schedule string, logger *slog.Logger) *LeaseExpiryJob {
	return &LeaseExpiryJob{
		capacity: capacityCommands,
		schedule: schedule,
		cron:     cron.New(cron.WithSeconds()),
		logger:   logger.With("component", "lease_expiry_job"),
	}
}

func (j *LeaseExpiryJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		ctx := context.Background()

		reclaimed, err := j.capacity.ReleaseExpired(ctx)
		if err != nil {
			j.logger.ErrorContext(ctx, "lease expiry sweep failed", "error", err)
			return
		}
		if reclaimed > 0 {
			j.logger.InfoContext(ctx, "lease expiry sweep reclaimed capacity", "leases", reclaimed)
		}
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "lease expiry sweep started", "schedule", j.schedule)
	return nil
}

func (j *LeaseExpiryJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "lease expiry sweep stopped")
}
