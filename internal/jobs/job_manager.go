package jobs

import (
	"fmt"
	"log/slog"

	"shipalong/internal/pkg/config"
	"shipalong/internal/usecase/commands"
)

// JobManager coordinates the background jobs of the engine.
type JobManager struct {
	leaseExpiryJob *LeaseExpiryJob
}

func NewJobManager(
	capacityCommands commands.CapacityCommands,
	cfg config.CapacityConfig,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		leaseExpiryJob: NewLeaseExpiryJob(capacityCommands, cfg.SweepSchedule, logger),
	}
}

func (jm *JobManager) StartAll() error {
	if err := jm.leaseExpiryJob.Start(); err != nil {
		return fmt.Errorf("failed to start lease expiry job: %w", err)
	}
	return nil
}

func (jm *JobManager) StopAll() {
	jm.leaseExpiryJob.Stop()
}
