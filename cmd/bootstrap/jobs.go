package bootstrap

import (
	"context"
	"log/slog"

	"shipalong/internal/jobs"
	"shipalong/internal/pkg/config"
	"shipalong/internal/usecase/commands"

	"go.uber.org/fx"
)

var JobsModule = fx.Module("jobs",
	fx.Provide(
		NewJobManager,
	),
	fx.Invoke(registerJobLifecycle),
)

func NewJobManager(capacityCommands commands.CapacityCommands, cfg config.Config, logger *slog.Logger) *jobs.JobManager {
	return jobs.NewJobManager(capacityCommands, cfg.Capacity, logger)
}

func registerJobLifecycle(lc fx.Lifecycle, manager *jobs.JobManager) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			return manager.StartAll()
		},
		OnStop: func(_ context.Context) error {
			manager.StopAll()
			return nil
		},
	})
}
