package components

import (
	"shipalong/internal/pkg/clock"
	"shipalong/internal/pkg/config"
	"shipalong/internal/usecase/commands"
	"shipalong/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	fx.Provide(
		clock.NewRealClock,
		func(cfg config.Config) config.CapacityConfig {
			return cfg.Capacity
		},
		commands.NewCapacityUseCase,
		queries.NewCapacityQueries,
	),
)
