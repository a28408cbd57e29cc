package components

import (
	"shipalong/internal/infra/db"
	"shipalong/internal/infra/leasestore"
	"shipalong/internal/infra/repository"
	"shipalong/internal/infra/uow"
	"shipalong/internal/usecase/commands"
	"shipalong/internal/usecase/queries"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var RepositoryModule = fx.Module("repository",
	fx.Provide(
		NewDBTX,
		uow.NewPostgresUoW,
		fx.Annotate(
			repository.NewTripCapacityRepository,
			fx.As(new(commands.TripCapacityRepository)),
			fx.As(new(queries.TripCapacityReader)),
		),
		fx.Annotate(
			leasestore.NewRedisLeaseStore,
			fx.As(new(commands.LeaseStore)),
			fx.As(new(queries.LeaseScanner)),
		),
	),
)

func NewDBTX(pool *pgxpool.Pool) db.DBTX {
	return pool
}
