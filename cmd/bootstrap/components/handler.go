package components

import (
	"shipalong/internal/handler"
	"shipalong/internal/handler/api"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewCapacityHandler,
	),
	fx.Invoke(handler.NewRouter),
)
