package components

import (
	"cuetab/internal/handler"
	"cuetab/internal/handler/api"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewSessionHandler,
		api.NewTableHandler,
		api.NewWSHandler,
	),
	fx.Invoke(handler.NewRouter),
)
