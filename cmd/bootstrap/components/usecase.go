package components

import (
	"cuetab/internal/pkg/clock"
	"cuetab/internal/usecase/commands"
	"cuetab/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	fx.Provide(
		clock.NewRealClock,
		commands.NewSessionCommands,
		queries.NewSessionQueries,
		queries.NewTableQueries,
	),
)
