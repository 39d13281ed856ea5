package bootstrap

import (
	"context"

	"cuetab/internal/metrics"
	"cuetab/internal/pkg/config"
	"cuetab/internal/realtime"

	"go.uber.org/fx"
)

var RealtimeModule = fx.Module("realtime",
	fx.Provide(
		fx.Annotate(
			realtime.NewQuerySnapshotSource,
			fx.As(new(realtime.SnapshotSource)),
		),
		NewHub,
		realtime.NewHubNotifier,
	),
)

func NewHub(lc fx.Lifecycle, cfg config.Config, m *metrics.Metrics, snapshots realtime.SnapshotSource) *realtime.Hub {
	hub := realtime.NewHub(cfg.WS, m, snapshots)

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			hub.Start()
			return nil
		},
		OnStop: func(_ context.Context) error {
			hub.Stop()
			return nil
		},
	})

	return hub
}
