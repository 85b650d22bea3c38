//go:build wireinject
// +build wireinject

package di

import (
	wire "github.com/google/wire"

	"mtd/internal"
	"mtd/internal/controllers"
	"mtd/internal/export"
	"mtd/internal/history"
	"mtd/internal/providers"
	"mtd/internal/services"
	"mtd/internal/store"
	"mtd/internal/structures"
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		providers.NewClockProvider,
		providers.NewMetricsProvider,
		providers.NewInstrumentedCacheProvider,

		store.New,
		wire.Bind(new(history.RangeQuerier), new(*store.Store)),
		wire.Bind(new(services.SessionStore), new(*store.Store)),
		wire.Bind(new(export.RangeReader), new(*store.Store)),

		history.NewAggregator,
		wire.Bind(new(services.Summarizer), new(*history.Aggregator)),
		services.NewMeetingService,

		export.NewZstdCompressor,
		export.NewExporter,
		export.NewScheduler,

		controllers.NewReportController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil
}
