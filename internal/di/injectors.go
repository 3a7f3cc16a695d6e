//go:build wireinject
// +build wireinject

package di

import (
	"e84consent/internal"
	"e84consent/internal/controllers"
	"e84consent/internal/providers"
	"e84consent/internal/services"
	"e84consent/internal/structures"

	wire "github.com/google/wire"
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		providers.NewMetricsProvider,
		providers.NewInstrumentedCacheProvider,
		providers.NewOverrideProvider,
		providers.NewCopyCatalog,
		providers.NewNonceProvider,
		providers.NewSessionProvider,
		providers.NewActionDispatcher,
		wire.Bind(new(services.OverrideSource), new(*providers.OverrideProvider)),
		wire.Bind(new(services.CopySource), new(*providers.CopyCatalog)),
		wire.Bind(new(services.NonceProviderInterface), new(*providers.NonceProvider)),
		wire.Bind(new(controllers.SessionResolver), new(*providers.SessionProvider)),

		services.NewConsentService,
		wire.Bind(new(services.ConsentServiceInterface), new(*services.ConsentService)),
		controllers.NewConsentController,
		controllers.NewPageController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewHandler,
		internal.NewApp,
	)

	return nil, nil
}
