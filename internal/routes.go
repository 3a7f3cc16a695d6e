package internal

import (
	"net/http"
	"strings"

	"e84consent/internal/assets"
	"e84consent/internal/controllers"
	"e84consent/internal/providers"
	"e84consent/internal/structures"
)

func InitRoutes(pageController *controllers.PageController, consentController *controllers.ConsentController, dispatcher *providers.ActionDispatcher, conf *structures.Config) providers.RouterProviderInterface {
	consentController.Register(dispatcher)

	assetsUrl := strings.TrimSuffix(conf.Consent.AssetsUrl, "/") + "/"

	routers := providers.NewRouterProvider()
	routers.Post(conf.Consent.AjaxUrl, dispatcher)
	routers.Get(assetsUrl, http.StripPrefix(assetsUrl, http.FileServer(assets.FileSystem())))
	routers.Get("/", http.HandlerFunc(pageController.Page))
	return routers
}
