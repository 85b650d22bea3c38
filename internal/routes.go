package internal

import (
	"net/http"

	"mtd/internal/controllers"
	"mtd/internal/providers"
	"mtd/internal/structures"
)

func InitRoutes(reportController *controllers.ReportController, conf *structures.Config) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Post("/sessions", http.HandlerFunc(reportController.SaveSession))
	routers.Get("/sessions/day", http.HandlerFunc(reportController.GetSessionsByDate))
	routers.Get("/sessions/range", http.HandlerFunc(reportController.GetSessionsByRange))
	routers.Get("/session", http.HandlerFunc(reportController.GetSession))
	routers.Get("/history", http.HandlerFunc(reportController.GetHistory))
	return routers
}
