package library

import (
	"github.com/contre95/soundbridge/src/features/jobs"
	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes registers the routes for the library feature.
func RegisterRoutes(app *fiber.App, service *Service, jobService jobs.JobService) {
	handler := NewHandler(service, jobService)

	library := app.Group("/library")
	library.Get("/browse", handler.Browse)
	library.Post("/explore/warmup", handler.WarmExplore)
	library.Get("/search", handler.Search)
	library.Get("/lookup", handler.Lookup)
	library.Get("/me", handler.Me)
	library.Get("/tracks/recent", handler.GetRecentTracks)
	library.Get("/tracks/count", handler.GetTracksCount)
}
