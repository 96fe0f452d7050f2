package playlists

import (
	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes registers the routes for the playlists feature.
func RegisterRoutes(app *fiber.App, service *Service) {
	handler := NewHandler(service)

	playlists := app.Group("/playlists")
	playlists.Get("/", handler.ListSets)
	playlists.Get("/liked/export", handler.ExportLikedM3U)
	playlists.Get("/:id", handler.GetSet)
	playlists.Get("/:id/export", handler.ExportSetM3U)
}
