package streaming

import (
	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes registers the routes for the streaming feature.
func RegisterRoutes(app *fiber.App, service *Service) {
	handler := NewHandler(service)

	stream := app.Group("/stream")
	stream.Get("/:id", handler.GetStream)
	stream.Get("/:id/playlist", handler.GetPlaylist)
}
