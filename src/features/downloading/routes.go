package downloading

import (
	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes registers the routes for the downloading feature.
func RegisterRoutes(app *fiber.App, service *Service) {
	handler := NewHandler(service)

	download := app.Group("/download")
	download.Post("/:id", handler.DownloadTrack)
	download.Get("/tree", handler.GetFileTree)
}
