package images

import (
	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes registers the routes for the images feature.
func RegisterRoutes(app *fiber.App, service *Service) {
	handler := NewHandler(service)

	images := app.Group("/images")
	images.Get("/", handler.GetImages)
	images.Get("/resize", handler.GetResized)
}
