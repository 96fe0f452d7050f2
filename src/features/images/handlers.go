package images

import (
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// Handler is the handler for the images feature.
type Handler struct {
	service *Service
}

// NewHandler creates a new handler for the images feature.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// GetImages maps uris to their artwork. Accepts a comma separated "uris"
// parameter and an optional rendition "size".
func (h *Handler) GetImages(c *fiber.Ctx) error {
	raw := c.Query("uris")
	if raw == "" {
		return fiber.NewError(fiber.StatusBadRequest, "missing query parameter 'uris'")
	}
	size := c.Query("size", DefaultSize)

	images, err := h.service.ImagesFor(c.Context(), strings.Split(raw, ","), size)
	if err != nil {
		slog.Error("Image lookup failed", "error", err)
		return fiber.NewError(fiber.StatusBadGateway, "image lookup failed: "+err.Error())
	}
	return c.JSON(images)
}

// GetResized proxies one artwork file, scaled to the requested edge.
func (h *Handler) GetResized(c *fiber.Ctx) error {
	rawurl := c.Query("url")
	if rawurl == "" {
		return fiber.NewError(fiber.StatusBadRequest, "missing query parameter 'url'")
	}
	edge := c.QueryInt("size", 0)

	data, err := h.service.Fetch(c.Context(), rawurl)
	if err != nil {
		slog.Error("Artwork fetch failed", "url", rawurl, "error", err)
		return fiber.NewError(fiber.StatusBadGateway, err.Error())
	}
	resized, err := Resize(data, edge)
	if err != nil {
		slog.Error("Artwork resize failed", "url", rawurl, "error", err)
		return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	}
	c.Set(fiber.HeaderContentType, "image/jpeg")
	return c.Send(resized)
}
