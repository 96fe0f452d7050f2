package streaming

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
)

// Handler is the handler for the streaming feature.
type Handler struct {
	service *Service
}

// NewHandler creates a new handler for the streaming feature.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// GetStream resolves a track to a playable URL. By default it redirects so
// any player pointed at the endpoint just plays; ?redirect=false returns the
// stream description as JSON instead.
func (h *Handler) GetStream(c *fiber.Ctx) error {
	trackID := c.Params("id")
	stream, err := h.service.Resolve(c.Context(), trackID)
	if err != nil {
		slog.Error("Stream resolution failed", "track", trackID, "error", err)
		return fiber.NewError(fiber.StatusBadGateway, "stream resolution failed: "+err.Error())
	}
	if c.QueryBool("redirect", true) {
		return c.Redirect(stream.URL, fiber.StatusFound)
	}
	return c.JSON(stream)
}

// GetPlaylist summarizes the HLS playlist behind a track's stream.
func (h *Handler) GetPlaylist(c *fiber.Ctx) error {
	trackID := c.Params("id")
	stream, err := h.service.Resolve(c.Context(), trackID)
	if err != nil {
		slog.Error("Stream resolution failed", "track", trackID, "error", err)
		return fiber.NewError(fiber.StatusBadGateway, "stream resolution failed: "+err.Error())
	}
	info, err := h.service.DescribePlaylist(c.Context(), stream)
	if err != nil {
		slog.Error("Playlist inspection failed", "track", trackID, "error", err)
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return c.JSON(info)
}
