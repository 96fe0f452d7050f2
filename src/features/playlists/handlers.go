package playlists

import (
	"fmt"
	"log/slog"

	"github.com/gofiber/fiber/v2"
)

// Handler handles HTTP requests for playlists
type Handler struct {
	service *Service
}

// NewHandler creates a new playlists handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// ListSets returns the user's sets.
func (h *Handler) ListSets(c *fiber.Ctx) error {
	sets, err := h.service.ListSets(c.Context())
	if err != nil {
		return fiber.NewError(fiber.StatusBadGateway, err.Error())
	}
	return c.JSON(sets)
}

// GetSet returns a single set with its tracks.
func (h *Handler) GetSet(c *fiber.Ctx) error {
	set, err := h.service.GetSet(c.Context(), c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadGateway, err.Error())
	}
	return c.JSON(set)
}

// ExportSetM3U serves a set as a downloadable M3U playlist.
func (h *Handler) ExportSetM3U(c *fiber.Ctx) error {
	content, title, err := h.service.ExportSetM3U(c.Context(), c.Params("id"), c.BaseURL())
	if err != nil {
		return fiber.NewError(fiber.StatusBadGateway, err.Error())
	}
	if title == "" {
		title = c.Params("id")
	}
	slog.Debug("ExportSetM3U handler completed", "id", c.Params("id"))
	c.Set(fiber.HeaderContentType, "audio/x-mpegurl")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", title+".m3u"))
	return c.SendString(content)
}

// ExportLikedM3U serves the user's liked tracks as an M3U playlist.
func (h *Handler) ExportLikedM3U(c *fiber.Ctx) error {
	content, err := h.service.ExportLikedM3U(c.Context(), c.BaseURL())
	if err != nil {
		return fiber.NewError(fiber.StatusBadGateway, err.Error())
	}
	c.Set(fiber.HeaderContentType, "audio/x-mpegurl")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="liked.m3u"`)
	return c.SendString(content)
}
