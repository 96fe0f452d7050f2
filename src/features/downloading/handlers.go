package downloading

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
)

// Handler is the handler for the downloading feature.
type Handler struct {
	service *Service
}

// NewHandler creates a new handler for the downloading feature.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// DownloadTrack queues a track download.
func (h *Handler) DownloadTrack(c *fiber.Ctx) error {
	trackID := c.Params("id")
	jobID, err := h.service.DownloadTrack(trackID)
	if err != nil {
		slog.Error("Download request failed", "track", trackID, "error", err)
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"job_id": jobID})
}

// GetFileTree renders the downloads directory as a tree.
func (h *Handler) GetFileTree(c *fiber.Ctx) error {
	tree, err := h.service.GetDownloadsFileTree()
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	return c.SendString(tree)
}
