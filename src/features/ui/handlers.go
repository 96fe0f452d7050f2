package ui

import (
	"log/slog"

	"github.com/contre95/soundbridge/src/features/config"
	"github.com/contre95/soundbridge/src/features/jobs"
	"github.com/contre95/soundbridge/src/features/library"
	"github.com/gofiber/fiber/v2"
)

// Handler is the handler for the UI feature.
type Handler struct {
	configManager *config.Manager
	library       *library.Service
	jobs          *jobs.Service
}

// NewHandler creates a new handler for the UI feature.
func NewHandler(configManager *config.Manager, libraryService *library.Service, jobService *jobs.Service) *Handler {
	return &Handler{
		configManager: configManager,
		library:       libraryService,
		jobs:          jobService,
	}
}

// RenderStatus renders the status page.
func (h *Handler) RenderStatus(c *fiber.Ctx) error {
	slog.Debug("RenderStatus handler called")

	data := fiber.Map{
		"Title":      "Soundbridge",
		"StreamPref": h.configManager.StreamPref(),
	}

	if user, err := h.library.Me(c.Context()); err != nil {
		data["AuthError"] = err.Error()
	} else {
		data["User"] = user
	}
	if count, err := h.library.TrackCount(c.Context()); err == nil {
		data["TrackCount"] = count
	}
	if tracks, err := h.library.RecentTracks(c.Context(), 15); err == nil {
		data["RecentTracks"] = tracks
	}
	data["Jobs"] = h.jobs.GetJobs()

	return c.Render("status", data)
}
