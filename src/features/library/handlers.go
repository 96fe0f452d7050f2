package library

import (
	"log/slog"

	"github.com/contre95/soundbridge/src/features/jobs"
	"github.com/gofiber/fiber/v2"
)

// Handler is the handler for the library feature.
type Handler struct {
	service    *Service
	jobService jobs.JobService
}

// NewHandler creates a new handler for the library feature.
func NewHandler(service *Service, jobService jobs.JobService) *Handler {
	return &Handler{service: service, jobService: jobService}
}

// Browse lists the children of a virtual directory. Without a uri it lists
// the root.
func (h *Handler) Browse(c *fiber.Ctx) error {
	uri := c.Query("uri", RootURI)
	slog.Debug("Browse handler called", "uri", uri)

	refs, err := h.service.Browse(c.Context(), uri)
	if err != nil {
		slog.Error("Browse failed", "uri", uri, "error", err)
		return fiber.NewError(fiber.StatusBadGateway, "browse failed: "+err.Error())
	}
	return c.JSON(fiber.Map{"uri": uri, "refs": refs})
}

// Search queries tracks by free text or soundcloud.com URL.
func (h *Handler) Search(c *fiber.Ctx) error {
	query := c.Query("q")
	if query == "" {
		return fiber.NewError(fiber.StatusBadRequest, "missing query parameter 'q'")
	}

	result, err := h.service.Search(c.Context(), query)
	if err != nil {
		slog.Error("Search failed", "query", query, "error", err)
		return fiber.NewError(fiber.StatusBadGateway, "search failed: "+err.Error())
	}
	return c.JSON(result)
}

// Lookup resolves a track URI to full metadata.
func (h *Handler) Lookup(c *fiber.Ctx) error {
	uri := c.Query("uri")
	if uri == "" {
		return fiber.NewError(fiber.StatusBadRequest, "missing query parameter 'uri'")
	}

	tracks, err := h.service.Lookup(c.Context(), uri)
	if err != nil {
		slog.Error("Lookup failed", "uri", uri, "error", err)
		return fiber.NewError(fiber.StatusBadGateway, "lookup failed: "+err.Error())
	}
	if len(tracks) == 0 {
		return fiber.NewError(fiber.StatusNotFound, "track not found")
	}
	return c.JSON(tracks)
}

// Me returns the authenticated SoundCloud user.
func (h *Handler) Me(c *fiber.Ctx) error {
	user, err := h.service.Me(c.Context())
	if err != nil {
		slog.Error("Fetching authenticated user failed", "error", err)
		return fiber.NewError(fiber.StatusBadGateway, "authentication check failed: "+err.Error())
	}
	return c.JSON(user)
}

// GetRecentTracks lists recently browsed tracks from the local store.
func (h *Handler) GetRecentTracks(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	tracks, err := h.service.RecentTracks(c.Context(), limit)
	if err != nil {
		slog.Error("RecentTracks failed", "error", err)
		return fiber.NewError(fiber.StatusInternalServerError, "failed to list tracks")
	}
	return c.JSON(tracks)
}

// WarmExplore starts a job that pre-fetches the whole Explore tree.
func (h *Handler) WarmExplore(c *fiber.Ctx) error {
	jobID, err := h.jobService.StartJob(WarmupJobType, "Warm Explore cache", nil)
	if err != nil {
		slog.Error("Failed to start Explore warm-up", "error", err)
		return fiber.NewError(fiber.StatusInternalServerError, "failed to start warm-up: "+err.Error())
	}
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"job_id": jobID})
}

// GetTracksCount returns how many tracks the local store holds.
func (h *Handler) GetTracksCount(c *fiber.Ctx) error {
	count, err := h.service.TrackCount(c.Context())
	if err != nil {
		slog.Error("TrackCount failed", "error", err)
		return fiber.NewError(fiber.StatusInternalServerError, "failed to count tracks")
	}
	return c.JSON(fiber.Map{"count": count})
}
