package jobs

import (
	"log/slog"
	"sort"

	"github.com/gofiber/fiber/v2"
)

// Handler is the handler for the jobs feature.
type Handler struct {
	service *Service
}

// NewHandler creates a new handler for the jobs feature.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// GetJobs lists all known jobs, newest first.
func (h *Handler) GetJobs(c *fiber.Ctx) error {
	jobs := h.service.GetJobs()
	sort.Slice(jobs, func(i, j int) bool {
		return jobs[i].CreatedAt.After(jobs[j].CreatedAt)
	})
	return c.JSON(jobs)
}

// GetJob returns one job by id.
func (h *Handler) GetJob(c *fiber.Ctx) error {
	job, ok := h.service.GetJob(c.Params("id"))
	if !ok {
		return fiber.NewError(fiber.StatusNotFound, "job not found")
	}
	return c.JSON(job)
}

// CancelJob cancels a running job.
func (h *Handler) CancelJob(c *fiber.Ctx) error {
	jobID := c.Params("id")
	if err := h.service.CancelJob(jobID); err != nil {
		slog.Error("Job cancellation failed", "job", jobID, "error", err)
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}
	return c.JSON(fiber.Map{"status": "cancelled"})
}
