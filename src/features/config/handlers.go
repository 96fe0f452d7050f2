package config

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// Handler is the handler for the config feature.
type Handler struct {
	configManager *Manager
}

// NewHandler creates a new handler for the config feature.
func NewHandler(configManager *Manager) *Handler {
	return &Handler{configManager: configManager}
}

// GetConfig returns the redacted configuration.
func (h *Handler) GetConfig(c *fiber.Ctx) error {
	accept := c.Get("Accept")
	if strings.Contains(accept, "application/yaml") || strings.Contains(accept, "text/yaml") {
		c.Set("Content-Type", "application/yaml")
		return c.SendString(h.configManager.GetYAML())
	}
	c.Set("Content-Type", "application/json")
	return c.SendString(h.configManager.GetJSON())
}

// UpdateSettings updates the runtime-changeable settings from form values.
func (h *Handler) UpdateSettings(c *fiber.Ctx) error {
	slog.Info("Configuration update requested")

	current := h.configManager.Get()
	newConfig := *current

	if v := c.FormValue("soundcloud.auth_token"); v != "" {
		newConfig.SoundCloud.AuthToken = v
	}
	if v := c.FormValue("soundcloud.explore_songs"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return c.Status(fiber.StatusBadRequest).SendString("explore_songs must be a non-negative integer")
		}
		newConfig.SoundCloud.ExploreSongs = n
	}
	if v := c.FormValue("soundcloud.stream_pref"); v != "" {
		if v != "progressive" && v != "hls" {
			return c.Status(fiber.StatusBadRequest).SendString("stream_pref must be progressive or hls")
		}
		newConfig.SoundCloud.StreamPref = v
	}
	if v := c.FormValue("logger.level"); v != "" {
		newConfig.Logger.Level = v
	}
	// Server settings are intentionally not changeable at runtime.

	h.configManager.Update(&newConfig)
	slog.Info("Configuration updated in memory")

	return c.JSON(fiber.Map{"status": "updated"})
}
