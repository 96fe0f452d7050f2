package hosting

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/contre95/soundbridge/src/features/config"
	"github.com/contre95/soundbridge/src/features/downloading"
	"github.com/contre95/soundbridge/src/features/images"
	"github.com/contre95/soundbridge/src/features/jobs"
	"github.com/contre95/soundbridge/src/features/library"
	"github.com/contre95/soundbridge/src/features/metrics"
	"github.com/contre95/soundbridge/src/features/playlists"
	"github.com/contre95/soundbridge/src/features/streaming"
	"github.com/contre95/soundbridge/src/features/ui"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/template/html/v2"
)

// Server is the HTTP server for the application.
type Server struct {
	app  *fiber.App
	port uint32
}

// NewServer creates a new HTTP server.
func NewServer(cfg *config.Manager, libraryService *library.Service, streamingService *streaming.Service, imagesService *images.Service, downloadingService *downloading.Service, playlistsService *playlists.Service, jobService *jobs.Service) *Server {
	engine := html.New("./views", ".html")
	engine.Debug(cfg.Get().Logger.Level == "debug")
	engine.AddFunc("duration", func(ms int) string {
		seconds := ms / 1000
		minutes := seconds / 60
		return fmt.Sprintf("%d:%02d", minutes, seconds%60)
	})

	app := fiber.New(fiber.Config{
		Views: engine,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			var fiberErr *fiber.Error
			if errors.As(err, &fiberErr) {
				code = fiberErr.Code
			}
			if code >= fiber.StatusInternalServerError {
				slog.Error("Internal Server Error", "path", c.Path(), "error", err)
			}
			return c.Status(code).JSON(fiber.Map{"error": err.Error()})
		},
		AppName:               "Soundbridge",
		DisableStartupMessage: true,
		EnablePrintRoutes:     cfg.Get().Server.PrintRoutes,
	})

	app.Use(LogAllRequestsMiddleware())
	app.Use(MetricsMiddleware())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.SendString("OK")
	})

	uiHandler := ui.NewHandler(cfg, libraryService, jobService)

	library.RegisterRoutes(app, libraryService, jobService)
	streaming.RegisterRoutes(app, streamingService)
	images.RegisterRoutes(app, imagesService)
	downloading.RegisterRoutes(app, downloadingService)
	playlists.RegisterRoutes(app, playlistsService)
	jobs.RegisterRoutes(app, jobService)
	config.RegisterRoutes(app, cfg)
	metrics.RegisterRoutes(app)
	ui.RegisterRoutes(app, uiHandler)

	return &Server{app: app, port: cfg.Get().Server.Port}
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	return s.app.Listen(":" + fmt.Sprint(s.port))
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
