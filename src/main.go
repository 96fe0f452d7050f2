package main

import (
	"log"
	"log/slog"
	"os"
	"os/signal"

	"github.com/contre95/soundbridge/src/features/config"
	"github.com/contre95/soundbridge/src/features/downloading"
	"github.com/contre95/soundbridge/src/features/hosting"
	"github.com/contre95/soundbridge/src/features/images"
	"github.com/contre95/soundbridge/src/features/jobs"
	"github.com/contre95/soundbridge/src/features/library"
	"github.com/contre95/soundbridge/src/features/logging"
	"github.com/contre95/soundbridge/src/features/playlists"
	"github.com/contre95/soundbridge/src/features/streaming"
	"github.com/contre95/soundbridge/src/infra/cache"
	"github.com/contre95/soundbridge/src/infra/database"
	"github.com/contre95/soundbridge/src/infra/soundcloud"
	"github.com/contre95/soundbridge/src/infra/tag"
)

func main() {
	// Load configuration
	cfgManager, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Setup default logger with slog
	logger := logging.SetupLogger(cfgManager)
	slog.SetDefault(logger)

	// Pick the cache backend
	var trackCache cache.Cache
	switch cfgManager.Get().Cache.Backend {
	case "redis":
		redisCfg := cfgManager.Get().Cache.Redis
		redisCache, err := cache.NewRedisCache(redisCfg.Addr, redisCfg.Password, redisCfg.DB)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer redisCache.Close()
		trackCache = redisCache
	default:
		memoryCache := cache.NewMemoryCache()
		defer memoryCache.Close()
		trackCache = memoryCache
	}
	slog.Info("Cache backend ready", "backend", cfgManager.Get().Cache.Backend)

	// Create the track store
	store, err := database.NewSqliteStore(cfgManager.Get().Database.Path)
	if err != nil {
		log.Fatalf("failed to open track store: %v", err)
	}
	defer store.Close()

	// Create the SoundCloud client
	client := soundcloud.New(cfgManager, trackCache)

	// Create the feature services
	libraryService := library.NewService(client, store)
	streamingService := streaming.NewService(client, client)
	imagesService := images.NewService(client, client)
	playlistsService := playlists.NewService(client)

	jobService := jobs.NewService()
	tagWriter := tag.NewTagWriter()
	downloadingService := downloading.NewService(cfgManager, jobService, client, tagWriter)

	downloadTask := downloading.NewDownloadJobTask(downloadingService)
	jobService.RegisterHandler("download_track", jobs.NewBaseTaskHandler(downloadTask))
	warmupTask := library.NewWarmupJobTask(libraryService)
	jobService.RegisterHandler(library.WarmupJobType, jobs.NewBaseTaskHandler(warmupTask))

	// Watch the config file for edits
	watcher, err := config.NewWatcher(cfgManager, "config.yaml")
	if err != nil {
		slog.Warn("Config watcher unavailable", "error", err)
	} else if err := watcher.Start(); err != nil {
		slog.Warn("Config watcher failed to start", "error", err)
	} else {
		defer watcher.Stop()
	}

	// Create and start the Telegram bot if enabled
	var telegramBot *hosting.TelegramBot
	if cfgManager.Get().Telegram.Enabled {
		telegramBot, err = hosting.NewTelegramBot(cfgManager, libraryService, streamingService, downloadingService)
		if err != nil {
			slog.Error("Failed to initialize Telegram bot", "error", err)
		} else {
			go telegramBot.Start()
			slog.Info("Telegram bot started")
		}
	}

	// Create and start the HTTP server
	server := hosting.NewServer(cfgManager, libraryService, streamingService, imagesService, downloadingService, playlistsService, jobService)
	go func() {
		if err := server.Start(); err != nil {
			slog.Error("Server stopped", "error", err)
		}
	}()
	slog.Info("Server started. Press Ctrl+C to shut down.", "port", cfgManager.Get().Server.Port)

	// Wait for a shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit
	slog.Info("Shutting down server...")

	if telegramBot != nil {
		telegramBot.Stop()
		slog.Info("Telegram bot stopped")
	}

	if err := server.Shutdown(); err != nil {
		log.Fatalf("failed to shutdown server: %v", err)
	}
	slog.Info("Server gracefully shut down.")
}
