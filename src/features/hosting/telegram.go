package hosting

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/contre95/soundbridge/src/features/config"
	"github.com/contre95/soundbridge/src/features/downloading"
	"github.com/contre95/soundbridge/src/features/library"
	"github.com/contre95/soundbridge/src/features/streaming"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TelegramBot answers search, stream and download commands over Telegram.
type TelegramBot struct {
	bot         *tgbotapi.BotAPI
	config      *config.Manager
	library     *library.Service
	streaming   *streaming.Service
	downloading *downloading.Service
	updates     tgbotapi.UpdatesChannel
	stopChan    chan struct{}
}

// NewTelegramBot creates a new Telegram bot instance.
func NewTelegramBot(cfg *config.Manager, libraryService *library.Service, streamingService *streaming.Service, downloadingService *downloading.Service) (*TelegramBot, error) {
	telegramConfig := cfg.Get().Telegram

	if !telegramConfig.Enabled {
		return nil, fmt.Errorf("telegram bot is disabled in configuration")
	}
	if telegramConfig.Token == "" {
		return nil, fmt.Errorf("telegram bot token is not configured")
	}

	bot, err := tgbotapi.NewBotAPI(telegramConfig.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	slog.Info("Telegram bot initialized", "username", bot.Self.UserName)

	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 30

	return &TelegramBot{
		bot:         bot,
		config:      cfg,
		library:     libraryService,
		streaming:   streamingService,
		downloading: downloadingService,
		updates:     bot.GetUpdatesChan(updateConfig),
		stopChan:    make(chan struct{}),
	}, nil
}

// Start begins listening for Telegram updates.
func (t *TelegramBot) Start() {
	slog.Info("Starting Telegram bot listener")
	for {
		select {
		case update := <-t.updates:
			if update.Message != nil {
				go t.handleMessage(update)
			}
		case <-t.stopChan:
			slog.Info("Stopping Telegram bot listener")
			return
		}
	}
}

// Stop gracefully stops the bot.
func (t *TelegramBot) Stop() {
	close(t.stopChan)
}

func (t *TelegramBot) handleMessage(update tgbotapi.Update) {
	message := update.Message
	chatID := message.Chat.ID

	allowedUsers := t.config.Get().Telegram.AllowedUsers
	if len(allowedUsers) == 0 {
		slog.Warn("No allowed users configured", "chat_id", chatID)
		t.sendMessage(chatID, "Access denied: no users configured. Please add users to the config.")
		return
	}
	username := message.From.UserName
	if username == "" {
		username = strings.TrimSpace(message.From.FirstName + " " + message.From.LastName)
	}
	if !slices.Contains(allowedUsers, username) {
		slog.Warn("Unauthorized user", "username", username, "chat_id", chatID)
		t.sendMessage(chatID, "Unknown user, please add your user to the config")
		return
	}

	if !message.IsCommand() {
		// Bare soundcloud.com links resolve like /search would.
		if strings.Contains(message.Text, "soundcloud.com") {
			t.handleSearch(chatID, message.Text)
			return
		}
		t.sendMessage(chatID, "Send /help for available commands")
		return
	}

	args := message.CommandArguments()
	switch message.Command() {
	case "start", "help":
		t.sendMessage(chatID, "Commands:\n"+
			"/search <text or soundcloud.com link> - find tracks\n"+
			"/stream <track id> - get a playable stream URL\n"+
			"/download <track id> - save the track to the downloads folder")
	case "search":
		t.handleSearch(chatID, args)
	case "stream":
		t.handleStream(chatID, args)
	case "download":
		t.handleDownload(chatID, args)
	default:
		t.sendMessage(chatID, "Unknown command, send /help")
	}
}

func (t *TelegramBot) handleSearch(chatID int64, query string) {
	query = strings.TrimSpace(query)
	if query == "" {
		t.sendMessage(chatID, "Usage: /search <text or soundcloud.com link>")
		return
	}
	result, err := t.library.Search(context.Background(), query)
	if err != nil {
		t.sendMessage(chatID, "Search failed: "+err.Error())
		return
	}
	if len(result.Tracks) == 0 {
		t.sendMessage(chatID, "Nothing found")
		return
	}

	var b strings.Builder
	for i, track := range result.Tracks {
		if i == 10 {
			break
		}
		fmt.Fprintf(&b, "%s - %s (id %d)\n", track.ArtistName(), track.Title, track.ID)
	}
	t.sendMessage(chatID, b.String())
}

func (t *TelegramBot) handleStream(chatID int64, trackID string) {
	trackID = strings.TrimSpace(trackID)
	if trackID == "" {
		t.sendMessage(chatID, "Usage: /stream <track id>")
		return
	}
	stream, err := t.streaming.Resolve(context.Background(), trackID)
	if err != nil {
		t.sendMessage(chatID, "Stream resolution failed: "+err.Error())
		return
	}
	text := stream.URL
	if stream.Preview {
		text += "\n(preview only, a SoundCloud GO subscription unlocks the full track)"
	}
	t.sendMessage(chatID, text)
}

func (t *TelegramBot) handleDownload(chatID int64, trackID string) {
	trackID = strings.TrimSpace(trackID)
	if trackID == "" {
		t.sendMessage(chatID, "Usage: /download <track id>")
		return
	}
	jobID, err := t.downloading.DownloadTrack(trackID)
	if err != nil {
		t.sendMessage(chatID, "Download failed to start: "+err.Error())
		return
	}
	t.sendMessage(chatID, "Download queued, job "+jobID)
}

func (t *TelegramBot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := t.bot.Send(msg); err != nil {
		slog.Error("Failed to send Telegram message", "chat_id", chatID, "error", err)
	}
}
