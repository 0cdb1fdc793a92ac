package telegram

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/mvoronov/geobot/internal/config"
	"github.com/mvoronov/geobot/internal/game"
	"github.com/mvoronov/geobot/internal/geo"
	"github.com/mvoronov/geobot/internal/handlers"
	"github.com/mvoronov/geobot/internal/middleware"
	"github.com/mvoronov/geobot/internal/repositories"
	"github.com/mvoronov/geobot/pkg/logger"
	"gorm.io/gorm"
)

type Bot struct {
	api      *tgbotapi.BotAPI
	config   *config.Config
	db       *gorm.DB
	handlers *handlers.HandlerManager
	limiter  *middleware.RateLimiter

	// Worker pool for parallel processing
	workerChans []chan tgbotapi.Update
}

func InitBot(cfg *config.Config, db *gorm.DB) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	if cfg.AppEnv == "development" {
		api.Debug = true
	}

	logger.Info("Authorized on account", "username", api.Self.UserName)

	// Initialize repositories
	countryRepo := repositories.NewCountryRepository(db)
	scoreRepo := repositories.NewScoreRepository(db)
	geocoder := geo.NewClient(cfg.GeocoderURL, cfg.GeocoderAPIKey, cfg.GetGeocoderTimeout(), cfg.GeocoderRetries)

	// Initialize handler manager
	handlerMgr := handlers.NewHandlerManager(cfg, db, countryRepo, scoreRepo, geocoder)

	bot := &Bot{
		api:         api,
		config:      cfg,
		db:          db,
		handlers:    handlerMgr,
		limiter:     middleware.NewRateLimiter(cfg.RateLimitPerUser, time.Minute),
		workerChans: make([]chan tgbotapi.Update, 10), // 10 workers
	}

	// Start workers
	for i := 0; i < 10; i++ {
		bot.workerChans[i] = make(chan tgbotapi.Update, 100)
		go bot.startWorker(bot.workerChans[i])
	}

	// Start update listener
	go bot.startUpdateListener()

	return bot, nil
}

func (b *Bot) startUpdateListener() {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	for {
		logger.Info("Starting update listener...")
		updates := b.api.GetUpdatesChan(u)

		for update := range updates {
			if update.Message == nil || update.Message.From == nil {
				continue
			}

			// Hashed dispatch to workers to ensure per-user ordered processing
			userID := update.Message.From.ID
			workerIdx := userID % int64(len(b.workerChans))
			if workerIdx < 0 {
				workerIdx = -workerIdx
			}
			b.workerChans[workerIdx] <- update
		}

		logger.Warn("Update channel closed. Restarting in 5 seconds...")
		time.Sleep(5 * time.Second)
	}
}

func (b *Bot) startWorker(ch chan tgbotapi.Update) {
	for update := range ch {
		b.handleUpdate(update)
	}
}

func (b *Bot) handleUpdate(update tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Panic in handleUpdate", "error", r)
		}
	}()

	if update.Message != nil {
		b.handleMessage(update.Message)
	}
}

func (b *Bot) handleMessage(message *tgbotapi.Message) {
	userID := message.From.ID
	chatID := message.Chat.ID

	logger.Debug("Received message",
		"user_id", userID,
		"chat_id", chatID,
		"text", message.Text,
	)

	if !b.limiter.Allow(userID) {
		logger.Warn("Rate limit exceeded", "user_id", userID)
		return
	}

	if message.IsCommand() {
		b.handleCommand(message)
		return
	}

	// Plain text while a game is live is treated as an answer
	if message.Text != "" {
		key := game.Key{ChatID: chatID, PlayerID: userID}
		if b.handlers.Registry.Get(key) != nil {
			b.handlers.HandleGuess(chatID, userID, message.Text, b)
			return
		}
		b.sendMessage(chatID, "No game is running. Try /flags, /capitals or /hotcold, or /help for the rules.", MainMenuKeyboard())
	}
}

func (b *Bot) handleCommand(message *tgbotapi.Message) {
	userID := message.From.ID
	chatID := message.Chat.ID
	displayName := displayNameOf(message.From)

	switch message.Command() {
	case "start":
		b.sendMessage(chatID, "Hello! I am Geo, your geography trainer. Type /help to see the games.", MainMenuKeyboard())

	case "help":
		b.handlers.HandleHelp(chatID, b)

	case "flags":
		difficulty, variants, ok := b.parseGameArgs(chatID, message.CommandArguments())
		if !ok {
			return
		}
		b.handlers.StartFlags(chatID, userID, displayName, difficulty, variants, b)

	case "capitals":
		difficulty, variants, ok := b.parseGameArgs(chatID, message.CommandArguments())
		if !ok {
			return
		}
		b.handlers.StartCapitals(chatID, userID, displayName, difficulty, variants, b)

	case "hotcold":
		difficulty, _, ok := b.parseGameArgs(chatID, message.CommandArguments())
		if !ok {
			return
		}
		b.handlers.StartHotCold(chatID, userID, displayName, difficulty, b)

	case "hint":
		b.handlers.HandleHint(chatID, userID, b)

	case "guess":
		answer := strings.TrimSpace(message.CommandArguments())
		if answer == "" {
			b.sendMessage(chatID, "Give the answer after the command, like /guess France.", nil)
			return
		}
		b.handlers.HandleGuess(chatID, userID, answer, b)

	case "score":
		b.handlers.HandleScore(chatID, userID, b)

	case "table":
		b.handlers.HandleTable(chatID, userID, b)

	case "cancel":
		b.handlers.HandleCancel(chatID, userID, b)

	default:
		b.sendMessage(chatID, "I do not know that command. Type /help for the list.", nil)
	}
}

// parseGameArgs reads "<difficulty> [variants]" from the command tail. The
// variants count falls back to the configured default when omitted.
func (b *Bot) parseGameArgs(chatID int64, args string) (int, int, bool) {
	fields := strings.Fields(args)
	if len(fields) == 0 {
		b.sendMessage(chatID, "Pick a difficulty first, like /flags 2.", nil)
		return 0, 0, false
	}

	difficulty, err := strconv.Atoi(fields[0])
	if err != nil {
		b.sendMessage(chatID, "Difficulty must be a whole number from 1 to 5.", nil)
		return 0, 0, false
	}

	variants := b.config.DefaultVariants
	if len(fields) > 1 {
		variants, err = strconv.Atoi(fields[1])
		if err != nil {
			b.sendMessage(chatID, "The number of answer options must be a whole number from 0 to 8.", nil)
			return 0, 0, false
		}
	}

	if complaint, ok := handlers.ValidateGameArgs(difficulty, variants); !ok {
		b.sendMessage(chatID, complaint, nil)
		return 0, 0, false
	}

	return difficulty, variants, true
}

func displayNameOf(user *tgbotapi.User) string {
	if user.UserName != "" {
		return user.UserName
	}
	name := user.FirstName
	if user.LastName != "" {
		name += " " + user.LastName
	}
	return name
}

func (b *Bot) sendMessage(chatID int64, text string, keyboard interface{}) int {
	msg := tgbotapi.NewMessage(chatID, text)

	switch kb := keyboard.(type) {
	case tgbotapi.ReplyKeyboardMarkup:
		msg.ReplyMarkup = kb
	case tgbotapi.ReplyKeyboardRemove:
		msg.ReplyMarkup = kb
	}

	maxRetries := 3
	for i := 0; i < maxRetries; i++ {
		sentMsg, err := b.api.Send(msg)
		if err != nil {
			logger.Error("Failed to send message", "error", err, "chat_id", chatID, "attempt", i+1)

			// If it's a network error, wait and retry
			if strings.Contains(err.Error(), "connection reset") ||
				strings.Contains(err.Error(), "timeout") ||
				strings.Contains(err.Error(), "network is unreachable") {
				time.Sleep(time.Duration(i+1) * time.Second)
				continue
			}
			return 0 // Non-network error, don't retry
		}
		return sentMsg.MessageID // Success
	}
	return 0 // All retries failed
}

func (b *Bot) SendMessage(chatID int64, text string, keyboard interface{}) int {
	return b.sendMessage(chatID, text, keyboard)
}

func (b *Bot) sendPhoto(chatID int64, photoURL string, caption string, keyboard interface{}) int {
	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileURL(photoURL))
	photo.Caption = caption

	switch kb := keyboard.(type) {
	case tgbotapi.ReplyKeyboardMarkup:
		photo.ReplyMarkup = kb
	case tgbotapi.ReplyKeyboardRemove:
		photo.ReplyMarkup = kb
	}

	maxRetries := 3
	for i := 0; i < maxRetries; i++ {
		sentMsg, err := b.api.Send(photo)
		if err != nil {
			logger.Error("Failed to send photo", "error", err, "chat_id", chatID, "attempt", i+1)
			if strings.Contains(err.Error(), "connection reset") ||
				strings.Contains(err.Error(), "timeout") {
				time.Sleep(time.Duration(i+1) * time.Second)
				continue
			}
			return 0
		}
		return sentMsg.MessageID
	}
	return 0
}

func (b *Bot) SendPhoto(chatID int64, photoURL string, caption string, keyboard interface{}) int {
	return b.sendPhoto(chatID, photoURL, caption, keyboard)
}

func (b *Bot) Stop() {
	b.api.StopReceivingUpdates()
	logger.Info("Bot stopped receiving updates")
}
