package handlers

import (
	"context"
	"fmt"

	"github.com/mvoronov/geobot/internal/game"
	"github.com/mvoronov/geobot/internal/models"
	"github.com/mvoronov/geobot/internal/security"
	"github.com/mvoronov/geobot/pkg/errors"
	"github.com/mvoronov/geobot/pkg/logger"
)

const (
	msgNoActiveGame  = "You need to start a game before giving an answer. Try /flags, /capitals or /hotcold."
	msgNoHint        = "There is no active question to hint. Start a game first!"
	msgCatalogEmpty  = "I ran out of countries for this difficulty, the game had to stop. Your points are saved!"
	msgLookupFailed  = "I could not locate that place right now. Check the spelling or try again in a moment."
	msgBadDifficulty = "Difficulty must be a whole number from 1 to 5."
	msgBadVariants   = "The number of answer options must be a whole number from 0 to 8."
	msgOneVariant    = "Playing with a single answer option would be boring."
)

// ValidateGameArgs checks user-supplied game parameters and reports the
// complaint to send back when they are off.
func ValidateGameArgs(difficulty, variants int) (string, bool) {
	if difficulty < models.MinDifficulty || difficulty > models.MaxDifficulty {
		return msgBadDifficulty, false
	}
	if variants < game.MinVariants || variants > game.MaxVariants {
		return msgBadVariants, false
	}
	if variants == 1 {
		return msgOneVariant, false
	}
	return "", true
}

// StartFlags begins a flag identification game for the player.
func (h *HandlerManager) StartFlags(chatID, userID int64, displayName string, difficulty, variants int, bot BotInterface) {
	if complaint, ok := ValidateGameArgs(difficulty, variants); !ok {
		bot.SendMessage(chatID, complaint, nil)
		return
	}

	s, err := game.NewFlags(h.CountryRepo, difficulty, variants, userID, security.SanitizeDisplayName(displayName))
	if err != nil {
		logger.Error("Failed to start flags game", "user_id", userID, "error", err)
		bot.SendMessage(chatID, "Could not start the game, please try again.", nil)
		return
	}

	h.startGame(chatID, userID, s, bot)
}

// StartCapitals begins a capital identification game for the player.
func (h *HandlerManager) StartCapitals(chatID, userID int64, displayName string, difficulty, variants int, bot BotInterface) {
	if complaint, ok := ValidateGameArgs(difficulty, variants); !ok {
		bot.SendMessage(chatID, complaint, nil)
		return
	}

	s, err := game.NewCapitals(h.CountryRepo, difficulty, variants, userID, security.SanitizeDisplayName(displayName))
	if err != nil {
		logger.Error("Failed to start capitals game", "user_id", userID, "error", err)
		bot.SendMessage(chatID, "Could not start the game, please try again.", nil)
		return
	}

	h.startGame(chatID, userID, s, bot)
}

// StartHotCold begins a hot-cold country guessing game for the player.
func (h *HandlerManager) StartHotCold(chatID, userID int64, displayName string, difficulty int, bot BotInterface) {
	if complaint, ok := ValidateGameArgs(difficulty, 0); !ok {
		bot.SendMessage(chatID, complaint, nil)
		return
	}

	s, err := game.NewHotCold(context.Background(), h.CountryRepo, h.Geocoder, difficulty, userID, security.SanitizeDisplayName(displayName))
	if err != nil {
		if errors.Is(err, errors.ErrCodeLookupFailed) {
			bot.SendMessage(chatID, msgLookupFailed, nil)
			return
		}
		logger.Error("Failed to start hot-cold game", "user_id", userID, "error", err)
		bot.SendMessage(chatID, "Could not start the game, please try again.", nil)
		return
	}

	h.startGame(chatID, userID, s, bot)
}

func (h *HandlerManager) startGame(chatID, userID int64, s *game.Session, bot BotInterface) {
	key := game.Key{ChatID: chatID, PlayerID: userID}
	h.Registry.Put(key, s)
	h.askQuestion(key, s, bot)
}

// askQuestion advances the session and sends the next question. A drained
// catalog is fatal for the session: points earned so far are flushed and the
// game is dropped.
func (h *HandlerManager) askQuestion(key game.Key, s *game.Session, bot BotInterface) {
	q, err := s.NextQuestion()
	if err != nil {
		if errors.Is(err, errors.ErrCodeEmptyCatalog) {
			logger.Warn("Catalog exhausted mid-game", "chat_id", key.ChatID, "player_id", key.PlayerID)
			bot.SendMessage(key.ChatID, msgCatalogEmpty, nil)
			h.finishGame(key, s, bot)
			return
		}
		logger.Error("Failed to produce next question", "chat_id", key.ChatID, "error", err)
		bot.SendMessage(key.ChatID, "Something went wrong, the game had to stop.", nil)
		h.Registry.Remove(key)
		return
	}

	if q.ImageURL != "" {
		bot.SendPhoto(key.ChatID, q.ImageURL, q.Text, nil)
		return
	}
	bot.SendMessage(key.ChatID, q.Text, nil)
}

// HandleHint sends the next hint for the player's active question.
func (h *HandlerManager) HandleHint(chatID, userID int64, bot BotInterface) {
	s := h.Registry.Get(game.Key{ChatID: chatID, PlayerID: userID})
	if s == nil {
		bot.SendMessage(chatID, msgNoHint, nil)
		return
	}

	hint, err := s.Hint()
	if err != nil {
		bot.SendMessage(chatID, msgNoHint, nil)
		return
	}
	bot.SendMessage(chatID, hint, nil)
}

// HandleGuess evaluates a player's answer for the active game: reacts to the
// guess, then either asks the next question or closes the game and flushes
// the score.
func (h *HandlerManager) HandleGuess(chatID, userID int64, guess string, bot BotInterface) {
	key := game.Key{ChatID: chatID, PlayerID: userID}
	s := h.Registry.Get(key)
	if s == nil {
		bot.SendMessage(chatID, msgNoActiveGame, nil)
		return
	}

	reaction, err := s.Evaluate(context.Background(), security.NormalizeGuess(guess))
	if err != nil {
		if errors.Is(err, errors.ErrCodeLookupFailed) {
			// Retryable for this guess only; the question stays open
			bot.SendMessage(chatID, msgLookupFailed, nil)
			return
		}
		logger.Error("Failed to evaluate guess", "chat_id", chatID, "error", err)
		bot.SendMessage(chatID, "Something went wrong evaluating that answer.", nil)
		return
	}

	bot.SendMessage(chatID, reaction.Text, nil)

	if s.Finished() {
		h.finishGame(key, s, bot)
		return
	}
	h.askQuestion(key, s, bot)
}

// HandleCancel abandons the player's current game. Abandoned games flush
// nothing; only completed sessions reach the ledger.
func (h *HandlerManager) HandleCancel(chatID, userID int64, bot BotInterface) {
	key := game.Key{ChatID: chatID, PlayerID: userID}
	if h.Registry.Get(key) == nil {
		bot.SendMessage(chatID, "There is no game to cancel.", nil)
		return
	}

	h.Registry.Remove(key)
	bot.SendMessage(chatID, "Game abandoned. Start a new one whenever you like!", nil)
}

func (h *HandlerManager) finishGame(key game.Key, s *game.Session, bot BotInterface) {
	bot.SendMessage(key.ChatID, s.EndingMessage(), nil)

	if err := s.Commit(h.ScoreRepo); err != nil {
		logger.Error("Failed to flush final score",
			"chat_id", key.ChatID,
			"player_id", key.PlayerID,
			"points", s.Points(),
			"error", err,
		)
		bot.SendMessage(key.ChatID, fmt.Sprintf("I could not save your %d points, sorry!", s.Points()), nil)
	}

	h.Registry.Remove(key)
}
