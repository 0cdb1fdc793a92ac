package handlers

import (
	"fmt"

	"github.com/mvoronov/geobot/internal/leaderboard"
	"github.com/mvoronov/geobot/pkg/errors"
	"github.com/mvoronov/geobot/pkg/logger"
)

const msgNoScoreYet = "You have no score yet. Finish a game first!"

// HandleScore reports the player's cumulative score.
func (h *HandlerManager) HandleScore(chatID, userID int64, bot BotInterface) {
	total, err := h.ScoreRepo.GetTotal(userID)
	if err != nil {
		if errors.Is(err, errors.ErrCodeNotFound) {
			bot.SendMessage(chatID, msgNoScoreYet, nil)
			return
		}
		logger.Error("Failed to read score", "player_id", userID, "error", err)
		bot.SendMessage(chatID, "Could not read your score right now.", nil)
		return
	}

	bot.SendMessage(chatID, fmt.Sprintf("Your score: %d", total), nil)
}

// HandleTable renders the leaderboard window around the player.
func (h *HandlerManager) HandleTable(chatID, userID int64, bot BotInterface) {
	total, err := h.ScoreRepo.GetTotal(userID)
	if err != nil {
		if errors.Is(err, errors.ErrCodeNotFound) {
			bot.SendMessage(chatID, msgNoScoreYet, nil)
			return
		}
		logger.Error("Failed to read score", "player_id", userID, "error", err)
		bot.SendMessage(chatID, "Could not read the leaderboard right now.", nil)
		return
	}

	scores, err := h.ScoreRepo.GetTable()
	if err != nil {
		logger.Error("Failed to load score table", "error", err)
		bot.SendMessage(chatID, "Could not read the leaderboard right now.", nil)
		return
	}

	entries := leaderboard.FromScores(scores)
	rank := leaderboard.Rank(entries, total)
	bot.SendMessage(chatID, leaderboard.Render(entries, rank), nil)
}

// HandleHelp explains the games and commands.
func (h *HandlerManager) HandleHelp(chatID int64, bot BotInterface) {
	bot.SendMessage(chatID,
		"I am Geo! I play games that help you learn geography.\n"+
			"There are three games: flags, capitals and hot-cold.\n"+
			"Pick a difficulty from 1 (easiest) to 5 (hardest).\n\n"+
			"Commands:\n"+
			"/flags <difficulty 1-5> [options 0-8] - guess countries by their flags\n"+
			"/capitals <difficulty 1-5> [options 0-8] - guess capital cities\n"+
			"/hotcold <difficulty 1-5> - guess the hidden country by distance\n"+
			"/hint - get a hint for the current question\n"+
			"/guess <answer> - answer (or just type the answer)\n"+
			"/score - show your total score\n"+
			"/table - show the leaderboard and your place in it\n"+
			"/cancel - abandon the current game",
		nil)
}
