package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Button labels
const (
	BtnHint   = "/hint"
	BtnScore  = "/score"
	BtnTable  = "/table"
	BtnCancel = "/cancel"
	BtnHelp   = "/help"
)

// MainMenuKeyboard creates the persistent command keyboard
func MainMenuKeyboard() tgbotapi.ReplyKeyboardMarkup {
	var rows [][]tgbotapi.KeyboardButton

	// Row 1 - in-game helpers
	rows = append(rows, tgbotapi.NewKeyboardButtonRow(
		tgbotapi.NewKeyboardButton(BtnHint),
		tgbotapi.NewKeyboardButton(BtnCancel),
	))

	// Row 2 - scores
	rows = append(rows, tgbotapi.NewKeyboardButtonRow(
		tgbotapi.NewKeyboardButton(BtnScore),
		tgbotapi.NewKeyboardButton(BtnTable),
		tgbotapi.NewKeyboardButton(BtnHelp),
	))

	kb := tgbotapi.NewReplyKeyboard(rows...)
	kb.ResizeKeyboard = true
	return kb
}
