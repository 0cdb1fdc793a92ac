package game

import (
	"context"
	"fmt"

	"github.com/mvoronov/geobot/internal/models"
)

type capitalsVariant struct{}

// NewCapitals starts a capital identification game: five questions asking for
// the capital of a named country. Countries without a capital on record are
// never drawn.
func NewCapitals(catalog Catalog, difficulty, variantCount int, playerID int64, playerName string) (*Session, error) {
	return newSession(catalog, capitalsVariant{}, difficulty, variantCount, playerID, playerName)
}

func (capitalsVariant) draw(s *Session) (*models.Country, error) {
	return s.catalog.RandomUnused(s.difficulty, true, s.used)
}

func (capitalsVariant) requireCapital() bool {
	return true
}

func (capitalsVariant) question(s *Session, c *models.Country, options []*models.Country) Question {
	text := fmt.Sprintf("%d. Which city is the capital of %s?", s.current, c.Name)
	text += renderOptions(options, func(o *models.Country) string { return o.Capital })
	return Question{Text: text}
}

func (capitalsVariant) isCorrect(c *models.Country, guess string) bool {
	return c.MatchesCapital(guess)
}

func (capitalsVariant) react(_ context.Context, s *Session, _ string, correct bool) (string, error) {
	if correct {
		return fmt.Sprintf("Correct! Yes, the capital of %s%s is %s.",
			s.answer.Name, altNameSuffix(s.answer), s.answer.Capital), nil
	}
	return fmt.Sprintf("Wrong! No, the capital of %s%s is %s.",
		s.answer.Name, altNameSuffix(s.answer), s.answer.Capital), nil
}

func (capitalsVariant) hintText(c *models.Country, tier int) string {
	if tier == 1 {
		return fmt.Sprintf("The first letter of the capital is %s", firstRunes(c.Capital, 1))
	}
	return fmt.Sprintf("The first three letters of the capital are %s", firstRunes(c.Capital, 3))
}

func (capitalsVariant) endless() bool {
	return false
}

func (capitalsVariant) endingMessage(s *Session) string {
	return fmt.Sprintf("Game over! You answered %d of %d questions correctly and earned %d points!",
		s.correct, QuestionsPerGame, s.points)
}

// firstRunes returns the first n runes of s, or all of s when shorter.
func firstRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
