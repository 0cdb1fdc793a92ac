package game

import (
	"context"
	"fmt"
	"strings"

	"github.com/mvoronov/geobot/internal/models"
)

// DefaultFlagURLTemplate renders a flag image URL from a lowercase country code.
const DefaultFlagURLTemplate = "https://flagpedia.net/data/flags/normal/%s.png"

type flagsVariant struct {
	urlTemplate string
}

// NewFlags starts a flag identification game: five questions, each showing a
// flag image the player attributes to a country.
func NewFlags(catalog Catalog, difficulty, variantCount int, playerID int64, playerName string) (*Session, error) {
	return newSession(catalog, &flagsVariant{urlTemplate: DefaultFlagURLTemplate}, difficulty, variantCount, playerID, playerName)
}

func (v *flagsVariant) draw(s *Session) (*models.Country, error) {
	return s.catalog.RandomUnused(s.difficulty, v.requireCapital(), s.used)
}

func (v *flagsVariant) requireCapital() bool {
	return false
}

func (v *flagsVariant) flagURL(code string) string {
	return fmt.Sprintf(v.urlTemplate, strings.ToLower(code))
}

func (v *flagsVariant) question(s *Session, c *models.Country, options []*models.Country) Question {
	text := fmt.Sprintf("%d. Which country does this flag belong to?", s.current)
	text += renderOptions(options, func(o *models.Country) string { return o.Name })
	return Question{
		ImageURL: v.flagURL(c.Code),
		Text:     text,
	}
}

func (v *flagsVariant) isCorrect(c *models.Country, guess string) bool {
	return c.MatchesName(guess)
}

func (v *flagsVariant) react(_ context.Context, s *Session, _ string, correct bool) (string, error) {
	if correct {
		return fmt.Sprintf("Correct! Yes, this is the flag of %s%s.", s.answer.Name, altNameSuffix(s.answer)), nil
	}
	return fmt.Sprintf("Wrong! No, this is the flag of %s%s.", s.answer.Name, altNameSuffix(s.answer)), nil
}

func (v *flagsVariant) hintText(c *models.Country, tier int) string {
	if tier == 1 {
		return fmt.Sprintf("Hint 1: the country is located in %s", c.Region)
	}
	return fmt.Sprintf("Hint 2: the country is located in %s", c.Subregion)
}

func (v *flagsVariant) endless() bool {
	return false
}

func (v *flagsVariant) endingMessage(s *Session) string {
	return fmt.Sprintf("Game over! You answered %d of %d questions correctly and earned %d points!",
		s.correct, QuestionsPerGame, s.points)
}
