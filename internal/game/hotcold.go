package game

import (
	"context"
	"fmt"

	"github.com/mvoronov/geobot/internal/geo"
	"github.com/mvoronov/geobot/internal/models"
)

type hotColdVariant struct {
	geocoder geo.Geocoder
	target   *models.Country
	geometry geo.RegionGeometry
}

// NewHotCold starts a hot-cold game: the engine hides one country and the
// player keeps naming countries while the bot reports how far each wrong
// guess lies from the target. The target and its geometry are resolved up
// front so a geocoder outage fails the game before the first attempt.
func NewHotCold(ctx context.Context, catalog Catalog, geocoder geo.Geocoder, difficulty int, playerID int64, playerName string) (*Session, error) {
	target, err := catalog.RandomUnused(difficulty, false, nil)
	if err != nil {
		return nil, err
	}

	geometry, err := geocoder.Lookup(ctx, target.Name)
	if err != nil {
		return nil, err
	}

	v := &hotColdVariant{
		geocoder: geocoder,
		target:   target,
		geometry: geometry,
	}
	return newSession(catalog, v, difficulty, 0, playerID, playerName)
}

func (v *hotColdVariant) draw(*Session) (*models.Country, error) {
	return v.target, nil
}

func (v *hotColdVariant) requireCapital() bool {
	return false
}

func (v *hotColdVariant) question(s *Session, _ *models.Country, _ []*models.Country) Question {
	if s.current == 1 {
		return Question{Text: "Guess the country! Name countries and I will tell you how far off you are.\nAttempt number 1:"}
	}
	return Question{Text: fmt.Sprintf("Attempt number %d:", s.current)}
}

func (v *hotColdVariant) isCorrect(c *models.Country, guess string) bool {
	return c.MatchesName(guess)
}

func (v *hotColdVariant) react(ctx context.Context, s *Session, guess string, correct bool) (string, error) {
	if correct {
		return fmt.Sprintf("Yes, you guessed %s in %d attempts!", v.target.Name, s.current), nil
	}

	guessed, err := v.geocoder.Lookup(ctx, guess)
	if err != nil {
		return "", err
	}

	km := int64(geo.Distance(guessed, v.geometry)) / 1000
	return fmt.Sprintf("The distance between %s and the hidden country is %d km", guess, km), nil
}

func (v *hotColdVariant) hintText(c *models.Country, tier int) string {
	if tier == 1 {
		return fmt.Sprintf("The first letter of the country is %s", firstRunes(c.Name, 1))
	}
	return fmt.Sprintf("The first three letters of the country are %s", firstRunes(c.Name, 3))
}

func (v *hotColdVariant) endless() bool {
	return true
}

func (v *hotColdVariant) endingMessage(s *Session) string {
	return fmt.Sprintf("You won and earned %d points!", s.points)
}
