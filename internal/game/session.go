// Package game implements the quiz session state machine shared by the three
// game modes. A Session owns the per-player question/hint/score lifecycle;
// the mode-specific behavior (prompt text, option labels, correctness check,
// hint content, termination) lives in a small variant strategy.
package game

import (
	"context"
	"fmt"
	"math/rand"
	"strings"

	"github.com/mvoronov/geobot/internal/models"
	"github.com/mvoronov/geobot/pkg/errors"
)

// Catalog is the country source a session draws questions from.
type Catalog interface {
	RandomUnused(difficulty int, requireCapital bool, excluding []string) (*models.Country, error)
}

// Ledger receives the session's points once the game finishes.
type Ledger interface {
	UpsertAdd(playerID int64, displayName string, delta int64) error
}

// QuestionsPerGame bounds the flags and capitals games. HotCold runs until
// solved instead.
const QuestionsPerGame = 5

// Parameter bounds checked by NewSession. The caller validates user input
// before construction; these are the engine's own contract.
const (
	MinVariants = 0
	MaxVariants = 8
)

// Question is one rendered question: optional image plus prompt text.
type Question struct {
	ImageURL string
	Text     string
}

// Reaction is the outcome of evaluating one guess.
type Reaction struct {
	Correct bool
	Text    string
}

// variant captures what differs between the three game modes.
type variant interface {
	// draw picks the country the next question is about. Flags and
	// capitals take a fresh one from the catalog; hot-cold keeps its
	// hidden target for every attempt.
	draw(s *Session) (*models.Country, error)
	// requireCapital filters the catalog draw.
	requireCapital() bool
	// question renders the prompt for the drawn country and shuffled options.
	question(s *Session, c *models.Country, options []*models.Country) Question
	// isCorrect checks a sanitized guess against the active country.
	isCorrect(c *models.Country, guess string) bool
	// react builds the reply for a guess after scoring has been applied.
	// For HotCold a wrong guess reports distance feedback and may fail with
	// LOOKUP_FAILED without consuming session state.
	react(ctx context.Context, s *Session, guess string, correct bool) (string, error)
	// hintText renders the hint for tier 1 or 2.
	hintText(c *models.Country, tier int) string
	// endless sessions terminate on a correct guess instead of a question count.
	endless() bool
	// endingMessage closes the game.
	endingMessage(s *Session) string
}

// Session is the per-player, per-chat state of one running game. Callers must
// serialize operations per session; distinct sessions are independent.
type Session struct {
	difficulty   int
	variantCount int
	playerID     int64
	playerName   string

	used      []string
	current   int
	hintCount int
	points    int64
	correct   int
	answer    *models.Country
	finished  bool
	committed bool

	catalog Catalog
	variant variant
	shuffle func([]*models.Country)
}

func newSession(catalog Catalog, v variant, difficulty, variantCount int, playerID int64, playerName string) (*Session, error) {
	if difficulty < models.MinDifficulty || difficulty > models.MaxDifficulty {
		return nil, errors.New(errors.ErrCodeValidation, fmt.Sprintf("difficulty %d out of range", difficulty))
	}
	if variantCount < MinVariants || variantCount > MaxVariants || variantCount == 1 {
		return nil, errors.New(errors.ErrCodeValidation, fmt.Sprintf("variant count %d out of range", variantCount))
	}

	return &Session{
		difficulty:   difficulty,
		variantCount: variantCount,
		playerID:     playerID,
		playerName:   playerName,
		catalog:      catalog,
		variant:      v,
		shuffle: func(options []*models.Country) {
			rand.Shuffle(len(options), func(i, j int) {
				options[i], options[j] = options[j], options[i]
			})
		},
	}, nil
}

// NextQuestion advances the session to the next question: resets the hint
// counter, draws a fresh country and, in multiple-choice mode, its
// distractors. Fails with EMPTY_CATALOG when the filtered pool is exhausted;
// the session cannot continue after that.
func (s *Session) NextQuestion() (Question, error) {
	if s.finished {
		return Question{}, errors.New(errors.ErrCodeValidation, "game already finished")
	}

	country, err := s.variant.draw(s)
	if err != nil {
		return Question{}, err
	}

	s.hintCount = 0
	s.current++
	s.addUsed(country.Code)
	s.answer = country

	options, err := s.drawOptions(country)
	if err != nil {
		return Question{}, err
	}

	return s.variant.question(s, country, options), nil
}

// addUsed records a presented code, keeping the set free of duplicates
// (hot-cold presents the same target on every attempt).
func (s *Session) addUsed(code string) {
	for _, used := range s.used {
		if used == code {
			return
		}
	}
	s.used = append(s.used, code)
}

// drawOptions assembles the shuffled multiple-choice list: the answer plus
// variantCount-1 distinct distractors. Free-text mode returns nil.
func (s *Session) drawOptions(answer *models.Country) ([]*models.Country, error) {
	if s.variantCount == 0 {
		return nil, nil
	}

	options := []*models.Country{answer}
	excluding := append([]string{}, s.used...)
	for len(options) < s.variantCount {
		c, err := s.catalog.RandomUnused(s.difficulty, s.variant.requireCapital(), excluding)
		if err != nil {
			return nil, err
		}
		options = append(options, c)
		excluding = append(excluding, c.Code)
	}

	s.shuffle(options)
	return options, nil
}

// Hint returns the next hint for the active question. The first request gives
// the coarse clue, every later one the fine clue; each request lowers the
// score a correct answer will earn.
func (s *Session) Hint() (string, error) {
	if s.answer == nil || s.finished {
		return "", errors.New(errors.ErrCodeValidation, "no active question to hint")
	}

	s.hintCount++
	tier := 1
	if s.hintCount >= 2 {
		tier = 2
	}
	return s.variant.hintText(s.answer, tier), nil
}

// Evaluate scores one guess and renders the reply. A correct answer adds
// points; a wrong one adds nothing. The session finishes after the last
// question (flags, capitals) or on a correct guess (hot-cold).
func (s *Session) Evaluate(ctx context.Context, guess string) (Reaction, error) {
	if s.answer == nil || s.finished {
		return Reaction{}, errors.New(errors.ErrCodeValidation, "no active question to answer")
	}

	guess = strings.TrimSpace(guess)
	correct := s.variant.isCorrect(s.answer, guess)
	if correct {
		s.points += s.award()
		s.correct++
	}

	text, err := s.variant.react(ctx, s, guess, correct)
	if err != nil {
		// Lookup failures are retryable for this guess and must not
		// consume the question or end the session.
		return Reaction{}, err
	}

	if s.variant.endless() {
		s.finished = correct
	} else {
		s.finished = s.current >= QuestionsPerGame
	}

	return Reaction{Correct: correct, Text: text}, nil
}

func (s *Session) award() int64 {
	if s.variant.endless() {
		return AwardHotCold(s.difficulty, s.current, s.hintCount)
	}
	return Award(s.difficulty, s.variantCount, s.hintCount)
}

// Finished reports whether the game is over and no further question exists.
func (s *Session) Finished() bool {
	return s.finished
}

// EndingMessage renders the game-over text.
func (s *Session) EndingMessage() string {
	return s.variant.endingMessage(s)
}

// Commit flushes the final score to the ledger. It is safe to call more than
// once; only the first call writes.
func (s *Session) Commit(ledger Ledger) error {
	if s.committed {
		return nil
	}
	if err := ledger.UpsertAdd(s.playerID, s.playerName, s.points); err != nil {
		return err
	}
	s.committed = true
	return nil
}

// Points is the score accumulated so far.
func (s *Session) Points() int64 {
	return s.points
}

// CorrectCount is how many questions were answered correctly.
func (s *Session) CorrectCount() int {
	return s.correct
}

// CurrentQuestion is the 1-based index of the active question (the attempt
// number for hot-cold).
func (s *Session) CurrentQuestion() int {
	return s.current
}

// UsedCodes exposes the codes already asked about, for tests and diagnostics.
func (s *Session) UsedCodes() []string {
	return append([]string{}, s.used...)
}

// renderOptions formats the numbered option list under a prompt.
func renderOptions(options []*models.Country, label func(*models.Country) string) string {
	var b strings.Builder
	for i, c := range options {
		fmt.Fprintf(&b, "\n%d) %s", i+1, label(c))
	}
	return b.String()
}

// altNameSuffix parenthesizes the secondary name for reaction messages.
func altNameSuffix(c *models.Country) string {
	if !c.HasAltName() {
		return ""
	}
	return fmt.Sprintf(" (%s)", c.AltName)
}
