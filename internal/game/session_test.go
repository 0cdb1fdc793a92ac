package game

import (
	"context"
	"strings"
	"testing"

	"github.com/mvoronov/geobot/internal/geo"
	"github.com/mvoronov/geobot/internal/models"
	"github.com/mvoronov/geobot/pkg/errors"
)

// fakeCatalog serves countries from a fixed pool, always picking the first
// eligible row so tests are deterministic.
type fakeCatalog struct {
	pool []models.Country
}

func (f *fakeCatalog) RandomUnused(difficulty int, requireCapital bool, excluding []string) (*models.Country, error) {
	excluded := make(map[string]bool, len(excluding))
	for _, code := range excluding {
		excluded[code] = true
	}

	for i := range f.pool {
		c := f.pool[i]
		if c.Difficulty != difficulty || excluded[c.Code] {
			continue
		}
		if requireCapital && !c.HasCapital() {
			continue
		}
		return &c, nil
	}
	return nil, errors.New(errors.ErrCodeEmptyCatalog, "no unused country for the active filter")
}

type fakeLedger struct {
	calls   int
	player  int64
	name    string
	total   int64
	failure error
}

func (f *fakeLedger) UpsertAdd(playerID int64, displayName string, delta int64) error {
	if f.failure != nil {
		return f.failure
	}
	f.calls++
	f.player = playerID
	f.name = displayName
	f.total += delta
	return nil
}

type fakeGeocoder struct {
	regions map[string]geo.RegionGeometry
}

func (f *fakeGeocoder) Lookup(_ context.Context, name string) (geo.RegionGeometry, error) {
	region, ok := f.regions[name]
	if !ok {
		return geo.RegionGeometry{}, errors.New(errors.ErrCodeLookupFailed, "unknown region")
	}
	return region, nil
}

func testPool() []models.Country {
	return []models.Country{
		{Code: "fr", Name: "France", Capital: "Paris", Region: "Europe", Subregion: "Western Europe", Difficulty: 2},
		{Code: "de", Name: "Germany", AltName: "Deutschland", Capital: "Berlin", Region: "Europe", Subregion: "Western Europe", Difficulty: 2},
		{Code: "it", Name: "Italy", Capital: "Rome", Region: "Europe", Subregion: "Southern Europe", Difficulty: 2},
		{Code: "es", Name: "Spain", Capital: "Madrid", Region: "Europe", Subregion: "Southern Europe", Difficulty: 2},
		{Code: "pt", Name: "Portugal", Capital: "Lisbon", Region: "Europe", Subregion: "Southern Europe", Difficulty: 2},
		{Code: "pl", Name: "Poland", Capital: "Warsaw", Region: "Europe", Subregion: "Eastern Europe", Difficulty: 2},
		{Code: "at", Name: "Austria", Capital: "Vienna", Region: "Europe", Subregion: "Western Europe", Difficulty: 2},
		{Code: "ch", Name: "Switzerland", Capital: "Bern", Region: "Europe", Subregion: "Western Europe", Difficulty: 2},
		{Code: "aq", Name: "Antarctica", Region: "Antarctica", Subregion: "Antarctica", Difficulty: 3},
	}
}

func noShuffle(s *Session) {
	s.shuffle = func([]*models.Country) {}
}

func TestNewSession_ParameterValidation(t *testing.T) {
	catalog := &fakeCatalog{pool: testPool()}

	tests := []struct {
		name         string
		difficulty   int
		variantCount int
		wantErr      bool
	}{
		{name: "Valid free-text", difficulty: 2, variantCount: 0},
		{name: "Valid multiple choice", difficulty: 2, variantCount: 4},
		{name: "Difficulty too low", difficulty: 0, variantCount: 4, wantErr: true},
		{name: "Difficulty too high", difficulty: 6, variantCount: 4, wantErr: true},
		{name: "Single option is pointless", difficulty: 2, variantCount: 1, wantErr: true},
		{name: "Too many options", difficulty: 2, variantCount: 9, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewFlags(catalog, tt.difficulty, tt.variantCount, 42, "tester")
			if (err != nil) != tt.wantErr {
				t.Errorf("NewFlags() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errors.ErrCodeValidation) {
				t.Errorf("error code = %q, want %q", errors.Code(err), errors.ErrCodeValidation)
			}
		})
	}
}

func TestFlagsGame_FullRound(t *testing.T) {
	catalog := &fakeCatalog{pool: testPool()}
	s, err := NewFlags(catalog, 2, 0, 42, "tester")
	if err != nil {
		t.Fatalf("NewFlags() error = %v", err)
	}

	ctx := context.Background()
	correctGuesses := 0
	for i := 1; i <= QuestionsPerGame; i++ {
		q, err := s.NextQuestion()
		if err != nil {
			t.Fatalf("NextQuestion() error = %v", err)
		}
		if q.ImageURL == "" {
			t.Error("flags question must carry a flag image URL")
		}
		if !strings.Contains(q.Text, "flag") {
			t.Errorf("question text %q does not mention a flag", q.Text)
		}

		// Answer the first three correctly, flub the rest
		guess := "Nowhereland"
		current := catalog.pool[i-1]
		if i <= 3 {
			guess = current.Name
			correctGuesses++
		}

		reaction, err := s.Evaluate(ctx, guess)
		if err != nil {
			t.Fatalf("Evaluate() error = %v", err)
		}
		if reaction.Correct != (i <= 3) {
			t.Errorf("question %d: Correct = %v, want %v", i, reaction.Correct, i <= 3)
		}
		// Wrong answers still reveal the country
		if !strings.Contains(reaction.Text, current.Name) {
			t.Errorf("reaction %q does not name %s", reaction.Text, current.Name)
		}
	}

	if !s.Finished() {
		t.Error("session must finish after the last question")
	}
	if s.CorrectCount() != correctGuesses {
		t.Errorf("CorrectCount() = %d, want %d", s.CorrectCount(), correctGuesses)
	}
	// difficulty 2, free-text, no hints: 2*10/4 = 5 per correct answer
	if want := int64(correctGuesses * 5); s.Points() != want {
		t.Errorf("Points() = %d, want %d", s.Points(), want)
	}
	if !strings.Contains(s.EndingMessage(), "3 of 5") {
		t.Errorf("ending message %q does not report the correct count", s.EndingMessage())
	}

	if _, err := s.NextQuestion(); !errors.Is(err, errors.ErrCodeValidation) {
		t.Errorf("NextQuestion after finish: error code %q, want %q", errors.Code(err), errors.ErrCodeValidation)
	}
}

func TestSession_UsedCodesNeverRepeat(t *testing.T) {
	catalog := &fakeCatalog{pool: testPool()}
	s, err := NewFlags(catalog, 2, 0, 42, "tester")
	if err != nil {
		t.Fatalf("NewFlags() error = %v", err)
	}

	ctx := context.Background()
	for i := 0; i < QuestionsPerGame; i++ {
		if _, err := s.NextQuestion(); err != nil {
			t.Fatalf("NextQuestion() error = %v", err)
		}
		if _, err := s.Evaluate(ctx, "whatever"); err != nil {
			t.Fatalf("Evaluate() error = %v", err)
		}
	}

	seen := make(map[string]bool)
	for _, code := range s.UsedCodes() {
		if seen[code] {
			t.Errorf("code %q presented twice", code)
		}
		seen[code] = true
	}
	if len(seen) != QuestionsPerGame {
		t.Errorf("used %d codes, want %d", len(seen), QuestionsPerGame)
	}
}

func TestSession_MultipleChoiceOptionsDistinct(t *testing.T) {
	catalog := &fakeCatalog{pool: testPool()}
	s, err := NewCapitals(catalog, 2, 4, 42, "tester")
	if err != nil {
		t.Fatalf("NewCapitals() error = %v", err)
	}
	noShuffle(s)

	q, err := s.NextQuestion()
	if err != nil {
		t.Fatalf("NextQuestion() error = %v", err)
	}

	lines := strings.Split(q.Text, "\n")
	if len(lines) != 5 { // prompt plus four options
		t.Fatalf("question has %d lines, want 5:\n%s", len(lines), q.Text)
	}

	seen := make(map[string]bool)
	for _, line := range lines[1:] {
		if seen[line] {
			t.Errorf("duplicate option line %q", line)
		}
		seen[line] = true
	}
	// The shuffle is disabled, so the answer is option 1
	if !strings.Contains(lines[1], "Paris") {
		t.Errorf("first option %q is not the answer's capital", lines[1])
	}
}

func TestSession_EmptyCatalog(t *testing.T) {
	// Pool of two eligible countries cannot supply a four-option question
	catalog := &fakeCatalog{pool: testPool()[:2]}
	s, err := NewFlags(catalog, 2, 4, 42, "tester")
	if err != nil {
		t.Fatalf("NewFlags() error = %v", err)
	}

	_, err = s.NextQuestion()
	if !errors.Is(err, errors.ErrCodeEmptyCatalog) {
		t.Errorf("error code = %q, want %q", errors.Code(err), errors.ErrCodeEmptyCatalog)
	}
}

func TestSession_Hints(t *testing.T) {
	catalog := &fakeCatalog{pool: testPool()}
	s, err := NewCapitals(catalog, 2, 0, 42, "tester")
	if err != nil {
		t.Fatalf("NewCapitals() error = %v", err)
	}

	if _, err := s.Hint(); !errors.Is(err, errors.ErrCodeValidation) {
		t.Errorf("Hint before first question: error code %q, want %q", errors.Code(err), errors.ErrCodeValidation)
	}

	if _, err := s.NextQuestion(); err != nil {
		t.Fatalf("NextQuestion() error = %v", err)
	}

	// First question is France per the deterministic catalog
	hint1, err := s.Hint()
	if err != nil {
		t.Fatalf("Hint() error = %v", err)
	}
	if !strings.Contains(hint1, "first letter") || !strings.HasSuffix(hint1, "P") {
		t.Errorf("tier 1 hint = %q, want first letter P", hint1)
	}

	hint2, err := s.Hint()
	if err != nil {
		t.Fatalf("Hint() error = %v", err)
	}
	if !strings.Contains(hint2, "first three letters") || !strings.HasSuffix(hint2, "Par") {
		t.Errorf("tier 2 hint = %q, want first three letters Par", hint2)
	}

	// Further requests stay on the fine tier but keep reducing the award
	hint3, err := s.Hint()
	if err != nil {
		t.Fatalf("Hint() error = %v", err)
	}
	if hint3 != hint2 {
		t.Errorf("tier stays at 2: got %q, want %q", hint3, hint2)
	}

	reaction, err := s.Evaluate(context.Background(), "Paris")
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	if !reaction.Correct {
		t.Fatal("expected correct answer")
	}
	// difficulty 2, free-text, three hints: 2*10/4/4 = 1
	if s.Points() != 1 {
		t.Errorf("Points() = %d, want 1", s.Points())
	}
}

func TestSession_HintCounterResetsPerQuestion(t *testing.T) {
	catalog := &fakeCatalog{pool: testPool()}
	s, err := NewFlags(catalog, 2, 0, 42, "tester")
	if err != nil {
		t.Fatalf("NewFlags() error = %v", err)
	}
	ctx := context.Background()

	if _, err := s.NextQuestion(); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Hint(); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Evaluate(ctx, "wrong"); err != nil {
		t.Fatal(err)
	}

	if _, err := s.NextQuestion(); err != nil {
		t.Fatal(err)
	}
	// Second question is Germany; no hints taken, full award expected
	reaction, err := s.Evaluate(ctx, "Germany")
	if err != nil {
		t.Fatal(err)
	}
	if !reaction.Correct {
		t.Fatal("expected correct answer")
	}
	if s.Points() != 5 {
		t.Errorf("Points() = %d, want 5 (hint counter must reset)", s.Points())
	}
}

func TestHotColdGame(t *testing.T) {
	catalog := &fakeCatalog{pool: testPool()}
	geocoder := &fakeGeocoder{regions: map[string]geo.RegionGeometry{
		"France": {Lon: 2.5, Lat: 46.6, Width: 14.7, Height: 9.8},
		"Spain":  {Lon: -3.7, Lat: 40.4, Width: 12.5, Height: 8.0},
	}}

	ctx := context.Background()
	s, err := NewHotCold(ctx, catalog, geocoder, 2, 42, "tester")
	if err != nil {
		t.Fatalf("NewHotCold() error = %v", err)
	}

	q, err := s.NextQuestion()
	if err != nil {
		t.Fatalf("NextQuestion() error = %v", err)
	}
	if !strings.Contains(q.Text, "Attempt number 1") {
		t.Errorf("first question %q lacks the intro attempt counter", q.Text)
	}

	// Wrong guess: distance feedback, session keeps going
	reaction, err := s.Evaluate(ctx, "Spain")
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	if reaction.Correct {
		t.Error("Spain must not be the hidden France")
	}
	if !strings.Contains(reaction.Text, "distance") || !strings.Contains(reaction.Text, "km") {
		t.Errorf("wrong-guess reaction %q lacks distance feedback", reaction.Text)
	}
	if s.Finished() {
		t.Fatal("session must not finish on a wrong guess")
	}

	// Lookup failure: surfaced, attempt not consumed
	if _, err := s.Evaluate(ctx, "Narnia"); !errors.Is(err, errors.ErrCodeLookupFailed) {
		t.Errorf("error code = %q, want %q", errors.Code(err), errors.ErrCodeLookupFailed)
	}
	if s.Finished() {
		t.Fatal("lookup failure must not end the session")
	}

	q, err = s.NextQuestion()
	if err != nil {
		t.Fatalf("NextQuestion() error = %v", err)
	}
	if !strings.Contains(q.Text, "Attempt number 2") {
		t.Errorf("second question %q has the wrong attempt counter", q.Text)
	}

	reaction, err = s.Evaluate(ctx, "France")
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	if !reaction.Correct {
		t.Fatal("France must solve the game")
	}
	if !s.Finished() {
		t.Fatal("session must finish on the correct guess")
	}
	// difficulty 2, attempt 2, no hints: 2*50/2 = 50
	if s.Points() != 50 {
		t.Errorf("Points() = %d, want 50", s.Points())
	}
	if !strings.Contains(reaction.Text, "2 attempts") {
		t.Errorf("reaction %q does not report the attempt count", reaction.Text)
	}
}

func TestHotCold_GeocoderDownAtStart(t *testing.T) {
	catalog := &fakeCatalog{pool: testPool()}
	geocoder := &fakeGeocoder{regions: map[string]geo.RegionGeometry{}}

	_, err := NewHotCold(context.Background(), catalog, geocoder, 2, 42, "tester")
	if !errors.Is(err, errors.ErrCodeLookupFailed) {
		t.Errorf("error code = %q, want %q", errors.Code(err), errors.ErrCodeLookupFailed)
	}
}

func TestSession_Commit(t *testing.T) {
	catalog := &fakeCatalog{pool: testPool()}
	s, err := NewFlags(catalog, 2, 0, 42, "tester")
	if err != nil {
		t.Fatalf("NewFlags() error = %v", err)
	}

	ctx := context.Background()
	for i := 0; i < QuestionsPerGame; i++ {
		if _, err := s.NextQuestion(); err != nil {
			t.Fatal(err)
		}
		guess := catalog.pool[i].Name
		if _, err := s.Evaluate(ctx, guess); err != nil {
			t.Fatal(err)
		}
	}

	ledger := &fakeLedger{}
	if err := s.Commit(ledger); err != nil {
		t.Fatalf("Commit() error = %v", err)
	}
	if err := s.Commit(ledger); err != nil {
		t.Fatalf("second Commit() error = %v", err)
	}

	if ledger.calls != 1 {
		t.Errorf("ledger writes = %d, want 1 (commit is idempotent)", ledger.calls)
	}
	if ledger.player != 42 || ledger.name != "tester" {
		t.Errorf("ledger identity = (%d, %q), want (42, tester)", ledger.player, ledger.name)
	}
	if ledger.total != s.Points() {
		t.Errorf("ledger total = %d, want %d", ledger.total, s.Points())
	}
}

func TestSession_CommitRetriesAfterFailure(t *testing.T) {
	catalog := &fakeCatalog{pool: testPool()}
	s, err := NewFlags(catalog, 2, 0, 7, "tester")
	if err != nil {
		t.Fatalf("NewFlags() error = %v", err)
	}

	ledger := &fakeLedger{failure: errors.New(errors.ErrCodeInternalError, "db down")}
	if err := s.Commit(ledger); err == nil {
		t.Fatal("Commit() expected error")
	}

	ledger.failure = nil
	if err := s.Commit(ledger); err != nil {
		t.Fatalf("Commit() after recovery error = %v", err)
	}
	if ledger.calls != 1 {
		t.Errorf("ledger writes = %d, want 1", ledger.calls)
	}
}

func TestRegistry(t *testing.T) {
	registry := NewRegistry()
	key := Key{ChatID: 1, PlayerID: 42}

	if registry.Get(key) != nil {
		t.Error("empty registry returned a session")
	}

	catalog := &fakeCatalog{pool: testPool()}
	s, err := NewFlags(catalog, 2, 0, 42, "tester")
	if err != nil {
		t.Fatal(err)
	}

	registry.Put(key, s)
	if registry.Get(key) != s {
		t.Error("Get did not return the stored session")
	}
	if registry.Get(Key{ChatID: 2, PlayerID: 42}) != nil {
		t.Error("different chat must be a different key")
	}
	if registry.Len() != 1 {
		t.Errorf("Len() = %d, want 1", registry.Len())
	}

	registry.Remove(key)
	if registry.Get(key) != nil {
		t.Error("Remove did not drop the session")
	}
}
