package engine

import (
	"errors"
	"sync"
	"testing"

	"github.com/vovakirdan/mathrush/internal/quiz"
)

func newTestEngine(t *testing.T, store Store) *Engine {
	t.Helper()
	return New(store, Config{Seed: 42})
}

// answerCorrect answers the current question with its correct value.
func answerCorrect(e *Engine) []Event {
	return e.Answer(e.State().Question.Answer())
}

// answerWrong answers the current question with a value that never matches.
func answerWrong(e *Engine) []Event {
	return e.Answer(e.State().Question.Answer() + 1000)
}

func TestStartResetsRound(t *testing.T) {
	e := newTestEngine(t, nil)

	if e.Phase() != PhaseIdle {
		t.Fatalf("Expected initial phase Idle, got %v", e.Phase())
	}

	events := e.Start()
	s := e.State()

	if s.Phase != PhasePlaying {
		t.Errorf("Expected phase Playing, got %v", s.Phase)
	}
	if s.Score != 0 || s.Lives != 3 {
		t.Errorf("Expected score 0 and 3 lives, got %d and %d", s.Score, s.Lives)
	}
	if s.TimeRemaining != 5.0 {
		t.Errorf("Expected 5.0 seconds, got %f", s.TimeRemaining)
	}
	if s.Level != 0 || s.Question.OptionCount() != 3 {
		t.Errorf("Expected level 0 question with 3 options, got level %d, %v", s.Level, s.Question.Options())
	}
	if !Has(events, EventStarted) || !Has(events, EventQuestion) {
		t.Errorf("Expected Started and Question events, got %v", events)
	}
}

func TestThreeCorrectAnswers(t *testing.T) {
	e := newTestEngine(t, nil)
	e.Start()

	for i := 0; i < 3; i++ {
		events := answerCorrect(e)
		if !Has(events, EventCorrect) {
			t.Fatalf("Answer %d: expected Correct event, got %v", i+1, events)
		}
	}

	s := e.State()
	if s.Score != 3 {
		t.Errorf("Expected score 3, got %d", s.Score)
	}
	if s.Phase != PhasePlaying {
		t.Errorf("Expected phase Playing, got %v", s.Phase)
	}
	if s.Lives != 3 {
		t.Errorf("Expected lives unchanged at 3, got %d", s.Lives)
	}
}

func TestThreeWrongAnswersEndsGame(t *testing.T) {
	e := newTestEngine(t, nil)
	e.Start()

	answerWrong(e)
	answerWrong(e)
	events := answerWrong(e)

	s := e.State()
	if s.Phase != PhaseGameOver {
		t.Errorf("Expected GameOver, got %v", s.Phase)
	}
	if s.Lives != 0 {
		t.Errorf("Expected 0 lives, got %d", s.Lives)
	}
	if !Has(events, EventWrong) || !Has(events, EventGameOver) {
		t.Errorf("Expected Wrong and GameOver events, got %v", events)
	}
	if Has(events, EventQuestion) {
		t.Error("No new question should be generated after game over")
	}
}

func TestExtraLifeOncePerSession(t *testing.T) {
	e := newTestEngine(t, nil)
	e.Start()
	answerCorrect(e)
	for e.Phase() == PhasePlaying {
		answerWrong(e)
	}

	before := e.State()
	if !before.CanContinue() {
		t.Fatal("Expected continuation to be available")
	}

	events := e.ContinueWithExtraLife()
	s := e.State()
	if s.Phase != PhasePlaying || s.Lives != 1 || !s.HasUsedExtraLife {
		t.Errorf("After continue: phase %v, lives %d, used %v", s.Phase, s.Lives, s.HasUsedExtraLife)
	}
	if s.Score != 1 {
		t.Errorf("Continuation should keep the score, got %d", s.Score)
	}
	if s.Generation == before.Generation {
		t.Error("Continuation should start a new countdown generation")
	}
	if !Has(events, EventRevived) || !Has(events, EventQuestion) {
		t.Errorf("Expected Revived and Question events, got %v", events)
	}

	// Calling again while playing is a no-op.
	if got := e.ContinueWithExtraLife(); got != nil {
		t.Errorf("Expected no-op while playing, got %v", got)
	}

	answerWrong(e)
	if e.Phase() != PhaseGameOver {
		t.Fatalf("Expected second death to end the game, got %v", e.Phase())
	}

	dead := e.State()
	if got := e.ContinueWithExtraLife(); got != nil {
		t.Errorf("Expected no-op on second continue, got %v", got)
	}
	after := e.State()
	if after.Phase != dead.Phase || after.Lives != dead.Lives ||
		after.Score != dead.Score || after.Generation != dead.Generation {
		t.Errorf("State changed on second continue: %+v vs %+v", after, dead)
	}
}

func TestStartClearsExtraLife(t *testing.T) {
	e := newTestEngine(t, nil)
	e.Start()
	for e.Phase() == PhasePlaying {
		answerWrong(e)
	}
	e.ContinueWithExtraLife()
	answerWrong(e)

	e.Start()
	s := e.State()
	if s.HasUsedExtraLife || s.AchievedNewBestThisSession {
		t.Errorf("Start should clear session flags: %+v", s)
	}
	if s.Session != 2 {
		t.Errorf("Expected session 2, got %d", s.Session)
	}
}

func TestTimeoutCostsLife(t *testing.T) {
	e := newTestEngine(t, nil)
	e.Start()
	gen := e.Generation()

	events := e.Tick(5.0)
	s := e.State()

	if !Has(events, EventTimeUp) {
		t.Errorf("Expected TimeUp event, got %v", events)
	}
	if s.Lives != 2 {
		t.Errorf("Expected 2 lives after timeout, got %d", s.Lives)
	}
	if s.TimeRemaining != 5.0 {
		t.Errorf("Expected fresh 5.0 second budget, got %f", s.TimeRemaining)
	}
	if s.Generation == gen {
		t.Error("Timeout should start a new countdown generation")
	}

	e.Tick(5.0)
	events = e.Tick(5.0)
	if !Has(events, EventGameOver) || e.Phase() != PhaseGameOver {
		t.Errorf("Expected game over after three timeouts, got %v", events)
	}
}

func TestInvalidCallsAreNoOps(t *testing.T) {
	store := NewMemoryStore()
	e := newTestEngine(t, store)

	if got := e.Answer(1); got != nil {
		t.Errorf("Answer while idle: %v", got)
	}
	if got := e.Tick(1); got != nil {
		t.Errorf("Tick while idle: %v", got)
	}
	if got := e.ActivateSlowTimer(); got != nil {
		t.Errorf("ActivateSlowTimer with no inventory: %v", got)
	}
	if got := e.ContinueWithExtraLife(); got != nil {
		t.Errorf("ContinueWithExtraLife while idle: %v", got)
	}
	if got := e.AddHints(0); got != nil {
		t.Errorf("AddHints(0): %v", got)
	}

	e.Start()
	if got := e.Tick(-1); got != nil {
		t.Errorf("Tick with negative dt: %v", got)
	}
	if got := e.ActivateSlowTimer(); got != nil {
		t.Errorf("ActivateSlowTimer with no inventory while playing: %v", got)
	}
}

func TestDifficultyScalesWithScore(t *testing.T) {
	e := newTestEngine(t, nil)
	e.Start()

	for i := 0; i < 5; i++ {
		answerCorrect(e)
	}
	s := e.State()
	if s.Level != 1 {
		t.Errorf("Expected level 1 at score 5, got %d", s.Level)
	}
	if diff := s.TimeBudget - 4.7; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("Expected 4.7 second budget at level 1, got %f", s.TimeBudget)
	}

	for i := 0; i < 30; i++ {
		answerCorrect(e)
	}
	s = e.State()
	if s.Level != quiz.MaxLevel {
		t.Errorf("Expected level capped at %d, got %d", quiz.MaxLevel, s.Level)
	}
	if diff := s.TimeRemaining - 3.8; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("Expected 3.8 second budget at max level, got %f", s.TimeRemaining)
	}
}

func TestNewBestFlagSetImmediately(t *testing.T) {
	store := NewMemoryStore()
	store.Set(KeyBestScore, 5)

	e := newTestEngine(t, store)
	e.Start()

	for i := 0; i < 5; i++ {
		events := answerCorrect(e)
		if Has(events, EventNewBest) {
			t.Fatalf("NewBest fired at score %d", e.State().Score)
		}
	}
	if e.State().AchievedNewBestThisSession {
		t.Fatal("Flag set before best was exceeded")
	}

	events := answerCorrect(e)
	s := e.State()
	if !s.AchievedNewBestThisSession || s.BestScore != 6 {
		t.Errorf("Expected new best 6 with flag, got best %d flag %v", s.BestScore, s.AchievedNewBestThisSession)
	}
	if !Has(events, EventNewBest) {
		t.Errorf("Expected NewBest event, got %v", events)
	}
	if v, _ := store.Get(KeyBestScore); v != 6 {
		t.Errorf("Expected best score persisted as 6, got %d", v)
	}

	// Flag stays set but the event only fires once.
	events = answerCorrect(e)
	if Has(events, EventNewBest) {
		t.Error("NewBest should only fire once per session")
	}
	if v, _ := store.Get(KeyBestScore); v != 7 {
		t.Errorf("Expected best score persisted as 7, got %d", v)
	}
}

type countingRecorder struct {
	calls int
}

func (r *countingRecorder) RecordPlaySession() { r.calls++ }

func TestStartRecordsPlaySession(t *testing.T) {
	rec := &countingRecorder{}
	e := New(nil, Config{Seed: 7, Plays: rec})

	e.Start()
	e.Start()

	if rec.calls != 2 {
		t.Errorf("Expected 2 recorded sessions, got %d", rec.calls)
	}
}

type failingStore struct {
	*MemoryStore
}

func (failingStore) Set(string, int) error { return errors.New("disk full") }

func TestStoreErrorsDoNotAffectState(t *testing.T) {
	var failedKeys []string
	e := New(failingStore{NewMemoryStore()}, Config{
		Seed: 3,
		OnStoreError: func(key string, err error) {
			failedKeys = append(failedKeys, key)
		},
	})

	e.AddHints(2)
	e.Start()
	answerCorrect(e)

	s := e.State()
	if s.HintsAvailable != 2 || s.Score != 1 || s.BestScore != 1 {
		t.Errorf("Unexpected state after store failures: %+v", s)
	}
	if len(failedKeys) != 2 || failedKeys[0] != KeyHints || failedKeys[1] != KeyBestScore {
		t.Errorf("Expected failures for hints and best score, got %v", failedKeys)
	}
}

// unreadableStore fails every read and records every write.
type unreadableStore struct {
	*MemoryStore
}

func (unreadableStore) Lookup(string) (int, bool, error) {
	return 0, false, errors.New("database is locked")
}

func TestUnreadableKeysAreNotOverwritten(t *testing.T) {
	mem := NewMemoryStore()
	mem.Set(KeyBestScore, 40)
	mem.Set(KeyHints, 9)

	var failedKeys []string
	e := New(unreadableStore{mem}, Config{
		Seed: 3,
		OnStoreError: func(key string, err error) {
			failedKeys = append(failedKeys, key)
		},
	})
	if len(failedKeys) != 3 {
		t.Errorf("Expected three read failures, got %v", failedKeys)
	}

	e.AddHints(1)
	e.Start()
	answerCorrect(e)

	s := e.State()
	if s.BestScore != 1 || s.HintsAvailable != 1 {
		t.Errorf("Expected in-memory best 1 and 1 hint, got %+v", s)
	}
	if v, _ := mem.Get(KeyBestScore); v != 40 {
		t.Errorf("Stored best overwritten: %d", v)
	}
	if v, _ := mem.Get(KeyHints); v != 9 {
		t.Errorf("Stored hints overwritten: %d", v)
	}
}

func TestConcurrentCommandsSerialize(t *testing.T) {
	e := newTestEngine(t, nil)
	e.AddHints(100)
	e.Start()

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				e.Tick(0.1)
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				answerCorrect(e)
				e.State()
			}
		}()
	}
	wg.Wait()

	s := e.State()
	if s.Lives < 0 || s.Lives > 3 {
		t.Errorf("Lives out of range: %d", s.Lives)
	}
	if s.Score < 0 {
		t.Errorf("Negative score: %d", s.Score)
	}
}

func TestRulesClampedToBounds(t *testing.T) {
	e := New(nil, Config{Seed: 42, Rules: Rules{Lives: 9, ExtraLifeLives: 5, SlowTimerQuestions: 7}})
	e.AddSlowTimers(1)
	e.Start()
	e.ActivateSlowTimer()

	s := e.State()
	if s.Lives != MaxLives {
		t.Errorf("Expected %d lives, got %d", MaxLives, s.Lives)
	}
	if s.SlowTimerQuestionsRemaining != MaxSlowTimerQuestions {
		t.Errorf("Expected %d slow timer questions, got %d", MaxSlowTimerQuestions, s.SlowTimerQuestionsRemaining)
	}

	for e.Phase() == PhasePlaying {
		answerWrong(e)
	}
	e.ContinueWithExtraLife()
	if got := e.State().Lives; got != 1 {
		t.Errorf("Expected 1 life after continuing, got %d", got)
	}
}
