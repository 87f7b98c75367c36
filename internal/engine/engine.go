// Package engine implements the timed quiz round: score, lives, per-question
// countdown, difficulty scaling and the hint/slow-timer power-ups.
//
// The engine is driven entirely from outside. The host calls Tick on every
// timer period and the command methods on user input; every method returns the
// events it produced. Nothing here renders, blocks or schedules timers.
package engine

import (
	"sync"

	"github.com/vovakirdan/mathrush/internal/quiz"
)

// timeEpsilon absorbs float drift from summing tick durations like 0.1s.
const timeEpsilon = 1e-9

// Phase is the round's lifecycle stage.
type Phase int

const (
	PhaseIdle Phase = iota
	PhasePlaying
	PhaseGameOver
)

// String returns a human-readable name for the phase.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "Idle"
	case PhasePlaying:
		return "Playing"
	case PhaseGameOver:
		return "GameOver"
	default:
		return "Unknown"
	}
}

// Config contains the optional engine dependencies.
type Config struct {
	Rules Rules

	// Random drives question generation. Nil means quiz.NewRand(Seed).
	Random quiz.Random
	Seed   int64

	// Plays is notified once per Start. May be nil.
	Plays PlayRecorder

	// OnStoreError receives Store read and write failures. Engine state is
	// unaffected. It is called with the engine lock held or from New and
	// must not call the engine.
	OnStoreError func(key string, err error)
}

// State is a read-only snapshot of a round.
type State struct {
	Phase                       Phase
	Score                       int
	Lives                       int
	TimeRemaining               float64 // Seconds left on the current question
	TimeBudget                  float64 // Seconds the current question started with
	Level                       int
	Question                    quiz.Question
	HintsAvailable              int
	SlowTimersAvailable         int
	SlowTimerActive             bool
	SlowTimerQuestionsRemaining int
	HintUsedThisQuestion        bool
	HasUsedExtraLife            bool
	BestScore                   int
	AchievedNewBestThisSession  bool
	Session                     uint64 // Incremented by every Start
	Generation                  uint64 // Incremented whenever a question's countdown (re)starts
}

// TimeFraction returns the remaining share of the question's time in [0, 1].
func (s State) TimeFraction() float64 {
	if s.TimeBudget <= 0 {
		return 0
	}
	return max(0, min(1, s.TimeRemaining/s.TimeBudget))
}

// CanContinue reports whether the one-time extra life is still available.
func (s State) CanContinue() bool {
	return s.Phase == PhaseGameOver && !s.HasUsedExtraLife
}

// Engine is the round state machine. All methods are safe for concurrent use;
// operations are serialized by a single mutex and never interleave.
type Engine struct {
	mu sync.Mutex

	rules        Rules
	gen          *quiz.Generator
	store        Store
	plays        PlayRecorder
	onStoreError func(key string, err error)

	phase         Phase
	score         int
	lives         int
	timeRemaining float64
	timeBudget    float64
	level         int
	question      quiz.Question
	hintUsed      bool
	usedExtraLife bool
	newBest       bool
	session       uint64
	generation    uint64

	best       int
	hints      int
	slowTimers int

	slowActive    bool
	slowRemaining int

	unreadable map[string]bool // Keys that failed to load are never written back
}

// New creates an idle engine, seeding best score and inventory from store.
// A nil store is replaced with a MemoryStore.
func New(store Store, cfg Config) *Engine {
	if store == nil {
		store = NewMemoryStore()
	}
	rng := cfg.Random
	if rng == nil {
		rng = quiz.NewRand(cfg.Seed)
	}

	e := &Engine{
		rules:        cfg.Rules.withDefaults(),
		gen:          quiz.NewGenerator(rng),
		store:        store,
		plays:        cfg.Plays,
		onStoreError: cfg.OnStoreError,
		phase:        PhaseIdle,
	}
	e.lives = e.rules.Lives

	e.best = e.load(KeyBestScore)
	e.hints = e.load(KeyHints)
	e.slowTimers = e.load(KeySlowTimers)

	return e
}

// Start begins a new round from any phase.
func (e *Engine) Start() []Event {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.score = 0
	e.lives = e.rules.Lives
	e.slowActive = false
	e.slowRemaining = 0
	e.usedExtraLife = false
	e.newBest = false
	e.session++
	e.phase = PhasePlaying

	events := []Event{e.event(EventStarted, 0)}
	e.loadQuestion(0)
	events = append(events, e.event(EventQuestion, 0))

	if e.plays != nil {
		e.plays.RecordPlaySession()
	}
	return events
}

// Tick consumes dt seconds of question time. Only valid while playing.
func (e *Engine) Tick(dt float64) []Event {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.phase != PhasePlaying || dt <= 0 {
		return nil
	}

	if e.slowActive {
		dt *= e.rules.SlowFactor
	}
	e.timeRemaining -= dt
	if e.timeRemaining < timeEpsilon {
		e.timeRemaining = 0
	}

	if e.timeRemaining == 0 {
		events := []Event{e.event(EventTimeUp, 0)}
		return e.loseLife(events)
	}

	var events []Event
	if e.timeRemaining <= e.rules.HintThreshold+timeEpsilon {
		events = e.applyHint(events)
	}
	return events
}

// Answer submits value for the current question. Only valid while playing.
func (e *Engine) Answer(value int) []Event {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.phase != PhasePlaying {
		return nil
	}

	if value != e.question.Answer() {
		e.lives--
		events := []Event{e.event(EventWrong, value)}
		return e.afterLifeLost(events)
	}

	e.score++
	var events []Event
	if e.score > e.best {
		e.best = e.score
		e.persist(KeyBestScore, e.best)
		if !e.newBest {
			e.newBest = true
			events = append(events, e.event(EventNewBest, 0))
		}
	}
	events = append(events, e.event(EventCorrect, value))
	return e.advance(events)
}

// ContinueWithExtraLife revives a finished round once per session,
// keeping the score and moving on to a fresh question.
func (e *Engine) ContinueWithExtraLife() []Event {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.phase != PhaseGameOver || e.usedExtraLife {
		return nil
	}

	e.lives = e.rules.ExtraLifeLives
	e.usedExtraLife = true
	e.phase = PhasePlaying

	events := []Event{e.event(EventRevived, 0)}
	return e.advance(events)
}

// State returns a snapshot of the round.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()

	return State{
		Phase:                       e.phase,
		Score:                       e.score,
		Lives:                       e.lives,
		TimeRemaining:               e.timeRemaining,
		TimeBudget:                  e.timeBudget,
		Level:                       e.level,
		Question:                    e.question,
		HintsAvailable:              e.hints,
		SlowTimersAvailable:         e.slowTimers,
		SlowTimerActive:             e.slowActive,
		SlowTimerQuestionsRemaining: e.slowRemaining,
		HintUsedThisQuestion:        e.hintUsed,
		HasUsedExtraLife:            e.usedExtraLife,
		BestScore:                   e.best,
		AchievedNewBestThisSession:  e.newBest,
		Session:                     e.session,
		Generation:                  e.generation,
	}
}

// Phase returns the current phase.
func (e *Engine) Phase() Phase {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.phase
}

// Generation returns the current countdown generation.
// Hosts tag timer ticks with it and drop ticks from older generations.
func (e *Engine) Generation() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.generation
}

// afterLifeLost ends the round at zero lives, otherwise moves on.
func (e *Engine) afterLifeLost(events []Event) []Event {
	if e.lives <= 0 {
		e.lives = 0
		e.phase = PhaseGameOver
		return append(events, e.event(EventGameOver, 0))
	}
	return e.advance(events)
}

// loseLife applies a timeout.
func (e *Engine) loseLife(events []Event) []Event {
	e.lives--
	return e.afterLifeLost(events)
}

// advance moves to the next question after an answer, timeout or revival.
func (e *Engine) advance(events []Event) []Event {
	if e.slowActive {
		e.slowRemaining--
		if e.slowRemaining <= 0 {
			e.slowRemaining = 0
			e.slowActive = false
			events = append(events, e.event(EventSlowTimerExpired, 0))
		}
	}

	e.loadQuestion(quiz.DifficultyLevel(e.score))
	return append(events, e.event(EventQuestion, 0))
}

// loadQuestion replaces the current question and restarts its countdown.
func (e *Engine) loadQuestion(level int) {
	e.level = level
	e.question = e.gen.Generate(level, e.score)
	e.hintUsed = false
	e.timeBudget = quiz.TimeBudget(level)
	e.timeRemaining = e.timeBudget
	e.generation++
}

// persist writes a value through to the store.
// load seeds a counter from the store. A failed read starts the counter at
// zero and keeps the stored value untouched for the engine's lifetime.
func (e *Engine) load(key string) int {
	v, ok, err := Lookup(e.store, key)
	if err != nil {
		if e.unreadable == nil {
			e.unreadable = make(map[string]bool)
		}
		e.unreadable[key] = true
		if e.onStoreError != nil {
			e.onStoreError(key, err)
		}
		return 0
	}
	if !ok || v < 0 {
		return 0
	}
	return v
}

func (e *Engine) persist(key string, value int) {
	if e.unreadable[key] {
		return
	}
	if err := e.store.Set(key, value); err != nil && e.onStoreError != nil {
		e.onStoreError(key, err)
	}
}

func (e *Engine) event(kind EventKind, value int) Event {
	return Event{
		Kind:     kind,
		Score:    e.score,
		Lives:    e.lives,
		Value:    value,
		Question: e.question,
	}
}
