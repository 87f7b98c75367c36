// Package streak tracks how many consecutive ISO weeks a player has played.
package streak

import (
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/mathrush/internal/engine"
)

// Persistence keys.
const (
	KeyWeeks    = "streak_weeks"
	KeyLastWeek = "streak_last_week"
	KeyBest     = "streak_best"
)

// Status is a snapshot of a player's streak.
type Status struct {
	Weeks    int  // Current streak length in weeks
	Best     int  // Longest streak ever reached
	LastWeek int  // year*100 + ISO week of the last play, 0 if never played
	Active   bool // Played this week or last week, so the streak can still grow
}

// Tracker records play sessions into a weekly streak.
// It is an engine.PlayRecorder and must not call back into the engine.
type Tracker struct {
	mu     sync.Mutex
	store  engine.Store
	now    func() time.Time
	logger *log.Logger
}

// New creates a tracker. A nil now uses time.Now.
func New(store engine.Store, now func() time.Time) *Tracker {
	if now == nil {
		now = time.Now
	}
	return &Tracker{store: store, now: now}
}

// SetLogger sets where persistence failures are reported.
func (t *Tracker) SetLogger(logger *log.Logger) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.logger = logger
}

// RecordPlaySession counts a play in the current week.
func (t *Tracker) RecordPlaySession() {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	thisWeek := weekKey(now)
	lastWeek, _ := t.store.Get(KeyLastWeek)
	weeks, _ := t.store.Get(KeyWeeks)

	switch {
	case lastWeek == thisWeek && weeks > 0:
		return
	case lastWeek == weekKey(now.AddDate(0, 0, -7)) && weeks > 0:
		weeks++
	default:
		weeks = 1
	}

	t.set(KeyWeeks, weeks)
	t.set(KeyLastWeek, thisWeek)
	if best, _ := t.store.Get(KeyBest); weeks > best {
		t.set(KeyBest, weeks)
	}
}

// Status returns the current streak.
func (t *Tracker) Status() Status {
	t.mu.Lock()
	defer t.mu.Unlock()

	weeks, _ := t.store.Get(KeyWeeks)
	best, _ := t.store.Get(KeyBest)
	last, _ := t.store.Get(KeyLastWeek)

	now := t.now()
	active := last != 0 && (last == weekKey(now) || last == weekKey(now.AddDate(0, 0, -7)))
	if !active {
		weeks = 0
	}

	return Status{Weeks: weeks, Best: best, LastWeek: last, Active: active}
}

func (t *Tracker) set(key string, value int) {
	if err := t.store.Set(key, value); err != nil && t.logger != nil {
		t.logger.Warn("cannot persist streak", "key", key, "err", err)
	}
}

// weekKey encodes t's ISO week as year*100 + week.
func weekKey(t time.Time) int {
	year, week := t.ISOWeek()
	return year*100 + week
}

// Ensure Tracker implements engine.PlayRecorder
var _ engine.PlayRecorder = (*Tracker)(nil)
