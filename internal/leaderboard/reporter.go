package leaderboard

import (
	"context"
	"sync"

	"github.com/vovakirdan/mathrush/internal/engine"
)

// Reporter submits each engine session's score exactly once.
//
// A session is complete when the round is over and no continuation will
// follow: either the player leaves a game-over screen without reviving
// (Finish), or the round ends again after the extra life was used (Observe).
// It is safe for concurrent use, so hosts may report from a background command.
type Reporter struct {
	mu        sync.Mutex
	submitter Submitter
	player    string
	reported  uint64 // Last session submitted
}

// NewReporter creates a reporter submitting for player.
func NewReporter(s Submitter, player string) *Reporter {
	return &Reporter{submitter: s, player: player}
}

// Observe should be called after engine operations. It submits when the
// round ended after a used continuation, since no further revival is possible.
func (r *Reporter) Observe(ctx context.Context, s engine.State) (bool, error) {
	if s.Phase != engine.PhaseGameOver || !s.HasUsedExtraLife {
		return false, nil
	}
	return r.report(ctx, s)
}

// Finish should be called when the player leaves a finished round, e.g. by
// restarting or quitting from the game-over screen.
func (r *Reporter) Finish(ctx context.Context, s engine.State) (bool, error) {
	if s.Phase != engine.PhaseGameOver {
		return false, nil
	}
	return r.report(ctx, s)
}

// Reported reports whether session has already been handled.
func (r *Reporter) Reported(session uint64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return session != 0 && r.reported == session
}

func (r *Reporter) report(ctx context.Context, s engine.State) (bool, error) {
	r.mu.Lock()
	if s.Session == 0 || r.reported == s.Session {
		r.mu.Unlock()
		return false, nil
	}
	r.reported = s.Session
	r.mu.Unlock()

	// Empty rounds are complete but not worth a leaderboard row.
	if s.Score <= 0 || r.submitter == nil {
		return false, nil
	}
	return true, r.submitter.SubmitScore(ctx, r.player, s.Score)
}
