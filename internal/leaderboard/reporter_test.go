package leaderboard

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/vovakirdan/mathrush/internal/engine"
)

type recordingSubmitter struct {
	mu     sync.Mutex
	scores []int
	err    error
}

func (r *recordingSubmitter) SubmitScore(_ context.Context, _ string, score int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.scores = append(r.scores, score)
	return r.err
}

func gameOver(session uint64, score int, usedExtraLife bool) engine.State {
	return engine.State{
		Phase:            engine.PhaseGameOver,
		Score:            score,
		Session:          session,
		HasUsedExtraLife: usedExtraLife,
	}
}

func TestReporterSubmitsOncePerSession(t *testing.T) {
	sub := &recordingSubmitter{}
	r := NewReporter(sub, "alice")
	ctx := context.Background()

	// Still revivable: Observe waits for the player.
	if sent, _ := r.Observe(ctx, gameOver(1, 7, false)); sent {
		t.Error("Observe should not submit a revivable round")
	}

	if sent, err := r.Finish(ctx, gameOver(1, 7, false)); !sent || err != nil {
		t.Errorf("Finish() = %v, %v; expected true, nil", sent, err)
	}
	if sent, _ := r.Finish(ctx, gameOver(1, 7, false)); sent {
		t.Error("Second Finish for the same session should not submit")
	}

	if sent, _ := r.Observe(ctx, gameOver(2, 9, true)); !sent {
		t.Error("Observe should submit after the extra life was used")
	}
	if !r.Reported(2) {
		t.Error("Session 2 should be reported")
	}

	if len(sub.scores) != 2 || sub.scores[0] != 7 || sub.scores[1] != 9 {
		t.Errorf("Submitted scores = %v; expected [7 9]", sub.scores)
	}
}

func TestReporterIgnoresActiveAndEmptyRounds(t *testing.T) {
	sub := &recordingSubmitter{}
	r := NewReporter(sub, "bob")
	ctx := context.Background()

	playing := engine.State{Phase: engine.PhasePlaying, Score: 3, Session: 1}
	if sent, _ := r.Finish(ctx, playing); sent {
		t.Error("Finish should ignore a round in progress")
	}

	if sent, _ := r.Finish(ctx, gameOver(1, 0, false)); sent {
		t.Error("Zero score should not be submitted")
	}
	if !r.Reported(1) {
		t.Error("Zero-score session should still be marked handled")
	}

	if len(sub.scores) != 0 {
		t.Errorf("Expected no submissions, got %v", sub.scores)
	}
}

func TestReporterWithEngine(t *testing.T) {
	sub := &recordingSubmitter{}
	r := NewReporter(sub, "carol")
	ctx := context.Background()

	e := engine.New(engine.NewMemoryStore(), engine.Config{Seed: 3})
	e.Start()
	e.Answer(e.State().Question.Answer())
	for e.Phase() == engine.PhasePlaying {
		e.Answer(e.State().Question.Answer() + 1000)
	}
	e.ContinueWithExtraLife()
	for e.Phase() == engine.PhasePlaying {
		e.Answer(e.State().Question.Answer() + 1000)
		r.Observe(ctx, e.State())
	}

	if len(sub.scores) != 1 || sub.scores[0] != 1 {
		t.Errorf("Submitted scores = %v; expected [1]", sub.scores)
	}
}

func TestFanoutJoinsErrors(t *testing.T) {
	boom := errors.New("boom")
	ok := &recordingSubmitter{}
	bad := &recordingSubmitter{err: boom}

	err := Fanout{ok, nil, bad}.SubmitScore(context.Background(), "dave", 5)
	if !errors.Is(err, boom) {
		t.Errorf("Expected joined error to wrap boom, got %v", err)
	}
	if len(ok.scores) != 1 || len(bad.scores) != 1 {
		t.Error("Every board should receive the score")
	}

	if err := (Fanout{ok}).SubmitScore(context.Background(), "dave", 6); err != nil {
		t.Errorf("Expected nil error, got %v", err)
	}
}
