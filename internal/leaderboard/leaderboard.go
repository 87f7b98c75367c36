// Package leaderboard submits finished-session scores to local and global boards.
// The engine never calls a leaderboard itself; the host uses Reporter to decide
// when a session is over and submits through a Submitter.
package leaderboard

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"
)

// Submitter accepts a player's final score for a session.
type Submitter interface {
	SubmitScore(ctx context.Context, player string, score int) error
}

// Entry is one row of a ranked leaderboard.
type Entry struct {
	Player string
	Score  int
}

// Fanout submits to every wrapped Submitter concurrently.
// One board failing never prevents submission to the others.
type Fanout []Submitter

// SubmitScore submits to all boards and joins their errors.
func (f Fanout) SubmitScore(ctx context.Context, player string, score int) error {
	errs := make([]error, len(f))

	var g errgroup.Group
	for i, s := range f {
		if s == nil {
			continue
		}
		g.Go(func() error {
			errs[i] = s.SubmitScore(ctx, player, score)
			return nil
		})
	}
	//nolint:errcheck // Goroutines report through errs
	g.Wait()

	return errors.Join(errs...)
}
