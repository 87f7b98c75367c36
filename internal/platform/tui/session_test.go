package tui

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/redis/go-redis/v9"

	"github.com/vovakirdan/mathrush/internal/config"
	"github.com/vovakirdan/mathrush/internal/engine"
	"github.com/vovakirdan/mathrush/internal/leaderboard"
	"github.com/vovakirdan/mathrush/internal/storage"
)

func TestServicesWithoutBackends(t *testing.T) {
	svc := Services{Config: config.Default(), Seed: 7}

	if svc.Submitter() != nil {
		t.Error("No backends should mean no submitter")
	}

	m := svc.NewModel("")
	s := m.State()
	if s.HintsAvailable != 3 || s.SlowTimersAvailable != 1 {
		t.Errorf("Starting inventory = %d hints, %d slow", s.HintsAvailable, s.SlowTimersAvailable)
	}
	if m.player != storage.DefaultPlayer {
		t.Errorf("Expected default player, got %q", m.player)
	}
}

func TestServicesSubmitToAllBoards(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "scores.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	global := leaderboard.NewRedis(client, "")

	svc := Services{Config: config.Default(), Store: store, Global: global, Seed: 7}
	m := svc.NewModel("alice")

	m = startRound(t, m)
	m, _ = update(t, m, keyMsg(optionKey(m.State(), true)))
	m = loseRound(t, m)

	if msg := m.finishCmd()().(scoreReportedMsg); !msg.sent || msg.err != nil {
		t.Fatalf("Report failed: %+v", msg)
	}

	if high, _ := store.HighScore("alice"); high != 1 {
		t.Errorf("Local high score = %d, expected 1", high)
	}
	if _, score, ok, _ := global.Rank(context.Background(), "alice"); !ok || score != 1 {
		t.Errorf("Global score = %d (%v), expected 1", score, ok)
	}

	// Progress is kept in alice's namespace only.
	if best, _ := store.Namespace("alice").Get(engine.KeyBestScore); best != 1 {
		t.Errorf("Persisted best = %d, expected 1", best)
	}
	if _, ok := store.Namespace("bob").Get(engine.KeyBestScore); ok {
		t.Error("bob should have no best score")
	}
}

func TestScoreboardBoards(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "scores.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()
	store.SaveScore("alice", 4)
	store.SaveScore("alice", 9)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	global := leaderboard.NewRedis(client, "")
	global.SubmitScore(context.Background(), "alice", 9)

	m := NewScoreboardModel([]ScoreSource{LocalScores(store), GlobalScores(global)}, 80, 24)
	if len(m.Rows()) != 2 || m.Rows()[0].Score != 9 {
		t.Errorf("Local rows = %+v", m.Rows())
	}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(ScoreboardModel)
	if len(m.Rows()) != 1 || m.Rows()[0].Player != "alice" {
		t.Errorf("Global rows = %+v", m.Rows())
	}
	if m.View() == "" {
		t.Error("Scoreboard view should not be empty")
	}
}
