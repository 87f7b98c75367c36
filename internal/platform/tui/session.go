package tui

import (
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/mathrush/internal/config"
	"github.com/vovakirdan/mathrush/internal/engine"
	"github.com/vovakirdan/mathrush/internal/leaderboard"
	"github.com/vovakirdan/mathrush/internal/shop"
	"github.com/vovakirdan/mathrush/internal/storage"
	"github.com/vovakirdan/mathrush/internal/streak"
)

// Services are the shared backends a player's session is assembled from.
type Services struct {
	Config config.Config
	Store  *storage.Store     // Nil plays without persistence
	Global *leaderboard.Redis // Nil disables the global leaderboard
	Logger *log.Logger
	Seed   int64 // 0 seeds from the clock
}

// PlayerStore returns the persistence view for player.
// Without a database, progress lives in memory for the session only.
func (s Services) PlayerStore(player string) engine.Store {
	if s.Store == nil {
		return engine.NewMemoryStore()
	}
	return s.Store.Namespace(player)
}

// Submitter returns every configured leaderboard as one Submitter, or nil.
func (s Services) Submitter() leaderboard.Submitter {
	var boards leaderboard.Fanout
	if s.Store != nil {
		boards = append(boards, s.Store)
	}
	if s.Global != nil {
		boards = append(boards, s.Global)
	}
	if len(boards) == 0 {
		return nil
	}
	return boards
}

// NewModel wires an engine and its collaborators for player.
func (s Services) NewModel(player string) Model {
	if player == "" {
		player = storage.DefaultPlayer
	}
	logger := s.Logger
	if logger == nil {
		logger = log.Default()
	}
	logger = logger.With("player", player)

	store := s.PlayerStore(player)
	if _, err := s.Config.SeedInventory(store); err != nil {
		logger.Warn("cannot grant starting inventory", "err", err)
	}

	tracker := streak.New(store, nil)
	tracker.SetLogger(logger)

	e := engine.New(store, engine.Config{
		Rules: s.Config.EngineRules(),
		Seed:  s.Seed,
		Plays: tracker,
		OnStoreError: func(key string, err error) {
			logger.Warn("cannot persist", "key", key, "err", err)
		},
	})

	var reporter *leaderboard.Reporter
	if sub := s.Submitter(); sub != nil {
		reporter = leaderboard.NewReporter(sub, player)
	}

	return NewModel(Options{
		Engine:       e,
		Reporter:     reporter,
		Shop:         shop.NewOffline(store, s.Config.Shop.Products),
		Streak:       tracker,
		Logger:       logger,
		TickInterval: s.Config.Clock.TickInterval,
		Player:       player,
	})
}
