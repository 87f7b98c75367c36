// Package config provides YAML-based configuration loading for mathrush:
// round rules, the clock, starting inventory, the shop catalog and the
// global leaderboard.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/vovakirdan/mathrush/internal/engine"
	"github.com/vovakirdan/mathrush/internal/shop"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("config: invalid")

// Config is the complete mathrush configuration.
type Config struct {
	Rules       RulesConfig       `yaml:"rules"`
	Clock       ClockConfig       `yaml:"clock"`
	Inventory   InventoryConfig   `yaml:"inventory"`
	Shop        ShopConfig        `yaml:"shop"`
	Leaderboard LeaderboardConfig `yaml:"leaderboard"`
}

// RulesConfig mirrors engine.Rules.
type RulesConfig struct {
	Lives              int     `yaml:"lives"`
	ExtraLifeLives     int     `yaml:"extra_life_lives"`
	HintThreshold      float64 `yaml:"hint_threshold"`       // Seconds left when a hint is auto-applied
	SlowFactor         float64 `yaml:"slow_factor"`          // Countdown speed while a slow timer is active
	SlowTimerQuestions int     `yaml:"slow_timer_questions"` // Questions one slow timer lasts
}

// ClockConfig controls the host's tick loop.
type ClockConfig struct {
	TickInterval time.Duration `yaml:"tick_interval"`
}

// InventoryConfig is the power-up inventory granted to a new player.
type InventoryConfig struct {
	StartingHints      int `yaml:"starting_hints"`
	StartingSlowTimers int `yaml:"starting_slow_timers"`
}

// ShopConfig lists the purchasable products.
type ShopConfig struct {
	Products []shop.Product `yaml:"products"`
}

// LeaderboardConfig configures the optional global Redis leaderboard.
type LeaderboardConfig struct {
	RedisAddr string `yaml:"redis_addr"` // Empty disables the global board
	Key       string `yaml:"key"`
}

// EngineRules converts the rules section to engine.Rules.
func (c Config) EngineRules() engine.Rules {
	return engine.Rules{
		Lives:              c.Rules.Lives,
		ExtraLifeLives:     c.Rules.ExtraLifeLives,
		HintThreshold:      c.Rules.HintThreshold,
		SlowFactor:         c.Rules.SlowFactor,
		SlowTimerQuestions: c.Rules.SlowTimerQuestions,
	}
}

// Validate checks that the configuration can run a round.
func (c Config) Validate() error {
	switch {
	case c.Rules.Lives <= 0 || c.Rules.Lives > engine.MaxLives:
		return fmt.Errorf("%w: rules.lives must be in [1, %d], got %d", ErrInvalid, engine.MaxLives, c.Rules.Lives)
	case c.Rules.ExtraLifeLives <= 0 || c.Rules.ExtraLifeLives > c.Rules.Lives:
		return fmt.Errorf("%w: rules.extra_life_lives must be in [1, lives], got %d", ErrInvalid, c.Rules.ExtraLifeLives)
	case c.Rules.HintThreshold <= 0:
		return fmt.Errorf("%w: rules.hint_threshold must be positive, got %v", ErrInvalid, c.Rules.HintThreshold)
	case c.Rules.SlowFactor <= 0 || c.Rules.SlowFactor > 1:
		return fmt.Errorf("%w: rules.slow_factor must be in (0, 1], got %v", ErrInvalid, c.Rules.SlowFactor)
	case c.Rules.SlowTimerQuestions <= 0 || c.Rules.SlowTimerQuestions > engine.MaxSlowTimerQuestions:
		return fmt.Errorf("%w: rules.slow_timer_questions must be in [1, %d], got %d",
			ErrInvalid, engine.MaxSlowTimerQuestions, c.Rules.SlowTimerQuestions)
	case c.Clock.TickInterval <= 0:
		return fmt.Errorf("%w: clock.tick_interval must be positive", ErrInvalid)
	case c.Inventory.StartingHints < 0 || c.Inventory.StartingSlowTimers < 0:
		return fmt.Errorf("%w: starting inventory must not be negative", ErrInvalid)
	}

	seen := make(map[string]bool, len(c.Shop.Products))
	for _, p := range c.Shop.Products {
		if p.ID == "" {
			return fmt.Errorf("%w: shop product without id", ErrInvalid)
		}
		if seen[p.ID] {
			return fmt.Errorf("%w: duplicate shop product %q", ErrInvalid, p.ID)
		}
		seen[p.ID] = true
	}
	return nil
}

// SeedInventory grants the starting inventory to a player whose store has
// never held inventory. It reports whether anything was written. Nothing is
// written when the current inventory cannot be read.
func (c Config) SeedInventory(store engine.Store) (bool, error) {
	_, hasHints, err := engine.Lookup(store, engine.KeyHints)
	if err != nil {
		return false, fmt.Errorf("config: cannot read hints: %w", err)
	}
	_, hasSlow, err := engine.Lookup(store, engine.KeySlowTimers)
	if err != nil {
		return false, fmt.Errorf("config: cannot read slow timers: %w", err)
	}

	seeded := false
	if !hasHints {
		if err := store.Set(engine.KeyHints, c.Inventory.StartingHints); err != nil {
			return false, fmt.Errorf("config: cannot seed hints: %w", err)
		}
		seeded = true
	}
	if !hasSlow {
		if err := store.Set(engine.KeySlowTimers, c.Inventory.StartingSlowTimers); err != nil {
			return seeded, fmt.Errorf("config: cannot seed slow timers: %w", err)
		}
		seeded = true
	}
	return seeded, nil
}
