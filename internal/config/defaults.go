package config

import (
	_ "embed"
	"time"

	"github.com/vovakirdan/mathrush/internal/engine"
	"github.com/vovakirdan/mathrush/internal/shop"
)

//go:embed defaults/mathrush.yaml
var defaultYAML []byte

// DefaultTickInterval is how often the host advances the countdown.
const DefaultTickInterval = 100 * time.Millisecond

// Default returns the hardcoded configuration.
func Default() Config {
	rules := engine.DefaultRules()
	return Config{
		Rules: RulesConfig{
			Lives:              rules.Lives,
			ExtraLifeLives:     rules.ExtraLifeLives,
			HintThreshold:      rules.HintThreshold,
			SlowFactor:         rules.SlowFactor,
			SlowTimerQuestions: rules.SlowTimerQuestions,
		},
		Clock: ClockConfig{
			TickInterval: DefaultTickInterval,
		},
		Inventory: InventoryConfig{
			StartingHints:      3,
			StartingSlowTimers: 1,
		},
		Shop: ShopConfig{
			Products: shop.DefaultProducts(),
		},
		Leaderboard: LeaderboardConfig{
			Key: "mathrush:leaderboard",
		},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultYAML
}
