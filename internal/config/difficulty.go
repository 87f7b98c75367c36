package config

import (
	"fmt"

	"github.com/vovakirdan/mathrush/internal/engine"
)

// DifficultyPreset represents a named set of rule overrides.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
)

// ParsePreset validates a preset name. An empty name is DifficultyNormal.
func ParsePreset(name string) (DifficultyPreset, error) {
	switch p := DifficultyPreset(name); p {
	case "":
		return DifficultyNormal, nil
	case DifficultyEasy, DifficultyNormal, DifficultyHard:
		return p, nil
	default:
		return "", fmt.Errorf("%w: unknown difficulty %q", ErrInvalid, name)
	}
}

// ApplyPreset modifies the rules based on a difficulty preset.
// DifficultyNormal keeps the loaded rules. Easy keeps the full three lives
// and eases the power-ups instead.
func ApplyPreset(cfg *Config, preset DifficultyPreset) {
	switch preset {
	case DifficultyEasy:
		cfg.Rules.Lives = engine.MaxLives
		cfg.Rules.HintThreshold = 2.5
		cfg.Rules.SlowFactor = 0.6
	case DifficultyHard:
		cfg.Rules.Lives = 2
		cfg.Rules.ExtraLifeLives = 1
		cfg.Rules.HintThreshold = 1.0
		cfg.Rules.SlowTimerQuestions = 2
	}
}
