package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/vovakirdan/mathrush/internal/engine"
)

func TestEmbeddedDefaultsMatchHardcoded(t *testing.T) {
	cfg, err := Parse(DefaultYAML())
	if err != nil {
		t.Fatalf("Parse(embedded) failed: %v", err)
	}

	def := Default()
	if cfg.Rules != def.Rules || cfg.Clock != def.Clock || cfg.Inventory != def.Inventory {
		t.Errorf("Embedded config %+v differs from Default() %+v", cfg, def)
	}
	if len(cfg.Shop.Products) != len(def.Shop.Products) {
		t.Errorf("Expected %d products, got %d", len(def.Shop.Products), len(cfg.Shop.Products))
	}
	if cfg.EngineRules() != engine.DefaultRules() {
		t.Errorf("EngineRules() = %+v; expected engine defaults", cfg.EngineRules())
	}
}

func TestLoadCustomPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	data := []byte("rules:\n  lives: 2\nclock:\n  tick_interval: 50ms\nleaderboard:\n  redis_addr: localhost:6379\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Rules.Lives != 2 {
		t.Errorf("Expected lives 2, got %d", cfg.Rules.Lives)
	}
	if cfg.Clock.TickInterval != 50*time.Millisecond {
		t.Errorf("Expected 50ms tick, got %v", cfg.Clock.TickInterval)
	}
	// Unset fields keep their defaults.
	if cfg.Rules.SlowFactor != 0.8 || cfg.Leaderboard.Key != "mathrush:leaderboard" {
		t.Errorf("Defaults not preserved: %+v", cfg)
	}
	if cfg.Leaderboard.RedisAddr != "localhost:6379" {
		t.Errorf("Expected redis addr, got %q", cfg.Leaderboard.RedisAddr)
	}
}

func TestLoadMissingCustomPath(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Expected error for missing custom config")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"zero lives", func(c *Config) { c.Rules.Lives = 0 }},
		{"too many lives", func(c *Config) { c.Rules.Lives = 5 }},
		{"zero extra life", func(c *Config) { c.Rules.ExtraLifeLives = 0 }},
		{"extra life above lives", func(c *Config) { c.Rules.Lives, c.Rules.ExtraLifeLives = 1, 2 }},
		{"negative hint threshold", func(c *Config) { c.Rules.HintThreshold = -1 }},
		{"slow factor above one", func(c *Config) { c.Rules.SlowFactor = 1.5 }},
		{"zero slow questions", func(c *Config) { c.Rules.SlowTimerQuestions = 0 }},
		{"too many slow questions", func(c *Config) { c.Rules.SlowTimerQuestions = 4 }},
		{"zero tick", func(c *Config) { c.Clock.TickInterval = 0 }},
		{"negative inventory", func(c *Config) { c.Inventory.StartingHints = -1 }},
		{"duplicate product", func(c *Config) { c.Shop.Products = append(c.Shop.Products, c.Shop.Products[0]) }},
	}

	if err := Default().Validate(); err != nil {
		t.Fatalf("Default() should be valid: %v", err)
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(&cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalid) {
				t.Errorf("Validate() = %v; expected ErrInvalid", err)
			}
		})
	}
}

func TestSeedInventoryOnce(t *testing.T) {
	cfg := Default()
	store := engine.NewMemoryStore()

	seeded, err := cfg.SeedInventory(store)
	if err != nil || !seeded {
		t.Fatalf("SeedInventory() = %v, %v; expected true, nil", seeded, err)
	}

	store.Set(engine.KeyHints, 0)
	seeded, err = cfg.SeedInventory(store)
	if err != nil || seeded {
		t.Errorf("Second SeedInventory() = %v, %v; expected false, nil", seeded, err)
	}
	if v, _ := store.Get(engine.KeyHints); v != 0 {
		t.Errorf("Spent hints were regranted: %d", v)
	}
	if v, _ := store.Get(engine.KeySlowTimers); v != cfg.Inventory.StartingSlowTimers {
		t.Errorf("Expected %d slow timers, got %d", cfg.Inventory.StartingSlowTimers, v)
	}
}

// lockedStore fails every read, like a database held by another process.
type lockedStore struct {
	*engine.MemoryStore
}

func (lockedStore) Lookup(string) (int, bool, error) {
	return 0, false, errors.New("database is locked")
}

func TestSeedInventorySkipsUnreadableStore(t *testing.T) {
	mem := engine.NewMemoryStore()
	mem.Set(engine.KeyHints, 20)

	seeded, err := Default().SeedInventory(lockedStore{mem})
	if err == nil || seeded {
		t.Fatalf("SeedInventory() = %v, %v; expected false and an error", seeded, err)
	}
	if v, _ := mem.Get(engine.KeyHints); v != 20 {
		t.Errorf("Purchased hints overwritten: %d", v)
	}
	if _, ok := mem.Get(engine.KeySlowTimers); ok {
		t.Error("Slow timers written despite the failed read")
	}
}

func TestApplyPreset(t *testing.T) {
	tests := []struct {
		name  string
		lives int
	}{
		{"easy", 3},
		{"normal", 3},
		{"", 3},
		{"hard", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			preset, err := ParsePreset(tt.name)
			if err != nil {
				t.Fatalf("ParsePreset(%q) failed: %v", tt.name, err)
			}
			cfg := Default()
			ApplyPreset(&cfg, preset)
			if cfg.Rules.Lives != tt.lives {
				t.Errorf("Expected %d lives, got %d", tt.lives, cfg.Rules.Lives)
			}
			if err := cfg.Validate(); err != nil {
				t.Errorf("Preset produced invalid config: %v", err)
			}
		})
	}

	if _, err := ParsePreset("nightmare"); !errors.Is(err, ErrInvalid) {
		t.Errorf("Expected ErrInvalid for unknown preset, got %v", err)
	}
}
