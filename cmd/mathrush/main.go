// mathrush is a timed mental-arithmetic quiz for the terminal.
//
// Usage:
//
//	mathrush play            - Play a round
//	mathrush scores          - Show high scores
//	mathrush serve           - Start SSH server for remote play
//	mathrush shop list       - Show the power-up shop
//	mathrush shop buy <id>   - Buy a product
//	mathrush streak          - Show your weekly play streak
//
// Global flags:
//
//	--seed <value>    - Set RNG seed for reproducible questions
//	--db <path>       - Set database path (default: ~/.mathrush/mathrush.db)
//	--config <path>   - Use a custom config file
//	--player <name>   - Player profile to use (default: local)
//	--redis <addr>    - Global leaderboard Redis address
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/mathrush/internal/config"
	"github.com/vovakirdan/mathrush/internal/leaderboard"
	"github.com/vovakirdan/mathrush/internal/platform/tui"
	"github.com/vovakirdan/mathrush/internal/storage"
)

var (
	// Global flags
	flagSeed       int64
	flagDBPath     string
	flagConfig     string
	flagPlayer     string
	flagRedis      string
	flagDifficulty string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "mathrush",
	Short: "Math Rush - race the clock with mental arithmetic",
	Long: `Math Rush is a timed arithmetic quiz. Pick the right answer out of
three before the clock runs out; questions get harder as your score grows.

Available commands:
  play     - Play a round
  scores   - View high scores
  serve    - Start SSH server for remote play
  shop     - Buy hints and slow timers
  streak   - Show your weekly play streak

Examples:
  mathrush play
  mathrush play --difficulty easy
  mathrush scores --global --redis localhost:6379
  mathrush serve --ssh :2222
  mathrush shop buy hints_5`,
	SilenceUsage: true,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.mathrush/mathrush.db", "Path to the database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom config YAML")
	rootCmd.PersistentFlags().StringVar(&flagPlayer, "player", storage.DefaultPlayer, "Player profile")
	rootCmd.PersistentFlags().StringVar(&flagRedis, "redis", "", "Redis address for the global leaderboard (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard")

	// Add subcommands
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(shopCmd)
	rootCmd.AddCommand(streakCmd)
}

// newLogger returns the CLI logger.
func newLogger() *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "mathrush",
	})
}

// loadConfig loads the config file and applies the difficulty and Redis flags.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, err
	}

	preset, err := config.ParsePreset(flagDifficulty)
	if err != nil {
		return cfg, err
	}
	config.ApplyPreset(&cfg, preset)

	if flagRedis != "" {
		cfg.Leaderboard.RedisAddr = flagRedis
	}
	return cfg, cfg.Validate()
}

// openGlobal connects to the global leaderboard, or returns nil if none is configured.
func openGlobal(cfg config.LeaderboardConfig) (*leaderboard.Redis, func(), error) {
	if cfg.RedisAddr == "" {
		return nil, func() {}, nil
	}

	client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, func() {}, fmt.Errorf("cannot reach redis at %s: %w", cfg.RedisAddr, err)
	}

	//nolint:errcheck // Best-effort close on exit
	return leaderboard.NewRedis(client, cfg.Key), func() { client.Close() }, nil
}

// openServices opens every backend. Storage and Redis failures are warnings:
// the game still works without them.
func openServices(logger *log.Logger) (tui.Services, func(), error) {
	cfg, err := loadConfig()
	if err != nil {
		return tui.Services{}, nil, err
	}

	svc := tui.Services{Config: cfg, Logger: logger, Seed: flagSeed}
	var closers []func()

	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open database, progress will not be saved", "err", err)
	} else {
		svc.Store = store
		//nolint:errcheck // Best-effort close on exit
		closers = append(closers, func() { store.Close() })
	}

	global, closeGlobal, err := openGlobal(cfg.Leaderboard)
	if err != nil {
		logger.Warn("global leaderboard disabled", "err", err)
	}
	svc.Global = global
	closers = append(closers, closeGlobal)

	return svc, func() {
		for _, c := range closers {
			c()
		}
	}, nil
}
