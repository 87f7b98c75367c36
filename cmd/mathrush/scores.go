package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/mathrush/internal/platform/tui"
	"github.com/vovakirdan/mathrush/internal/storage"
)

var (
	flagGlobal      bool
	flagInteractive bool
	flagLimit       int
)

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show high scores",
	Long: `Display the top high scores.

By default the local scores from the database are printed. With --global
the Redis leaderboard (one best score per player) is shown instead.
--interactive opens a scoreboard where tab switches between boards.

Examples:
  mathrush scores
  mathrush scores --limit 20
  mathrush scores --global --redis localhost:6379
  mathrush scores --interactive`,
	Args: cobra.NoArgs,
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().BoolVar(&flagGlobal, "global", false, "Show the global Redis leaderboard")
	scoresCmd.Flags().BoolVarP(&flagInteractive, "interactive", "i", false, "Open the interactive scoreboard")
	scoresCmd.Flags().IntVarP(&flagLimit, "limit", "n", 10, "Number of scores to show")
}

func runScores(_ *cobra.Command, _ []string) error {
	logger := newLogger()

	svc, closeAll, err := openServices(logger)
	if err != nil {
		return err
	}
	defer closeAll()

	var sources []tui.ScoreSource
	if svc.Store != nil {
		sources = append(sources, tui.LocalScores(svc.Store))
	}
	if svc.Global != nil {
		sources = append(sources, tui.GlobalScores(svc.Global))
	}

	if flagInteractive {
		width, height := 80, 24 // Defaults
		if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
			width, height = w, h
		}
		return tui.RunScoreboard(sources, width, height)
	}

	var src tui.ScoreSource
	switch {
	case flagGlobal && svc.Global == nil:
		return fmt.Errorf("no global leaderboard configured (use --redis)")
	case flagGlobal:
		src = tui.GlobalScores(svc.Global)
	case svc.Store == nil:
		return fmt.Errorf("no scores database available")
	default:
		src = tui.LocalScores(svc.Store)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	rows, err := src.Load(ctx, flagLimit)
	if err != nil {
		return fmt.Errorf("cannot retrieve scores: %w", err)
	}

	fmt.Printf("High Scores - %s\n", src.Title)
	fmt.Println()

	if len(rows) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Println("Play 'mathrush play' to set the first high score!")
		return nil
	}

	fmt.Printf("  %-4s  %-16s  %-6s  %s\n", "Rank", "Player", "Score", "Date")
	fmt.Printf("  %-4s  %-16s  %-6s  %s\n", "----", "------", "-----", "----")
	for i, r := range rows {
		date := "-"
		if !r.When.IsZero() {
			date = r.When.Format("2006-01-02 15:04")
		}
		fmt.Printf("  %-4d  %-16s  %-6d  %s\n", i+1, r.Player, r.Score, date)
	}

	if svc.Store != nil && !flagGlobal {
		printPlayerStats(svc.Store, flagPlayer)
	}
	return nil
}

func printPlayerStats(store *storage.Store, player string) {
	stats, err := store.GetPlayerStats(player)
	if err != nil || stats.GamesCount == 0 {
		return
	}

	fmt.Println()
	fmt.Printf("%s: %d rounds, best %d, average %.1f, last played %s\n",
		stats.Player, stats.GamesCount, stats.HighScore, stats.AvgScore,
		stats.LastPlayed.Format("2006-01-02"))
}
