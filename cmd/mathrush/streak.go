package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/mathrush/internal/streak"
)

var streakCmd = &cobra.Command{
	Use:   "streak",
	Short: "Show your weekly play streak",
	Long: `Show how many consecutive weeks the current player has played.

A week counts once any round is started in it; skipping a whole week
resets the streak.`,
	Args: cobra.NoArgs,
	RunE: runStreak,
}

func runStreak(_ *cobra.Command, _ []string) error {
	svc, closeAll, err := openServices(newLogger())
	if err != nil {
		return err
	}
	defer closeAll()

	st := streak.New(svc.PlayerStore(flagPlayer), nil).Status()

	switch {
	case st.LastWeek == 0:
		fmt.Println("No rounds played yet. Run 'mathrush play' to start a streak!")
	case st.Active:
		fmt.Printf("Current streak: %d week(s). Best: %d.\n", st.Weeks, st.Best)
	default:
		fmt.Printf("Your streak has lapsed. Best: %d week(s).\n", st.Best)
	}
	return nil
}
