package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/mathrush/internal/platform/tui"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play a round",
	Long: `Start a Math Rush round.

Controls:
  1/2/3      - Pick an answer
  S          - Use a slow timer
  C          - Watch an ad for an extra life (after game over, once per round)
  R/Enter    - Play again (after game over)
  Q/Ctrl+C   - Quit

A hint is used automatically when two seconds remain, removing one
wrong answer.

Difficulty options:
  easy   - 5 lives, earlier hints, stronger slow timers
  normal - Standard rules from config
  hard   - 2 lives, late hints, shorter slow timers

Examples:
  mathrush play
  mathrush play --difficulty hard
  mathrush play --player alice --seed 42
  mathrush play --config ./my-rules.yaml`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func runPlay(_ *cobra.Command, _ []string) error {
	logger := newLogger()

	svc, closeAll, err := openServices(logger)
	if err != nil {
		return err
	}
	defer closeAll()

	model := svc.NewModel(flagPlayer)
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		model = model.WithSize(w, h)
	}

	if err := tui.Run(model); err != nil {
		return fmt.Errorf("game error: %w", err)
	}
	return nil
}
