// Package tui provides the Bubble Tea host for mathrush.
// It owns the countdown clock, maps keys to engine commands and renders rounds.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg advances the countdown of the question identified by Gen.
type TickMsg struct {
	Gen uint64
}

// tickCmd returns a Bubble Tea command that sends one tick for generation gen.
// Each handled tick schedules the next, so a single chain runs per question.
func tickCmd(interval time.Duration, gen uint64) tea.Cmd {
	return tea.Tick(interval, func(time.Time) tea.Msg {
		return TickMsg{Gen: gen}
	})
}
