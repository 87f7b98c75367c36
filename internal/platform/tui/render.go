package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/mathrush/internal/engine"
)

const timerBarWidth = 30

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("229"))
	questionStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(1, 4).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("57"))
	optionStyle = lipgloss.NewStyle().
			Padding(0, 2).
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	livesStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	activeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true)
	bestStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Italic(true)

	timerColors = []struct {
		above float64
		color lipgloss.Color
	}{
		{0.5, lipgloss.Color("10")},
		{0.25, lipgloss.Color("11")},
		{0, lipgloss.Color("9")},
	}
)

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	s := m.engine.State()

	var body string
	switch s.Phase {
	case engine.PhaseIdle:
		body = m.renderIdle(s)
	case engine.PhasePlaying:
		body = m.renderPlaying(s)
	case engine.PhaseGameOver:
		body = m.renderGameOver(s)
	}

	var b strings.Builder
	b.WriteString(body)
	if m.status != "" {
		b.WriteString("\n\n")
		b.WriteString(statusStyle.Render(m.status))
	}
	b.WriteString("\n\n")
	b.WriteString(dimStyle.Render(m.help.View(m.keys)))

	if m.width > 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, b.String())
	}
	return b.String()
}

func (m Model) renderIdle(s engine.State) string {
	lines := []string{
		titleStyle.Render("M A T H   R U S H"),
		"",
		"Answer before the clock runs out.",
		fmt.Sprintf("Best: %d", s.BestScore),
		fmt.Sprintf("Hints: %d   Slow timers: %d", s.HintsAvailable, s.SlowTimersAvailable),
	}
	if m.streak != nil {
		if st := m.streak.Status(); st.Active {
			lines = append(lines, fmt.Sprintf("Weekly streak: %d (best %d)", st.Weeks, st.Best))
		}
	}
	lines = append(lines, "", dimStyle.Render("press enter to start"))
	return strings.Join(lines, "\n")
}

func (m Model) renderPlaying(s engine.State) string {
	header := fmt.Sprintf("Score %d   Best %d   %s   Level %d",
		s.Score, s.BestScore, renderLives(s.Lives), s.Level+1)

	options := s.Question.Options()
	boxes := make([]string, len(options))
	for i, v := range options {
		boxes[i] = optionStyle.Render(fmt.Sprintf("[%d] %d", i+1, v))
	}

	return lipgloss.JoinVertical(lipgloss.Center,
		header,
		"",
		renderTimer(s),
		"",
		questionStyle.Render(s.Question.Text()+" = ?"),
		"",
		lipgloss.JoinHorizontal(lipgloss.Top, boxes...),
		"",
		renderInventory(s),
	)
}

func (m Model) renderGameOver(s engine.State) string {
	lines := []string{
		titleStyle.Render("GAME OVER"),
		"",
		fmt.Sprintf("Score: %d", s.Score),
		fmt.Sprintf("Best:  %d", s.BestScore),
	}
	if s.AchievedNewBestThisSession {
		lines = append(lines, bestStyle.Render("NEW BEST!"))
	}
	lines = append(lines, "")
	if s.CanContinue() {
		lines = append(lines, "c  watch an ad for an extra life")
	}
	lines = append(lines, "r  play again", "q  quit")
	return strings.Join(lines, "\n")
}

func renderLives(lives int) string {
	if lives <= 0 {
		return dimStyle.Render("no lives")
	}
	return livesStyle.Render(strings.Repeat("♥", lives))
}

// renderTimer draws the remaining question time as a bar.
func renderTimer(s engine.State) string {
	frac := s.TimeFraction()
	filled := int(frac*timerBarWidth + 0.5)
	filled = max(0, min(timerBarWidth, filled))

	color := timerColors[len(timerColors)-1].color
	for _, c := range timerColors {
		if frac > c.above {
			color = c.color
			break
		}
	}

	bar := lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("█", filled)) +
		dimStyle.Render(strings.Repeat("░", timerBarWidth-filled))
	return fmt.Sprintf("%s %4.1fs", bar, s.TimeRemaining)
}

func renderInventory(s engine.State) string {
	hints := fmt.Sprintf("Hints %d", s.HintsAvailable)
	if s.HintUsedThisQuestion {
		hints = activeStyle.Render(hints + " (used)")
	}

	slow := fmt.Sprintf("Slow timers %d", s.SlowTimersAvailable)
	if s.SlowTimerActive {
		slow = activeStyle.Render(fmt.Sprintf("%s (active, %d left)", slow, s.SlowTimerQuestionsRemaining))
	}
	return hints + "   " + slow
}
