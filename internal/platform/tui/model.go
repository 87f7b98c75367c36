package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/mathrush/internal/engine"
	"github.com/vovakirdan/mathrush/internal/leaderboard"
	"github.com/vovakirdan/mathrush/internal/shop"
	"github.com/vovakirdan/mathrush/internal/streak"
)

// reportTimeout bounds a single leaderboard submission.
const reportTimeout = 5 * time.Second

// Options configures a Model.
type Options struct {
	Engine       *engine.Engine
	Reporter     *leaderboard.Reporter // May be nil
	Shop         shop.Monetization     // May be nil; continuing and ads are then free
	Streak       *streak.Tracker       // May be nil
	Logger       *log.Logger           // May be nil
	TickInterval time.Duration
	Player       string
}

// Model is the Bubble Tea model hosting one player's rounds.
type Model struct {
	engine   *engine.Engine
	reporter *leaderboard.Reporter
	shop     shop.Monetization
	streak   *streak.Tracker
	logger   *log.Logger
	interval time.Duration
	player   string

	keys      KeyMap
	help      help.Model
	width     int
	height    int
	status    string // Feedback for the last action
	waitingAd bool   // An ad is on screen; input is ignored
	quitting  bool
}

// Messages produced by the model's own commands.
type (
	rewardedAdMsg       struct{ watched bool }
	interstitialDoneMsg struct{}
	scoreReportedMsg    struct {
		score int
		sent  bool
		err   error
	}
)

// NewModel creates a model around an engine.
func NewModel(opts Options) Model {
	if opts.TickInterval <= 0 {
		opts.TickInterval = 100 * time.Millisecond
	}

	h := help.New()
	h.ShowAll = false

	return Model{
		engine:   opts.Engine,
		reporter: opts.Reporter,
		shop:     opts.Shop,
		streak:   opts.Streak,
		logger:   opts.Logger,
		interval: opts.TickInterval,
		player:   opts.Player,
		keys:     DefaultKeyMap(),
		help:     h,
	}
}

// Init waits for the player to start a round.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		return m.handleTick(msg)

	case rewardedAdMsg:
		m.waitingAd = false
		if !msg.watched {
			m.status = "Ad skipped, no extra life"
			return m, nil
		}
		return m.apply(m.engine.ContinueWithExtraLife())

	case interstitialDoneMsg:
		m.waitingAd = false
		return m.apply(m.engine.Start())

	case scoreReportedMsg:
		m.logReport(msg)
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		m.quitting = true
		return m, tea.Sequence(m.finishCmd(), tea.Quit)
	}
	if m.waitingAd {
		return m, nil
	}

	switch m.engine.Phase() {
	case engine.PhaseIdle:
		if key.Matches(msg, m.keys.Start) {
			return m.apply(m.engine.Start())
		}

	case engine.PhasePlaying:
		if i := m.keys.optionIndex(msg); i >= 0 {
			opts := m.engine.State().Question.Options()
			if i < len(opts) {
				return m.apply(m.engine.Answer(opts[i]))
			}
			return m, nil
		}
		if key.Matches(msg, m.keys.SlowTimer) {
			events := m.engine.ActivateSlowTimer()
			if events == nil {
				m.status = "No slow timer available"
				return m, nil
			}
			return m.apply(events)
		}

	case engine.PhaseGameOver:
		switch {
		case key.Matches(msg, m.keys.Continue):
			if !m.engine.State().CanContinue() {
				m.status = "Extra life already used this round"
				return m, nil
			}
			m.waitingAd = true
			m.status = "Watching ad..."
			return m, m.rewardedAdCmd()

		case key.Matches(msg, m.keys.Restart), key.Matches(msg, m.keys.Start):
			m.waitingAd = true
			return m, tea.Sequence(m.finishCmd(), m.interstitialCmd())
		}
	}

	return m, nil
}

// handleTick advances the countdown. Ticks from an earlier question or
// outside a round are dropped and end their chain.
func (m Model) handleTick(msg TickMsg) (tea.Model, tea.Cmd) {
	if m.engine.Phase() != engine.PhasePlaying || msg.Gen != m.engine.Generation() {
		return m, nil
	}

	m.setStatus(m.engine.Tick(m.interval.Seconds()))

	var cmds []tea.Cmd
	if s := m.engine.State(); s.Phase == engine.PhasePlaying {
		// A timeout loads a new question, whose chain starts here.
		cmds = append(cmds, tickCmd(m.interval, s.Generation))
	}
	cmds = append(cmds, m.observeCmd())
	return m, tea.Batch(cmds...)
}

// apply records feedback for events produced by a key action and restarts
// the clock if a new question became current.
func (m Model) apply(events []engine.Event) (tea.Model, tea.Cmd) {
	m.setStatus(events)

	var cmds []tea.Cmd
	if engine.Has(events, engine.EventQuestion) && m.engine.Phase() == engine.PhasePlaying {
		cmds = append(cmds, tickCmd(m.interval, m.engine.Generation()))
	}
	cmds = append(cmds, m.observeCmd())
	return m, tea.Batch(cmds...)
}

// observeCmd submits the score once a round can no longer be continued.
func (m Model) observeCmd() tea.Cmd {
	s := m.engine.State()
	if m.reporter == nil || s.Phase != engine.PhaseGameOver || !s.HasUsedExtraLife {
		return nil
	}
	return m.reportCmd(s, m.reporter.Observe)
}

// finishCmd submits the score of a finished round the player is leaving.
func (m Model) finishCmd() tea.Cmd {
	s := m.engine.State()
	if m.reporter == nil || s.Phase != engine.PhaseGameOver {
		return nil
	}
	return m.reportCmd(s, m.reporter.Finish)
}

func (m Model) reportCmd(s engine.State, report func(context.Context, engine.State) (bool, error)) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), reportTimeout)
		defer cancel()

		sent, err := report(ctx, s)
		return scoreReportedMsg{score: s.Score, sent: sent, err: err}
	}
}

func (m Model) rewardedAdCmd() tea.Cmd {
	mon := m.shop
	return func() tea.Msg {
		if mon == nil {
			return rewardedAdMsg{watched: true}
		}
		return rewardedAdMsg{watched: mon.ShowRewardedAd(context.Background())}
	}
}

func (m Model) interstitialCmd() tea.Cmd {
	mon := m.shop
	return func() tea.Msg {
		if mon == nil {
			return interstitialDoneMsg{}
		}
		done := make(chan struct{})
		mon.ShowInterstitialAd(func() { close(done) })
		<-done
		return interstitialDoneMsg{}
	}
}

func (m Model) logReport(msg scoreReportedMsg) {
	if m.logger == nil {
		return
	}
	switch {
	case msg.err != nil:
		m.logger.Warn("score submission failed", "player", m.player, "score", msg.score, "err", msg.err)
	case msg.sent:
		m.logger.Info("score submitted", "player", m.player, "score", msg.score)
	}
}

// setStatus turns engine events into a feedback line.
func (m *Model) setStatus(events []engine.Event) {
	var parts []string
	for _, ev := range events {
		switch ev.Kind {
		case engine.EventStarted:
			parts = append(parts, "Go!")
		case engine.EventCorrect:
			parts = append(parts, "Correct!")
		case engine.EventWrong:
			parts = append(parts, fmt.Sprintf("Wrong! %s = %d", ev.Question.Text(), ev.Question.Answer()))
		case engine.EventTimeUp:
			parts = append(parts, fmt.Sprintf("Time's up! %s = %d", ev.Question.Text(), ev.Question.Answer()))
		case engine.EventNewBest:
			parts = append(parts, "New best!")
		case engine.EventHintUsed:
			parts = append(parts, "Hint: one wrong answer removed")
		case engine.EventSlowTimerStarted:
			parts = append(parts, "Slow timer on")
		case engine.EventSlowTimerExpired:
			parts = append(parts, "Slow timer ran out")
		case engine.EventRevived:
			parts = append(parts, "Extra life!")
		case engine.EventGameOver:
			parts = append(parts, "Game over")
		}
	}
	if len(parts) > 0 {
		m.status = strings.Join(parts, "  ")
	}
}

// State returns the hosted engine's state.
func (m Model) State() engine.State {
	return m.engine.State()
}

// WithSize returns the model laid out for a width x height terminal.
func (m Model) WithSize(width, height int) Model {
	m.width = width
	m.height = height
	m.help.Width = width
	return m
}

// Run starts the Bubble Tea program with the given model.
func Run(m Model) error {
	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
