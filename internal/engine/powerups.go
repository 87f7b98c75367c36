package engine

// PowerUp identifies a consumable the player keeps in inventory.
type PowerUp int

const (
	PowerUpHint      PowerUp = iota // Removes one wrong option
	PowerUpSlowTimer                // Slows the countdown for a few questions
)

// String returns the name of the power-up.
func (p PowerUp) String() string {
	switch p {
	case PowerUpHint:
		return "Hint"
	case PowerUpSlowTimer:
		return "Slow Timer"
	default:
		return "?"
	}
}

// ActivateSlowTimer spends one slow timer. Only valid while playing with
// inventory available and no slow timer already running.
func (e *Engine) ActivateSlowTimer() []Event {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.phase != PhasePlaying || e.slowTimers <= 0 || e.slowActive {
		return nil
	}

	e.slowTimers--
	e.persist(KeySlowTimers, e.slowTimers)
	e.slowActive = true
	e.slowRemaining = e.rules.SlowTimerQuestions

	return []Event{e.event(EventSlowTimerStarted, 0)}
}

// AddHints tops up hint inventory, e.g. after a purchase. Valid in any phase.
func (e *Engine) AddHints(n int) []Event {
	return e.addInventory(PowerUpHint, n)
}

// AddSlowTimers tops up slow-timer inventory. Valid in any phase.
func (e *Engine) AddSlowTimers(n int) []Event {
	return e.addInventory(PowerUpSlowTimer, n)
}

func (e *Engine) addInventory(p PowerUp, n int) []Event {
	if n <= 0 {
		return nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	switch p {
	case PowerUpHint:
		e.hints += n
		e.persist(KeyHints, e.hints)
	case PowerUpSlowTimer:
		e.slowTimers += n
		e.persist(KeySlowTimers, e.slowTimers)
	default:
		return nil
	}
	return []Event{e.event(EventInventoryChanged, n)}
}

// applyHint removes the first wrong option from the current question.
// It is only reached from Tick once the hint threshold is crossed, and
// silently does nothing when a hint was already used this question, the
// inventory is empty, or only two options remain.
func (e *Engine) applyHint(events []Event) []Event {
	if e.hintUsed || e.hints <= 0 || e.question.OptionCount() <= 2 {
		return events
	}

	wrong, ok := e.question.FirstWrongOption()
	if !ok {
		return events
	}

	e.question = e.question.WithoutOption(wrong)
	e.hints--
	e.persist(KeyHints, e.hints)
	e.hintUsed = true

	return append(events, e.event(EventHintUsed, wrong))
}
