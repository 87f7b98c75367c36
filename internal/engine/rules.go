package engine

// Upper bounds on the tunable counts.
const (
	MaxLives              = 3
	MaxSlowTimerQuestions = 3
)

// Rules holds the round tuning. DefaultRules matches the shipped game.
type Rules struct {
	Lives              int     // Lives at the start of a round
	ExtraLifeLives     int     // Lives granted by a continuation
	HintThreshold      float64 // Seconds remaining at which an auto-hint fires
	SlowFactor         float64 // Fraction of dt consumed while the slow timer is active
	SlowTimerQuestions int     // Questions a slow timer lasts
}

// DefaultRules returns the standard round rules.
func DefaultRules() Rules {
	return Rules{
		Lives:              3,
		ExtraLifeLives:     1,
		HintThreshold:      2.0,
		SlowFactor:         0.8,
		SlowTimerQuestions: 3,
	}
}

// withDefaults fills zero fields from DefaultRules.
func (r Rules) withDefaults() Rules {
	d := DefaultRules()
	if r.Lives <= 0 || r.Lives > MaxLives {
		r.Lives = d.Lives
	}
	if r.ExtraLifeLives <= 0 || r.ExtraLifeLives > r.Lives {
		r.ExtraLifeLives = d.ExtraLifeLives
	}
	if r.HintThreshold <= 0 {
		r.HintThreshold = d.HintThreshold
	}
	if r.SlowFactor <= 0 || r.SlowFactor > 1 {
		r.SlowFactor = d.SlowFactor
	}
	if r.SlowTimerQuestions <= 0 || r.SlowTimerQuestions > MaxSlowTimerQuestions {
		r.SlowTimerQuestions = d.SlowTimerQuestions
	}
	return r
}
