package engine

import "github.com/vovakirdan/mathrush/internal/quiz"

// EventKind identifies a signal emitted by the engine.
type EventKind int

const (
	EventStarted          EventKind = iota // A new round began
	EventQuestion                          // A new question is current
	EventCorrect                           // Answer matched
	EventWrong                             // Answer did not match
	EventTimeUp                            // Question timer ran out
	EventGameOver                          // Lives reached zero
	EventNewBest                           // Score passed the stored best
	EventHintUsed                          // A wrong option was removed
	EventSlowTimerStarted                  // Slow timer consumed and active
	EventSlowTimerExpired                  // Slow timer ran out of questions
	EventRevived                           // Extra life continuation applied
	EventInventoryChanged                  // Hints or slow timers topped up
)

// String returns a human-readable name for the event kind.
func (k EventKind) String() string {
	switch k {
	case EventStarted:
		return "Started"
	case EventQuestion:
		return "Question"
	case EventCorrect:
		return "Correct"
	case EventWrong:
		return "Wrong"
	case EventTimeUp:
		return "TimeUp"
	case EventGameOver:
		return "GameOver"
	case EventNewBest:
		return "NewBest"
	case EventHintUsed:
		return "HintUsed"
	case EventSlowTimerStarted:
		return "SlowTimerStarted"
	case EventSlowTimerExpired:
		return "SlowTimerExpired"
	case EventRevived:
		return "Revived"
	case EventInventoryChanged:
		return "InventoryChanged"
	default:
		return "Unknown"
	}
}

// Event is one signal produced by an engine operation.
// Hosts use events to trigger sounds, haptics and animations.
type Event struct {
	Kind     EventKind
	Score    int           // Score after the operation
	Lives    int           // Lives after the operation
	Value    int           // Answer given (Correct/Wrong) or option removed (HintUsed)
	Question quiz.Question // Question the event refers to
}

// Has reports whether events contains an event of kind k.
func Has(events []Event, k EventKind) bool {
	for _, e := range events {
		if e.Kind == k {
			return true
		}
	}
	return false
}
