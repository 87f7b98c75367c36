// Package quiz generates timed arithmetic questions.
// It contains no UI or storage code so the generator stays pure and testable:
// every draw goes through an injected Random source.
package quiz

import (
	"fmt"
	"slices"
)

// Operation is the arithmetic operation a question asks about.
type Operation int

const (
	OpAdd Operation = iota
	OpSubtract
	OpMultiply
	OpDivide
)

// Symbol returns the operator glyph used in question text.
func (o Operation) Symbol() string {
	switch o {
	case OpAdd:
		return "+"
	case OpSubtract:
		return "-"
	case OpMultiply:
		return "×"
	case OpDivide:
		return "÷"
	default:
		return "?"
	}
}

// String returns a human-readable name for the operation.
func (o Operation) String() string {
	switch o {
	case OpAdd:
		return "Add"
	case OpSubtract:
		return "Subtract"
	case OpMultiply:
		return "Multiply"
	case OpDivide:
		return "Divide"
	default:
		return "Unknown"
	}
}

// Question is an immutable arithmetic problem with a small set of answer options.
// The zero value is an empty question with no options.
type Question struct {
	op      Operation
	a, b    int // Displayed operands, left to right
	answer  int
	options []int
}

// NewQuestion builds a question from its parts.
// The options slice is copied; later changes to it do not affect the question.
func NewQuestion(op Operation, a, b, answer int, options []int) Question {
	return Question{
		op:      op,
		a:       a,
		b:       b,
		answer:  answer,
		options: slices.Clone(options),
	}
}

// Op returns the question's operation.
func (q Question) Op() Operation {
	return q.op
}

// Operands returns the displayed operands in display order.
func (q Question) Operands() (int, int) {
	return q.a, q.b
}

// Text returns the display string, e.g. "12 + 7".
func (q Question) Text() string {
	if len(q.options) == 0 {
		return ""
	}
	return fmt.Sprintf("%d %s %d", q.a, q.op.Symbol(), q.b)
}

// Answer returns the correct answer.
func (q Question) Answer() int {
	return q.answer
}

// Options returns a copy of the answer options in display order.
func (q Question) Options() []int {
	return slices.Clone(q.options)
}

// OptionCount returns how many options are currently offered.
func (q Question) OptionCount() int {
	return len(q.options)
}

// IsZero reports whether q is the zero Question.
func (q Question) IsZero() bool {
	return len(q.options) == 0
}

// WithoutOption returns a copy of q with the first option equal to v removed.
// The correct answer can never be removed; q is returned unchanged in that case.
func (q Question) WithoutOption(v int) Question {
	if v == q.answer {
		return q
	}
	idx := slices.Index(q.options, v)
	if idx < 0 {
		return q
	}
	out := q
	out.options = slices.Delete(slices.Clone(q.options), idx, idx+1)
	return out
}

// FirstWrongOption returns the first option that is not the answer.
func (q Question) FirstWrongOption() (int, bool) {
	for _, v := range q.options {
		if v != q.answer {
			return v, true
		}
	}
	return 0, false
}
