package quiz

import "slices"

// Difficulty and operand tuning.
const (
	MaxLevel      = 4 // Highest difficulty level
	PointsPerStep = 5 // Score needed per difficulty step

	baseRangeStart     = 10 // Add/subtract operand range at level 0
	baseRangeStep      = 5  // Range growth per level
	multiplyRangeStart = 5  // Multiply operand range at level 0
	multiplyRangeStep  = 2  // Range growth per level
	divideFromLevel    = 2  // First level where division appears

	minDivisor  = 2
	maxDivisor  = 10
	minQuotient = 2
	maxQuotient = 15

	optionCount        = 3   // Total options including the answer
	distractorSpread   = 10  // Distractors are answer±spread
	maxDistractorDraws = 200 // Bounded retries before falling back
)

// Starting time budget per question and how it shrinks with difficulty.
const (
	BaseTimeBudget = 5.0
	TimeBudgetStep = 0.3
	MinTimeBudget  = 3.0
)

// DifficultyLevel returns the level for a score: min(score/5, 4).
func DifficultyLevel(score int) int {
	if score < 0 {
		return 0
	}
	return min(score/PointsPerStep, MaxLevel)
}

// TimeBudget returns the seconds allowed per question at the given level.
func TimeBudget(level int) float64 {
	return max(BaseTimeBudget-TimeBudgetStep*float64(level), MinTimeBudget)
}

// BaseRange returns the add/subtract operand upper bound for a level.
func BaseRange(level int) int {
	return baseRangeStart + baseRangeStep*clampLevel(level)
}

// MultiplyRange returns the multiply operand upper bound for a level.
func MultiplyRange(level int) int {
	return multiplyRangeStart + multiplyRangeStep*clampLevel(level)
}

// Operations returns the operations available at a level, in draw order.
func Operations(level int) []Operation {
	ops := []Operation{OpAdd, OpSubtract, OpMultiply}
	if clampLevel(level) >= divideFromLevel {
		ops = append(ops, OpDivide)
	}
	return ops
}

// Generator produces questions from an injected random source.
// A Generator is not safe for concurrent use; the engine owns one per round.
type Generator struct {
	rng Random
}

// NewGenerator creates a generator drawing from rng.
func NewGenerator(rng Random) *Generator {
	return &Generator{rng: rng}
}

// Generate produces a fresh question for the given difficulty level.
// score is accepted for callers that track it alongside the level; the
// operand ranges depend on level only.
func (g *Generator) Generate(level, score int) Question {
	level = clampLevel(level)

	ops := Operations(level)
	op := ops[g.rng.Intn(len(ops))]

	var a, b, answer int
	switch op {
	case OpAdd:
		a = between(g.rng, 1, BaseRange(level))
		b = between(g.rng, 1, BaseRange(level))
		answer = a + b
	case OpSubtract:
		x := between(g.rng, 1, BaseRange(level))
		y := between(g.rng, 1, BaseRange(level))
		a, b = max(x, y), min(x, y)
		answer = a - b
	case OpMultiply:
		a = between(g.rng, 1, MultiplyRange(level))
		b = between(g.rng, 1, MultiplyRange(level))
		answer = a * b
	case OpDivide:
		divisor := between(g.rng, minDivisor, maxDivisor)
		quotient := between(g.rng, minQuotient, maxQuotient)
		a, b = divisor*quotient, divisor
		answer = quotient
	}

	return NewQuestion(op, a, b, answer, g.options(answer))
}

// options builds the shuffled option set for an answer.
func (g *Generator) options(answer int) []int {
	opts := make([]int, 0, optionCount)
	opts = append(opts, answer)

	for draws := 0; len(opts) < optionCount && draws < maxDistractorDraws; draws++ {
		candidate := answer + between(g.rng, -distractorSpread, distractorSpread)
		if candidate <= 0 || slices.Contains(opts, candidate) {
			continue
		}
		opts = append(opts, candidate)
	}

	// Fallback keeps generation total even for unlucky sources.
	for next := 1; len(opts) < optionCount; next++ {
		if !slices.Contains(opts, next) {
			opts = append(opts, next)
		}
	}

	g.rng.Shuffle(len(opts), func(i, j int) {
		opts[i], opts[j] = opts[j], opts[i]
	})
	return opts
}

func clampLevel(level int) int {
	return max(0, min(level, MaxLevel))
}
