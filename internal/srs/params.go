// Package srs implements the spaced-repetition scheduler. It is an
// SM-2 variant: every attempt is graded into a review outcome derived
// from correctness and answer speed, and the outcome drives the ease
// factor and review interval for the question.
package srs

// Outcome grades a single attempt for scheduling purposes.
type Outcome string

const (
	// OutcomeAgain is an incorrect attempt; the question comes back
	// within minutes.
	OutcomeAgain Outcome = "again"
	// OutcomeHard is a correct but slow attempt.
	OutcomeHard Outcome = "hard"
	// OutcomeGood is a correct attempt at ordinary speed.
	OutcomeGood Outcome = "good"
	// OutcomeEasy is a correct and fast attempt.
	OutcomeEasy Outcome = "easy"
)

// Valid reports whether the outcome is one of the defined grades.
func (o Outcome) Valid() bool {
	switch o {
	case OutcomeAgain, OutcomeHard, OutcomeGood, OutcomeEasy:
		return true
	default:
		return false
	}
}

// Params defines all configurable parameters for the scheduling
// algorithm.
type Params struct {
	// Core limits
	MinEaseFactor float64
	MaxEaseFactor float64

	// Adjustments for different review outcomes
	EaseFactorAdjustment map[Outcome]float64
	IntervalModifier     map[Outcome]float64

	// Special case handling
	FirstReviewIntervals map[Outcome]float64
	AgainReviewMinutes   int

	// Speed thresholds for grading correct attempts
	EasyTimeMs int
	GoodTimeMs int
}

// NewDefaultParams creates a new Params instance with default values.
func NewDefaultParams() *Params {
	return &Params{
		MinEaseFactor: 1.3,
		MaxEaseFactor: 2.5,

		EaseFactorAdjustment: map[Outcome]float64{
			OutcomeAgain: -0.20,
			OutcomeHard:  -0.15,
			OutcomeGood:  0.0,
			OutcomeEasy:  0.15,
		},

		IntervalModifier: map[Outcome]float64{
			OutcomeAgain: 0.0, // Reset interval
			OutcomeHard:  1.2, // Slight increase
			OutcomeGood:  1.0, // Use ease factor directly
			OutcomeEasy:  1.3, // Significant increase
		},

		FirstReviewIntervals: map[Outcome]float64{
			OutcomeHard: 1,
			OutcomeGood: 1,
			OutcomeEasy: 2,
		},

		// Review again in 10 minutes
		AgainReviewMinutes: 10,

		EasyTimeMs: 5000,
		GoodTimeMs: 20000,
	}
}

// GradeAttempt derives the review outcome from an attempt's
// correctness and completion time. Incorrect attempts always grade
// "again"; correct attempts grade by speed, with a non-positive
// completion time (timing unknown) defaulting to "good".
func (p *Params) GradeAttempt(correct bool, timeMs int) Outcome {
	if !correct {
		return OutcomeAgain
	}
	switch {
	case timeMs <= 0:
		return OutcomeGood
	case timeMs < p.EasyTimeMs:
		return OutcomeEasy
	case timeMs < p.GoodTimeMs:
		return OutcomeGood
	default:
		return OutcomeHard
	}
}
