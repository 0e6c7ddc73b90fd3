package srs

import (
	"time"

	"github.com/parlato/parlato-api/internal/domain"
)

// newEaseFactor applies the outcome's adjustment to the current ease
// factor, clamped to the configured limits.
func newEaseFactor(currentEF float64, outcome Outcome, params *Params) float64 {
	newEF := currentEF + params.EaseFactorAdjustment[outcome]

	if newEF < params.MinEaseFactor {
		newEF = params.MinEaseFactor
	}
	if newEF > params.MaxEaseFactor {
		newEF = params.MaxEaseFactor
	}

	return newEF
}

// newInterval computes the next review interval in days.
//
// "Again" resets the interval to zero (the question comes back within
// minutes). First reviews use the pre-configured initial intervals.
// After a lapse, "good" recovers with a gentler 1.5 multiplier instead
// of the full ease factor. Otherwise the interval grows by the
// outcome's modifier, with "good" using the ease factor directly and
// "easy" stacking its modifier on top of the ease factor.
func newInterval(
	currentInterval float64,
	repetitions int,
	easeFactor float64,
	outcome Outcome,
	params *Params,
) float64 {
	if outcome == OutcomeAgain {
		return 0
	}

	if currentInterval == 0 {
		return params.FirstReviewIntervals[outcome]
	}

	// Recovering from a lapse
	if repetitions == 0 && outcome == OutcomeGood {
		return currentInterval * 1.5
	}

	var modifier float64
	if outcome == OutcomeGood {
		modifier = easeFactor
	} else {
		modifier = params.IntervalModifier[outcome]
		if outcome == OutcomeEasy {
			modifier *= easeFactor
		}
	}

	return currentInterval * modifier
}

// nextReviewDate converts the interval into the next due time. "Again"
// outcomes are due in minutes rather than days.
func nextReviewDate(intervalDays float64, outcome Outcome, now time.Time, params *Params) time.Time {
	if outcome == OutcomeAgain {
		return now.Add(time.Duration(params.AgainReviewMinutes) * time.Minute)
	}

	return now.Add(time.Duration(intervalDays * float64(24*time.Hour)))
}

// nextState computes the schedule state following one graded attempt.
// The prior state is never mutated; a fresh state is returned.
func nextState(prior domain.ScheduleState, outcome Outcome, now time.Time, params *Params) domain.ScheduleState {
	next := domain.ScheduleState{
		EaseFactor: newEaseFactor(prior.EaseFactor, outcome, params),
	}

	if outcome == OutcomeAgain {
		next.Repetitions = 0
	} else {
		next.Repetitions = prior.Repetitions + 1
	}

	next.IntervalDays = newInterval(
		prior.IntervalDays,
		prior.Repetitions,
		next.EaseFactor,
		outcome,
		params,
	)

	next.NextReviewDue = nextReviewDate(next.IntervalDays, outcome, now, params)

	// Stability tracks the achieved interval; difficulty is the ease
	// factor's position within its limits, inverted so harder
	// questions score higher.
	next.Stability = next.IntervalDays
	efRange := params.MaxEaseFactor - params.MinEaseFactor
	if efRange > 0 {
		next.Difficulty = (params.MaxEaseFactor - next.EaseFactor) / efRange
	}

	return next
}
