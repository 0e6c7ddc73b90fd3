// Package mastery estimates per-skill mastery with a Bayesian
// knowledge tracing update. Each skill tag carries one probability in
// [0, 1] that the user has mastered the skill; every attempt touching
// the skill nudges that probability through a posterior-plus-learning
// step.
package mastery

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/parlato/parlato-api/internal/store"
)

// Knowledge tracing parameters. Conventional BKT naming: pInit is the
// prior for an unseen skill, pLearn the per-opportunity transition
// probability, pSlip the chance of a wrong answer despite mastery, and
// pGuess the chance of a right answer without it.
const (
	pInit  = 0.2
	pLearn = 0.15
	pSlip  = 0.1
	pGuess = 0.25
)

// Updater revises skill mastery estimates from attempt evidence.
type Updater interface {
	// UpdateMastery applies one observation (correct or not) to the
	// user's mastery of a skill tag and returns the new probability.
	UpdateMastery(ctx context.Context, userID uuid.UUID, skillTag string, correct bool) (float64, error)
}

// Verify interface compliance at compile time
var _ Updater = (*bktUpdater)(nil)

type bktUpdater struct {
	masteries store.MasteryStore
}

// NewUpdater creates an Updater backed by the given mastery store.
func NewUpdater(masteries store.MasteryStore) Updater {
	if masteries == nil {
		panic("masteries cannot be nil")
	}
	return &bktUpdater{masteries: masteries}
}

// UpdateMastery implements Updater.
func (u *bktUpdater) UpdateMastery(
	ctx context.Context,
	userID uuid.UUID,
	skillTag string,
	correct bool,
) (float64, error) {
	if skillTag == "" {
		return 0, errors.New("skill tag cannot be empty")
	}

	prior, err := u.masteries.GetMastery(ctx, userID, skillTag)
	switch {
	case errors.Is(err, store.ErrMasteryNotFound):
		prior = pInit
	case err != nil:
		return 0, fmt.Errorf("failed to load mastery: %w", err)
	}

	next := Step(prior, correct)

	if err := u.masteries.UpsertMastery(ctx, userID, skillTag, next); err != nil {
		return 0, fmt.Errorf("failed to store mastery: %w", err)
	}

	return next, nil
}

// Step performs one knowledge tracing update: condition the prior on
// the observation, then apply the learning transition. The result is
// always within [0, 1].
func Step(prior float64, correct bool) float64 {
	if prior < 0 {
		prior = 0
	}
	if prior > 1 {
		prior = 1
	}

	var posterior float64
	if correct {
		num := prior * (1 - pSlip)
		den := num + (1-prior)*pGuess
		posterior = safeDivide(num, den, prior)
	} else {
		num := prior * pSlip
		den := num + (1-prior)*(1-pGuess)
		posterior = safeDivide(num, den, prior)
	}

	next := posterior + (1-posterior)*pLearn
	if next > 1 {
		next = 1
	}
	if next < 0 {
		next = 0
	}
	return next
}

func safeDivide(num, den, fallback float64) float64 {
	if den == 0 {
		return fallback
	}
	return num / den
}
