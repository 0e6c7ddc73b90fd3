// Package service provides shared helpers for the service layer.
package service

import (
	"context"
	"log/slog"
)

// BestEffort runs a non-critical side effect, logging and swallowing
// any failure or panic so the caller's primary result is never affected.
// Mastery updates, XP awards, and delivery-method score adjustments all
// go through this single executor so the isolation policy is enforced
// in one place rather than per call site.
//
// The unit of work receives a context detached from the caller's
// cancellation: once the primary write has committed, an aborted
// request must not abort the enrichments that follow it.
func BestEffort(ctx context.Context, log *slog.Logger, op string, fn func(context.Context) error) {
	if log == nil {
		log = slog.Default()
	}

	detached := context.WithoutCancel(ctx)

	defer func() {
		if p := recover(); p != nil {
			log.Error("side effect panicked",
				slog.String("op", op),
				slog.Any("panic", p))
		}
	}()

	if err := fn(detached); err != nil {
		log.Warn("side effect failed",
			slog.String("op", op),
			slog.String("error", err.Error()))
	}
}
