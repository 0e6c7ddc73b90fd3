package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/parlato/parlato-api/internal/api"
	apiMiddleware "github.com/parlato/parlato-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all
// routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	answerHandler := api.NewAnswerHandler(app.answerService, app.logger)
	attemptHandler := api.NewAttemptHandler(app.attemptService, app.logger)
	xpHandler := api.NewXpHandler(app.accountant, app.logger)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.config.Auth.JWTSecret)

	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			// Answer validation endpoints
			r.Post("/questions/{id}/validate", answerHandler.ValidateAnswer)
			r.Post("/questions/{id}/pronunciation", answerHandler.ValidatePronunciation)

			// Progress recording endpoints
			r.Post("/questions/{id}/attempt", attemptHandler.RecordAttempt)
			r.Get("/reviews/due", attemptHandler.GetDueReviews)

			// XP endpoints
			r.Get("/xp/summary", xpHandler.GetXpSummary)
		})
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
