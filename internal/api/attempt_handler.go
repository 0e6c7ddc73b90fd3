package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/parlato/parlato-api/internal/api/shared"
	"github.com/parlato/parlato-api/internal/platform/logger"
	"github.com/parlato/parlato-api/internal/service/attempt"
)

// defaultReviewLimit caps the due-review listing when the client does
// not ask for a specific page size.
const defaultReviewLimit = 50

// AttemptHandler handles attempt recording and review queue requests.
type AttemptHandler struct {
	attemptService attempt.Service
	logger         *slog.Logger
}

// NewAttemptHandler creates a new AttemptHandler.
func NewAttemptHandler(attemptService attempt.Service, logger *slog.Logger) *AttemptHandler {
	if attemptService == nil {
		panic("attemptService cannot be nil for AttemptHandler")
	}
	if logger == nil {
		panic("logger cannot be nil for AttemptHandler")
	}

	return &AttemptHandler{
		attemptService: attemptService,
		logger:         logger.With(slog.String("component", "attempt_handler")),
	}
}

// RecordAttempt handles POST /questions/{id}/attempt requests.
// It records the attempt as an immutable performance row and returns
// the row together with any XP awarded.
func (h *AttemptHandler) RecordAttempt(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, questionID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	var req RecordAttemptRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Warn("failed to decode request body", slog.String("error", err.Error()))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	result, err := h.attemptService.RecordAttempt(r.Context(), attempt.RecordInput{
		UserID:             userID,
		QuestionID:         questionID,
		Score:              req.Score,
		TimeToCompleteMs:   req.TimeToCompleteMs,
		PercentageAccuracy: req.PercentageAccuracy,
		Attempts:           req.Attempts,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to record attempt")
		return
	}

	log.Debug("attempt recorded",
		slog.String("user_id", userID.String()),
		slog.String("question_id", questionID.String()),
		slog.Int("awarded_xp", result.AwardedXp))
	shared.RespondWithJSON(w, r, http.StatusCreated, RecordAttemptResponse{
		Performance: performanceToResponse(result.Performance),
		AwardedXp:   result.AwardedXp,
	})
}

// GetDueReviews handles GET /reviews/due requests.
// It lists the authenticated user's questions due for review, latest
// schedule state per question, ordered by due date. An optional limit
// query parameter caps the page size.
func (h *AttemptHandler) GetDueReviews(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := getUserIDFromContext(r)
	if !ok {
		log.Warn("user ID not found or invalid in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	limit := defaultReviewLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid limit parameter")
			return
		}
		limit = parsed
	}

	rows, err := h.attemptService.GetDueReviews(r.Context(), userID, time.Now().UTC(), limit)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list due reviews")
		return
	}

	responses := make([]PerformanceResponse, 0, len(rows))
	for _, row := range rows {
		responses = append(responses, performanceToResponse(row))
	}

	log.Debug("due reviews listed",
		slog.String("user_id", userID.String()),
		slog.Int("count", len(responses)))
	shared.RespondWithJSON(w, r, http.StatusOK, responses)
}
