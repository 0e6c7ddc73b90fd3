package api

import (
	"log/slog"
	"net/http"

	"github.com/parlato/parlato-api/internal/api/shared"
	"github.com/parlato/parlato-api/internal/domain"
	"github.com/parlato/parlato-api/internal/platform/logger"
	"github.com/parlato/parlato-api/internal/service/answer"
)

// AnswerHandler handles answer and pronunciation validation requests.
type AnswerHandler struct {
	answerService answer.Service
	logger        *slog.Logger
}

// NewAnswerHandler creates a new AnswerHandler.
func NewAnswerHandler(answerService answer.Service, logger *slog.Logger) *AnswerHandler {
	if answerService == nil {
		panic("answerService cannot be nil for AnswerHandler")
	}
	if logger == nil {
		panic("logger cannot be nil for AnswerHandler")
	}

	return &AnswerHandler{
		answerService: answerService,
		logger:        logger.With(slog.String("component", "answer_handler")),
	}
}

// ValidateAnswer handles POST /questions/{id}/validate requests.
// It checks the submitted answer against the question's variant for the
// requested delivery method and returns the verdict with feedback.
func (h *AnswerHandler) ValidateAnswer(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, questionID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	var req ValidateAnswerRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Warn("failed to decode request body", slog.String("error", err.Error()))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	method := domain.DeliveryMethod(req.DeliveryMethod)
	if !method.Valid() {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid delivery method")
		return
	}

	result, err := h.answerService.ValidateAnswer(r.Context(), userID, questionID, req.Answer, method)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to validate answer")
		return
	}

	log.Debug("answer validated",
		slog.String("user_id", userID.String()),
		slog.String("question_id", questionID.String()),
		slog.String("method", string(method)),
		slog.Bool("is_correct", result.IsCorrect))
	shared.RespondWithJSON(w, r, http.StatusOK, result)
}

// ValidatePronunciation handles POST /questions/{id}/pronunciation requests.
// It scores the submitted audio against the question's expected text.
func (h *AnswerHandler) ValidatePronunciation(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, questionID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	var req ValidatePronunciationRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Warn("failed to decode request body", slog.String("error", err.Error()))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	result, err := h.answerService.ValidatePronunciation(
		r.Context(), userID, questionID, req.AudioBase64, req.AudioFormat)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to validate pronunciation")
		return
	}

	log.Debug("pronunciation validated",
		slog.String("user_id", userID.String()),
		slog.String("question_id", questionID.String()),
		slog.Int("overall_score", result.OverallScore))
	shared.RespondWithJSON(w, r, http.StatusOK, result)
}
