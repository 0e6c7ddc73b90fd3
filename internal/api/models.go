package api

import (
	"time"

	"github.com/parlato/parlato-api/internal/domain"
)

// Common request/response structures

// ValidateAnswerRequest defines the payload for the answer validation endpoint.
type ValidateAnswerRequest struct {
	Answer         string `json:"answer"          validate:"required"`
	DeliveryMethod string `json:"delivery_method" validate:"required"`
}

// ValidatePronunciationRequest defines the payload for the pronunciation
// validation endpoint. Audio arrives base64-encoded; the format names
// the container ("wav", "mp3", "ogg", "flac").
type ValidatePronunciationRequest struct {
	AudioBase64 string `json:"audio_base64" validate:"required"`
	AudioFormat string `json:"audio_format" validate:"required"`
}

// RecordAttemptRequest defines the payload for the attempt recording endpoint.
type RecordAttemptRequest struct {
	Score              int     `json:"score"                validate:"gte=0,lte=100"`
	TimeToCompleteMs   int     `json:"time_to_complete_ms"  validate:"gte=0"`
	PercentageAccuracy float64 `json:"percentage_accuracy"  validate:"gte=0,lte=100"`
	Attempts           int     `json:"attempts"             validate:"gte=0"`
}

// PerformanceResponse represents one performance row in API responses.
type PerformanceResponse struct {
	ID                 string    `json:"id"`
	QuestionID         string    `json:"question_id"`
	Score              int       `json:"score"`
	TimeToCompleteMs   int       `json:"time_to_complete_ms,omitempty"`
	PercentageAccuracy float64   `json:"percentage_accuracy,omitempty"`
	Attempts           int       `json:"attempts"`
	NextReviewDue      time.Time `json:"next_review_due"`
	IntervalDays       float64   `json:"interval_days"`
	Repetitions        int       `json:"repetitions"`
	CreatedAt          time.Time `json:"created_at"`
}

// RecordAttemptResponse defines the successful response for the attempt
// recording endpoint.
type RecordAttemptResponse struct {
	Performance PerformanceResponse `json:"performance"`
	AwardedXp   int                 `json:"awarded_xp"`
}

// XpSummaryResponse defines the response for the XP summary endpoint.
type XpSummaryResponse struct {
	Days    []XpDayResponse `json:"days"`
	TotalXp int             `json:"total_xp"`
}

// XpDayResponse is one calendar day's XP aggregate.
type XpDayResponse struct {
	Date       string `json:"date"`
	TotalXp    int    `json:"total_xp"`
	EventCount int    `json:"event_count"`
}

// performanceToResponse converts a domain performance row to its API shape.
func performanceToResponse(p *domain.UserQuestionPerformance) PerformanceResponse {
	return PerformanceResponse{
		ID:                 p.ID.String(),
		QuestionID:         p.QuestionID.String(),
		Score:              p.Score,
		TimeToCompleteMs:   p.TimeToCompleteMs,
		PercentageAccuracy: p.PercentageAccuracy,
		Attempts:           p.Attempts,
		NextReviewDue:      p.Schedule.NextReviewDue,
		IntervalDays:       p.Schedule.IntervalDays,
		Repetitions:        p.Schedule.Repetitions,
		CreatedAt:          p.CreatedAt,
	}
}
