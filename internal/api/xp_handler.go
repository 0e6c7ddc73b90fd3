package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/parlato/parlato-api/internal/api/shared"
	"github.com/parlato/parlato-api/internal/platform/logger"
	"github.com/parlato/parlato-api/internal/service/xp"
)

// defaultXpRangeDays is the summary window when the client does not
// name one.
const defaultXpRangeDays = 7

// XpHandler handles XP summary requests.
type XpHandler struct {
	accountant xp.Accountant
	logger     *slog.Logger
}

// NewXpHandler creates a new XpHandler.
func NewXpHandler(accountant xp.Accountant, logger *slog.Logger) *XpHandler {
	if accountant == nil {
		panic("accountant cannot be nil for XpHandler")
	}
	if logger == nil {
		panic("logger cannot be nil for XpHandler")
	}

	return &XpHandler{
		accountant: accountant,
		logger:     logger.With(slog.String("component", "xp_handler")),
	}
}

// GetXpSummary handles GET /xp/summary requests.
// It aggregates the authenticated user's XP by UTC calendar day over
// the trailing window named by the optional days query parameter.
func (h *XpHandler) GetXpSummary(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := getUserIDFromContext(r)
	if !ok {
		log.Warn("user ID not found or invalid in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	rangeDays := defaultXpRangeDays
	if raw := r.URL.Query().Get("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 || parsed > 365 {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid days parameter")
			return
		}
		rangeDays = parsed
	}

	days, err := h.accountant.GetXpSummary(r.Context(), userID, rangeDays)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to summarize XP")
		return
	}

	response := XpSummaryResponse{Days: make([]XpDayResponse, 0, len(days))}
	for _, day := range days {
		response.Days = append(response.Days, XpDayResponse{
			Date:       day.Date,
			TotalXp:    day.TotalXp,
			EventCount: day.EventCount,
		})
		response.TotalXp += day.TotalXp
	}

	log.Debug("xp summarized",
		slog.String("user_id", userID.String()),
		slog.Int("range_days", rangeDays),
		slog.Int("total_xp", response.TotalXp))
	shared.RespondWithJSON(w, r, http.StatusOK, response)
}
