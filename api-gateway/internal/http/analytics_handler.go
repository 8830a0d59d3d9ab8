package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/blunfr84/Webly/api-gateway/internal/domain"
	"github.com/blunfr84/Webly/api-gateway/internal/repository"
	"go.uber.org/zap"
)

type AnalyticsHandler struct {
	repo    repository.AnalyticsRepository
	timeout time.Duration
	now     func() time.Time
	logger  *zap.Logger
}

func NewAnalyticsHandler(repo repository.AnalyticsRepository, timeout time.Duration, now func() time.Time, logger *zap.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		repo:    repo,
		timeout: timeout,
		now:     now,
		logger:  logger,
	}
}

// days are keyed by UTC date
func (h *AnalyticsHandler) today() string {
	return h.now().UTC().Format("2006-01-02")
}

// GET /api/analytics
func (h *AnalyticsHandler) Today(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	today := h.today()
	day, err := h.repo.GetDay(ctx, today)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		respondData(w, http.StatusOK, "", domain.DailyAnalytics{Date: today})
	case err != nil:
		h.logger.Error("get analytics failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "internal_error", msgServerError)
	default:
		respondData(w, http.StatusOK, "", day)
	}
}

// POST /api/analytics/track counts one visit for today. Requests from the
// local machine are not counted. RemoteAddr already reflects X-Forwarded-For
// when the proxy is trusted.
func (h *AnalyticsHandler) Track(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if domain.IsLocalAddress(r.RemoteAddr) {
		h.logger.Debug("local visit ignored", zap.String("remote", r.RemoteAddr))
		respondData(w, http.StatusOK, "Visite locale non comptée", nil)
		return
	}

	day, err := h.repo.RecordVisit(ctx, h.today())
	if err != nil {
		h.logger.Error("record visit failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "save_failed", msgSaveFailed)
		return
	}
	respondData(w, http.StatusOK, "", day)
}

// GET /api/analytics/summary
func (h *AnalyticsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	days, err := h.repo.ListDays(ctx)
	if err != nil {
		h.logger.Error("list analytics failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "internal_error", msgServerError)
		return
	}
	respondData(w, http.StatusOK, "", domain.Summarize(days))
}
