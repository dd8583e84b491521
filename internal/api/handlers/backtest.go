package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"haa-backtest/internal/api/models"
	"haa-backtest/internal/backtest"
	"haa-backtest/internal/calendar"
	"haa-backtest/internal/config"
	"haa-backtest/internal/model"
)

// BacktestHandler handles backtest and scoring requests
type BacktestHandler struct {
	cfg      *config.Config
	store    backtest.PriceStore
	observer backtest.Observer
	logger   zerolog.Logger
}

// NewBacktestHandler creates a new backtest handler. observer may be nil.
func NewBacktestHandler(cfg *config.Config, store backtest.PriceStore, observer backtest.Observer, logger zerolog.Logger) *BacktestHandler {
	return &BacktestHandler{cfg: cfg, store: store, observer: observer, logger: logger}
}

func (h *BacktestHandler) engine() (*backtest.Engine, error) {
	e, err := backtest.FromConfig(h.cfg, h.store)
	if err != nil {
		return nil, err
	}
	return e.WithLogger(h.logger).WithObserver(h.observer), nil
}

// RunBacktest handles POST /api/v1/backtest
func (h *BacktestHandler) RunBacktest(c *gin.Context) {
	var req models.BacktestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
		return
	}

	start, end, ok := parseWindow(c, req.StartDate, req.EndDate, "end_date")
	if !ok {
		return
	}
	steps := req.Steps
	if steps == 0 {
		steps = h.cfg.Steps
	}

	engine, err := h.engine()
	if err != nil {
		writeError(c, http.StatusInternalServerError, "INVALID_CONFIG", err.Error(), nil)
		return
	}

	id := uuid.NewString()
	h.logger.Info().Str("id", id).Str("start", req.StartDate).Str("end", req.EndDate).Int("steps", steps).Msg("backtest requested")

	result, err := engine.Run(c.Request.Context(), backtest.Request{Start: start, End: end, Steps: steps})
	if err != nil {
		status, code := stepErrorStatus(err)
		writeError(c, status, code, err.Error(), map[string]any{"id": id})
		return
	}

	c.JSON(http.StatusOK, buildBacktestResponse(id, result, req.IncludeScores))
}

// GetScores handles GET /api/v1/scores
func (h *BacktestHandler) GetScores(c *gin.Context) {
	var req models.ScoresRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
		return
	}
	start, asOf, ok := parseWindow(c, req.StartDate, req.AsOf, "as_of")
	if !ok {
		return
	}

	engine, err := h.engine()
	if err != nil {
		writeError(c, http.StatusInternalServerError, "INVALID_CONFIG", err.Error(), nil)
		return
	}

	step := engine.Evaluate(c.Request.Context(), start, asOf)
	if step.Failed() {
		status, code := stepErrorStatus(step.Err)
		writeError(c, status, code, step.Error, map[string]any{"rows": step.Rows, "dropped": convertDropped(step.Dropped)})
		return
	}
	c.JSON(http.StatusOK, convertStep(step, true))
}

func buildBacktestResponse(id string, result *backtest.Result, includeScores bool) models.BacktestResponse {
	status := "completed"
	if result.Failed > 0 {
		status = "partial"
	}
	steps := make([]models.StepSummary, 0, len(result.Steps))
	for _, s := range result.Steps {
		steps = append(steps, convertStep(s, includeScores))
	}
	return models.BacktestResponse{
		ID:     id,
		Status: status,
		Window: models.TimeWindow{
			Start: result.Start.Format(calendar.DateLayout),
			End:   result.End.Format(calendar.DateLayout),
		},
		Failed: result.Failed,
		Steps:  steps,
	}
}

func convertStep(s backtest.StepResult, includeScores bool) models.StepSummary {
	out := models.StepSummary{
		Index:              s.Index,
		AsOf:               s.AsOf.Format(calendar.DateLayout),
		HoldMonth:          fmt.Sprintf("%04d-%02d", s.HoldYear, int(s.HoldMonth)),
		Rows:               s.Rows,
		Signal:             s.Signal,
		Regime:             string(s.Regime),
		Recommendation:     s.Recommend,
		ReferenceDeviation: s.ReferenceDeviation,
		Dropped:            convertDropped(s.Dropped),
		Error:              s.Error,
	}
	if !s.Failed() {
		score := s.SignalScore
		out.SignalScore = &score
	}
	if includeScores {
		out.Scores = s.Scores.Entries()
	}
	return out
}

func convertDropped(dropped []backtest.DroppedInstrument) []models.DroppedInfo {
	if len(dropped) == 0 {
		return nil
	}
	out := make([]models.DroppedInfo, len(dropped))
	for i, d := range dropped {
		out[i] = models.DroppedInfo{Ticker: d.Ticker, Status: string(d.Status), Reason: d.Reason}
	}
	return out
}

// parseWindow parses a start/end pair and writes a 400 on failure.
func parseWindow(c *gin.Context, startStr, endStr, endName string) (time.Time, time.Time, bool) {
	start, err := calendar.ParseDate(startStr)
	if err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_DATE", "start_date must be in YYYY-MM-DD format", nil)
		return time.Time{}, time.Time{}, false
	}
	end, err := calendar.ParseDate(endStr)
	if err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_DATE", endName+" must be in YYYY-MM-DD format", nil)
		return time.Time{}, time.Time{}, false
	}
	if end.Before(start) {
		writeError(c, http.StatusBadRequest, "INVALID_DATE", endName+" must not be before start_date", nil)
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}

// stepErrorStatus maps engine errors to an HTTP status and error code.
func stepErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, model.ErrInsufficientHistory):
		return http.StatusUnprocessableEntity, "INSUFFICIENT_HISTORY"
	case errors.Is(err, model.ErrMissingSignalScore):
		return http.StatusUnprocessableEntity, "MISSING_SIGNAL_SCORE"
	default:
		return http.StatusInternalServerError, "BACKTEST_ERROR"
	}
}

func writeError(c *gin.Context, status int, code, message string, details map[string]any) {
	c.JSON(status, models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}
