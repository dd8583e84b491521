package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"haa-backtest/internal/analysis"
	"haa-backtest/internal/api/models"
	"haa-backtest/internal/backtest"
	"haa-backtest/internal/calendar"
	"haa-backtest/internal/config"
)

// RankHandler handles ranking-related requests
type RankHandler struct {
	cfg    *config.Config
	store  backtest.PriceStore
	logger zerolog.Logger
}

// NewRankHandler creates a new rank handler
func NewRankHandler(cfg *config.Config, store backtest.PriceStore, logger zerolog.Logger) *RankHandler {
	return &RankHandler{cfg: cfg, store: store, logger: logger}
}

// RankInstruments handles GET /api/v1/rank
func (h *RankHandler) RankInstruments(c *gin.Context) {
	var req models.RankRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
		return
	}
	start, asOf, ok := parseWindow(c, req.StartDate, req.AsOf, "as_of")
	if !ok {
		return
	}

	engine, err := backtest.FromConfig(h.cfg, h.store)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "INVALID_CONFIG", err.Error(), nil)
		return
	}
	step := engine.WithLogger(h.logger).Evaluate(c.Request.Context(), start, asOf)
	if step.Scores == nil {
		status, code := stepErrorStatus(step.Err)
		writeError(c, status, code, step.Error, map[string]any{"rows": step.Rows})
		return
	}

	var candidates []string
	switch req.Group {
	case "offensive":
		candidates = h.cfg.Offensive
	case "defensive":
		candidates = h.cfg.Defensive
	default:
		candidates = h.cfg.Tickers
	}

	ranked := analysis.RankByScore(step.Scores, candidates)
	if req.Limit > 0 && req.Limit < len(ranked) {
		ranked = ranked[:req.Limit]
	}
	rankings := make([]models.Ranking, len(ranked))
	for i, e := range ranked {
		rankings[i] = models.Ranking{
			Rank:   i + 1,
			Ticker: e.Ticker,
			Role:   h.cfg.Role(e.Ticker),
			Score:  e.Score,
		}
	}

	c.JSON(http.StatusOK, models.RankResponse{
		AsOf:     step.AsOf.Format(calendar.DateLayout),
		Rankings: rankings,
	})
}
