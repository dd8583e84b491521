package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"haa-backtest/internal/api/models"
	"haa-backtest/internal/config"
)

// StrategyHandler handles strategy-related requests
type StrategyHandler struct {
	cfg *config.Config
}

// NewStrategyHandler creates a new strategy handler
func NewStrategyHandler(cfg *config.Config) *StrategyHandler {
	return &StrategyHandler{cfg: cfg}
}

// ListStrategies handles GET /api/v1/strategies
func (h *StrategyHandler) ListStrategies(c *gin.Context) {
	strategies := []models.StrategyInfo{
		{
			Name:        "haa",
			Description: "Hybrid asset allocation. A positive signal momentum selects the top offensive assets; otherwise the best defensive asset, or cash when none has positive momentum.",
			Parameters: []models.ParameterInfo{
				{
					Name:        "signal",
					Type:        "string",
					Description: "Ticker whose momentum decides the regime",
					Value:       h.cfg.Signal,
				},
				{
					Name:        "offensive",
					Type:        "[]string",
					Description: "Candidates in risk-on months",
					Value:       h.cfg.Offensive,
				},
				{
					Name:        "defensive",
					Type:        "[]string",
					Description: "Candidates in risk-off months",
					Value:       h.cfg.Defensive,
				},
				{
					Name:        "top_n",
					Type:        "int",
					Description: "Number of offensive assets held in risk-on months",
					Value:       h.cfg.TopN,
				},
				{
					Name:        "lookback_months",
					Type:        "[]int",
					Description: "Momentum horizons in months, averaged into one score",
					Value:       h.cfg.LookbackMonths,
				},
				{
					Name:        "trailing_days",
					Type:        "int",
					Description: "Minimum history in business days and the reference mean window",
					Value:       h.cfg.TrailingDays,
				},
			},
		},
	}

	c.JSON(http.StatusOK, gin.H{"strategies": strategies})
}
