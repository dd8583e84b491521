package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"haa-backtest/internal/api/models"
	"haa-backtest/internal/calendar"
	"haa-backtest/internal/config"
	"haa-backtest/internal/data"
)

// UniverseHandler reports the configured instruments and their price files
type UniverseHandler struct {
	cfg   *config.Config
	store *data.CSVStore
}

func NewUniverseHandler(cfg *config.Config, store *data.CSVStore) *UniverseHandler {
	return &UniverseHandler{cfg: cfg, store: store}
}

// ListUniverse handles GET /api/v1/universe
func (h *UniverseHandler) ListUniverse(c *gin.Context) {
	instruments := make([]models.InstrumentInfo, 0, len(h.cfg.Tickers))
	for _, ticker := range h.cfg.Tickers {
		inst := h.store.Describe(ticker)
		info := models.InstrumentInfo{
			Ticker:    ticker,
			Role:      h.cfg.Role(ticker),
			Available: inst.Available,
			Rows:      inst.Rows,
			Error:     inst.Error,
		}
		if inst.Available {
			info.First = inst.First.Format(calendar.DateLayout)
			info.Last = inst.Last.Format(calendar.DateLayout)
		}
		instruments = append(instruments, info)
	}

	c.JSON(http.StatusOK, models.UniverseResponse{
		Signal:      h.cfg.Signal,
		Offensive:   h.cfg.Offensive,
		Defensive:   h.cfg.Defensive,
		Instruments: instruments,
	})
}
