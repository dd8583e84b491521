package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"haa-backtest/internal/api/handlers"
	"haa-backtest/internal/api/middleware"
	"haa-backtest/internal/config"
	"haa-backtest/internal/data"
	"haa-backtest/internal/metrics"
)

// Deps are the shared services the HTTP handlers run against.
type Deps struct {
	Config   *config.Config
	Store    *data.CSVStore
	Registry *prometheus.Registry
	Logger   zerolog.Logger
}

// NewRouter builds the gin engine with middleware and all routes.
// Metrics are registered on deps.Registry, which must be fresh.
func NewRouter(deps Deps) *gin.Engine {
	router := gin.New()
	router.Use(middleware.CORS(deps.Config.Server.AllowedOrigins))
	router.Use(middleware.Logger(deps.Logger))
	router.Use(middleware.ErrorHandler(deps.Logger))

	recorder := metrics.New(deps.Registry)

	backtestHandler := handlers.NewBacktestHandler(deps.Config, deps.Store, recorder, deps.Logger)
	rankHandler := handlers.NewRankHandler(deps.Config, deps.Store, deps.Logger)
	universeHandler := handlers.NewUniverseHandler(deps.Config, deps.Store)
	strategyHandler := handlers.NewStrategyHandler(deps.Config)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{})))

	v1 := router.Group("/api/v1")
	{
		v1.POST("/backtest", backtestHandler.RunBacktest)
		v1.GET("/scores", backtestHandler.GetScores)
		v1.GET("/rank", rankHandler.RankInstruments)
		v1.GET("/universe", universeHandler.ListUniverse)
		v1.GET("/strategies", strategyHandler.ListStrategies)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": gin.H{"code": "NOT_FOUND", "message": "Not found"}})
	})
	return router
}
