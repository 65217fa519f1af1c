// Package router assembles the gin engines of both binaries.
package router

import (
	"net/http"

	"github.com/LavaJover/shvark-sales-sync/internal/delivery/http/handlers"
	"github.com/LavaJover/shvark-sales-sync/internal/delivery/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type ServiceHandlers struct {
	Sales    *handlers.SaleHandler
	Auth     *handlers.AuthHandler
	Bonus    *handlers.BonusFeedHandler
	Sessions middleware.SessionAuthenticator
}

func NewServiceRouter(h ServiceHandlers, gatherer prometheus.Gatherer, logger *zap.Logger) *gin.Engine {
	e := newEngine(gatherer, logger)

	api := e.Group("/api/v1")
	api.POST("/auth/telegram", h.Auth.TelegramLogin)

	authed := api.Group("", middleware.RequireSession(h.Sessions, logger))
	authed.POST("/sales", h.Sales.CreateSale)
	authed.GET("/bonus-schemes", h.Bonus.GetSchemes)
	authed.GET("/motivations", h.Bonus.GetMotivations)

	return e
}

func NewAgentRouter(h *handlers.AgentHandler, gatherer prometheus.Gatherer, logger *zap.Logger) *gin.Engine {
	e := newEngine(gatherer, logger)

	api := e.Group("/api/v1")
	api.POST("/sales", h.RecordSale)
	api.GET("/sales/pending", h.ListPending)
	api.POST("/sync", h.Sync)
	api.GET("/status", h.Status)

	return e
}

func newEngine(gatherer prometheus.Gatherer, logger *zap.Logger) *gin.Engine {
	e := gin.New()
	e.Use(gin.Recovery(), middleware.RequestLogger(logger))

	e.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if gatherer != nil {
		e.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}
	return e
}
