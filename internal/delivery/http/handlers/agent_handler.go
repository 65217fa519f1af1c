package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/LavaJover/shvark-sales-sync/internal/delivery/http/dto/sale/request"
	"github.com/LavaJover/shvark-sales-sync/internal/delivery/http/dto/sale/response"
	"github.com/LavaJover/shvark-sales-sync/internal/delivery/http/mappers"
	"github.com/LavaJover/shvark-sales-sync/internal/domain"
	"github.com/LavaJover/shvark-sales-sync/internal/usecase/sale"
	"github.com/LavaJover/shvark-sales-sync/internal/usecase/syncer"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Drainer interface {
	Drain(ctx context.Context) (*syncer.DrainSummary, error)
}

type OnlineChecker interface {
	IsOnline() bool
}

// AgentHandler serves the promoter agent's local API used by the sale entry UI.
type AgentHandler struct {
	saleUc  sale.SaleUsecase
	drainer Drainer
	online  OnlineChecker
	logger  *zap.Logger
}

func NewAgentHandler(saleUc sale.SaleUsecase, drainer Drainer, online OnlineChecker, logger *zap.Logger) *AgentHandler {
	return &AgentHandler{
		saleUc:  saleUc,
		drainer: drainer,
		online:  online,
		logger:  logger,
	}
}

func (h *AgentHandler) RecordSale(c *gin.Context) {
	var req request.RecordSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: "invalid request payload: " + err.Error()})
		return
	}

	recorded, err := h.saleUc.Record(c.Request.Context(), sale.RecordInput{
		ProductID:        req.ProductID,
		ProductVariantID: req.ProductVariantID,
		Quantity:         req.Quantity,
		UnitPrice:        req.UnitPrice,
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidSale) {
			c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: err.Error()})
			return
		}
		if errors.Is(err, domain.ErrIdentityUnknown) {
			c.JSON(http.StatusServiceUnavailable, response.ErrorResponse{Error: err.Error()})
			return
		}
		h.logger.Error("failed to record sale", zap.Error(err))
		c.JSON(http.StatusInternalServerError, response.ErrorResponse{Error: "sale was not saved: " + err.Error()})
		return
	}
	c.JSON(http.StatusCreated, mappers.ToPendingSaleResponse(recorded))
}

func (h *AgentHandler) ListPending(c *gin.Context) {
	pending, err := h.saleUc.ListPending(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to list pending sales", zap.Error(err))
		c.JSON(http.StatusInternalServerError, response.ErrorResponse{Error: "failed to list pending sales"})
		return
	}
	out := response.PendingSalesResponse{
		Count: int64(len(pending)),
		Sales: make([]response.PendingSaleResponse, 0, len(pending)),
	}
	for _, s := range pending {
		out.Sales = append(out.Sales, mappers.ToPendingSaleResponse(s))
	}
	c.JSON(http.StatusOK, out)
}

// Sync runs a drain now and reports its outcome.
func (h *AgentHandler) Sync(c *gin.Context) {
	summary, err := h.drainer.Drain(c.Request.Context())
	if err != nil {
		if errors.Is(err, syncer.ErrDrainInProgress) {
			c.JSON(http.StatusConflict, response.ErrorResponse{Error: err.Error()})
			return
		}
		h.logger.Error("manual sync failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, response.ErrorResponse{Error: err.Error()})
		return
	}
	errs := summary.Errors
	if errs == nil {
		errs = []string{}
	}
	c.JSON(http.StatusOK, response.SyncResponse{
		Attempted: summary.Attempted,
		Succeeded: summary.Succeeded,
		Errors:    errs,
	})
}

func (h *AgentHandler) Status(c *gin.Context) {
	count, err := h.saleUc.PendingCount(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to count pending sales", zap.Error(err))
		c.JSON(http.StatusInternalServerError, response.ErrorResponse{Error: "failed to count pending sales"})
		return
	}
	c.JSON(http.StatusOK, response.StatusResponse{
		Online:  h.online.IsOnline(),
		Pending: count,
	})
}
