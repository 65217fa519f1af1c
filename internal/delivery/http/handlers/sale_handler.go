package handlers

import (
	"errors"
	"net/http"

	"github.com/LavaJover/shvark-sales-sync/internal/delivery/http/dto/sale/request"
	"github.com/LavaJover/shvark-sales-sync/internal/delivery/http/dto/sale/response"
	"github.com/LavaJover/shvark-sales-sync/internal/delivery/http/middleware"
	"github.com/LavaJover/shvark-sales-sync/internal/domain"
	"github.com/LavaJover/shvark-sales-sync/internal/usecase/ingest"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type SaleHandler struct {
	ingestUc ingest.IngestUsecase
	logger   *zap.Logger
}

func NewSaleHandler(ingestUc ingest.IngestUsecase, logger *zap.Logger) *SaleHandler {
	return &SaleHandler{
		ingestUc: ingestUc,
		logger:   logger,
	}
}

// CreateSale answers 201 for a new sale and 200 for a repeated client UUID.
func (h *SaleHandler) CreateSale(c *gin.Context) {
	var req request.CreateSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: "invalid request payload: " + err.Error()})
		return
	}

	res, err := h.ingestUc.Submit(c.Request.Context(), c.GetString(middleware.PromoterIDKey), ingest.SubmitInput{
		ClientUUID:       req.ClientUUID,
		PromoterID:       req.PromoterID,
		ProductID:        req.ProductID,
		ProductVariantID: req.ProductVariantID,
		Quantity:         req.Quantity,
		TotalAmount:      req.TotalAmount,
		BonusAmount:      req.BonusAmount,
		BonusExtra:       req.BonusExtra,
		CreatedAt:        req.CreatedAt,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidSale):
			c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: err.Error()})
		case errors.Is(err, domain.ErrPromoterMismatch):
			c.JSON(http.StatusForbidden, response.ErrorResponse{Error: err.Error()})
		default:
			h.logger.Error("failed to submit sale", zap.String("client_uuid", req.ClientUUID), zap.Error(err))
			c.JSON(http.StatusInternalServerError, response.ErrorResponse{Error: "failed to store sale"})
		}
		return
	}

	status := http.StatusOK
	if res.Created {
		status = http.StatusCreated
	}
	c.JSON(status, response.CreateSaleResponse{
		ID:         res.Sale.ID,
		ClientUUID: res.Sale.ClientUUID,
		Created:    res.Created,
		ReceivedAt: res.Sale.ReceivedAt,
	})
}
