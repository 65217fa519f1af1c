package handlers

import (
	"net/http"

	bonusdto "github.com/LavaJover/shvark-sales-sync/internal/delivery/http/dto/bonus"
	"github.com/LavaJover/shvark-sales-sync/internal/delivery/http/dto/sale/response"
	"github.com/LavaJover/shvark-sales-sync/internal/delivery/http/mappers"
	"github.com/LavaJover/shvark-sales-sync/internal/usecase/ingest"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type BonusFeedHandler struct {
	feedUc ingest.FeedUsecase
	logger *zap.Logger
}

func NewBonusFeedHandler(feedUc ingest.FeedUsecase, logger *zap.Logger) *BonusFeedHandler {
	return &BonusFeedHandler{
		feedUc: feedUc,
		logger: logger,
	}
}

func (h *BonusFeedHandler) GetSchemes(c *gin.Context) {
	schemes, err := h.feedUc.Schemes(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to load bonus schemes", zap.Error(err))
		c.JSON(http.StatusInternalServerError, response.ErrorResponse{Error: "failed to load bonus schemes"})
		return
	}
	out := bonusdto.BonusSchemesResponse{Schemes: make([]bonusdto.BonusSchemeResponse, 0, len(schemes))}
	for _, s := range schemes {
		out.Schemes = append(out.Schemes, mappers.ToBonusSchemeResponse(s))
	}
	c.JSON(http.StatusOK, out)
}

func (h *BonusFeedHandler) GetMotivations(c *gin.Context) {
	motivations, err := h.feedUc.Motivations(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to load motivations", zap.Error(err))
		c.JSON(http.StatusInternalServerError, response.ErrorResponse{Error: "failed to load motivations"})
		return
	}
	out := bonusdto.MotivationsResponse{Motivations: make([]bonusdto.MotivationResponse, 0, len(motivations))}
	for _, m := range motivations {
		out.Motivations = append(out.Motivations, mappers.ToMotivationResponse(m))
	}
	c.JSON(http.StatusOK, out)
}
