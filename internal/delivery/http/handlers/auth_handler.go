package handlers

import (
	"errors"
	"net/http"

	authdto "github.com/LavaJover/shvark-sales-sync/internal/delivery/http/dto/auth"
	"github.com/LavaJover/shvark-sales-sync/internal/delivery/http/dto/sale/response"
	"github.com/LavaJover/shvark-sales-sync/internal/domain"
	"github.com/LavaJover/shvark-sales-sync/internal/usecase/session"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AuthHandler struct {
	sessionUc session.SessionUsecase
	logger    *zap.Logger
}

func NewAuthHandler(sessionUc session.SessionUsecase, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		sessionUc: sessionUc,
		logger:    logger,
	}
}

func (h *AuthHandler) TelegramLogin(c *gin.Context) {
	var req authdto.TelegramAuthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: "invalid request payload"})
		return
	}

	res, err := h.sessionUc.Login(c.Request.Context(), req.InitData)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			h.logger.Warn("telegram login rejected", zap.Error(err))
			c.JSON(http.StatusUnauthorized, response.ErrorResponse{Error: err.Error()})
			return
		}
		h.logger.Error("telegram login failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, response.ErrorResponse{Error: "internal error"})
		return
	}

	c.JSON(http.StatusOK, authdto.TelegramAuthResponse{
		Token:      res.Session.Token,
		PromoterID: res.Promoter.ID,
		TelegramID: res.Promoter.TelegramID,
		FirstName:  res.Promoter.FirstName,
		LastName:   res.Promoter.LastName,
		Username:   res.Promoter.Username,
		Role:       res.Promoter.Role,
	})
}
