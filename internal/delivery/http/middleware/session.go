package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/LavaJover/shvark-sales-sync/internal/delivery/http/dto/sale/response"
	"github.com/LavaJover/shvark-sales-sync/internal/domain"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const PromoterIDKey = "promoter_id"

type SessionAuthenticator interface {
	Authenticate(ctx context.Context, token string) (string, error)
}

// RequireSession resolves "Authorization: Bearer <token>" to a promoter id
// and stores it under PromoterIDKey.
func RequireSession(auth SessionAuthenticator, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.ErrorResponse{Error: "missing bearer token"})
			return
		}

		promoterID, err := auth.Authenticate(c.Request.Context(), strings.TrimSpace(token))
		if err != nil {
			if errors.Is(err, domain.ErrUnauthorized) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, response.ErrorResponse{Error: "invalid session"})
				return
			}
			logger.Error("session lookup failed", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, response.ErrorResponse{Error: "internal error"})
			return
		}

		c.Set(PromoterIDKey, promoterID)
		c.Next()
	}
}

// RequestLogger logs one line per request with zap.
func RequestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("took", time.Since(start)),
		)
	}
}
