package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/omerfatihko/quote-base/internal/service"
	"github.com/omerfatihko/quote-base/middleware"
	"go.uber.org/zap"
)

func (a *API) QuotaFetch(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userEmail := c.MustGet("userEmail").(string)

	q, err := service.GetQuota(a.DB, userEmail)
	if err != nil {
		if errors.Is(err, service.ErrUserVanished) {
			middleware.ClearSessionCookie(c)
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":     "Session expired or invalid. Please log in again",
				"requestID": requestID,
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to load quota", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"remainingQuotes": q.Remaining,
		"totalQuotes":     q.Total,
	})
}
