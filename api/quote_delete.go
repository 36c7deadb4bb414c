package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/omerfatihko/quote-base/internal/service"
	"github.com/omerfatihko/quote-base/middleware"
	"github.com/omerfatihko/quote-base/model"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var errQuoteNotFound = errors.New("quote not found or unauthorized")

func (a *API) QuoteDelete(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userEmail := c.MustGet("userEmail").(string)

	quoteID := c.Param("id")
	if quoteID == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "No quote ID provided",
			"requestID": requestID,
		})
		return
	}

	// Delete and allowance restore stand or fall together. The ownership
	// check rides on the WHERE clause, zero rows means not yours or not there
	err := a.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.
			Where("id = ? AND user_email = ?", quoteID, userEmail).
			Delete(model.Quote{})
		if res.Error != nil {
			return res.Error
		}

		if res.RowsAffected == 0 {
			return errQuoteNotFound
		}

		_, err := service.RestoreOne(tx, userEmail)
		return err
	})
	if err != nil {
		switch {
		case errors.Is(err, errQuoteNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error":     "Quote not found or unauthorized",
				"requestID": requestID,
			})
		case errors.Is(err, service.ErrUserVanished):
			middleware.ClearSessionCookie(c)
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":     "Session expired or invalid. Please log in again",
				"requestID": requestID,
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":     "Internal server error",
				"requestID": requestID,
			})

			zap.L().Error("Failed to delete quote", zap.Error(err), zap.String("requestID", requestID))
		}
		return
	}

	quotes, err := a.quotesFor(userEmail)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to fetch quotes", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Quote deleted successfully!",
		"quotes":  quotes,
	})
}
