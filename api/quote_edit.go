package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/omerfatihko/quote-base/model"
	"github.com/omerfatihko/quote-base/validators"
	"go.uber.org/zap"
)

func (a *API) QuoteEdit(c *gin.Context) {
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

	var data quoteBody
	if err := c.ShouldBind(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Malformed or invalid JSON request body",
			"requestID": requestID,
		})

		zap.L().Debug("Can't bind quote body", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	quote := model.Quote{
		BookSeries: data.BookSeries,
		BookTitle:  data.BookTitle,
		Characters: data.Characters,
		Quote:      data.Quote,
		Author:     data.Author,
	}

	// Edits only enforce the spam limit. Fields are stored exactly as
	// submitted, blanks included
	validators.TrimQuoteFields(&quote)
	if err := validators.SpamLimitValidator(&quote); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     err.Error(),
			"requestID": requestID,
		})
		return
	}

	// Map update so emptied fields are written too, a struct update would
	// silently skip them
	res := a.DB.
		Model(model.Quote{}).
		Where("id = ? AND user_email = ?", quoteID, userEmail).
		UpdateColumns(map[string]any{
			"book_series": quote.BookSeries,
			"book_title":  quote.BookTitle,
			"characters":  quote.Characters,
			"quote":       quote.Quote,
			"author":      quote.Author,
			"updated_at":  time.Now(),
		})
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to update quote", zap.Error(res.Error), zap.String("requestID", requestID))
		return
	}

	// Zero rows covers both a missing quote and somebody else's quote, on
	// purpose. Owners of other collections learn nothing from the response
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{
			"error":     "Quote not found or unauthorized",
			"requestID": requestID,
		})
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
		"message": "Quote updated successfully!",
		"quotes":  quotes,
	})
}
