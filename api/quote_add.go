package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/omerfatihko/quote-base/internal/service"
	"github.com/omerfatihko/quote-base/middleware"
	"github.com/omerfatihko/quote-base/model"
	"github.com/omerfatihko/quote-base/validators"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type quoteBody struct {
	BookSeries string `json:"bookSeries"`
	BookTitle  string `json:"bookTitle"`
	Characters string `json:"characters"`
	Quote      string `json:"quote"`
	Author     string `json:"author"`
}

func (a *API) QuoteAdd(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userEmail := c.MustGet("userEmail").(string)

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
		UserEmail:  userEmail,
		BookSeries: data.BookSeries,
		BookTitle:  data.BookTitle,
		Characters: data.Characters,
		Quote:      data.Quote,
		Author:     data.Author,
	}

	if err := validators.QuoteValidator(&quote); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     err.Error(),
			"requestID": requestID,
		})
		return
	}

	// Quota comes before the duplicate lookup, an exhausted account gets the
	// limit response no matter what it submits. ConsumeOne inside the
	// transaction below stays the atomic enforcement
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

	if q.Remaining <= 0 {
		c.JSON(http.StatusForbidden, gin.H{
			"error":     "Quote limit reached. Upgrade to add more quotes.",
			"requestID": requestID,
		})
		return
	}

	// Exact tuple match across every field. Changing any single field is
	// enough to make it a different quote
	var duplicate bool
	err = a.DB.
		Model(model.Quote{}).
		Where("user_email = ? AND book_series = ? AND book_title = ? AND characters = ? AND quote = ? AND author = ?",
			userEmail, quote.BookSeries, quote.BookTitle, quote.Characters, quote.Quote, quote.Author).
		Select("count(*) > 0").
		Find(&duplicate).
		Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to check for duplicate quote", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if duplicate {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "This quote already exists in your collection",
			"requestID": requestID,
		})
		return
	}

	id, err := gonanoid.New()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to generate quote ID", zap.Error(err), zap.String("requestID", requestID))
		return
	}
	quote.ID = id

	// Insert and allowance decrement stand or fall together
	err = a.DB.Transaction(func(tx *gorm.DB) error {
		if _, err := service.ConsumeOne(tx, userEmail); err != nil {
			return err
		}

		return tx.Create(&quote).Error
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrQuotaExhausted):
			c.JSON(http.StatusForbidden, gin.H{
				"error":     "Quote limit reached. Upgrade to add more quotes.",
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

			zap.L().Error("Failed to add quote", zap.Error(err), zap.String("requestID", requestID))
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
		"message": "Quote added successfully!",
		"quotes":  quotes,
	})
}
