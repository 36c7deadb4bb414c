package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/omerfatihko/quote-base/middleware"
	"github.com/omerfatihko/quote-base/model"
	"go.uber.org/zap"
)

// quotesFor returns the complete collection of one user in insertion order.
// The owner field never leaves the struct, its json tag is "-"
func (a *API) quotesFor(userEmail string) ([]model.Quote, error) {
	quotes := []model.Quote{}

	err := a.DB.
		Where("user_email = ?", userEmail).
		Order("created_at asc").
		Find(&quotes).
		Error
	if err != nil {
		return nil, err
	}

	return quotes, nil
}

// Home serves the user's collection when a session resolves, and bounces
// everyone else back to the entry page instead of answering 401
func (a *API) Home(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	userEmail, err := middleware.ResolveIdentity(c, a.DB)
	if err != nil {
		c.Redirect(http.StatusFound, "/")
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
		"quotes": quotes,
	})
}
