package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/omerfatihko/quote-base/middleware"
)

// UserLogout drops the session cookie and sends the client back to the entry
// page. Idempotent, logging out while already logged out is fine
func (a *API) UserLogout(c *gin.Context) {
	middleware.ClearSessionCookie(c)
	c.Redirect(http.StatusFound, "/")
}
