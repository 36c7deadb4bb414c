package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (a *API) Welcome(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Welcome to Quote-Base API!",
	})
}
