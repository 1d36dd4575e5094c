package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// getHealth reports that the server is up.
func getHealth(c *gin.Context) {
	c.String(http.StatusOK, "OK")
}

// registerHealthRoutes registers the unauthenticated liveness route.
func registerHealthRoutes(r *gin.Engine) {
	r.GET("/health", getHealth)
}
