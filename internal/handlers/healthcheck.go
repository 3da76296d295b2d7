package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Build info, stamped by the linker.
var (
	Version = "dev"
	Commit  = "unknown"
)

func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": Version,
		"commit":  Commit,
	})
}
