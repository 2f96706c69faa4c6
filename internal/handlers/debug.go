package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RouterGate is the pause control surface of the update router.
type RouterGate interface {
	Pause()
	Resume()
	Paused() bool
}

// RegisterDebugRoutes wires debug-only endpoints: pausing update delivery
// and inspecting the pause state.
func RegisterDebugRoutes(router *gin.Engine, gate RouterGate, enabled bool) {
	if !enabled {
		return
	}

	router.POST("/debug/router/pause", func(c *gin.Context) {
		gate.Pause()
		c.JSON(http.StatusOK, gin.H{"paused": true})
	})
	router.POST("/debug/router/resume", func(c *gin.Context) {
		gate.Resume()
		c.JSON(http.StatusOK, gin.H{"paused": false})
	})
	router.GET("/debug/router", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"paused": gate.Paused()})
	})
}
