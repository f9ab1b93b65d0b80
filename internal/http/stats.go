package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"librismundis/internal/gamification"
	"librismundis/internal/library"
)

type StatsController struct {
	lib *library.Library
}

func NewStatsController(lib *library.Library) *StatsController {
	return &StatsController{lib: lib}
}

// Stats serves the gamification state plus derived level metadata.
func (controller *StatsController) Stats(c *gin.Context) {
	stats := controller.lib.Stats()
	nextThreshold, percent := gamification.LevelProgress(stats)

	c.JSON(http.StatusOK, gin.H{
		"stats":         stats,
		"levelTitle":    gamification.LevelTitle(stats.Level),
		"nextThreshold": nextThreshold,
		"levelProgress": percent,
	})
}
