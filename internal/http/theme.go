package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"librismundis/internal/storage"
)

// ThemeController persists the UI theme preference. The preference is
// global, not per account, matching where the rest of the client keeps it.
type ThemeController struct {
	backend storage.Backend
}

func NewThemeController(backend storage.Backend) *ThemeController {
	return &ThemeController{backend: backend}
}

func (controller *ThemeController) GetTheme(c *gin.Context) {
	theme, found, err := controller.backend.Get(storage.ThemeKey)
	if err != nil {
		respondInternalError(c, err, "read theme")
		return
	}
	if !found || theme == "" {
		theme = "light"
	}
	c.JSON(http.StatusOK, gin.H{"theme": theme})
}

type themeRequest struct {
	Theme string `json:"theme" binding:"required"`
}

func (controller *ThemeController) SetTheme(c *gin.Context) {
	var req themeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "theme is required")
		return
	}
	if req.Theme != "light" && req.Theme != "dark" {
		respondBadRequest(c, "theme must be light or dark")
		return
	}

	if err := controller.backend.Set(storage.ThemeKey, req.Theme); err != nil {
		respondInternalError(c, err, "write theme")
		return
	}
	c.JSON(http.StatusOK, gin.H{"theme": req.Theme})
}
