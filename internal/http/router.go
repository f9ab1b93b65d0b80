package http

import (
	"github.com/gin-gonic/gin"
)

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// CSRF must run before session so that session context is preserved
	if len(cfg.CSRFSecret) > 0 {
		router.Use(CSRFMiddleware(cfg.CSRFSecret, cfg.SecureCookies))
	}

	if cfg.SessionManager != nil {
		router.Use(cfg.SessionManager.SessionLoadSave())
	}

	health := NewHealthController(cfg.Database, cfg.Version)
	books := NewBooksController(cfg.Library)
	vocabulary := NewVocabularyController(cfg.Library)
	stats := NewStatsController(cfg.Library)
	transfer := NewTransferController(cfg.Library, cfg.TaskClient)
	theme := NewThemeController(cfg.Backend)

	// Health endpoints
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// Books API endpoints
	router.GET("/api/books", books.ListBooks)
	router.GET("/api/books/stats", books.Statistics)
	router.GET("/api/books/:id", books.GetBook)
	router.POST("/api/books", books.CreateBook)
	router.PATCH("/api/books/:id", books.UpdateBook)
	router.DELETE("/api/books/:id", books.DeleteBook)

	// Vocabulary endpoints
	router.GET("/api/vocabulary", vocabulary.ListWords)
	router.GET("/api/vocabulary/:id", vocabulary.GetWord)
	router.POST("/api/vocabulary", vocabulary.AddWord)
	router.PATCH("/api/vocabulary/:id", vocabulary.UpdateWord)
	router.DELETE("/api/vocabulary/:id", vocabulary.DeleteWord)

	// Gamification
	router.GET("/api/stats", stats.Stats)

	// Auth endpoints
	if cfg.Accounts != nil {
		auth := NewAuthController(cfg.Accounts, cfg.SessionManager)
		router.POST("/api/auth/register", auth.Register)
		router.POST("/api/auth/login", auth.Login)
		router.POST("/api/auth/logout", auth.Logout)
		router.GET("/api/auth/me", auth.Me)
	}

	// Import/export endpoints
	router.GET("/api/export", transfer.Export)
	router.POST("/api/import", transfer.Import)
	router.POST("/api/import/goodreads", transfer.ImportGoodreads)
	router.POST("/api/covers/enrich", transfer.EnrichCovers)

	// Theme preference
	router.GET("/api/theme", theme.GetTheme)
	router.PUT("/api/theme", theme.SetTheme)

	return router
}
