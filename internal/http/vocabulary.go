package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"librismundis/internal/entities"
	"librismundis/internal/library"
	"librismundis/internal/query"
)

type VocabularyController struct {
	lib *library.Library
}

func NewVocabularyController(lib *library.Library) *VocabularyController {
	return &VocabularyController{lib: lib}
}

type wordRequest struct {
	Word       string `json:"word" binding:"required"`
	Language   string `json:"language"`
	Definition string `json:"definition"`
	Context    string `json:"context"`
}

type wordPatchRequest struct {
	Word       *string `json:"word"`
	Language   *string `json:"language"`
	Definition *string `json:"definition"`
	Context    *string `json:"context"`
}

// ListWords serves the filtered, paginated vocabulary view, newest first.
func (controller *VocabularyController) ListWords(c *gin.Context) {
	filter := query.WordFilter{
		Language: c.DefaultQuery("language", query.All),
		Search:   c.Query("search"),
		Page:     intQuery(c, "page", 1),
		PageSize: intQuery(c, "pageSize", query.WordsPerPage),
	}

	all := controller.lib.Vocabulary()
	page := query.Words(all, filter)
	total := query.CountWords(all, filter)

	pageSize := filter.PageSize
	if pageSize <= 0 {
		pageSize = query.WordsPerPage
	}

	c.JSON(http.StatusOK, gin.H{
		"vocabulary": page,
		"total":      total,
		"page":       filter.Page,
		"totalPages": query.TotalPages(total, pageSize),
	})
}

func (controller *VocabularyController) GetWord(c *gin.Context) {
	word, ok := controller.lib.GetWord(c.Param("id"))
	if !ok {
		respondNotFound(c, "word")
		return
	}
	c.JSON(http.StatusOK, word)
}

func (controller *VocabularyController) AddWord(c *gin.Context) {
	var req wordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "word is required")
		return
	}

	word := controller.lib.AddWord(library.NewWord(library.WordParams{
		Word:       req.Word,
		Language:   entities.Language(req.Language),
		Definition: req.Definition,
		Context:    req.Context,
	}))

	c.JSON(http.StatusCreated, word)
}

func (controller *VocabularyController) UpdateWord(c *gin.Context) {
	var req wordPatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	patch := library.WordPatch{
		Word:       req.Word,
		Definition: req.Definition,
		Context:    req.Context,
	}
	if req.Language != nil {
		language := entities.Language(*req.Language)
		patch.Language = &language
	}

	word, ok := controller.lib.UpdateWord(c.Param("id"), patch)
	if !ok {
		respondNotFound(c, "word")
		return
	}
	c.JSON(http.StatusOK, word)
}

func (controller *VocabularyController) DeleteWord(c *gin.Context) {
	controller.lib.DeleteWord(c.Param("id"))
	c.Status(http.StatusNoContent)
}
