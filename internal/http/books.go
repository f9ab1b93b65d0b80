package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"librismundis/internal/entities"
	"librismundis/internal/library"
	"librismundis/internal/query"
)

type BooksController struct {
	lib *library.Library
}

func NewBooksController(lib *library.Library) *BooksController {
	return &BooksController{lib: lib}
}

// bookRequest is the JSON body for creating a book.
type bookRequest struct {
	Title       string  `json:"title" binding:"required"`
	Author      string  `json:"author" binding:"required"`
	TotalPages  int     `json:"totalPages"`
	CurrentPage int     `json:"currentPage"`
	Category    string  `json:"category"`
	Language    string  `json:"language"`
	Rating      float64 `json:"rating"`
	Comments    string  `json:"comments"`
	CoverURL    string  `json:"coverUrl"`
	ISBN        string  `json:"isbn"`
}

// bookPatchRequest is the JSON body for a partial update; absent fields are
// left untouched.
type bookPatchRequest struct {
	Title       *string  `json:"title"`
	Author      *string  `json:"author"`
	TotalPages  *int     `json:"totalPages"`
	CurrentPage *int     `json:"currentPage"`
	Category    *string  `json:"category"`
	Language    *string  `json:"language"`
	Rating      *float64 `json:"rating"`
	Comments    *string  `json:"comments"`
	CoverURL    *string  `json:"coverUrl"`
	ISBN        *string  `json:"isbn"`
}

// ListBooks serves the filtered, sorted, paginated book view.
func (controller *BooksController) ListBooks(c *gin.Context) {
	filter := query.BookFilter{
		Category: c.DefaultQuery("category", query.All),
		Language: c.DefaultQuery("language", query.All),
		Search:   c.Query("search"),
		Sort:     query.Sort(c.DefaultQuery("sort", string(query.SortDateDesc))),
		Page:     intQuery(c, "page", 1),
		PageSize: intQuery(c, "pageSize", query.BooksPerPage),
	}

	all := controller.lib.Books()
	page := query.Books(all, filter)
	total := query.CountBooks(all, filter)

	pageSize := filter.PageSize
	if pageSize <= 0 {
		pageSize = query.BooksPerPage
	}

	c.JSON(http.StatusOK, gin.H{
		"books":      page,
		"total":      total,
		"page":       filter.Page,
		"totalPages": query.TotalPages(total, pageSize),
	})
}

func (controller *BooksController) GetBook(c *gin.Context) {
	book, ok := controller.lib.GetBook(c.Param("id"))
	if !ok {
		respondNotFound(c, "book")
		return
	}
	c.JSON(http.StatusOK, book)
}

func (controller *BooksController) CreateBook(c *gin.Context) {
	var req bookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "title and author are required")
		return
	}

	book := controller.lib.AddBook(library.NewBook(library.BookParams{
		Title:       req.Title,
		Author:      req.Author,
		TotalPages:  req.TotalPages,
		CurrentPage: req.CurrentPage,
		Category:    entities.Category(req.Category),
		Language:    entities.Language(req.Language),
		Rating:      req.Rating,
		Comments:    req.Comments,
		CoverURL:    req.CoverURL,
		ISBN:        req.ISBN,
	}))

	c.JSON(http.StatusCreated, book)
}

func (controller *BooksController) UpdateBook(c *gin.Context) {
	var req bookPatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	patch := library.BookPatch{
		Title:       req.Title,
		Author:      req.Author,
		TotalPages:  req.TotalPages,
		CurrentPage: req.CurrentPage,
		Rating:      req.Rating,
		Comments:    req.Comments,
		CoverURL:    req.CoverURL,
		ISBN:        req.ISBN,
	}
	if req.Category != nil {
		category := entities.Category(*req.Category)
		patch.Category = &category
	}
	if req.Language != nil {
		language := entities.Language(*req.Language)
		patch.Language = &language
	}

	book, ok := controller.lib.UpdateBook(c.Param("id"), patch)
	if !ok {
		respondNotFound(c, "book")
		return
	}
	c.JSON(http.StatusOK, book)
}

func (controller *BooksController) DeleteBook(c *gin.Context) {
	controller.lib.DeleteBook(c.Param("id"))
	c.Status(http.StatusNoContent)
}

// Statistics serves the per-shelf book counts.
func (controller *BooksController) Statistics(c *gin.Context) {
	c.JSON(http.StatusOK, controller.lib.Statistics())
}

func intQuery(c *gin.Context, name string, fallback int) int {
	value, err := strconv.Atoi(c.Query(name))
	if err != nil {
		return fallback
	}
	return value
}
