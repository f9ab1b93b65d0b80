package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"librismundis/internal/entities"
)

func testBooks() []entities.Book {
	return []entities.Book{
		{ID: "1", Title: "Zorro", Author: "Isabel Allende", Category: entities.CategoryReading, Language: entities.LanguageSpanish, Rating: 8, DateAdded: 300},
		{ID: "2", Title: "Ana", Author: "Carmen Laforet", Category: entities.CategoryCompleted, Language: entities.LanguageSpanish, Rating: 9, DateAdded: 200},
		{ID: "3", Title: "Dune", Author: "Frank Herbert", Category: entities.CategoryWantToRead, Language: entities.LanguageEnglish, Rating: 0, Comments: "space opera", DateAdded: 100},
	}
}

func TestBooks_AllFiltersOpen(t *testing.T) {
	result := Books(testBooks(), BookFilter{Category: All, Language: All})

	assert.Len(t, result, 3)
}

func TestBooks_CategoryFilter(t *testing.T) {
	result := Books(testBooks(), BookFilter{Category: "completed", Language: All})

	require.Len(t, result, 1)
	assert.Equal(t, "Ana", result[0].Title)
}

func TestBooks_LanguageFilter(t *testing.T) {
	result := Books(testBooks(), BookFilter{Category: All, Language: "en"})

	require.Len(t, result, 1)
	assert.Equal(t, "Dune", result[0].Title)
}

func TestBooks_MissingLanguageDefaultsToSpanish(t *testing.T) {
	books := []entities.Book{{ID: "1", Title: "Viejo"}}

	result := Books(books, BookFilter{Category: All, Language: "es"})

	assert.Len(t, result, 1)
}

func TestBooks_SearchMatchesTitleAuthorOrComments(t *testing.T) {
	books := testBooks()

	byTitle := Books(books, BookFilter{Category: All, Language: All, Search: "zor"})
	require.Len(t, byTitle, 1)
	assert.Equal(t, "Zorro", byTitle[0].Title)

	byAuthor := Books(books, BookFilter{Category: All, Language: All, Search: "laforet"})
	require.Len(t, byAuthor, 1)
	assert.Equal(t, "Ana", byAuthor[0].Title)

	byComments := Books(books, BookFilter{Category: All, Language: All, Search: "SPACE"})
	require.Len(t, byComments, 1)
	assert.Equal(t, "Dune", byComments[0].Title)

	none := Books(books, BookFilter{Category: All, Language: All, Search: "nothing here"})
	assert.Empty(t, none)
}

func TestBooks_SortTitleAsc(t *testing.T) {
	result := Books(testBooks(), BookFilter{Category: All, Language: All, Sort: SortTitleAsc})

	require.Len(t, result, 3)
	assert.Equal(t, "Ana", result[0].Title)
	assert.Equal(t, "Dune", result[1].Title)
	assert.Equal(t, "Zorro", result[2].Title)
}

func TestBooks_SortRatingDesc(t *testing.T) {
	result := Books(testBooks(), BookFilter{Category: All, Language: All, Sort: SortRatingDesc})

	require.Len(t, result, 3)
	assert.Equal(t, "Ana", result[0].Title)
	assert.Equal(t, float64(0), result[2].Rating)
}

func TestBooks_SortDateDefaultOrder(t *testing.T) {
	result := Books(testBooks(), BookFilter{Category: All, Language: All, Sort: SortDateDesc})

	require.Len(t, result, 3)
	assert.Equal(t, "Zorro", result[0].Title)
	assert.Equal(t, "Dune", result[2].Title)
}

func TestBooks_UnknownSortIsStableNoOp(t *testing.T) {
	books := testBooks()

	result := Books(books, BookFilter{Category: All, Language: All, Sort: "bogus"})

	require.Len(t, result, 3)
	assert.Equal(t, books[0].ID, result[0].ID)
	assert.Equal(t, books[1].ID, result[1].ID)
	assert.Equal(t, books[2].ID, result[2].ID)
}

func TestBooks_Pagination(t *testing.T) {
	var books []entities.Book
	for i := 0; i < 15; i++ {
		books = append(books, entities.Book{ID: string(rune('a' + i))})
	}

	page1 := Books(books, BookFilter{Category: All, Language: All, Page: 1})
	assert.Len(t, page1, BooksPerPage)

	page2 := Books(books, BookFilter{Category: All, Language: All, Page: 2})
	assert.Len(t, page2, 3)

	beyond := Books(books, BookFilter{Category: All, Language: All, Page: 5})
	assert.Empty(t, beyond)
	assert.NotNil(t, beyond)
}

func TestWords_FixedSortMostRecentFirst(t *testing.T) {
	words := []entities.Word{
		{ID: "1", Word: "casa", Language: entities.LanguageSpanish, DateAdded: 100},
		{ID: "2", Word: "libro", Language: entities.LanguageSpanish, DateAdded: 300},
		{ID: "3", Word: "chien", Language: entities.LanguageFrench, DateAdded: 200},
	}

	result := Words(words, WordFilter{Language: All})

	require.Len(t, result, 3)
	assert.Equal(t, "libro", result[0].Word)
	assert.Equal(t, "chien", result[1].Word)
	assert.Equal(t, "casa", result[2].Word)
}

func TestWords_LanguageAndSearch(t *testing.T) {
	words := []entities.Word{
		{ID: "1", Word: "casa", Language: entities.LanguageSpanish, Definition: "house"},
		{ID: "2", Word: "perro", Language: entities.LanguageSpanish, Context: "el perro ladra"},
		{ID: "3", Word: "chien", Language: entities.LanguageFrench, Definition: "dog"},
	}

	spanish := Words(words, WordFilter{Language: "es"})
	assert.Len(t, spanish, 2)

	byContext := Words(words, WordFilter{Language: All, Search: "ladra"})
	require.Len(t, byContext, 1)
	assert.Equal(t, "perro", byContext[0].Word)

	byDefinition := Words(words, WordFilter{Language: All, Search: "dog"})
	require.Len(t, byDefinition, 1)
	assert.Equal(t, "chien", byDefinition[0].Word)
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 0, TotalPages(0, 12))
	assert.Equal(t, 1, TotalPages(12, 12))
	assert.Equal(t, 2, TotalPages(13, 12))
}

func TestCountBooks_IgnoresPagination(t *testing.T) {
	var books []entities.Book
	for i := 0; i < 15; i++ {
		books = append(books, entities.Book{ID: string(rune('a' + i)), Category: entities.CategoryReading})
	}
	books[0].Category = entities.CategoryCompleted

	assert.Equal(t, 15, CountBooks(books, BookFilter{Category: All, Language: All, Page: 2}))
	assert.Equal(t, 14, CountBooks(books, BookFilter{Category: string(entities.CategoryReading), Language: All}))
}

func TestCountWords_AppliesFilters(t *testing.T) {
	words := []entities.Word{
		{ID: "1", Word: "casa", Language: entities.LanguageSpanish},
		{ID: "2", Word: "perro", Language: entities.LanguageSpanish},
		{ID: "3", Word: "chien", Language: entities.LanguageFrench},
	}

	assert.Equal(t, 3, CountWords(words, WordFilter{Language: All}))
	assert.Equal(t, 2, CountWords(words, WordFilter{Language: "es"}))
	assert.Equal(t, 1, CountWords(words, WordFilter{Language: All, Search: "chien"}))
}
