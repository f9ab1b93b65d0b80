package library

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"librismundis/internal/entities"
	"librismundis/internal/gamification"
	"librismundis/internal/storage"
)

func setupLibrary(t *testing.T) (*Library, storage.Backend) {
	t.Helper()
	backend := storage.NewMemoryBackend()
	lib := New(backend, gamification.NewEngine(gamification.NopNotifier{}))
	lib.Activate(storage.GuestNamespace)
	return lib, backend
}

func TestNewBookNormalization(t *testing.T) {
	book := NewBook(BookParams{
		Title:       "  Rayuela  ",
		Author:      " Julio Cortázar ",
		TotalPages:  -10,
		CurrentPage: -3,
		Category:    "bogus",
		Rating:      -1,
	})

	assert.Equal(t, "Rayuela", book.Title)
	assert.Equal(t, "Julio Cortázar", book.Author)
	assert.Equal(t, 0, book.TotalPages)
	assert.Equal(t, 0, book.CurrentPage)
	assert.Equal(t, entities.CategoryWantToRead, book.Category)
	assert.Equal(t, entities.LanguageSpanish, book.Language)
	assert.Equal(t, float64(0), book.Rating)
	assert.NotEmpty(t, book.ID)
	assert.NotZero(t, book.DateAdded)
}

func TestPercentageDerivation(t *testing.T) {
	book := NewBook(BookParams{Title: "A", Author: "B", TotalPages: 200, CurrentPage: 50})
	assert.Equal(t, 25, book.Percentage)

	zero := NewBook(BookParams{Title: "A", Author: "B", TotalPages: 0, CurrentPage: 50})
	assert.Equal(t, 0, zero.Percentage)

	rounded := NewBook(BookParams{Title: "A", Author: "B", TotalPages: 3, CurrentPage: 1})
	assert.Equal(t, 33, rounded.Percentage)
}

func TestAddBookHeadInsertAndXP(t *testing.T) {
	lib, _ := setupLibrary(t)

	first := lib.AddBook(NewBook(BookParams{Title: "First", Author: "A"}))
	second := lib.AddBook(NewBook(BookParams{Title: "Second", Author: "B"}))

	books := lib.Books()
	require.Len(t, books, 2)
	assert.Equal(t, second.ID, books[0].ID)
	assert.Equal(t, first.ID, books[1].ID)

	// 10 daily-visit XP from activation plus 10 per added book.
	stats := lib.Stats()
	assert.Equal(t, 30, stats.XP)
	assert.Equal(t, 0, stats.BooksRead)
}

func TestAddCompletedBookGrantsFinishBonus(t *testing.T) {
	lib, _ := setupLibrary(t)

	lib.AddBook(NewBook(BookParams{Title: "Done", Author: "A", Category: entities.CategoryCompleted}))

	// 10 visit + 10 add + 50 finish.
	stats := lib.Stats()
	assert.Equal(t, 70, stats.XP)
	assert.Equal(t, 1, stats.BooksRead)
}

func TestUpdateBookCompletionTransitionOnce(t *testing.T) {
	lib, _ := setupLibrary(t)
	book := lib.AddBook(NewBook(BookParams{Title: "Slow", Author: "A", Category: entities.CategoryReading}))

	completed := entities.CategoryCompleted
	_, ok := lib.UpdateBook(book.ID, BookPatch{Category: &completed})
	require.True(t, ok)

	stats := lib.Stats()
	assert.Equal(t, 70, stats.XP)
	assert.Equal(t, 1, stats.BooksRead)

	// Re-asserting completed must not double-grant.
	_, ok = lib.UpdateBook(book.ID, BookPatch{Category: &completed})
	require.True(t, ok)
	stats = lib.Stats()
	assert.Equal(t, 70, stats.XP)
	assert.Equal(t, 1, stats.BooksRead)
}

func TestUpdateBookRecomputesPercentage(t *testing.T) {
	lib, _ := setupLibrary(t)
	book := lib.AddBook(NewBook(BookParams{Title: "T", Author: "A", TotalPages: 100, CurrentPage: 10}))

	page := 55
	updated, ok := lib.UpdateBook(book.ID, BookPatch{CurrentPage: &page})
	require.True(t, ok)
	assert.Equal(t, 55, updated.Percentage)

	total := 0
	updated, ok = lib.UpdateBook(book.ID, BookPatch{TotalPages: &total})
	require.True(t, ok)
	assert.Equal(t, 0, updated.Percentage)
}

func TestUpdateBookUnknownID(t *testing.T) {
	lib, _ := setupLibrary(t)
	title := "nope"
	_, ok := lib.UpdateBook("missing", BookPatch{Title: &title})
	assert.False(t, ok)
}

func TestDeleteBookIdempotentAndKeepsXP(t *testing.T) {
	lib, _ := setupLibrary(t)
	book := lib.AddBook(NewBook(BookParams{Title: "Gone", Author: "A", Category: entities.CategoryCompleted}))

	lib.DeleteBook(book.ID)
	assert.Empty(t, lib.Books())

	stats := lib.Stats()
	assert.Equal(t, 70, stats.XP)
	assert.Equal(t, 1, stats.BooksRead)

	lib.DeleteBook(book.ID)
	lib.DeleteBook("never-existed")
	assert.Empty(t, lib.Books())
}

func TestAddWordTailAppendAndXP(t *testing.T) {
	lib, _ := setupLibrary(t)

	first := lib.AddWord(NewWord(WordParams{Word: "casa", Definition: "house"}))
	second := lib.AddWord(NewWord(WordParams{Word: "perro", Definition: "dog"}))

	words := lib.Vocabulary()
	require.Len(t, words, 2)
	assert.Equal(t, first.ID, words[0].ID)
	assert.Equal(t, second.ID, words[1].ID)

	// 10 visit + 5 per word.
	stats := lib.Stats()
	assert.Equal(t, 20, stats.XP)
	assert.Equal(t, 2, stats.WordsLearned)
}

func TestDeleteWordKeepsLearnedCounter(t *testing.T) {
	lib, _ := setupLibrary(t)
	word := lib.AddWord(NewWord(WordParams{Word: "casa"}))

	lib.DeleteWord(word.ID)
	lib.DeleteWord(word.ID)

	assert.Empty(t, lib.Vocabulary())
	assert.Equal(t, 1, lib.Stats().WordsLearned)
}

func TestUpdateWord(t *testing.T) {
	lib, _ := setupLibrary(t)
	word := lib.AddWord(NewWord(WordParams{Word: "casa", Definition: "house"}))

	def := "  home, house  "
	updated, ok := lib.UpdateWord(word.ID, WordPatch{Definition: &def})
	require.True(t, ok)
	assert.Equal(t, "home, house", updated.Definition)

	_, ok = lib.UpdateWord("missing", WordPatch{Definition: &def})
	assert.False(t, ok)
}

func TestPersistenceRoundTrip(t *testing.T) {
	backend := storage.NewMemoryBackend()
	engine := gamification.NewEngine(gamification.NopNotifier{})

	lib := New(backend, engine)
	lib.Activate(storage.GuestNamespace)
	book := lib.AddBook(NewBook(BookParams{Title: "Ficciones", Author: "Borges", TotalPages: 200, CurrentPage: 40}))
	word := lib.AddWord(NewWord(WordParams{Word: "laberinto", Definition: "labyrinth"}))

	// A second instance over the same backend sees the same state.
	reloaded := New(backend, engine)
	reloaded.Activate(storage.GuestNamespace)

	books := reloaded.Books()
	require.Len(t, books, 1)
	assert.Equal(t, book, books[0])

	words := reloaded.Vocabulary()
	require.Len(t, words, 1)
	assert.Equal(t, word, words[0])
}

func TestActivateRunsStreakOnce(t *testing.T) {
	lib, _ := setupLibrary(t)

	stats := lib.Stats()
	assert.Equal(t, 1, stats.Streak)
	assert.Equal(t, 10, stats.XP)

	// Re-activating on the same day changes nothing.
	lib.Activate(storage.GuestNamespace)
	stats = lib.Stats()
	assert.Equal(t, 1, stats.Streak)
	assert.Equal(t, 10, stats.XP)
}

func TestActivateStreakIncrementsNextDay(t *testing.T) {
	backend := storage.NewMemoryBackend()
	lib := New(backend, gamification.NewEngine(gamification.NopNotifier{}))

	day1 := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	lib.now = func() time.Time { return day1 }
	lib.Activate(storage.GuestNamespace)
	assert.Equal(t, 1, lib.Stats().Streak)

	lib.now = func() time.Time { return day1.AddDate(0, 0, 1) }
	lib.Activate(storage.GuestNamespace)
	assert.Equal(t, 2, lib.Stats().Streak)

	lib.now = func() time.Time { return day1.AddDate(0, 0, 5) }
	lib.Activate(storage.GuestNamespace)
	assert.Equal(t, 1, lib.Stats().Streak)
}

func TestSetBookCover(t *testing.T) {
	lib, _ := setupLibrary(t)
	book := lib.AddBook(NewBook(BookParams{Title: "T", Author: "A"}))

	assert.True(t, lib.SetBookCover(book.ID, "https://covers.example/1.jpg"))
	got, ok := lib.GetBook(book.ID)
	require.True(t, ok)
	assert.Equal(t, "https://covers.example/1.jpg", got.CoverURL)

	assert.False(t, lib.SetBookCover("missing", "x"))
}

func TestStatistics(t *testing.T) {
	lib, _ := setupLibrary(t)
	lib.AddBook(NewBook(BookParams{Title: "1", Author: "A", Category: entities.CategoryReading}))
	lib.AddBook(NewBook(BookParams{Title: "2", Author: "A", Category: entities.CategoryCompleted}))
	lib.AddBook(NewBook(BookParams{Title: "3", Author: "A", Category: entities.CategoryCompleted}))
	lib.AddBook(NewBook(BookParams{Title: "4", Author: "A"}))

	stats := lib.Statistics()
	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, 1, stats.Reading)
	assert.Equal(t, 2, stats.Completed)
	assert.Equal(t, 1, stats.WantToRead)
	assert.Equal(t, 0, stats.Abandoned)
}

func TestReplaceAll(t *testing.T) {
	lib, _ := setupLibrary(t)
	lib.AddBook(NewBook(BookParams{Title: "Old", Author: "A"}))
	xpBefore := lib.Stats().XP

	incoming := []entities.Book{NewBook(BookParams{Title: "New", Author: "B"})}
	lib.ReplaceAll(incoming, nil)

	books := lib.Books()
	require.Len(t, books, 1)
	assert.Equal(t, "New", books[0].Title)
	assert.Empty(t, lib.Vocabulary())
	assert.Equal(t, xpBefore, lib.Stats().XP, "import must not touch stats")
}

func TestCorruptDataFailsClosed(t *testing.T) {
	backend := storage.NewMemoryBackend()
	require.NoError(t, backend.Set(storage.BooksKey(storage.GuestNamespace), "{not json"))
	require.NoError(t, backend.Set(storage.StatsKey(storage.GuestNamespace), "[]"))

	lib := New(backend, gamification.NewEngine(gamification.NopNotifier{}))
	lib.Activate(storage.GuestNamespace)

	assert.Empty(t, lib.Books())
	assert.Equal(t, 1, lib.Stats().Level)
}
