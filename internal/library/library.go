// Package library holds the in-memory entity stores and their persistence
// round-trip. A Library owns exactly one namespace's books, vocabulary and
// stats at a time; switching users swaps the whole set.
package library

import (
	"log"
	"strings"
	"sync"
	"time"

	"librismundis/internal/entities"
	"librismundis/internal/gamification"
	"librismundis/internal/ident"
	"librismundis/internal/storage"
)

// Library is the application context around the entity stores. All mutators
// persist the full namespace synchronously before returning, so callers
// never observe a partial write.
type Library struct {
	mu      sync.Mutex
	gateway *Gateway
	engine  *gamification.Engine

	namespace  string
	books      []entities.Book
	vocabulary []entities.Word
	stats      entities.UserStats

	// now is swappable for streak tests.
	now func() time.Time
}

func New(backend storage.Backend, engine *gamification.Engine) *Library {
	return &Library{
		gateway:    NewGateway(backend),
		engine:     engine,
		namespace:  storage.GuestNamespace,
		books:      []entities.Book{},
		vocabulary: []entities.Word{},
		stats:      entities.NewUserStats(),
		now:        time.Now,
	}
}

// Activate loads the given namespace into memory, replacing whatever was
// held before, and runs the once-per-activation daily streak check.
func (l *Library) Activate(namespace string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.namespace = namespace
	l.books, l.vocabulary, l.stats = l.gateway.Load(namespace)

	if l.engine.CheckDailyStreak(&l.stats, l.now()) {
		l.persist()
	}
}

// Namespace reports the active storage scope.
func (l *Library) Namespace() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.namespace
}

// Flush persists the current in-memory state. Used on logout and shutdown.
func (l *Library) Flush() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.persist()
}

// persist writes the whole namespace. Storage failures are logged and the
// in-memory state stays authoritative; nothing here is fatal.
func (l *Library) persist() {
	if err := l.gateway.Save(l.namespace, l.books, l.vocabulary, l.stats); err != nil {
		log.Printf("Error persisting namespace %s: %v", l.namespace, err)
	}
}

// BookParams is the raw input for a new book. Text fields are trimmed and
// numeric fields clamped to non-negative values by NewBook.
type BookParams struct {
	Title       string
	Author      string
	TotalPages  int
	CurrentPage int
	Category    entities.Category
	Language    entities.Language
	Rating      float64
	Comments    string
	CoverURL    string
	ISBN        string
}

// NewBook validates and normalizes params into a Book with a fresh id and
// creation timestamp. The book is not added to the store yet.
func NewBook(p BookParams) entities.Book {
	if p.Language == "" {
		p.Language = entities.LanguageSpanish
	}
	if !p.Category.Valid() {
		p.Category = entities.CategoryWantToRead
	}

	book := entities.Book{
		ID:          ident.New(),
		Title:       strings.TrimSpace(p.Title),
		Author:      strings.TrimSpace(p.Author),
		TotalPages:  clampNonNegative(p.TotalPages),
		CurrentPage: clampNonNegative(p.CurrentPage),
		Category:    p.Category,
		Language:    p.Language,
		Rating:      p.Rating,
		Comments:    strings.TrimSpace(p.Comments),
		CoverURL:    strings.TrimSpace(p.CoverURL),
		ISBN:        strings.TrimSpace(p.ISBN),
		DateAdded:   time.Now().UnixMilli(),
	}
	if book.Rating < 0 {
		book.Rating = 0
	}
	book.RecomputePercentage()
	return book
}

// AddBook inserts at the head of the collection (most recent first), grants
// the add XP, and persists. Adding a book already on the completed shelf also
// grants the completion bonus and counts it as read.
func (l *Library) AddBook(book entities.Book) entities.Book {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.books = append([]entities.Book{book}, l.books...)

	l.engine.GrantXP(&l.stats, gamification.XPBookAdded, "Book added")
	if book.Category == entities.CategoryCompleted {
		l.engine.GrantXP(&l.stats, gamification.XPBookFinish, "Book finished")
		l.stats.BooksRead++
	}

	l.persist()
	return book
}

// BookPatch is a partial update; nil fields are left untouched.
type BookPatch struct {
	Title       *string
	Author      *string
	TotalPages  *int
	CurrentPage *int
	Category    *entities.Category
	Language    *entities.Language
	Rating      *float64
	Comments    *string
	CoverURL    *string
	ISBN        *string
}

// UpdateBook merges the patch into the book with the given id. Progress
// percentage is re-derived whenever pages are touched. A transition onto the
// completed shelf from any other shelf grants the completion bonus exactly
// once; re-asserting an already-completed category grants nothing.
func (l *Library) UpdateBook(id string, patch BookPatch) (entities.Book, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	idx := l.bookIndex(id)
	if idx < 0 {
		return entities.Book{}, false
	}

	book := &l.books[idx]
	previousCategory := book.Category

	if patch.Title != nil {
		book.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Author != nil {
		book.Author = strings.TrimSpace(*patch.Author)
	}
	if patch.TotalPages != nil {
		book.TotalPages = clampNonNegative(*patch.TotalPages)
	}
	if patch.CurrentPage != nil {
		book.CurrentPage = clampNonNegative(*patch.CurrentPage)
	}
	if patch.Category != nil && patch.Category.Valid() {
		book.Category = *patch.Category
	}
	if patch.Language != nil {
		book.Language = *patch.Language
	}
	if patch.Rating != nil {
		book.Rating = *patch.Rating
		if book.Rating < 0 {
			book.Rating = 0
		}
	}
	if patch.Comments != nil {
		book.Comments = strings.TrimSpace(*patch.Comments)
	}
	if patch.CoverURL != nil {
		book.CoverURL = strings.TrimSpace(*patch.CoverURL)
	}
	if patch.ISBN != nil {
		book.ISBN = strings.TrimSpace(*patch.ISBN)
	}

	if patch.TotalPages != nil || patch.CurrentPage != nil {
		book.RecomputePercentage()
	}

	if book.Category == entities.CategoryCompleted && previousCategory != entities.CategoryCompleted {
		l.engine.GrantXP(&l.stats, gamification.XPBookFinish, "Book finished")
		l.stats.BooksRead++
	}

	l.persist()
	return *book, true
}

// DeleteBook removes by id and persists. Absent ids are a no-op, and delete
// does not roll back any XP or counters the book earned.
func (l *Library) DeleteBook(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	idx := l.bookIndex(id)
	if idx < 0 {
		return
	}

	l.books = append(l.books[:idx], l.books[idx+1:]...)
	l.persist()
}

func (l *Library) GetBook(id string) (entities.Book, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	idx := l.bookIndex(id)
	if idx < 0 {
		return entities.Book{}, false
	}
	return l.books[idx], true
}

// Books returns a copy of the book collection in storage order.
func (l *Library) Books() []entities.Book {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]entities.Book, len(l.books))
	copy(out, l.books)
	return out
}

// SetBookCover attaches a cover URL and persists immediately. Returns false
// (without persisting) when the book no longer exists, which the enrichment
// sweep treats as a silent skip.
func (l *Library) SetBookCover(id, coverURL string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	idx := l.bookIndex(id)
	if idx < 0 {
		return false
	}

	l.books[idx].CoverURL = coverURL
	l.persist()
	return true
}

// Stats returns a copy of the gamification state.
func (l *Library) Stats() entities.UserStats {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.stats
}

// Statistics are the per-shelf book counts for the dashboard.
type Statistics struct {
	Total      int `json:"total"`
	WantToRead int `json:"want_to_read"`
	Reading    int `json:"reading"`
	Completed  int `json:"completed"`
	Abandoned  int `json:"abandoned"`
}

func (l *Library) Statistics() Statistics {
	l.mu.Lock()
	defer l.mu.Unlock()

	stats := Statistics{Total: len(l.books)}
	for _, b := range l.books {
		switch b.Category {
		case entities.CategoryWantToRead:
			stats.WantToRead++
		case entities.CategoryReading:
			stats.Reading++
		case entities.CategoryCompleted:
			stats.Completed++
		case entities.CategoryAbandoned:
			stats.Abandoned++
		}
	}
	return stats
}

// ReplaceAll swaps both collections wholesale and persists, leaving stats
// untouched. Snapshot import is the only caller.
func (l *Library) ReplaceAll(books []entities.Book, words []entities.Word) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if books == nil {
		books = []entities.Book{}
	}
	if words == nil {
		words = []entities.Word{}
	}

	l.books = books
	l.vocabulary = words
	l.persist()
}

func (l *Library) bookIndex(id string) int {
	for i := range l.books {
		if l.books[i].ID == id {
			return i
		}
	}
	return -1
}

func clampNonNegative(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
