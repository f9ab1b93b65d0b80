// Package query derives the ordered, paginated views the presentation layer
// renders. Stores are never mutated; every call works on a copy.
package query

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"librismundis/internal/entities"
)

// Sentinel filter value matching every category or language.
const All = "all"

// Default page sizes for the two views.
const (
	BooksPerPage = 12
	WordsPerPage = 20
)

// Sort keys for the book view. An unrecognized key leaves the incoming
// order untouched.
type Sort string

const (
	SortDateDesc   Sort = "date_desc"
	SortDateAsc    Sort = "date_asc"
	SortTitleAsc   Sort = "title_asc"
	SortTitleDesc  Sort = "title_desc"
	SortAuthorAsc  Sort = "author_asc"
	SortAuthorDesc Sort = "author_desc"
	SortRatingAsc  Sort = "rating_asc"
	SortRatingDesc Sort = "rating_desc"
)

// BookFilter selects and orders the book view.
type BookFilter struct {
	Category string // category value or "all"
	Language string // language code or "all"
	Search   string // case-insensitive substring over title/author/comments
	Sort     Sort
	Page     int // 1-based; values < 1 are treated as 1
	PageSize int // defaults to BooksPerPage when <= 0
}

// WordFilter selects the vocabulary view. Vocabulary has a single fixed
// sort (date added, descending), so there is no sort key.
type WordFilter struct {
	Language string
	Search   string // case-insensitive substring over word/definition/context
	Page     int
	PageSize int
}

// collator performs the locale-aware comparisons used for title and author
// sorting. Collation tables are language-neutral here; the important part is
// that accented characters order next to their base letters.
var collator = collate.New(language.Und)

// Books applies the filter pipeline in its fixed order: category, language,
// free-text search, sort, pagination.
func Books(books []entities.Book, f BookFilter) []entities.Book {
	filtered := make([]entities.Book, 0, len(books))

	for _, b := range books {
		if f.Category != "" && f.Category != All && string(b.Category) != f.Category {
			continue
		}
		if f.Language != "" && f.Language != All {
			// Books persisted before language support default to Spanish.
			lang := b.Language
			if lang == "" {
				lang = entities.LanguageSpanish
			}
			if string(lang) != f.Language {
				continue
			}
		}
		if !matchesBookSearch(b, f.Search) {
			continue
		}
		filtered = append(filtered, b)
	}

	sortBooks(filtered, f.Sort)

	return paginate(filtered, f.Page, f.PageSize, BooksPerPage)
}

// Words filters vocabulary by language and free text, sorted most recent
// first.
func Words(words []entities.Word, f WordFilter) []entities.Word {
	filtered := make([]entities.Word, 0, len(words))

	for _, w := range words {
		if f.Language != "" && f.Language != All && string(w.Language) != f.Language {
			continue
		}
		if !matchesWordSearch(w, f.Search) {
			continue
		}
		filtered = append(filtered, w)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].DateAdded > filtered[j].DateAdded
	})

	return paginate(filtered, f.Page, f.PageSize, WordsPerPage)
}

// CountBooks reports how many books the filter matches before pagination.
func CountBooks(books []entities.Book, f BookFilter) int {
	count := 0
	for _, b := range books {
		if f.Category != "" && f.Category != All && string(b.Category) != f.Category {
			continue
		}
		if f.Language != "" && f.Language != All {
			lang := b.Language
			if lang == "" {
				lang = entities.LanguageSpanish
			}
			if string(lang) != f.Language {
				continue
			}
		}
		if !matchesBookSearch(b, f.Search) {
			continue
		}
		count++
	}
	return count
}

// CountWords reports how many words the filter matches before pagination.
func CountWords(words []entities.Word, f WordFilter) int {
	count := 0
	for _, w := range words {
		if f.Language != "" && f.Language != All && string(w.Language) != f.Language {
			continue
		}
		if !matchesWordSearch(w, f.Search) {
			continue
		}
		count++
	}
	return count
}

func matchesBookSearch(b entities.Book, search string) bool {
	if search == "" {
		return true
	}
	q := strings.ToLower(search)
	return strings.Contains(strings.ToLower(b.Title), q) ||
		strings.Contains(strings.ToLower(b.Author), q) ||
		strings.Contains(strings.ToLower(b.Comments), q)
}

func matchesWordSearch(w entities.Word, search string) bool {
	if search == "" {
		return true
	}
	q := strings.ToLower(search)
	return strings.Contains(strings.ToLower(w.Word), q) ||
		strings.Contains(strings.ToLower(w.Definition), q) ||
		strings.Contains(strings.ToLower(w.Context), q)
}

func sortBooks(books []entities.Book, key Sort) {
	var less func(a, b entities.Book) bool

	switch key {
	case SortDateDesc:
		less = func(a, b entities.Book) bool { return a.DateAdded > b.DateAdded }
	case SortDateAsc:
		less = func(a, b entities.Book) bool { return a.DateAdded < b.DateAdded }
	case SortTitleAsc:
		less = func(a, b entities.Book) bool { return collator.CompareString(a.Title, b.Title) < 0 }
	case SortTitleDesc:
		less = func(a, b entities.Book) bool { return collator.CompareString(a.Title, b.Title) > 0 }
	case SortAuthorAsc:
		less = func(a, b entities.Book) bool { return collator.CompareString(a.Author, b.Author) < 0 }
	case SortAuthorDesc:
		less = func(a, b entities.Book) bool { return collator.CompareString(a.Author, b.Author) > 0 }
	case SortRatingAsc:
		less = func(a, b entities.Book) bool { return a.Rating < b.Rating }
	case SortRatingDesc:
		less = func(a, b entities.Book) bool { return a.Rating > b.Rating }
	default:
		// Unrecognized sort keys are a stable no-op.
		return
	}

	sort.SliceStable(books, func(i, j int) bool { return less(books[i], books[j]) })
}

// TotalPages reports how many pages a result set of total items spans.
func TotalPages(total, pageSize int) int {
	if pageSize <= 0 || total <= 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}

func paginate[T any](items []T, page, pageSize, defaultSize int) []T {
	if pageSize <= 0 {
		pageSize = defaultSize
	}
	if page < 1 {
		page = 1
	}

	start := (page - 1) * pageSize
	if start >= len(items) {
		return []T{}
	}

	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
