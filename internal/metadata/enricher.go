package metadata

import (
	"context"
	"log"

	"librismundis/internal/entities"
)

// CoverProvider resolves a cover image for a book's identifying fields.
type CoverProvider interface {
	BestCover(ctx context.Context, isbn, title, author string) (string, error)
}

// CoverUpdater is the slice of the library the sweep needs: listing books
// and attaching covers. SetBookCover reports false when the book vanished
// mid-sweep, which counts as a skip.
type CoverUpdater interface {
	Books() []entities.Book
	SetBookCover(id, coverURL string) bool
}

// SweepResult summarizes one enrichment pass.
type SweepResult struct {
	Scanned int `json:"scanned"`
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}

// Enricher fills in missing covers from an external provider.
type Enricher struct {
	provider CoverProvider
	library  CoverUpdater
}

func NewEnricher(provider CoverProvider, library CoverUpdater) *Enricher {
	return &Enricher{provider: provider, library: library}
}

// EnrichCovers sweeps every book without a cover. Lookup failures are
// logged and counted but never abort the sweep; context cancellation stops
// it between books.
func (e *Enricher) EnrichCovers(ctx context.Context) (SweepResult, error) {
	var result SweepResult

	for _, book := range e.library.Books() {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		result.Scanned++
		if book.CoverURL != "" {
			result.Skipped++
			continue
		}

		cover, err := e.provider.BestCover(ctx, book.ISBN, book.Title, book.Author)
		if err != nil {
			log.Printf("Error finding cover for %q: %v", book.Title, err)
			result.Failed++
			continue
		}
		if cover == "" {
			result.Skipped++
			continue
		}

		if e.library.SetBookCover(book.ID, cover) {
			result.Updated++
		} else {
			result.Skipped++
		}
	}

	return result, nil
}
