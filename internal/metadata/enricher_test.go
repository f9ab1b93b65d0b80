package metadata

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"librismundis/internal/entities"
)

type stubProvider struct {
	covers map[string]string
	err    error
	calls  []string
}

func (s *stubProvider) BestCover(_ context.Context, isbn, title, _ string) (string, error) {
	s.calls = append(s.calls, title)
	if s.err != nil {
		return "", s.err
	}
	return s.covers[isbn], nil
}

type stubLibrary struct {
	books   []entities.Book
	updated map[string]string
	gone    map[string]bool
}

func (s *stubLibrary) Books() []entities.Book { return s.books }

func (s *stubLibrary) SetBookCover(id, coverURL string) bool {
	if s.gone[id] {
		return false
	}
	if s.updated == nil {
		s.updated = map[string]string{}
	}
	s.updated[id] = coverURL
	return true
}

func TestEnrichCoversSweep(t *testing.T) {
	lib := &stubLibrary{books: []entities.Book{
		{ID: "1", Title: "Needs Cover", ISBN: "9780575081406"},
		{ID: "2", Title: "Has Cover", CoverURL: "https://existing"},
		{ID: "3", Title: "Nothing Found", ISBN: "9999999999999"},
	}}
	provider := &stubProvider{covers: map[string]string{"9780575081406": "https://img/1"}}

	result, err := NewEnricher(provider, lib).EnrichCovers(context.Background())
	require.NoError(t, err)

	assert.Equal(t, SweepResult{Scanned: 3, Updated: 1, Skipped: 2}, result)
	assert.Equal(t, "https://img/1", lib.updated["1"])
	assert.Equal(t, []string{"Needs Cover", "Nothing Found"}, provider.calls, "covered books are not looked up")
}

func TestEnrichCoversLookupFailuresContinue(t *testing.T) {
	lib := &stubLibrary{books: []entities.Book{
		{ID: "1", Title: "A"},
		{ID: "2", Title: "B"},
	}}
	provider := &stubProvider{err: errors.New("api down")}

	result, err := NewEnricher(provider, lib).EnrichCovers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, SweepResult{Scanned: 2, Failed: 2}, result)
}

func TestEnrichCoversBookDeletedMidSweep(t *testing.T) {
	lib := &stubLibrary{
		books: []entities.Book{{ID: "1", Title: "Vanishing", ISBN: "9780575081406"}},
		gone:  map[string]bool{"1": true},
	}
	provider := &stubProvider{covers: map[string]string{"9780575081406": "https://img/1"}}

	result, err := NewEnricher(provider, lib).EnrichCovers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, SweepResult{Scanned: 1, Skipped: 1}, result)
}

func TestEnrichCoversCancellation(t *testing.T) {
	lib := &stubLibrary{books: []entities.Book{{ID: "1", Title: "A"}}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewEnricher(&stubProvider{}, lib).EnrichCovers(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
