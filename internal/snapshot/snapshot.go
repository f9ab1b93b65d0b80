// Package snapshot implements whole-library JSON export and import. The
// export format is a dated envelope around both collections; import also
// accepts a bare book array produced by early exports.
package snapshot

import (
	"encoding/json"
	"errors"
	"time"

	"librismundis/internal/entities"
	"librismundis/internal/library"
)

// ErrBadSnapshot is returned for input that is neither a snapshot envelope
// nor a bare book array.
var ErrBadSnapshot = errors.New("unrecognized snapshot format")

// Snapshot is the export envelope. ExportDate is informational and ignored
// on import.
type Snapshot struct {
	Books      []entities.Book `json:"books"`
	Vocabulary []entities.Word `json:"vocabulary"`
	ExportDate string          `json:"exportDate"`
}

// Export captures the library's current collections.
func Export(lib *library.Library) Snapshot {
	return Snapshot{
		Books:      lib.Books(),
		Vocabulary: lib.Vocabulary(),
		ExportDate: time.Now().Format(time.RFC3339),
	}
}

// Marshal renders the snapshot as indented JSON, matching the files the
// export download produces.
func (s Snapshot) Marshal() ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

// Parse reads either the envelope form or a legacy bare array of books.
func Parse(data []byte) (Snapshot, error) {
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err == nil {
		if snap.Books != nil || snap.Vocabulary != nil {
			normalize(&snap)
			return snap, nil
		}
	}

	var books []entities.Book
	if err := json.Unmarshal(data, &books); err == nil && books != nil {
		snap = Snapshot{Books: books}
		normalize(&snap)
		return snap, nil
	}

	return Snapshot{}, ErrBadSnapshot
}

// Apply replaces the library's collections with the snapshot's. Stats are
// deliberately left alone: imports restore data, not progress.
func Apply(lib *library.Library, snap Snapshot) {
	lib.ReplaceAll(snap.Books, snap.Vocabulary)
}

func normalize(snap *Snapshot) {
	if snap.Books == nil {
		snap.Books = []entities.Book{}
	}
	if snap.Vocabulary == nil {
		snap.Vocabulary = []entities.Word{}
	}
	for i := range snap.Books {
		snap.Books[i].RecomputePercentage()
	}
}
