// Package goodreads imports Goodreads library exports. The CSV schema has
// drifted over the years, so parsing is header-driven and tolerant of extra
// or reordered columns.
package goodreads

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"librismundis/internal/entities"
	"librismundis/internal/library"
)

// ErrMissingColumns is returned when the header lacks Title or Author,
// without which no row can become a book.
var ErrMissingColumns = errors.New("csv is missing required Title and Author columns")

// Row is one parsed Goodreads record, already mapped onto this
// application's book model.
type Row struct {
	Title       string
	Author      string
	TotalPages  int
	CurrentPage int
	Category    entities.Category
	Rating      float64
	ISBN        string
}

// Parse reads a Goodreads CSV export. Rows missing a title or author are
// skipped rather than failing the whole file.
func Parse(r io.Reader) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	if _, ok := columns["title"]; !ok {
		return nil, ErrMissingColumns
	}
	if _, ok := columns["author"]; !ok {
		return nil, ErrMissingColumns
	}

	var rows []Row
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read record: %w", err)
		}

		title := strings.TrimSpace(field(record, columns, "title"))
		author := strings.TrimSpace(field(record, columns, "author"))
		if title == "" || author == "" {
			continue
		}

		row := Row{
			Title:    title,
			Author:   author,
			Category: mapShelf(field(record, columns, "exclusive shelf")),
			ISBN:     cleanISBN(field(record, columns, "isbn13"), field(record, columns, "isbn")),
		}

		if pages, err := strconv.Atoi(strings.TrimSpace(field(record, columns, "number of pages"))); err == nil && pages > 0 {
			row.TotalPages = pages
		}
		// Goodreads rates out of 5, we rate out of 10.
		if rating, err := strconv.ParseFloat(strings.TrimSpace(field(record, columns, "my rating")), 64); err == nil && rating > 0 {
			row.Rating = rating * 2
		}
		if row.Category == entities.CategoryCompleted {
			row.CurrentPage = row.TotalPages
		}

		rows = append(rows, row)
	}
	return rows, nil
}

// Import parses the export and adds every row to the library, with all the
// usual add-time side effects. Returns the number of books imported.
func Import(lib *library.Library, r io.Reader) (int, error) {
	rows, err := Parse(r)
	if err != nil {
		return 0, err
	}
	for _, row := range rows {
		lib.AddBook(library.NewBook(library.BookParams{
			Title:       row.Title,
			Author:      row.Author,
			TotalPages:  row.TotalPages,
			CurrentPage: row.CurrentPage,
			Category:    row.Category,
			Language:    entities.LanguageEnglish,
			Rating:      row.Rating,
			ISBN:        row.ISBN,
		}))
	}
	return len(rows), nil
}

func field(record []string, columns map[string]int, name string) string {
	idx, ok := columns[name]
	if !ok || idx >= len(record) {
		return ""
	}
	return record[idx]
}

func mapShelf(shelf string) entities.Category {
	switch strings.TrimSpace(strings.ToLower(shelf)) {
	case "read":
		return entities.CategoryCompleted
	case "currently-reading":
		return entities.CategoryReading
	default:
		return entities.CategoryWantToRead
	}
}

// cleanISBN picks ISBN13 when present, falling back to ISBN, and strips the
// ="..." wrapper Goodreads emits to keep spreadsheets from mangling the
// number.
func cleanISBN(isbn13, isbn string) string {
	for _, candidate := range []string{isbn13, isbn} {
		cleaned := strings.TrimSpace(candidate)
		cleaned = strings.TrimPrefix(cleaned, "=")
		cleaned = strings.Trim(cleaned, `"`)
		if cleaned != "" {
			return cleaned
		}
	}
	return ""
}
