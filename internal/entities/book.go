package entities

import "math"

type Category string

const (
	CategoryWantToRead Category = "want_to_read"
	CategoryReading    Category = "reading"
	CategoryCompleted  Category = "completed"
	CategoryAbandoned  Category = "abandoned"
)

// ValidCategories lists every shelf a book can live on.
var ValidCategories = []Category{
	CategoryWantToRead,
	CategoryReading,
	CategoryCompleted,
	CategoryAbandoned,
}

func (c Category) Valid() bool {
	for _, v := range ValidCategories {
		if c == v {
			return true
		}
	}
	return false
}

type Language string

const (
	LanguageSpanish    Language = "es"
	LanguageEnglish    Language = "en"
	LanguageFrench     Language = "fr"
	LanguageGerman     Language = "de"
	LanguageItalian    Language = "it"
	LanguagePortuguese Language = "pt"
	LanguageOther      Language = "other"
)

// NormalizeLanguage maps an arbitrary language code onto the supported set,
// falling back to "other" for anything unrecognized.
func NormalizeLanguage(code string) Language {
	switch Language(code) {
	case LanguageSpanish, LanguageEnglish, LanguageFrench,
		LanguageGerman, LanguageItalian, LanguagePortuguese:
		return Language(code)
	default:
		return LanguageOther
	}
}

// Book is a catalog entry with reading progress. JSON tags follow the
// snapshot file format, so exported data stays readable by older backups.
type Book struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Author      string   `json:"author"`
	TotalPages  int      `json:"totalPages"`
	CurrentPage int      `json:"currentPage"`
	Category    Category `json:"category"`
	Language    Language `json:"language"`
	Rating      float64  `json:"rating"`
	Comments    string   `json:"comments"`
	CoverURL    string   `json:"coverUrl"`
	ISBN        string   `json:"isbn"`
	DateAdded   int64    `json:"dateAdded"`

	// Percentage is derived from CurrentPage/TotalPages and must only be
	// written through RecomputePercentage.
	Percentage int `json:"percentage"`
}

// RecomputePercentage re-derives the progress percentage. Call after any
// change to CurrentPage or TotalPages.
func (b *Book) RecomputePercentage() {
	if b.TotalPages > 0 {
		b.Percentage = int(math.Round(float64(b.CurrentPage) / float64(b.TotalPages) * 100))
	} else {
		b.Percentage = 0
	}
}
