package entities

// UserStats carries the gamification state for one namespace.
//
// Level is cached and only ever advanced forward; it is not re-derived from
// XP on load. BooksRead and WordsLearned are lifetime counters incremented on
// completion/add events and are intentionally not decremented when entities
// are deleted.
type UserStats struct {
	XP           int    `json:"xp"`
	Level        int    `json:"level"`
	Streak       int    `json:"streak"`
	LastVisit    string `json:"lastVisit"`
	BooksRead    int    `json:"booksRead"`
	WordsLearned int    `json:"wordsLearned"`
}

// NewUserStats returns the default stats for a fresh namespace.
func NewUserStats() UserStats {
	return UserStats{Level: 1}
}
