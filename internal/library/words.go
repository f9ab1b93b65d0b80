package library

import (
	"strings"
	"time"

	"librismundis/internal/entities"
	"librismundis/internal/gamification"
	"librismundis/internal/ident"
)

// WordParams is the raw input for a new vocabulary entry.
type WordParams struct {
	Word       string
	Language   entities.Language
	Definition string
	Context    string
}

func NewWord(p WordParams) entities.Word {
	if p.Language == "" {
		p.Language = entities.LanguageSpanish
	}
	return entities.Word{
		ID:         ident.New(),
		Word:       strings.TrimSpace(p.Word),
		Language:   p.Language,
		Definition: strings.TrimSpace(p.Definition),
		Context:    strings.TrimSpace(p.Context),
		DateAdded:  time.Now().UnixMilli(),
	}
}

// AddWord appends to the vocabulary, grants the word XP, bumps the learned
// counter and persists. Unlike books, words go at the tail.
func (l *Library) AddWord(word entities.Word) entities.Word {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.vocabulary = append(l.vocabulary, word)

	l.engine.GrantXP(&l.stats, gamification.XPWordAdded, "Word added")
	l.stats.WordsLearned++

	l.persist()
	return word
}

// WordPatch is a partial update; nil fields are left untouched.
type WordPatch struct {
	Word       *string
	Language   *entities.Language
	Definition *string
	Context    *string
}

func (l *Library) UpdateWord(id string, patch WordPatch) (entities.Word, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	idx := l.wordIndex(id)
	if idx < 0 {
		return entities.Word{}, false
	}

	word := &l.vocabulary[idx]
	if patch.Word != nil {
		word.Word = strings.TrimSpace(*patch.Word)
	}
	if patch.Language != nil {
		word.Language = *patch.Language
	}
	if patch.Definition != nil {
		word.Definition = strings.TrimSpace(*patch.Definition)
	}
	if patch.Context != nil {
		word.Context = strings.TrimSpace(*patch.Context)
	}

	l.persist()
	return *word, true
}

// DeleteWord removes by id; absent ids are a no-op and the learned counter
// keeps its value.
func (l *Library) DeleteWord(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	idx := l.wordIndex(id)
	if idx < 0 {
		return
	}

	l.vocabulary = append(l.vocabulary[:idx], l.vocabulary[idx+1:]...)
	l.persist()
}

func (l *Library) GetWord(id string) (entities.Word, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	idx := l.wordIndex(id)
	if idx < 0 {
		return entities.Word{}, false
	}
	return l.vocabulary[idx], true
}

// Vocabulary returns a copy of the word collection in storage order.
func (l *Library) Vocabulary() []entities.Word {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]entities.Word, len(l.vocabulary))
	copy(out, l.vocabulary)
	return out
}

func (l *Library) wordIndex(id string) int {
	for i := range l.vocabulary {
		if l.vocabulary[i].ID == id {
			return i
		}
	}
	return -1
}
