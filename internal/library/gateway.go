package library

import (
	"encoding/json"
	"fmt"
	"log"

	"librismundis/internal/entities"
	"librismundis/internal/storage"
)

// Gateway serializes a namespace's collections to the storage backend, one
// key per collection.
type Gateway struct {
	backend storage.Backend
}

func NewGateway(backend storage.Backend) *Gateway {
	return &Gateway{backend: backend}
}

// Save writes the three collections under the namespace's derived keys.
func (g *Gateway) Save(namespace string, books []entities.Book, words []entities.Word, stats entities.UserStats) error {
	if err := g.saveJSON(storage.BooksKey(namespace), books); err != nil {
		return fmt.Errorf("save books: %w", err)
	}
	if err := g.saveJSON(storage.VocabularyKey(namespace), words); err != nil {
		return fmt.Errorf("save vocabulary: %w", err)
	}
	if err := g.saveJSON(storage.StatsKey(namespace), stats); err != nil {
		return fmt.Errorf("save stats: %w", err)
	}
	return nil
}

// Load reads a namespace back. Missing or corrupt data fails closed: the
// affected collection comes back empty (or as fresh stats) and corruption is
// logged, never surfaced to the caller.
func (g *Gateway) Load(namespace string) ([]entities.Book, []entities.Word, entities.UserStats) {
	books := []entities.Book{}
	if !g.loadJSON(storage.BooksKey(namespace), &books) {
		books = []entities.Book{}
	}

	words := []entities.Word{}
	if !g.loadJSON(storage.VocabularyKey(namespace), &words) {
		words = []entities.Word{}
	}

	stats := entities.NewUserStats()
	if !g.loadJSON(storage.StatsKey(namespace), &stats) {
		stats = entities.NewUserStats()
	}

	return books, words, stats
}

func (g *Gateway) saveJSON(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return g.backend.Set(key, string(data))
}

// loadJSON returns false when the key is absent or its contents cannot be
// decoded, leaving the caller to fall back to defaults.
func (g *Gateway) loadJSON(key string, v any) bool {
	raw, ok, err := g.backend.Get(key)
	if err != nil {
		log.Printf("Error reading %s: %v", key, err)
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		log.Printf("Corrupt data under %s, treating as absent: %v", key, err)
		return false
	}
	return true
}
