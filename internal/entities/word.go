package entities

// Word is a vocabulary entry collected while reading in a foreign language.
type Word struct {
	ID         string   `json:"id"`
	Word       string   `json:"word"`
	Language   Language `json:"language"`
	Definition string   `json:"definition"`
	Context    string   `json:"context"`
	DateAdded  int64    `json:"dateAdded"`
}
