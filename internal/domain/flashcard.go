package domain

import "time"

// Flashcard is a single front/back card.
type Flashcard struct {
	ID    int64
	Front string
	Back  string
}

// FlashcardSet is an ordered, generated set of cards for one document.
type FlashcardSet struct {
	ID         int64
	DocumentID int64
	Title      string
	Timestamp  time.Time
	Cards      []Flashcard
}
