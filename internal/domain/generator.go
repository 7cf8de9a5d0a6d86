package domain

import "context"

// DefaultQuizSize is how many questions a generated quiz has.
const DefaultQuizSize = 5

// DefaultFlashcardCount is how many cards a generated set has.
const DefaultFlashcardCount = 8

// StudyGenerator produces the AI content of the tutor from a document's text chunks.
type StudyGenerator interface {
	Answer(ctx context.Context, chunks []string, question string, history []ChatMessage) (string, error)
	Summarize(ctx context.Context, chunks []string) (string, error)
	Quiz(ctx context.Context, chunks []string, n int) (*Quiz, error)
	Flashcards(ctx context.Context, chunks []string, n int) ([]Flashcard, error)
}
