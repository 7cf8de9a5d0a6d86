package domain

import (
	"context"
	"io"
)

// Upload is a file the user picked for upload. Open is called once per upload attempt.
type Upload struct {
	Filename string
	Open     func() (io.ReadCloser, error)
}

// AuthBackend is the unauthenticated part of the backend contract.
type AuthBackend interface {
	Register(ctx context.Context, name, email, password string) (token string, err error)
	Login(ctx context.Context, email, password string) (token string, err error)
	ForgotPassword(ctx context.Context, email string) (message string, err error)
	ResetPassword(ctx context.Context, resetToken, newPassword string) (message string, err error)
}

// DocumentBackend manages the user's documents.
type DocumentBackend interface {
	ListDocuments(ctx context.Context, token string) ([]Document, error)
	UploadDocument(ctx context.Context, token string, upload Upload) (*Document, error)
	DeleteDocument(ctx context.Context, token string, documentID int64) error
}

// ChatBackend is the tutor conversation about one document.
type ChatBackend interface {
	ChatHistory(ctx context.Context, token string, documentID int64) ([]ChatMessage, error)
	ClearChat(ctx context.Context, token string, documentID int64) error
	Ask(ctx context.Context, token string, documentID int64, question string, history []ChatMessage) (string, error)
	Summarize(ctx context.Context, token string, documentID int64) (string, error)
}

// QuizBackend generates quizzes and stores graded attempts.
type QuizBackend interface {
	GenerateQuiz(ctx context.Context, token string, documentID int64) (*Quiz, error)
	SubmitQuiz(ctx context.Context, token string, submission QuizSubmission) error
	QuizHistory(ctx context.Context, token string, documentID int64) ([]QuizAttempt, error)
	DeleteQuizAttempt(ctx context.Context, token string, attemptID int64) error
	DeleteQuizAttempts(ctx context.Context, token string, attemptIDs []int64) error
	DeleteAllQuizAttempts(ctx context.Context, token string, documentID int64) error
}

// FlashcardBackend generates and stores flashcard sets.
type FlashcardBackend interface {
	GenerateFlashcards(ctx context.Context, token string, documentID int64) (*FlashcardSet, error)
	FlashcardSets(ctx context.Context, token string, documentID int64) ([]FlashcardSet, error)
	DeleteFlashcardSet(ctx context.Context, token string, setID int64) error
	DeleteFlashcardSets(ctx context.Context, token string, setIDs []int64) error
	DeleteAllFlashcardSets(ctx context.Context, token string, documentID int64) error
}

// ProgressBackend serves the derived per-document progress report.
type ProgressBackend interface {
	ProgressReport(ctx context.Context, token string, documentID int64) (*ProgressReport, error)
}

// Backend is the complete REST collaborator the client talks to. Every authenticated
// call receives the session token explicitly.
type Backend interface {
	AuthBackend
	DocumentBackend
	ChatBackend
	QuizBackend
	FlashcardBackend
	ProgressBackend
}
