package tutor

import (
	"context"
	"fmt"
	"strings"
	"study-buddy/internal/domain"
	"study-buddy/internal/logger"

	"github.com/samber/lo"
	"go.uber.org/zap"
)

const (
	SubmitQuizMessage        = "Quiz attempt saved successfully."
	DeleteAttemptMessage     = "Quiz attempt deleted successfully."
	DeleteAllAttemptsMessage = "All quiz history for this document has been deleted."
	deleteAttemptsMessageFmt = "%d quiz attempts deleted successfully."
	flashcardSetTitleFmt     = "Flashcards for %s"
)

// StudyService answers questions about a document and manages its quizzes and
// flashcards.
type StudyService interface {
	Ask(ctx context.Context, userID int64, documentIDs []int64, question string, history []domain.ChatMessage) (string, error)
	Summarize(ctx context.Context, userID, documentID int64) (string, error)

	GenerateQuiz(ctx context.Context, userID, documentID int64) (*domain.Quiz, error)
	SubmitQuiz(ctx context.Context, userID int64, submission domain.QuizSubmission) (string, error)
	QuizHistory(ctx context.Context, userID, documentID int64) ([]domain.QuizAttempt, error)
	DeleteAttempt(ctx context.Context, userID, attemptID int64) (string, error)
	DeleteAttempts(ctx context.Context, userID int64, attemptIDs []int64) (string, error)
	DeleteAllAttempts(ctx context.Context, userID, documentID int64) (string, error)

	GenerateFlashcards(ctx context.Context, userID, documentID int64) (*domain.FlashcardSet, error)
	FlashcardSets(ctx context.Context, userID, documentID int64) ([]domain.FlashcardSet, error)
	DeleteFlashcardSet(ctx context.Context, userID, setID int64) error
	DeleteFlashcardSets(ctx context.Context, userID int64, setIDs []int64) error
	DeleteAllFlashcardSets(ctx context.Context, userID, documentID int64) error

	Progress(ctx context.Context, userID, documentID int64) (*domain.ProgressReport, error)
}

type studyService struct {
	docs       domain.DocumentRepository
	chats      domain.ChatRepository
	attempts   domain.QuizAttemptRepository
	flashcards domain.FlashcardRepository
	tx         domain.TransactionManager
	gen        domain.StudyGenerator
	chunks     *ChunkCache
}

// StudyDeps groups the collaborators of the study service.
type StudyDeps struct {
	Documents  domain.DocumentRepository
	Chats      domain.ChatRepository
	Attempts   domain.QuizAttemptRepository
	Flashcards domain.FlashcardRepository
	Tx         domain.TransactionManager
	Generator  domain.StudyGenerator
	Chunks     *ChunkCache
}

func NewStudyService(d StudyDeps) StudyService {
	return &studyService{
		docs:       d.Documents,
		chats:      d.Chats,
		attempts:   d.Attempts,
		flashcards: d.Flashcards,
		tx:         d.Tx,
		gen:        d.Generator,
		chunks:     d.Chunks,
	}
}

func (s *studyService) documentChunks(ctx context.Context, userID, documentID int64) (*domain.StoredDocument, []string, error) {
	doc, err := ownedDocument(ctx, s.docs, userID, documentID)
	if err != nil {
		return nil, nil, err
	}
	chunks, err := s.chunks.get(doc)
	if err != nil {
		return nil, nil, err
	}
	return doc, chunks, nil
}

// Ask answers question about the first of documentIDs and records both turns in the
// document's chat history.
func (s *studyService) Ask(ctx context.Context, userID int64, documentIDs []int64, question string, history []domain.ChatMessage) (string, error) {
	if strings.TrimSpace(question) == "" {
		return "", domain.ValidationErrors{domain.NewMissingFieldError("question")}
	}
	if len(documentIDs) == 0 {
		return "", domain.NewValidationError("Invalid input format")
	}

	doc, chunks, err := s.documentChunks(ctx, userID, documentIDs[0])
	if err != nil {
		return "", err
	}
	answer, err := s.gen.Answer(ctx, chunks, question, history)
	if err != nil {
		return "", err
	}

	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		return s.chats.AppendMessages(ctx, doc.ID,
			domain.ChatMessage{Role: domain.RoleHuman, Content: question},
			domain.ChatMessage{Role: domain.RoleAI, Content: answer})
	})
	if err != nil {
		return "", err
	}
	return answer, nil
}

func (s *studyService) Summarize(ctx context.Context, userID, documentID int64) (string, error) {
	_, chunks, err := s.documentChunks(ctx, userID, documentID)
	if err != nil {
		return "", err
	}
	return s.gen.Summarize(ctx, chunks)
}

func (s *studyService) GenerateQuiz(ctx context.Context, userID, documentID int64) (*domain.Quiz, error) {
	_, chunks, err := s.documentChunks(ctx, userID, documentID)
	if err != nil {
		return nil, err
	}
	quiz, err := s.gen.Quiz(ctx, chunks, domain.DefaultQuizSize)
	if err != nil {
		return nil, err
	}
	logger.Get().Info("Quiz generated",
		zap.Int64("documentID", documentID),
		zap.Int("questions", len(quiz.Questions)))
	return quiz, nil
}

func (s *studyService) SubmitQuiz(ctx context.Context, userID int64, submission domain.QuizSubmission) (string, error) {
	if submission.Score < 0 || submission.Score > 100 {
		return "", domain.NewValidationError("score must be between 0 and 100")
	}
	if _, err := ownedDocument(ctx, s.docs, userID, submission.DocumentID); err != nil {
		return "", err
	}

	var attempt *domain.QuizAttempt
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		var err error
		attempt, err = s.attempts.CreateAttempt(ctx, userID, submission)
		return err
	})
	if err != nil {
		return "", err
	}
	logger.Get().Info("Quiz attempt saved",
		zap.Int64("userID", userID),
		zap.Int64("attemptID", attempt.ID),
		zap.Float64("score", attempt.Score))
	return SubmitQuizMessage, nil
}

func (s *studyService) QuizHistory(ctx context.Context, userID, documentID int64) ([]domain.QuizAttempt, error) {
	return s.attempts.ListAttempts(ctx, userID, documentID)
}

func (s *studyService) DeleteAttempt(ctx context.Context, userID, attemptID int64) (string, error) {
	if _, err := s.attempts.DeleteAttempts(ctx, userID, []int64{attemptID}); err != nil {
		if domain.CodeOf(err) == domain.CodeForbidden {
			return "", domain.NewNotFoundError("Quiz attempt not found or access denied")
		}
		return "", err
	}
	return DeleteAttemptMessage, nil
}

// DeleteAttempts deletes every id or none of them.
func (s *studyService) DeleteAttempts(ctx context.Context, userID int64, attemptIDs []int64) (string, error) {
	if len(attemptIDs) == 0 {
		return "", domain.NewValidationError("attempt_ids must not be empty")
	}
	var deleted int64
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		var err error
		deleted, err = s.attempts.DeleteAttempts(ctx, userID, attemptIDs)
		return err
	})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(deleteAttemptsMessageFmt, deleted), nil
}

func (s *studyService) DeleteAllAttempts(ctx context.Context, userID, documentID int64) (string, error) {
	doc, err := s.docs.GetDocument(ctx, userID, documentID)
	if err != nil {
		return "", domain.NewInternalError("failed to load document", err)
	}
	if doc == nil {
		return "", domain.NewForbiddenError("Not authorized to delete this quiz history")
	}
	if _, err := s.attempts.DeleteDocumentAttempts(ctx, userID, documentID); err != nil {
		return "", err
	}
	return DeleteAllAttemptsMessage, nil
}

func (s *studyService) GenerateFlashcards(ctx context.Context, userID, documentID int64) (*domain.FlashcardSet, error) {
	doc, chunks, err := s.documentChunks(ctx, userID, documentID)
	if err != nil {
		return nil, err
	}
	cards, err := s.gen.Flashcards(ctx, chunks, domain.DefaultFlashcardCount)
	if err != nil {
		return nil, err
	}

	set := &domain.FlashcardSet{
		DocumentID: doc.ID,
		Title:      fmt.Sprintf(flashcardSetTitleFmt, doc.Filename),
		Cards:      cards,
	}
	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		return s.flashcards.CreateSet(ctx, userID, set)
	})
	if err != nil {
		return nil, err
	}
	logger.Get().Info("Flashcard set generated", zap.Int64("setID", set.ID), zap.Int("cards", len(set.Cards)))
	return set, nil
}

func (s *studyService) FlashcardSets(ctx context.Context, userID, documentID int64) ([]domain.FlashcardSet, error) {
	return s.flashcards.ListSets(ctx, userID, documentID)
}

func (s *studyService) DeleteFlashcardSet(ctx context.Context, userID, setID int64) error {
	if _, err := s.flashcards.DeleteSets(ctx, userID, []int64{setID}); err != nil {
		if domain.CodeOf(err) == domain.CodeForbidden {
			return domain.NewNotFoundError("Flashcard set not found")
		}
		return err
	}
	return nil
}

func (s *studyService) DeleteFlashcardSets(ctx context.Context, userID int64, setIDs []int64) error {
	if len(setIDs) == 0 {
		return domain.NewValidationError("item_ids must not be empty")
	}
	return s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		_, err := s.flashcards.DeleteSets(ctx, userID, setIDs)
		return err
	})
}

func (s *studyService) DeleteAllFlashcardSets(ctx context.Context, userID, documentID int64) error {
	doc, err := s.docs.GetDocument(ctx, userID, documentID)
	if err != nil {
		return domain.NewInternalError("failed to load document", err)
	}
	if doc == nil {
		return domain.NewNotFoundError("Document not found or you do not have permission")
	}
	_, err = s.flashcards.DeleteDocumentSets(ctx, userID, documentID)
	return err
}

// Progress reports the user's quiz results for a document, oldest attempt first.
func (s *studyService) Progress(ctx context.Context, userID, documentID int64) (*domain.ProgressReport, error) {
	attempts, err := s.attempts.ListAttempts(ctx, userID, documentID)
	if err != nil {
		return nil, err
	}
	return domain.BuildProgressReport(lo.Reverse(attempts)), nil
}
