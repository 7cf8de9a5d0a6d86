package handler_test

import (
	"context"
	"study-buddy/internal/domain"
	"study-buddy/internal/tutor"
	"time"
)

// --- Manual Mocks ---

type MockAuthService struct {
	RegisterFunc       func(ctx context.Context, name, email, password string) (string, error)
	LoginFunc          func(ctx context.Context, email, password string) (string, error)
	ForgotPasswordFunc func(ctx context.Context, email string) (string, error)
	ResetPasswordFunc  func(ctx context.Context, token, newPassword string) (string, error)
	ValidateJWTFunc    func(ctx context.Context, tokenString string) (*tutor.AuthClaims, error)
}

func (m *MockAuthService) Register(ctx context.Context, name, email, password string) (string, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, name, email, password)
	}
	panic("MockAuthService.RegisterFunc not implemented")
}
func (m *MockAuthService) Login(ctx context.Context, email, password string) (string, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, email, password)
	}
	panic("MockAuthService.LoginFunc not implemented")
}
func (m *MockAuthService) ForgotPassword(ctx context.Context, email string) (string, error) {
	if m.ForgotPasswordFunc != nil {
		return m.ForgotPasswordFunc(ctx, email)
	}
	panic("MockAuthService.ForgotPasswordFunc not implemented")
}
func (m *MockAuthService) ResetPassword(ctx context.Context, token, newPassword string) (string, error) {
	if m.ResetPasswordFunc != nil {
		return m.ResetPasswordFunc(ctx, token, newPassword)
	}
	panic("MockAuthService.ResetPasswordFunc not implemented")
}
func (m *MockAuthService) ValidateJWT(ctx context.Context, tokenString string) (*tutor.AuthClaims, error) {
	if m.ValidateJWTFunc != nil {
		return m.ValidateJWTFunc(ctx, tokenString)
	}
	if tokenString == testToken {
		return &tutor.AuthClaims{UserID: testUserID}, nil
	}
	return nil, tutor.ErrInvalidJWTToken
}
func (m *MockAuthService) CreateJWT(user *domain.User, ttl time.Duration, scope string) (string, error) {
	panic("MockAuthService.CreateJWT not implemented")
}

type MockDocumentService struct {
	UploadFunc      func(ctx context.Context, userID int64, filename, contentType string, data []byte) (*domain.Document, error)
	ListFunc        func(ctx context.Context, userID int64) ([]domain.Document, error)
	DeleteFunc      func(ctx context.Context, userID, documentID int64) (string, error)
	ChatHistoryFunc func(ctx context.Context, userID, documentID int64) ([]domain.ChatMessage, error)
	ClearChatFunc   func(ctx context.Context, userID, documentID int64) (string, error)
}

func (m *MockDocumentService) Upload(ctx context.Context, userID int64, filename, contentType string, data []byte) (*domain.Document, error) {
	if m.UploadFunc != nil {
		return m.UploadFunc(ctx, userID, filename, contentType, data)
	}
	panic("MockDocumentService.UploadFunc not implemented")
}
func (m *MockDocumentService) List(ctx context.Context, userID int64) ([]domain.Document, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, userID)
	}
	panic("MockDocumentService.ListFunc not implemented")
}
func (m *MockDocumentService) Delete(ctx context.Context, userID, documentID int64) (string, error) {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, userID, documentID)
	}
	panic("MockDocumentService.DeleteFunc not implemented")
}
func (m *MockDocumentService) ChatHistory(ctx context.Context, userID, documentID int64) ([]domain.ChatMessage, error) {
	if m.ChatHistoryFunc != nil {
		return m.ChatHistoryFunc(ctx, userID, documentID)
	}
	panic("MockDocumentService.ChatHistoryFunc not implemented")
}
func (m *MockDocumentService) ClearChat(ctx context.Context, userID, documentID int64) (string, error) {
	if m.ClearChatFunc != nil {
		return m.ClearChatFunc(ctx, userID, documentID)
	}
	panic("MockDocumentService.ClearChatFunc not implemented")
}

type MockStudyService struct {
	AskFunc                    func(ctx context.Context, userID int64, documentIDs []int64, question string, history []domain.ChatMessage) (string, error)
	SummarizeFunc              func(ctx context.Context, userID, documentID int64) (string, error)
	GenerateQuizFunc           func(ctx context.Context, userID, documentID int64) (*domain.Quiz, error)
	SubmitQuizFunc             func(ctx context.Context, userID int64, submission domain.QuizSubmission) (string, error)
	QuizHistoryFunc            func(ctx context.Context, userID, documentID int64) ([]domain.QuizAttempt, error)
	DeleteAttemptFunc          func(ctx context.Context, userID, attemptID int64) (string, error)
	DeleteAttemptsFunc         func(ctx context.Context, userID int64, attemptIDs []int64) (string, error)
	DeleteAllAttemptsFunc      func(ctx context.Context, userID, documentID int64) (string, error)
	GenerateFlashcardsFunc     func(ctx context.Context, userID, documentID int64) (*domain.FlashcardSet, error)
	FlashcardSetsFunc          func(ctx context.Context, userID, documentID int64) ([]domain.FlashcardSet, error)
	DeleteFlashcardSetFunc     func(ctx context.Context, userID, setID int64) error
	DeleteFlashcardSetsFunc    func(ctx context.Context, userID int64, setIDs []int64) error
	DeleteAllFlashcardSetsFunc func(ctx context.Context, userID, documentID int64) error
	ProgressFunc               func(ctx context.Context, userID, documentID int64) (*domain.ProgressReport, error)
}

func (m *MockStudyService) Ask(ctx context.Context, userID int64, documentIDs []int64, question string, history []domain.ChatMessage) (string, error) {
	if m.AskFunc != nil {
		return m.AskFunc(ctx, userID, documentIDs, question, history)
	}
	panic("MockStudyService.AskFunc not implemented")
}
func (m *MockStudyService) Summarize(ctx context.Context, userID, documentID int64) (string, error) {
	if m.SummarizeFunc != nil {
		return m.SummarizeFunc(ctx, userID, documentID)
	}
	panic("MockStudyService.SummarizeFunc not implemented")
}
func (m *MockStudyService) GenerateQuiz(ctx context.Context, userID, documentID int64) (*domain.Quiz, error) {
	if m.GenerateQuizFunc != nil {
		return m.GenerateQuizFunc(ctx, userID, documentID)
	}
	panic("MockStudyService.GenerateQuizFunc not implemented")
}
func (m *MockStudyService) SubmitQuiz(ctx context.Context, userID int64, submission domain.QuizSubmission) (string, error) {
	if m.SubmitQuizFunc != nil {
		return m.SubmitQuizFunc(ctx, userID, submission)
	}
	panic("MockStudyService.SubmitQuizFunc not implemented")
}
func (m *MockStudyService) QuizHistory(ctx context.Context, userID, documentID int64) ([]domain.QuizAttempt, error) {
	if m.QuizHistoryFunc != nil {
		return m.QuizHistoryFunc(ctx, userID, documentID)
	}
	panic("MockStudyService.QuizHistoryFunc not implemented")
}
func (m *MockStudyService) DeleteAttempt(ctx context.Context, userID, attemptID int64) (string, error) {
	if m.DeleteAttemptFunc != nil {
		return m.DeleteAttemptFunc(ctx, userID, attemptID)
	}
	panic("MockStudyService.DeleteAttemptFunc not implemented")
}
func (m *MockStudyService) DeleteAttempts(ctx context.Context, userID int64, attemptIDs []int64) (string, error) {
	if m.DeleteAttemptsFunc != nil {
		return m.DeleteAttemptsFunc(ctx, userID, attemptIDs)
	}
	panic("MockStudyService.DeleteAttemptsFunc not implemented")
}
func (m *MockStudyService) DeleteAllAttempts(ctx context.Context, userID, documentID int64) (string, error) {
	if m.DeleteAllAttemptsFunc != nil {
		return m.DeleteAllAttemptsFunc(ctx, userID, documentID)
	}
	panic("MockStudyService.DeleteAllAttemptsFunc not implemented")
}
func (m *MockStudyService) GenerateFlashcards(ctx context.Context, userID, documentID int64) (*domain.FlashcardSet, error) {
	if m.GenerateFlashcardsFunc != nil {
		return m.GenerateFlashcardsFunc(ctx, userID, documentID)
	}
	panic("MockStudyService.GenerateFlashcardsFunc not implemented")
}
func (m *MockStudyService) FlashcardSets(ctx context.Context, userID, documentID int64) ([]domain.FlashcardSet, error) {
	if m.FlashcardSetsFunc != nil {
		return m.FlashcardSetsFunc(ctx, userID, documentID)
	}
	panic("MockStudyService.FlashcardSetsFunc not implemented")
}
func (m *MockStudyService) DeleteFlashcardSet(ctx context.Context, userID, setID int64) error {
	if m.DeleteFlashcardSetFunc != nil {
		return m.DeleteFlashcardSetFunc(ctx, userID, setID)
	}
	panic("MockStudyService.DeleteFlashcardSetFunc not implemented")
}
func (m *MockStudyService) DeleteFlashcardSets(ctx context.Context, userID int64, setIDs []int64) error {
	if m.DeleteFlashcardSetsFunc != nil {
		return m.DeleteFlashcardSetsFunc(ctx, userID, setIDs)
	}
	panic("MockStudyService.DeleteFlashcardSetsFunc not implemented")
}
func (m *MockStudyService) DeleteAllFlashcardSets(ctx context.Context, userID, documentID int64) error {
	if m.DeleteAllFlashcardSetsFunc != nil {
		return m.DeleteAllFlashcardSetsFunc(ctx, userID, documentID)
	}
	panic("MockStudyService.DeleteAllFlashcardSetsFunc not implemented")
}
func (m *MockStudyService) Progress(ctx context.Context, userID, documentID int64) (*domain.ProgressReport, error) {
	if m.ProgressFunc != nil {
		return m.ProgressFunc(ctx, userID, documentID)
	}
	panic("MockStudyService.ProgressFunc not implemented")
}
