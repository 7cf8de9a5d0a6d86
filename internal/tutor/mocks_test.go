package tutor

import (
	"context"
	"study-buddy/internal/domain"

	"github.com/stretchr/testify/mock"
)

// --- MockUserRepository ---
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) CreateUser(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetUserByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	args := m.Called(ctx, id, passwordHash)
	return args.Error(0)
}

// --- MockDocumentRepository ---
type MockDocumentRepository struct {
	mock.Mock
}

func (m *MockDocumentRepository) CreateDocument(ctx context.Context, doc *domain.StoredDocument) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *MockDocumentRepository) GetDocument(ctx context.Context, ownerID, id int64) (*domain.StoredDocument, error) {
	args := m.Called(ctx, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StoredDocument), args.Error(1)
}

func (m *MockDocumentRepository) ListDocuments(ctx context.Context, ownerID int64) ([]domain.StoredDocument, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StoredDocument), args.Error(1)
}

func (m *MockDocumentRepository) DeleteDocument(ctx context.Context, ownerID, id int64) error {
	args := m.Called(ctx, ownerID, id)
	return args.Error(0)
}

// --- MockChatRepository ---
type MockChatRepository struct {
	mock.Mock
}

func (m *MockChatRepository) AppendMessages(ctx context.Context, documentID int64, msgs ...domain.ChatMessage) error {
	args := m.Called(ctx, documentID, msgs)
	return args.Error(0)
}

func (m *MockChatRepository) ListMessages(ctx context.Context, documentID int64) ([]domain.ChatMessage, error) {
	args := m.Called(ctx, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ChatMessage), args.Error(1)
}

func (m *MockChatRepository) ClearMessages(ctx context.Context, documentID int64) error {
	args := m.Called(ctx, documentID)
	return args.Error(0)
}

// --- MockQuizAttemptRepository ---
type MockQuizAttemptRepository struct {
	mock.Mock
}

func (m *MockQuizAttemptRepository) CreateAttempt(ctx context.Context, userID int64, submission domain.QuizSubmission) (*domain.QuizAttempt, error) {
	args := m.Called(ctx, userID, submission)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.QuizAttempt), args.Error(1)
}

func (m *MockQuizAttemptRepository) ListAttempts(ctx context.Context, userID, documentID int64) ([]domain.QuizAttempt, error) {
	args := m.Called(ctx, userID, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.QuizAttempt), args.Error(1)
}

func (m *MockQuizAttemptRepository) DeleteAttempts(ctx context.Context, userID int64, ids []int64) (int64, error) {
	args := m.Called(ctx, userID, ids)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockQuizAttemptRepository) DeleteDocumentAttempts(ctx context.Context, userID, documentID int64) (int64, error) {
	args := m.Called(ctx, userID, documentID)
	return args.Get(0).(int64), args.Error(1)
}

// --- MockFlashcardRepository ---
type MockFlashcardRepository struct {
	mock.Mock
}

func (m *MockFlashcardRepository) CreateSet(ctx context.Context, userID int64, set *domain.FlashcardSet) error {
	args := m.Called(ctx, userID, set)
	return args.Error(0)
}

func (m *MockFlashcardRepository) ListSets(ctx context.Context, userID, documentID int64) ([]domain.FlashcardSet, error) {
	args := m.Called(ctx, userID, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FlashcardSet), args.Error(1)
}

func (m *MockFlashcardRepository) DeleteSets(ctx context.Context, userID int64, ids []int64) (int64, error) {
	args := m.Called(ctx, userID, ids)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockFlashcardRepository) DeleteDocumentSets(ctx context.Context, userID, documentID int64) (int64, error) {
	args := m.Called(ctx, userID, documentID)
	return args.Get(0).(int64), args.Error(1)
}

// --- MockStudyGenerator ---
type MockStudyGenerator struct {
	mock.Mock
}

func (m *MockStudyGenerator) Answer(ctx context.Context, chunks []string, question string, history []domain.ChatMessage) (string, error) {
	args := m.Called(ctx, chunks, question, history)
	return args.String(0), args.Error(1)
}

func (m *MockStudyGenerator) Summarize(ctx context.Context, chunks []string) (string, error) {
	args := m.Called(ctx, chunks)
	return args.String(0), args.Error(1)
}

func (m *MockStudyGenerator) Quiz(ctx context.Context, chunks []string, n int) (*domain.Quiz, error) {
	args := m.Called(ctx, chunks, n)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Quiz), args.Error(1)
}

func (m *MockStudyGenerator) Flashcards(ctx context.Context, chunks []string, n int) ([]domain.Flashcard, error) {
	args := m.Called(ctx, chunks, n)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Flashcard), args.Error(1)
}

// passthroughTx runs fn directly and counts calls.
type passthroughTx struct {
	calls int
}

func (p *passthroughTx) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	p.calls++
	return fn(ctx)
}
