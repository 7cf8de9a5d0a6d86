package service

import (
	"context"
	"study-buddy/internal/domain"
	"sync"

	"github.com/stretchr/testify/mock"
)

// --- MockBackend ---
type MockBackend struct {
	mock.Mock
}

var _ domain.Backend = (*MockBackend)(nil)

func (m *MockBackend) Register(ctx context.Context, name, email, password string) (string, error) {
	args := m.Called(ctx, name, email, password)
	return args.String(0), args.Error(1)
}

func (m *MockBackend) Login(ctx context.Context, email, password string) (string, error) {
	args := m.Called(ctx, email, password)
	return args.String(0), args.Error(1)
}

func (m *MockBackend) ForgotPassword(ctx context.Context, email string) (string, error) {
	args := m.Called(ctx, email)
	return args.String(0), args.Error(1)
}

func (m *MockBackend) ResetPassword(ctx context.Context, resetToken, newPassword string) (string, error) {
	args := m.Called(ctx, resetToken, newPassword)
	return args.String(0), args.Error(1)
}

func (m *MockBackend) ListDocuments(ctx context.Context, token string) ([]domain.Document, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Document), args.Error(1)
}

func (m *MockBackend) UploadDocument(ctx context.Context, token string, upload domain.Upload) (*domain.Document, error) {
	args := m.Called(ctx, token, upload.Filename)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}

func (m *MockBackend) DeleteDocument(ctx context.Context, token string, documentID int64) error {
	args := m.Called(ctx, token, documentID)
	return args.Error(0)
}

func (m *MockBackend) ChatHistory(ctx context.Context, token string, documentID int64) ([]domain.ChatMessage, error) {
	args := m.Called(ctx, token, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ChatMessage), args.Error(1)
}

func (m *MockBackend) ClearChat(ctx context.Context, token string, documentID int64) error {
	args := m.Called(ctx, token, documentID)
	return args.Error(0)
}

func (m *MockBackend) Ask(ctx context.Context, token string, documentID int64, question string, history []domain.ChatMessage) (string, error) {
	args := m.Called(ctx, token, documentID, question, history)
	return args.String(0), args.Error(1)
}

func (m *MockBackend) Summarize(ctx context.Context, token string, documentID int64) (string, error) {
	args := m.Called(ctx, token, documentID)
	return args.String(0), args.Error(1)
}

func (m *MockBackend) GenerateQuiz(ctx context.Context, token string, documentID int64) (*domain.Quiz, error) {
	args := m.Called(ctx, token, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Quiz), args.Error(1)
}

func (m *MockBackend) SubmitQuiz(ctx context.Context, token string, submission domain.QuizSubmission) error {
	args := m.Called(ctx, token, submission)
	return args.Error(0)
}

func (m *MockBackend) QuizHistory(ctx context.Context, token string, documentID int64) ([]domain.QuizAttempt, error) {
	args := m.Called(ctx, token, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.QuizAttempt), args.Error(1)
}

func (m *MockBackend) DeleteQuizAttempt(ctx context.Context, token string, attemptID int64) error {
	args := m.Called(ctx, token, attemptID)
	return args.Error(0)
}

func (m *MockBackend) DeleteQuizAttempts(ctx context.Context, token string, attemptIDs []int64) error {
	args := m.Called(ctx, token, attemptIDs)
	return args.Error(0)
}

func (m *MockBackend) DeleteAllQuizAttempts(ctx context.Context, token string, documentID int64) error {
	args := m.Called(ctx, token, documentID)
	return args.Error(0)
}

func (m *MockBackend) GenerateFlashcards(ctx context.Context, token string, documentID int64) (*domain.FlashcardSet, error) {
	args := m.Called(ctx, token, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FlashcardSet), args.Error(1)
}

func (m *MockBackend) FlashcardSets(ctx context.Context, token string, documentID int64) ([]domain.FlashcardSet, error) {
	args := m.Called(ctx, token, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FlashcardSet), args.Error(1)
}

func (m *MockBackend) DeleteFlashcardSet(ctx context.Context, token string, setID int64) error {
	args := m.Called(ctx, token, setID)
	return args.Error(0)
}

func (m *MockBackend) DeleteFlashcardSets(ctx context.Context, token string, setIDs []int64) error {
	args := m.Called(ctx, token, setIDs)
	return args.Error(0)
}

func (m *MockBackend) DeleteAllFlashcardSets(ctx context.Context, token string, documentID int64) error {
	args := m.Called(ctx, token, documentID)
	return args.Error(0)
}

func (m *MockBackend) ProgressReport(ctx context.Context, token string, documentID int64) (*domain.ProgressReport, error) {
	args := m.Called(ctx, token, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProgressReport), args.Error(1)
}

// --- memTokenStore ---
type memTokenStore struct {
	mu      sync.Mutex
	token   string
	saveErr error
	cleared int
}

func (s *memTokenStore) Load(context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, nil
}

func (s *memTokenStore) Save(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	s.token = token
	return nil
}

func (s *memTokenStore) Clear(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.cleared++
	return nil
}

// loggedInSession returns a session holding token "tok" with docs cached and the first
// one active.
func loggedInSession(docs ...domain.Document) *SessionStore {
	s := NewSessionStore(&memTokenStore{})
	_ = s.Login(context.Background(), "tok")
	s.SetDocuments(docs)
	if len(docs) > 0 {
		d := docs[0]
		s.SetActiveDocument(&d)
	}
	return s
}

var (
	docA = domain.Document{ID: 1, Filename: "biology.pdf"}
	docB = domain.Document{ID: 2, Filename: "chemistry.pdf"}
)
