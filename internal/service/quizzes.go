package service

import (
	"context"
	"study-buddy/internal/domain"
	"study-buddy/internal/logger"
	"sync"

	"github.com/samber/lo"
	"go.uber.org/zap"
)

// QuizzesView is the quiz history of the active document together with quiz
// generation and the attempt review.
type QuizzesView struct {
	backend   domain.QuizBackend
	session   *SessionStore
	engine    *QuizEngine
	selection *BatchSelection[int64]
	generate  *Operation

	mu       sync.Mutex
	attempts []domain.QuizAttempt
	loaded   bool
	viewing  *domain.QuizAttempt
}

func NewQuizzesView(backend domain.QuizBackend, session *SessionStore, gate *ConfirmationGate, engine *QuizEngine) *QuizzesView {
	v := &QuizzesView{
		backend:  backend,
		session:  session,
		engine:   engine,
		generate: NewOperation("Quiz generation"),
	}
	v.selection = NewBatchSelection(session, gate, QuizAttemptMessages, BatchActions[int64]{
		DeleteOne:  backend.DeleteQuizAttempt,
		DeleteMany: backend.DeleteQuizAttempts,
		DeleteAll:  backend.DeleteAllQuizAttempts,
		Refresh:    v.Load,
	})
	return v
}

// Reset discards the history and the attempt under review.
func (v *QuizzesView) Reset() {
	v.mu.Lock()
	v.attempts = nil
	v.loaded = false
	v.viewing = nil
	v.mu.Unlock()
	v.generate.Reset()
}

// Load fetches the quiz history of the active document. A result for a document that
// is no longer active is dropped.
func (v *QuizzesView) Load(ctx context.Context) error {
	ticket, ok := v.session.Ticket()
	if !ok {
		return domain.NewNoActiveDocumentError()
	}
	attempts, err := v.backend.QuizHistory(ctx, v.session.Token(), ticket.DocumentID)
	if err := v.session.Guard(ctx, err); err != nil {
		return err
	}
	if !v.session.IsCurrent(ticket) {
		logger.Get().Debug("Dropping stale quiz history", zap.Int64("documentID", ticket.DocumentID))
		return nil
	}

	v.mu.Lock()
	v.attempts = attempts
	v.loaded = true
	if v.viewing != nil {
		if a, found := lo.Find(attempts, func(a domain.QuizAttempt) bool { return a.ID == v.viewing.ID }); found {
			v.viewing = &a
		} else {
			v.viewing = nil
		}
	}
	v.mu.Unlock()

	v.selection.Bind(ticket.DocumentID, lo.Map(attempts, func(a domain.QuizAttempt, _ int) int64 { return a.ID }))
	return nil
}

// Attempts returns the loaded history.
func (v *QuizzesView) Attempts() []domain.QuizAttempt {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]domain.QuizAttempt(nil), v.attempts...)
}

func (v *QuizzesView) Loaded() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.loaded
}

// View opens the answer review of attempt id.
func (v *QuizzesView) View(id int64) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	a, found := lo.Find(v.attempts, func(a domain.QuizAttempt) bool { return a.ID == id })
	if !found {
		return domain.NewNotFoundError("Quiz attempt not found.")
	}
	v.viewing = &a
	return nil
}

// Viewing returns the attempt under review.
func (v *QuizzesView) Viewing() (domain.QuizAttempt, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.viewing == nil {
		return domain.QuizAttempt{}, false
	}
	return *v.viewing, true
}

func (v *QuizzesView) CloseAttempt() {
	v.mu.Lock()
	v.viewing = nil
	v.mu.Unlock()
}

// Generate asks the backend for a new quiz on the active document and starts it in the
// quiz engine.
func (v *QuizzesView) Generate(ctx context.Context) error {
	ticket, ok := v.session.Ticket()
	if !ok {
		return domain.NewNoActiveDocumentError()
	}
	if err := v.generate.Begin(); err != nil {
		return err
	}

	quiz, err := v.backend.GenerateQuiz(ctx, v.session.Token(), ticket.DocumentID)
	err = v.session.Guard(ctx, err)
	v.generate.Finish(err)
	if err != nil {
		logger.Get().Warn("Quiz generation failed", zap.Int64("documentID", ticket.DocumentID), zap.Error(err))
		return err
	}
	if !v.session.IsCurrent(ticket) {
		return nil
	}
	return v.engine.Start(ticket.DocumentID, quiz)
}

// Submit submits the running quiz and refreshes the history.
func (v *QuizzesView) Submit(ctx context.Context) (*domain.QuizAttempt, error) {
	attempt, err := v.engine.Submit(ctx)
	if err != nil {
		return nil, err
	}
	if ticket, ok := v.session.Ticket(); ok && ticket.DocumentID == attempt.DocumentID {
		if err := v.Load(ctx); err != nil {
			logger.Get().Warn("Failed to refresh quiz history", zap.Error(err))
		}
	}
	return attempt, nil
}

func (v *QuizzesView) Engine() *QuizEngine { return v.engine }

func (v *QuizzesView) Selection() *BatchSelection[int64] { return v.selection }

func (v *QuizzesView) GenerateState() OperationState { return v.generate.State() }
