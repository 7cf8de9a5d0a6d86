package service

import (
	"context"
	"fmt"
	"study-buddy/internal/domain"
	"study-buddy/internal/logger"
	"sync"
	"time"

	"go.uber.org/zap"
)

// QuizState is the state of the attempt held by a QuizEngine.
type QuizState int

const (
	QuizUnstarted QuizState = iota
	QuizInProgress
	QuizSubmitted
)

func (s QuizState) String() string {
	switch s {
	case QuizUnstarted:
		return "unstarted"
	case QuizInProgress:
		return "in progress"
	case QuizSubmitted:
		return "submitted"
	default:
		return "unknown"
	}
}

// QuizEngine drives one quiz attempt from the first answer to the persisted, graded
// attempt. Questions and selections are discarded on Close.
type QuizEngine struct {
	backend domain.QuizBackend
	session *SessionStore
	submit  *Operation

	mu         sync.Mutex
	state      QuizState
	documentID int64
	questions  []domain.QuizQuestion
	selections map[int]string
	result     *domain.QuizAttempt
	generation uint64
}

func NewQuizEngine(backend domain.QuizBackend, session *SessionStore) *QuizEngine {
	return &QuizEngine{
		backend: backend,
		session: session,
		submit:  NewOperation("Quiz submission"),
	}
}

// Start begins a new attempt over quiz for documentID, discarding any previous attempt.
// The question set is trusted as given.
func (e *QuizEngine) Start(documentID int64, quiz *domain.Quiz) error {
	if quiz == nil || len(quiz.Questions) == 0 {
		return domain.NewInvalidStateError("The generated quiz has no questions.")
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.generation++
	e.state = QuizInProgress
	e.documentID = documentID
	e.questions = append([]domain.QuizQuestion(nil), quiz.Questions...)
	e.selections = make(map[int]string, len(quiz.Questions))
	e.result = nil
	return nil
}

// SelectAnswer records option for question i, replacing any earlier choice. It is a
// no-op once the attempt was submitted.
func (e *QuizEngine) SelectAnswer(i int, option string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch e.state {
	case QuizSubmitted:
		return nil
	case QuizUnstarted:
		return domain.NewInvalidStateError("No quiz is in progress.")
	}
	if i < 0 || i >= len(e.questions) {
		return domain.ValidationErrors{domain.NewFieldError("question",
			fmt.Sprintf("Question %d does not exist.", i+1))}
	}
	e.selections[i] = option
	return nil
}

// Selection returns the recorded choice for question i.
func (e *QuizEngine) Selection(i int) (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	s, ok := e.selections[i]
	return s, ok
}

// AllAnswered reports whether every question has a recorded selection.
func (e *QuizEngine) AllAnswered() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.allAnsweredLocked()
}

func (e *QuizEngine) allAnsweredLocked() bool {
	if len(e.questions) == 0 {
		return false
	}
	for i := range e.questions {
		if _, ok := e.selections[i]; !ok {
			return false
		}
	}
	return true
}

// Submit grades the attempt, persists it and moves the engine to Submitted. Only one
// submission can be in flight; a concurrent call fails with BUSY and persists nothing.
func (e *QuizEngine) Submit(ctx context.Context) (*domain.QuizAttempt, error) {
	e.mu.Lock()
	switch e.state {
	case QuizUnstarted:
		e.mu.Unlock()
		return nil, domain.NewInvalidStateError("No quiz is in progress.")
	case QuizSubmitted:
		e.mu.Unlock()
		return nil, domain.NewInvalidStateError("This quiz has already been submitted.")
	}
	if !e.allAnsweredLocked() {
		e.mu.Unlock()
		return nil, domain.ValidationErrors{domain.NewFieldError("answers",
			"Please answer all questions before submitting.")}
	}
	if err := e.submit.Begin(); err != nil {
		e.mu.Unlock()
		return nil, err
	}

	gen := e.generation
	documentID := e.documentID
	questions := append([]domain.QuizQuestion(nil), e.questions...)
	selections := make(map[int]string, len(e.selections))
	for k, v := range e.selections {
		selections[k] = v
	}
	e.mu.Unlock()

	answers, score := domain.GradeQuiz(questions, selections)
	submission := domain.QuizSubmission{DocumentID: documentID, Score: score, Answers: answers}

	err := e.backend.SubmitQuiz(ctx, e.session.Token(), submission)
	err = e.session.Guard(ctx, err)
	e.submit.Finish(err)
	if err != nil {
		logger.Get().Warn("Quiz submission failed", zap.Int64("documentID", documentID), zap.Error(err))
		return nil, err
	}

	attempt := &domain.QuizAttempt{
		DocumentID: documentID,
		Score:      score,
		Timestamp:  time.Now().UTC(),
		Answers:    answers,
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.generation != gen {
		// closed or restarted while the request was in flight; the attempt is persisted
		// but no longer displayed
		logger.Get().Debug("Discarding result of a closed quiz", zap.Int64("documentID", documentID))
		return attempt, nil
	}
	e.state = QuizSubmitted
	e.result = attempt
	return attempt, nil
}

// Close discards all question and answer state. The persisted attempt, if any, is the
// only trace left.
func (e *QuizEngine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.generation++
	e.state = QuizUnstarted
	e.documentID = 0
	e.questions = nil
	e.selections = nil
	e.result = nil
	e.submit.Reset()
}

func (e *QuizEngine) State() QuizState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Questions returns a copy of the current question set.
func (e *QuizEngine) Questions() []domain.QuizQuestion {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]domain.QuizQuestion(nil), e.questions...)
}

// DocumentID is the document the current attempt belongs to.
func (e *QuizEngine) DocumentID() int64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.documentID
}

// Result returns the graded attempt once the quiz was submitted.
func (e *QuizEngine) Result() (*domain.QuizAttempt, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.result == nil {
		return nil, false
	}
	r := *e.result
	return &r, true
}

// SubmitState exposes the single-flight state of Submit.
func (e *QuizEngine) SubmitState() OperationState {
	return e.submit.State()
}
