package service

import (
	"context"
	"study-buddy/internal/config"
	"study-buddy/internal/domain"
	"study-buddy/internal/logger"
	"study-buddy/internal/validation"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Workspace wires the client components around one SessionStore.
type Workspace struct {
	Session    *SessionStore
	Gate       *ConfirmationGate
	Auth       AuthService
	Documents  *DocumentController
	Chat       *ChatView
	Quizzes    *QuizzesView
	Flashcards *FlashcardsView
	Progress   *ProgressView
}

// NewWorkspace builds the components and subscribes every document-scoped one to
// active-document changes.
func NewWorkspace(cfg *config.Config, backend domain.Backend, tokens domain.TokenStore) *Workspace {
	session := NewSessionStore(tokens)
	gate := NewConfirmationGate()
	validator := validation.NewValidator()

	settle := DefaultSettleDelay
	if cfg != nil {
		settle = cfg.Viewer.SettleDelay
	}

	engine := NewQuizEngine(backend, session)
	viewer := NewFlashcardViewer(settle)

	w := &Workspace{
		Session:    session,
		Gate:       gate,
		Auth:       NewAuthService(backend, session, validator),
		Documents:  NewDocumentController(backend, session, gate),
		Chat:       NewChatView(backend, session, gate, validator),
		Quizzes:    NewQuizzesView(backend, session, gate, engine),
		Flashcards: NewFlashcardsView(backend, session, gate, viewer),
		Progress:   NewProgressView(backend, session),
	}

	session.OnDocumentChange(func(*domain.Document) { w.Chat.Reset() })
	session.OnDocumentChange(func(*domain.Document) { w.Quizzes.Reset() })
	session.OnDocumentChange(func(*domain.Document) { engine.Close() })
	session.OnDocumentChange(func(*domain.Document) { w.Quizzes.Selection().Reset() })
	session.OnDocumentChange(func(*domain.Document) { w.Flashcards.Reset() })
	session.OnDocumentChange(func(*domain.Document) { viewer.Close() })
	session.OnDocumentChange(func(*domain.Document) { w.Flashcards.Selection().Reset() })
	session.OnDocumentChange(func(*domain.Document) { w.Progress.Reset() })
	return w
}

// Start restores a persisted session and, when one exists, loads the documents and the
// views of the active document.
func (w *Workspace) Start(ctx context.Context) (bool, error) {
	ok, err := w.Session.Restore(ctx)
	if err != nil || !ok {
		return false, err
	}
	return true, w.Refresh(ctx)
}

// Refresh reloads the document list and, if a document is active, its views.
func (w *Workspace) Refresh(ctx context.Context) error {
	if _, err := w.Documents.List(ctx); err != nil {
		return err
	}
	if _, ok := w.Session.ActiveDocument(); !ok {
		return nil
	}
	return w.LoadActive(ctx)
}

// SelectDocument activates document id and loads its views.
func (w *Workspace) SelectDocument(ctx context.Context, id int64) error {
	if err := w.Documents.Select(id); err != nil {
		return err
	}
	return w.LoadActive(ctx)
}

// LoadActive fetches every view of the active document concurrently. Each view keeps
// its own result; the first error is returned.
func (w *Workspace) LoadActive(ctx context.Context) error {
	if _, ok := w.Session.Ticket(); !ok {
		return domain.NewNoActiveDocumentError()
	}

	var g errgroup.Group
	g.Go(func() error { return w.Chat.Load(ctx) })
	g.Go(func() error { return w.Quizzes.Load(ctx) })
	g.Go(func() error { return w.Flashcards.Load(ctx) })
	g.Go(func() error { return w.Progress.Load(ctx) })

	if err := g.Wait(); err != nil {
		logger.Get().Warn("Failed to load document views", zap.Error(err))
		return err
	}
	return nil
}
