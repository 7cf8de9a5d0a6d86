package service

import (
	"context"
	"study-buddy/internal/domain"
	"study-buddy/internal/logger"
	"sync"

	"github.com/samber/lo"
	"go.uber.org/zap"
)

// FlashcardsView lists the flashcard sets of the active document, generates new ones
// and opens a set in the viewer.
type FlashcardsView struct {
	backend   domain.FlashcardBackend
	session   *SessionStore
	viewer    *FlashcardViewer
	selection *BatchSelection[int64]
	generate  *Operation

	mu     sync.Mutex
	sets   []domain.FlashcardSet
	loaded bool
}

func NewFlashcardsView(backend domain.FlashcardBackend, session *SessionStore, gate *ConfirmationGate, viewer *FlashcardViewer) *FlashcardsView {
	v := &FlashcardsView{
		backend:  backend,
		session:  session,
		viewer:   viewer,
		generate: NewOperation("Flashcard generation"),
	}
	v.selection = NewBatchSelection(session, gate, FlashcardSetMessages, BatchActions[int64]{
		DeleteOne:  backend.DeleteFlashcardSet,
		DeleteMany: backend.DeleteFlashcardSets,
		DeleteAll:  backend.DeleteAllFlashcardSets,
		Refresh:    v.Load,
	})
	return v
}

func (v *FlashcardsView) Reset() {
	v.mu.Lock()
	v.sets = nil
	v.loaded = false
	v.mu.Unlock()
	v.generate.Reset()
}

// Load fetches the sets of the active document.
func (v *FlashcardsView) Load(ctx context.Context) error {
	ticket, ok := v.session.Ticket()
	if !ok {
		return domain.NewNoActiveDocumentError()
	}
	sets, err := v.backend.FlashcardSets(ctx, v.session.Token(), ticket.DocumentID)
	if err := v.session.Guard(ctx, err); err != nil {
		return err
	}
	if !v.session.IsCurrent(ticket) {
		logger.Get().Debug("Dropping stale flashcard sets", zap.Int64("documentID", ticket.DocumentID))
		return nil
	}

	v.mu.Lock()
	v.sets = sets
	v.loaded = true
	v.mu.Unlock()

	v.selection.Bind(ticket.DocumentID, lo.Map(sets, func(s domain.FlashcardSet, _ int) int64 { return s.ID }))
	return nil
}

func (v *FlashcardsView) Sets() []domain.FlashcardSet {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]domain.FlashcardSet(nil), v.sets...)
}

func (v *FlashcardsView) Loaded() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.loaded
}

// Generate creates a new set for the active document and refreshes the list.
func (v *FlashcardsView) Generate(ctx context.Context) (*domain.FlashcardSet, error) {
	ticket, ok := v.session.Ticket()
	if !ok {
		return nil, domain.NewNoActiveDocumentError()
	}
	if err := v.generate.Begin(); err != nil {
		return nil, err
	}

	set, err := v.backend.GenerateFlashcards(ctx, v.session.Token(), ticket.DocumentID)
	err = v.session.Guard(ctx, err)
	v.generate.Finish(err)
	if err != nil {
		logger.Get().Warn("Flashcard generation failed", zap.Int64("documentID", ticket.DocumentID), zap.Error(err))
		return nil, err
	}
	if v.session.IsCurrent(ticket) {
		if err := v.Load(ctx); err != nil {
			return set, err
		}
	}
	return set, nil
}

// Open shows set id in the viewer.
func (v *FlashcardsView) Open(id int64) error {
	v.mu.Lock()
	set, found := lo.Find(v.sets, func(s domain.FlashcardSet) bool { return s.ID == id })
	v.mu.Unlock()
	if !found {
		return domain.NewNotFoundError("Flashcard set not found.")
	}
	return v.viewer.Open(set)
}

func (v *FlashcardsView) Viewer() *FlashcardViewer { return v.viewer }

func (v *FlashcardsView) Selection() *BatchSelection[int64] { return v.selection }

func (v *FlashcardsView) GenerateState() OperationState { return v.generate.State() }
