package service

import (
	"context"
	"fmt"
	"study-buddy/internal/domain"
	"study-buddy/internal/logger"
	"sync"

	"github.com/samber/lo"
	"go.uber.org/zap"
)

// BatchMessages are the confirmation prompts of one kind of item. Selected takes the
// number of selected items, All takes the document filename.
type BatchMessages struct {
	Single   string
	Selected string
	All      string
}

var (
	QuizAttemptMessages = BatchMessages{
		Single:   "Are you sure you want to delete this specific quiz attempt?",
		Selected: "Are you sure you want to delete the %d selected quiz attempts?",
		All:      "Are you sure you want to delete ALL quiz attempts for %s?",
	}
	FlashcardSetMessages = BatchMessages{
		Single:   "Are you sure you want to delete this flashcard set?",
		Selected: "Are you sure you want to delete the %d selected sets?",
		All:      "Are you sure you want to delete ALL flashcard sets for %s?",
	}
)

// BatchActions are the backend calls behind a selection plus the refetch of the owning
// list.
type BatchActions[ID comparable] struct {
	DeleteOne  func(ctx context.Context, token string, id ID) error
	DeleteMany func(ctx context.Context, token string, ids []ID) error
	DeleteAll  func(ctx context.Context, token string, documentID int64) error
	Refresh    func(ctx context.Context) error
}

// BatchSelection is a "select some, then bulk delete" set scoped to one document.
// Every delete is routed through the ConfirmationGate.
type BatchSelection[ID comparable] struct {
	session  *SessionStore
	gate     *ConfirmationGate
	messages BatchMessages
	actions  BatchActions[ID]

	mu         sync.Mutex
	documentID int64
	bound      bool
	selected   []ID
}

func NewBatchSelection[ID comparable](session *SessionStore, gate *ConfirmationGate, messages BatchMessages, actions BatchActions[ID]) *BatchSelection[ID] {
	return &BatchSelection[ID]{
		session:  session,
		gate:     gate,
		messages: messages,
		actions:  actions,
	}
}

// Toggle flips membership of id.
func (b *BatchSelection[ID]) Toggle(id ID) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if lo.Contains(b.selected, id) {
		b.selected = lo.Without(b.selected, id)
		return
	}
	b.selected = append(b.selected, id)
}

func (b *BatchSelection[ID]) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.selected = nil
}

// Reset clears the selection and forgets which list it belonged to.
func (b *BatchSelection[ID]) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.selected = nil
	b.bound = false
	b.documentID = 0
}

func (b *BatchSelection[ID]) Has(id ID) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return lo.Contains(b.selected, id)
}

func (b *BatchSelection[ID]) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.selected)
}

// IDs returns the selected ids in the order they were selected.
func (b *BatchSelection[ID]) IDs() []ID {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]ID(nil), b.selected...)
}

// Bind attaches the selection to a freshly fetched list. A list of another document
// clears the selection; the same document keeps only ids that are still listed.
func (b *BatchSelection[ID]) Bind(documentID int64, listed []ID) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.bound || b.documentID != documentID {
		b.selected = nil
		b.documentID = documentID
		b.bound = true
		return
	}
	b.selected = lo.Filter(b.selected, func(id ID, _ int) bool {
		return lo.Contains(listed, id)
	})
}

// DeleteSelected asks for confirmation to delete every selected item.
func (b *BatchSelection[ID]) DeleteSelected() error {
	ticket, ok := b.session.Ticket()
	if !ok {
		return domain.NewNoActiveDocumentError()
	}
	ids := b.IDs()
	if len(ids) == 0 {
		return domain.ValidationErrors{domain.NewFieldError("selection", "Select at least one item to delete.")}
	}

	b.gate.Open(fmt.Sprintf(b.messages.Selected, len(ids)), func(ctx context.Context) error {
		return b.run(ctx, ticket, func(token string) error {
			return b.actions.DeleteMany(ctx, token, ids)
		})
	})
	return nil
}

// DeleteSingle asks for confirmation to delete one item.
func (b *BatchSelection[ID]) DeleteSingle(id ID) error {
	ticket, ok := b.session.Ticket()
	if !ok {
		return domain.NewNoActiveDocumentError()
	}
	b.gate.Open(b.messages.Single, func(ctx context.Context) error {
		return b.run(ctx, ticket, func(token string) error {
			return b.actions.DeleteOne(ctx, token, id)
		})
	})
	return nil
}

// DeleteAll asks for confirmation to delete every item of the active document. The
// backend deletes by document, so items created after the list was fetched are
// included.
func (b *BatchSelection[ID]) DeleteAll() error {
	doc, ok := b.session.ActiveDocument()
	if !ok {
		return domain.NewNoActiveDocumentError()
	}
	ticket, _ := b.session.Ticket()
	b.gate.Open(fmt.Sprintf(b.messages.All, doc.Filename), func(ctx context.Context) error {
		return b.run(ctx, ticket, func(token string) error {
			return b.actions.DeleteAll(ctx, token, doc.ID)
		})
	})
	return nil
}

// run executes a confirmed delete, then clears the selection and refetches the list if
// the document context is unchanged.
func (b *BatchSelection[ID]) run(ctx context.Context, ticket Ticket, del func(token string) error) error {
	if err := b.session.Guard(ctx, del(b.session.Token())); err != nil {
		logger.Get().Warn("Batch delete failed", zap.Int64("documentID", ticket.DocumentID), zap.Error(err))
		return err
	}
	if !b.session.IsCurrent(ticket) {
		return nil
	}
	b.Clear()
	if b.actions.Refresh == nil {
		return nil
	}
	return b.actions.Refresh(ctx)
}
