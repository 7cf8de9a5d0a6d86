package service

import (
	"context"
	"study-buddy/internal/domain"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func flashcardSets(ids ...int64) []domain.FlashcardSet {
	return lo.Map(ids, func(id int64, _ int) domain.FlashcardSet {
		return domain.FlashcardSet{ID: id, DocumentID: docA.ID, Title: "Flashcards",
			Cards: []domain.Flashcard{{ID: id * 10, Front: "f", Back: "b"}}}
	})
}

func setIDs(sets []domain.FlashcardSet) []int64 {
	return lo.Map(sets, func(s domain.FlashcardSet, _ int) int64 { return s.ID })
}

func TestBatchSelection_DeleteSelectedNeedsConfirmation(t *testing.T) {
	ctx := context.Background()
	backend := new(MockBackend)
	backend.On("FlashcardSets", mock.Anything, "tok", docA.ID).Return(flashcardSets(1, 2, 3, 4, 5), nil).Once()
	backend.On("DeleteFlashcardSets", mock.Anything, "tok", []int64{2, 4}).Return(nil).Once()
	backend.On("FlashcardSets", mock.Anything, "tok", docA.ID).Return(flashcardSets(1, 3, 5), nil).Once()

	session := loggedInSession(docA)
	gate := NewConfirmationGate()
	view := NewFlashcardsView(backend, session, gate, NewFlashcardViewer(0))
	require.NoError(t, view.Load(ctx))

	sel := view.Selection()
	sel.Toggle(2)
	sel.Toggle(4)
	require.NoError(t, sel.DeleteSelected())

	prompt, ok := gate.Pending()
	require.True(t, ok)
	assert.Equal(t, "Are you sure you want to delete the 2 selected sets?", prompt)

	gate.Cancel()
	assert.Len(t, view.Sets(), 5, "nothing is deleted without confirmation")
	backend.AssertNotCalled(t, "DeleteFlashcardSets", mock.Anything, mock.Anything, mock.Anything)
	assert.Equal(t, []int64{2, 4}, sel.IDs(), "cancel keeps the selection")

	require.NoError(t, sel.DeleteSelected())
	require.NoError(t, gate.Confirm(ctx))

	assert.Equal(t, []int64{1, 3, 5}, setIDs(view.Sets()))
	assert.Zero(t, sel.Len())
	assert.False(t, gate.IsOpen())
	backend.AssertExpectations(t)
}

func TestBatchSelection_EmptySelection(t *testing.T) {
	gate := NewConfirmationGate()
	sel := NewBatchSelection(loggedInSession(docA), gate, FlashcardSetMessages, BatchActions[int64]{})

	err := sel.DeleteSelected()
	assert.Equal(t, domain.CodeValidation, domain.CodeOf(err))
	assert.False(t, gate.IsOpen())
}

func TestBatchSelection_NoActiveDocument(t *testing.T) {
	gate := NewConfirmationGate()
	sel := NewBatchSelection(loggedInSession(), gate, QuizAttemptMessages, BatchActions[int64]{})
	sel.Toggle(1)

	assert.Equal(t, domain.CodeNoActiveDocument, domain.CodeOf(sel.DeleteSelected()))
	assert.Equal(t, domain.CodeNoActiveDocument, domain.CodeOf(sel.DeleteSingle(1)))
	assert.Equal(t, domain.CodeNoActiveDocument, domain.CodeOf(sel.DeleteAll()))
}

func TestBatchSelection_ToggleAndBind(t *testing.T) {
	sel := NewBatchSelection(loggedInSession(docA), NewConfirmationGate(), QuizAttemptMessages, BatchActions[int64]{})

	sel.Bind(docA.ID, []int64{1, 2, 3})
	sel.Toggle(1)
	sel.Toggle(3)
	sel.Toggle(1)
	assert.Equal(t, []int64{3}, sel.IDs())
	assert.True(t, sel.Has(3))
	assert.False(t, sel.Has(1))

	sel.Toggle(2)
	sel.Bind(docA.ID, []int64{2})
	assert.Equal(t, []int64{2}, sel.IDs(), "same document keeps only listed ids")

	sel.Bind(docB.ID, []int64{2})
	assert.Empty(t, sel.IDs(), "another document clears the selection")

	sel.Toggle(2)
	sel.Reset()
	assert.Zero(t, sel.Len())
}

func TestBatchSelection_DeleteAllIsByDocument(t *testing.T) {
	ctx := context.Background()
	backend := new(MockBackend)
	backend.On("QuizHistory", mock.Anything, "tok", docA.ID).Return([]domain.QuizAttempt{{ID: 7}}, nil).Once()
	backend.On("DeleteAllQuizAttempts", mock.Anything, "tok", docA.ID).Return(nil).Once()
	backend.On("QuizHistory", mock.Anything, "tok", docA.ID).Return([]domain.QuizAttempt{}, nil).Once()

	session := loggedInSession(docA)
	gate := NewConfirmationGate()
	view := NewQuizzesView(backend, session, gate, NewQuizEngine(backend, session))
	require.NoError(t, view.Load(ctx))

	require.NoError(t, view.Selection().DeleteAll())
	prompt, _ := gate.Pending()
	assert.Equal(t, "Are you sure you want to delete ALL quiz attempts for biology.pdf?", prompt)

	require.NoError(t, gate.Confirm(ctx))
	assert.Empty(t, view.Attempts())
	backend.AssertExpectations(t)
}

func TestBatchSelection_DeleteSingle(t *testing.T) {
	ctx := context.Background()
	backend := new(MockBackend)
	backend.On("DeleteQuizAttempt", mock.Anything, "tok", int64(7)).Return(domain.NewBackendError(404, "Quiz attempt not found")).Once()

	gate := NewConfirmationGate()
	sel := NewBatchSelection(loggedInSession(docA), gate, QuizAttemptMessages, BatchActions[int64]{
		DeleteOne: backend.DeleteQuizAttempt,
	})
	sel.Toggle(7)

	require.NoError(t, sel.DeleteSingle(7))
	prompt, _ := gate.Pending()
	assert.Equal(t, QuizAttemptMessages.Single, prompt)

	err := gate.Confirm(ctx)
	assert.Equal(t, "Quiz attempt not found", domain.UserMessage(err))
	assert.True(t, gate.IsOpen(), "a failed delete keeps the prompt")
	assert.Equal(t, []int64{7}, sel.IDs())
}

func TestBatchSelection_StaleConfirmSkipsRefresh(t *testing.T) {
	ctx := context.Background()
	backend := new(MockBackend)
	backend.On("DeleteFlashcardSets", mock.Anything, "tok", []int64{1}).Return(nil).Once()

	session := loggedInSession(docA, docB)
	gate := NewConfirmationGate()
	refreshed := false
	sel := NewBatchSelection(session, gate, FlashcardSetMessages, BatchActions[int64]{
		DeleteMany: backend.DeleteFlashcardSets,
		Refresh:    func(context.Context) error { refreshed = true; return nil },
	})
	sel.Toggle(1)
	require.NoError(t, sel.DeleteSelected())

	d := docB
	session.SetActiveDocument(&d)
	require.NoError(t, gate.Confirm(ctx))

	assert.False(t, refreshed, "the list of another document is not refetched")
	backend.AssertExpectations(t)
}
