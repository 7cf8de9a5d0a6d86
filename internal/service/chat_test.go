package service

import (
	"context"
	"errors"
	"study-buddy/internal/domain"
	"study-buddy/internal/validation"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newChatView(backend *MockBackend, session *SessionStore, gate *ConfirmationGate) *ChatView {
	return NewChatView(backend, session, gate, validation.NewValidator())
}

func TestChatView_LoadShowsGreetingForEmptyHistory(t *testing.T) {
	backend := new(MockBackend)
	backend.On("ChatHistory", mock.Anything, "tok", docA.ID).Return([]domain.ChatMessage{}, nil).Once()
	view := newChatView(backend, loggedInSession(docA), NewConfirmationGate())

	require.NoError(t, view.Load(context.Background()))
	assert.Equal(t, domain.Greeting(docA), view.Messages())
}

func TestChatView_LoadFailureShowsGreeting(t *testing.T) {
	backend := new(MockBackend)
	backend.On("ChatHistory", mock.Anything, "tok", docA.ID).Return(nil, domain.NewBackendError(500, "boom")).Once()
	view := newChatView(backend, loggedInSession(docA), NewConfirmationGate())

	err := view.Load(context.Background())
	assert.Error(t, err)
	assert.Equal(t, domain.Greeting(docA), view.Messages())
}

func TestChatView_AskSendsHistoryWithoutGreeting(t *testing.T) {
	ctx := context.Background()
	backend := new(MockBackend)
	backend.On("ChatHistory", mock.Anything, "tok", docA.ID).Return([]domain.ChatMessage{}, nil).Once()
	backend.On("Ask", mock.Anything, "tok", docA.ID, "What is ATP?", []domain.ChatMessage{}).
		Return("Energy currency.", nil).Once()
	backend.On("Ask", mock.Anything, "tok", docA.ID, "And ADP?", []domain.ChatMessage{
		{Role: domain.RoleHuman, Content: "What is ATP?"},
		{Role: domain.RoleAI, Content: "Energy currency."},
	}).Return("Spent ATP.", nil).Once()

	view := newChatView(backend, loggedInSession(docA), NewConfirmationGate())
	require.NoError(t, view.Load(ctx))

	_, err := view.Ask(ctx, "What is ATP?")
	require.NoError(t, err)
	_, err = view.Ask(ctx, "And ADP?")
	require.NoError(t, err)

	assert.Len(t, view.Messages(), 4)
	backend.AssertExpectations(t)
}

func TestChatView_AskValidatesLocally(t *testing.T) {
	backend := new(MockBackend)
	view := newChatView(backend, loggedInSession(docA), NewConfirmationGate())

	_, err := view.Ask(context.Background(), "   ")
	assert.Equal(t, domain.CodeValidation, domain.CodeOf(err))
	backend.AssertNotCalled(t, "Ask", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestChatView_AskFailureAppendsNothing(t *testing.T) {
	backend := new(MockBackend)
	backend.On("Ask", mock.Anything, "tok", docA.ID, "Why?", mock.Anything).
		Return("", domain.NewTransportError(errors.New("refused"))).Once()
	view := newChatView(backend, loggedInSession(docA), NewConfirmationGate())

	_, err := view.Ask(context.Background(), "Why?")
	assert.Equal(t, domain.TransportFailureMessage, domain.UserMessage(err))
	assert.Empty(t, view.Messages())
	assert.Equal(t, OpFailed, view.AskState())
}

func TestChatView_AnswerForPreviousDocumentIsDropped(t *testing.T) {
	backend := new(MockBackend)
	session := loggedInSession(docA, docB)
	backend.On("Ask", mock.Anything, "tok", docA.ID, "Why?", mock.Anything).
		Run(func(mock.Arguments) {
			d := docB
			session.SetActiveDocument(&d)
		}).
		Return("Because.", nil).Once()
	view := newChatView(backend, session, NewConfirmationGate())

	answer, err := view.Ask(context.Background(), "Why?")
	require.NoError(t, err)
	assert.Equal(t, "Because.", answer)
	assert.Empty(t, view.Messages())
}

func TestChatView_Summarize(t *testing.T) {
	backend := new(MockBackend)
	backend.On("Summarize", mock.Anything, "tok", docA.ID).Return("Cells are small.", nil).Once()
	view := newChatView(backend, loggedInSession(docA), NewConfirmationGate())

	summary, err := view.Summarize(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Cells are small.", summary)
	assert.Equal(t, []domain.ChatMessage{{Role: domain.RoleAI, Content: "Cells are small."}}, view.Messages())
}

func TestChatView_DeleteChat(t *testing.T) {
	ctx := context.Background()
	backend := new(MockBackend)
	backend.On("ChatHistory", mock.Anything, "tok", docA.ID).
		Return([]domain.ChatMessage{{Role: domain.RoleHuman, Content: "hi"}}, nil).Once()
	backend.On("ClearChat", mock.Anything, "tok", docA.ID).Return(nil).Once()

	gate := NewConfirmationGate()
	view := newChatView(backend, loggedInSession(docA), gate)
	require.NoError(t, view.Load(ctx))

	require.NoError(t, view.DeleteChat())
	gate.Cancel()
	assert.Len(t, view.Messages(), 1)
	assert.Equal(t, "hi", view.Messages()[0].Content)

	require.NoError(t, view.DeleteChat())
	require.NoError(t, gate.Confirm(ctx))
	assert.Equal(t, domain.Greeting(docA), view.Messages())
	backend.AssertExpectations(t)
}

func TestChatView_UnauthorizedLoadLogsOut(t *testing.T) {
	backend := new(MockBackend)
	backend.On("ChatHistory", mock.Anything, "tok", docA.ID).
		Return(nil, domain.NewUnauthorizedError("Could not validate credentials")).Once()
	session := loggedInSession(docA)
	view := newChatView(backend, session, NewConfirmationGate())

	err := view.Load(context.Background())
	assert.True(t, domain.IsUnauthorized(err))
	assert.False(t, session.IsAuthenticated())
}
