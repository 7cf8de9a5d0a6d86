package service

import (
	"context"
	"study-buddy/internal/domain"
	"study-buddy/internal/logger"
	"study-buddy/internal/validation"
	"sync"

	"go.uber.org/zap"
)

// DeleteChatMessage is the confirmation prompt for clearing a conversation.
const DeleteChatMessage = "This will permanently delete the chat history for this document."

// ChatView is the conversation with the tutor about the active document.
type ChatView struct {
	backend   domain.ChatBackend
	session   *SessionStore
	gate      *ConfirmationGate
	validator *validation.Validator
	ask       *Operation
	summarize *Operation

	mu          sync.Mutex
	messages    []domain.ChatMessage
	placeholder bool
}

func NewChatView(backend domain.ChatBackend, session *SessionStore, gate *ConfirmationGate, validator *validation.Validator) *ChatView {
	return &ChatView{
		backend:   backend,
		session:   session,
		gate:      gate,
		validator: validator,
		ask:       NewOperation("Question"),
		summarize: NewOperation("Summary"),
	}
}

// Reset discards the conversation.
func (v *ChatView) Reset() {
	v.mu.Lock()
	v.messages = nil
	v.placeholder = false
	v.mu.Unlock()
	v.ask.Reset()
	v.summarize.Reset()
}

// Load fetches the history of the active document. An empty history, or one that
// cannot be fetched, shows the greeting.
func (v *ChatView) Load(ctx context.Context) error {
	ticket, ok := v.session.Ticket()
	doc, _ := v.session.ActiveDocument()
	if !ok {
		return domain.NewNoActiveDocumentError()
	}

	history, err := v.backend.ChatHistory(ctx, v.session.Token(), ticket.DocumentID)
	err = v.session.Guard(ctx, err)
	if domain.IsUnauthorized(err) {
		return err
	}
	if !v.session.IsCurrent(ticket) {
		return nil
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if err != nil || len(history) == 0 {
		v.messages = domain.Greeting(doc)
		v.placeholder = true
		return err
	}
	v.messages = history
	v.placeholder = false
	return nil
}

// Messages returns the conversation as displayed.
func (v *ChatView) Messages() []domain.ChatMessage {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]domain.ChatMessage(nil), v.messages...)
}

// history is the conversation sent as context; the greeting is not part of it.
func (v *ChatView) history() []domain.ChatMessage {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.placeholder {
		return []domain.ChatMessage{}
	}
	return append([]domain.ChatMessage{}, v.messages...)
}

// Ask sends question with the prior conversation. The question and the answer are
// appended only when the answer arrives for the still-active document.
func (v *ChatView) Ask(ctx context.Context, question string) (string, error) {
	if errs := v.validator.ValidateQuestion(question); len(errs) > 0 {
		return "", errs
	}
	ticket, ok := v.session.Ticket()
	if !ok {
		return "", domain.NewNoActiveDocumentError()
	}
	if err := v.ask.Begin(); err != nil {
		return "", err
	}

	answer, err := v.backend.Ask(ctx, v.session.Token(), ticket.DocumentID, question, v.history())
	err = v.session.Guard(ctx, err)
	v.ask.Finish(err)
	if err != nil {
		logger.Get().Warn("Ask failed", zap.Int64("documentID", ticket.DocumentID), zap.Error(err))
		return "", err
	}

	if v.session.IsCurrent(ticket) {
		v.appendTurn(
			domain.ChatMessage{Role: domain.RoleHuman, Content: question},
			domain.ChatMessage{Role: domain.RoleAI, Content: answer},
		)
	}
	return answer, nil
}

// Summarize asks the tutor for a summary of the active document and adds it to the
// conversation.
func (v *ChatView) Summarize(ctx context.Context) (string, error) {
	ticket, ok := v.session.Ticket()
	if !ok {
		return "", domain.NewNoActiveDocumentError()
	}
	if v.ask.Pending() {
		return "", domain.NewBusyError("Question")
	}
	if err := v.summarize.Begin(); err != nil {
		return "", err
	}

	summary, err := v.backend.Summarize(ctx, v.session.Token(), ticket.DocumentID)
	err = v.session.Guard(ctx, err)
	v.summarize.Finish(err)
	if err != nil {
		return "", err
	}
	if v.session.IsCurrent(ticket) {
		v.appendTurn(domain.ChatMessage{Role: domain.RoleAI, Content: summary})
	}
	return summary, nil
}

func (v *ChatView) appendTurn(msgs ...domain.ChatMessage) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.placeholder {
		v.messages = nil
		v.placeholder = false
	}
	v.messages = append(v.messages, msgs...)
}

// DeleteChat asks for confirmation to clear the conversation of the active document.
func (v *ChatView) DeleteChat() error {
	doc, ok := v.session.ActiveDocument()
	if !ok {
		return domain.NewNoActiveDocumentError()
	}
	ticket, _ := v.session.Ticket()
	v.gate.Open(DeleteChatMessage, func(ctx context.Context) error {
		err := v.backend.ClearChat(ctx, v.session.Token(), doc.ID)
		if err := v.session.Guard(ctx, err); err != nil {
			return err
		}
		if v.session.IsCurrent(ticket) {
			v.mu.Lock()
			v.messages = domain.Greeting(doc)
			v.placeholder = true
			v.mu.Unlock()
		}
		return nil
	})
	return nil
}

func (v *ChatView) AskState() OperationState { return v.ask.State() }

func (v *ChatView) SummarizeState() OperationState { return v.summarize.State() }
