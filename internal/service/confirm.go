package service

import (
	"context"
	"study-buddy/internal/domain"
	"study-buddy/internal/logger"
	"sync"

	"go.uber.org/zap"
)

// ConfirmAction is a destructive action waiting for confirmation.
type ConfirmAction func(ctx context.Context) error

// ConfirmationGate holds at most one pending destructive action. Nothing runs until
// Confirm is called; Cancel discards the action.
type ConfirmationGate struct {
	mu      sync.Mutex
	pending *confirmation
	seq     uint64
	op      *Operation
}

type confirmation struct {
	id      uint64
	message string
	action  ConfirmAction
}

func NewConfirmationGate() *ConfirmationGate {
	return &ConfirmationGate{op: NewOperation("Confirmation")}
}

// Open stores message and action, replacing any confirmation already pending.
func (g *ConfirmationGate) Open(message string, action ConfirmAction) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.pending != nil {
		logger.Get().Debug("Replacing pending confirmation", zap.String("previous", g.pending.message))
	}
	g.seq++
	g.pending = &confirmation{id: g.seq, message: message, action: action}
}

// Pending returns the message of the pending confirmation.
func (g *ConfirmationGate) Pending() (string, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.pending == nil {
		return "", false
	}
	return g.pending.message, true
}

func (g *ConfirmationGate) IsOpen() bool {
	_, open := g.Pending()
	return open
}

// Confirm runs the pending action and waits for it. The gate closes once the action
// succeeds, unless a new confirmation was opened while it ran. A failed action leaves
// the gate open so the user can retry or cancel.
func (g *ConfirmationGate) Confirm(ctx context.Context) error {
	g.mu.Lock()
	c := g.pending
	if c == nil {
		g.mu.Unlock()
		return domain.NewInvalidStateError("There is nothing to confirm.")
	}
	if err := g.op.Begin(); err != nil {
		g.mu.Unlock()
		return err
	}
	g.mu.Unlock()

	err := c.action(ctx)
	g.op.Finish(err)
	if err != nil {
		return err
	}

	g.mu.Lock()
	if g.pending != nil && g.pending.id == c.id {
		g.pending = nil
	}
	g.mu.Unlock()
	return nil
}

// Cancel closes the gate without running the action.
func (g *ConfirmationGate) Cancel() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.pending = nil
}

// State exposes the single-flight state of Confirm.
func (g *ConfirmationGate) State() OperationState {
	return g.op.State()
}
