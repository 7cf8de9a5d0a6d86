package service

import (
	"study-buddy/internal/domain"
	"sync"
)

// OperationState is the lifecycle of one user-triggered asynchronous operation.
type OperationState int

const (
	OpIdle OperationState = iota
	OpPending
	OpDone
	OpFailed
)

func (s OperationState) String() string {
	switch s {
	case OpIdle:
		return "idle"
	case OpPending:
		return "pending"
	case OpDone:
		return "done"
	case OpFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Operation is a single-flight guard: at most one invocation is pending at a time and
// a second Begin while pending is rejected with a BUSY error.
type Operation struct {
	name  string
	mu    sync.Mutex
	state OperationState
	err   error
}

func NewOperation(name string) *Operation {
	return &Operation{name: name}
}

// Begin moves the operation to Pending.
func (o *Operation) Begin() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state == OpPending {
		return domain.NewBusyError(o.name)
	}
	o.state = OpPending
	o.err = nil
	return nil
}

// Finish records the outcome of the pending invocation.
func (o *Operation) Finish(err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if err != nil {
		o.state = OpFailed
		o.err = err
		return
	}
	o.state = OpDone
}

// Run wraps fn in Begin/Finish.
func (o *Operation) Run(fn func() error) error {
	if err := o.Begin(); err != nil {
		return err
	}
	err := fn()
	o.Finish(err)
	return err
}

func (o *Operation) State() OperationState {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Err returns the error of the last failed invocation.
func (o *Operation) Err() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.err
}

func (o *Operation) Pending() bool {
	return o.State() == OpPending
}

// Reset returns a settled operation to Idle. A pending invocation is left alone; it
// settles when it finishes.
func (o *Operation) Reset() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state == OpPending {
		return
	}
	o.state = OpIdle
	o.err = nil
}
