package service

import (
	"context"
	"study-buddy/internal/domain"
	"sync"
)

// ProgressView holds the progress report of the active document.
type ProgressView struct {
	backend domain.ProgressBackend
	session *SessionStore

	mu     sync.Mutex
	report *domain.ProgressReport
}

func NewProgressView(backend domain.ProgressBackend, session *SessionStore) *ProgressView {
	return &ProgressView{backend: backend, session: session}
}

func (v *ProgressView) Reset() {
	v.mu.Lock()
	v.report = nil
	v.mu.Unlock()
}

func (v *ProgressView) Load(ctx context.Context) error {
	ticket, ok := v.session.Ticket()
	if !ok {
		return domain.NewNoActiveDocumentError()
	}
	report, err := v.backend.ProgressReport(ctx, v.session.Token(), ticket.DocumentID)
	if err := v.session.Guard(ctx, err); err != nil {
		return err
	}
	if !v.session.IsCurrent(ticket) {
		return nil
	}
	v.mu.Lock()
	v.report = report
	v.mu.Unlock()
	return nil
}

// Report returns the loaded report.
func (v *ProgressView) Report() (*domain.ProgressReport, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.report == nil {
		return nil, false
	}
	r := *v.report
	return &r, true
}
