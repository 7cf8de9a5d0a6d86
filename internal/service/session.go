package service

import (
	"context"
	"study-buddy/internal/domain"
	"study-buddy/internal/logger"
	"study-buddy/internal/util"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DocumentChangeHandler is invoked synchronously whenever the identity of the active
// document changes. active is nil when no document is active.
type DocumentChangeHandler func(active *domain.Document)

// Ticket identifies the document context a fetch was issued in.
type Ticket struct {
	DocumentID int64
	epoch      uint64
}

// SessionStore owns the token, the document cache and the active document. Every
// document-scoped component subscribes to it and resets when the active document changes.
type SessionStore struct {
	tokens domain.TokenStore

	mu        sync.RWMutex
	token     string
	documents []domain.Document
	active    *domain.Document
	epoch     uint64
	handlers  []subscription
	nextSubID int
}

type subscription struct {
	id      int
	handler DocumentChangeHandler
}

func NewSessionStore(tokens domain.TokenStore) *SessionStore {
	return &SessionStore{tokens: tokens}
}

// Restore rebuilds the session from the persisted token. It reports whether a usable
// token was found. An expired JWT is cleared.
func (s *SessionStore) Restore(ctx context.Context) (bool, error) {
	token, err := s.tokens.Load(ctx)
	if err != nil {
		return false, domain.NewInternalError("failed to load session", err)
	}
	if token == "" {
		return false, nil
	}
	if exp, ok := util.TokenExpiry(token); ok && !exp.After(time.Now()) {
		logger.Get().Info("Persisted token has expired", zap.Time("expiredAt", exp))
		if err := s.tokens.Clear(ctx); err != nil {
			logger.Get().Warn("Failed to clear expired token", zap.Error(err))
		}
		return false, nil
	}

	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
	return true, nil
}

// Login persists token and establishes the session. Nothing changes if the token cannot
// be persisted.
func (s *SessionStore) Login(ctx context.Context, token string) error {
	if err := s.tokens.Save(ctx, token); err != nil {
		return domain.NewInternalError("failed to persist session", err)
	}
	s.mu.Lock()
	s.token = token
	s.documents = nil
	s.mu.Unlock()
	return nil
}

// Logout tears the session down and resets every document-scoped component. The
// in-memory session is always cleared, even when the persisted token cannot be.
func (s *SessionStore) Logout(ctx context.Context) error {
	s.mu.Lock()
	s.token = ""
	s.documents = nil
	s.active = nil
	s.epoch++
	handlers := s.snapshotHandlers()
	s.mu.Unlock()

	notify(handlers, nil)

	if err := s.tokens.Clear(ctx); err != nil {
		logger.Get().Warn("Failed to clear persisted token", zap.Error(err))
		return domain.NewInternalError("failed to clear session", err)
	}
	return nil
}

func (s *SessionStore) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *SessionStore) IsAuthenticated() bool {
	return s.Token() != ""
}

// Session returns a snapshot of the current session.
func (s *SessionStore) Session() domain.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess := domain.Session{Token: s.token}
	if s.active != nil {
		id := s.active.ID
		sess.ActiveDocumentID = &id
	}
	return sess
}

// Documents returns a copy of the document cache in server order.
func (s *SessionStore) Documents() []domain.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Document(nil), s.documents...)
}

// SetDocuments replaces the document cache.
func (s *SessionStore) SetDocuments(docs []domain.Document) {
	s.mu.Lock()
	s.documents = append([]domain.Document(nil), docs...)
	s.mu.Unlock()
}

// ActiveDocument returns the active document, if any.
func (s *SessionStore) ActiveDocument() (domain.Document, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.active == nil {
		return domain.Document{}, false
	}
	return *s.active, true
}

// SetActiveDocument switches the active document. When the identity changes every
// reset handler runs, in registration order, before SetActiveDocument returns.
// Re-selecting the same document only refreshes its metadata.
func (s *SessionStore) SetActiveDocument(doc *domain.Document) {
	s.mu.Lock()
	if sameDocument(s.active, doc) {
		if doc != nil {
			d := *doc
			s.active = &d
		}
		s.mu.Unlock()
		return
	}

	var next *domain.Document
	if doc != nil {
		d := *doc
		next = &d
	}
	s.active = next
	s.epoch++
	handlers := s.snapshotHandlers()
	s.mu.Unlock()

	if next != nil {
		logger.Get().Debug("Active document changed", zap.Int64("documentID", next.ID))
	} else {
		logger.Get().Debug("Active document cleared")
	}
	notify(handlers, next)
}

// OnDocumentChange registers handler and returns a function that removes it.
func (s *SessionStore) OnDocumentChange(handler DocumentChangeHandler) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSubID++
	id := s.nextSubID
	s.handlers = append(s.handlers, subscription{id: id, handler: handler})

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.handlers {
			if sub.id == id {
				s.handlers = append(s.handlers[:i:i], s.handlers[i+1:]...)
				return
			}
		}
	}
}

// Ticket captures the current document context. ok is false when no document is active.
func (s *SessionStore) Ticket() (t Ticket, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.active == nil {
		return Ticket{}, false
	}
	return Ticket{DocumentID: s.active.ID, epoch: s.epoch}, true
}

// IsCurrent reports whether t still describes the active document context. A result
// fetched under a stale ticket must be discarded.
func (s *SessionStore) IsCurrent(t Ticket) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active != nil && s.active.ID == t.DocumentID && s.epoch == t.epoch
}

// Guard forces a logout when err is an authorization failure, whichever component made
// the call. err is returned unchanged.
func (s *SessionStore) Guard(ctx context.Context, err error) error {
	if err == nil || !domain.IsUnauthorized(err) {
		return err
	}
	if !s.IsAuthenticated() {
		return err
	}
	logger.Get().Info("Backend rejected the session token, logging out", zap.Error(err))
	if logoutErr := s.Logout(ctx); logoutErr != nil {
		logger.Get().Warn("Logout after authorization failure did not complete", zap.Error(logoutErr))
	}
	return err
}

func (s *SessionStore) snapshotHandlers() []DocumentChangeHandler {
	out := make([]DocumentChangeHandler, 0, len(s.handlers))
	for _, sub := range s.handlers {
		out = append(out, sub.handler)
	}
	return out
}

func notify(handlers []DocumentChangeHandler, active *domain.Document) {
	for _, h := range handlers {
		var arg *domain.Document
		if active != nil {
			d := *active
			arg = &d
		}
		h(arg)
	}
}

func sameDocument(a, b *domain.Document) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.ID == b.ID
}
