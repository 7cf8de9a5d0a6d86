package domain

import "context"

// DefaultTokenKey is the well-known key the authentication token is persisted under.
const DefaultTokenKey = "authToken"

// Session is the authenticated identity plus the currently active document.
type Session struct {
	Token            string
	ActiveDocumentID *int64
}

// TokenStore persists the authentication token across restarts. It is the only
// client state that survives a reload.
type TokenStore interface {
	// Load returns the persisted token, or "" if none is stored.
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}
