package domain

import "time"

// User is an account of the local reference backend.
type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// StoredDocument is a document as the backend keeps it, including its extracted text.
type StoredDocument struct {
	ID        int64
	OwnerID   int64
	Filename  string
	Content   string
	CreatedAt time.Time
}

// Summary returns the client-facing view of the document.
func (d StoredDocument) Summary() Document {
	return Document{ID: d.ID, Filename: d.Filename}
}
