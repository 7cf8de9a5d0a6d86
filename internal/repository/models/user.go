package models

import (
	"database/sql"
	"time"
)

// User represents a row of the users table.
type User struct {
	ID             int64          `db:"id"`
	Name           sql.NullString `db:"name"`
	Email          string         `db:"email"`
	HashedPassword string         `db:"hashed_password"`
	CreatedAt      time.Time      `db:"created_at"`
}

// Document represents an uploaded document. Content holds the extracted plain text.
type Document struct {
	ID        int64     `db:"id"`
	OwnerID   int64     `db:"owner_id"`
	Filename  string    `db:"filename"`
	Content   string    `db:"content"`
	CreatedAt time.Time `db:"created_at"`
}

type ChatMessage struct {
	ID         int64     `db:"id"`
	DocumentID int64     `db:"document_id"`
	Role       string    `db:"role"`
	Content    string    `db:"content"`
	Timestamp  time.Time `db:"timestamp"`
}
