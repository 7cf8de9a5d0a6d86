package domain

import "context"

// TransactionManager runs fn inside one database transaction. Repositories called
// with the context passed to fn join that transaction.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// UserRepository returns (nil, nil) when a lookup finds nothing.
type UserRepository interface {
	CreateUser(ctx context.Context, user *User) error
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	GetUserByID(ctx context.Context, id int64) (*User, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
}

type DocumentRepository interface {
	CreateDocument(ctx context.Context, doc *StoredDocument) error
	GetDocument(ctx context.Context, ownerID, id int64) (*StoredDocument, error)
	ListDocuments(ctx context.Context, ownerID int64) ([]StoredDocument, error)
	DeleteDocument(ctx context.Context, ownerID, id int64) error
}

type ChatRepository interface {
	AppendMessages(ctx context.Context, documentID int64, msgs ...ChatMessage) error
	ListMessages(ctx context.Context, documentID int64) ([]ChatMessage, error)
	ClearMessages(ctx context.Context, documentID int64) error
}

// QuizAttemptRepository stores graded attempts. Delete methods are scoped to the owner
// and report how many attempts were removed.
type QuizAttemptRepository interface {
	CreateAttempt(ctx context.Context, userID int64, submission QuizSubmission) (*QuizAttempt, error)
	ListAttempts(ctx context.Context, userID, documentID int64) ([]QuizAttempt, error)
	DeleteAttempts(ctx context.Context, userID int64, ids []int64) (int64, error)
	DeleteDocumentAttempts(ctx context.Context, userID, documentID int64) (int64, error)
}

type FlashcardRepository interface {
	CreateSet(ctx context.Context, userID int64, set *FlashcardSet) error
	ListSets(ctx context.Context, userID, documentID int64) ([]FlashcardSet, error)
	DeleteSets(ctx context.Context, userID int64, ids []int64) (int64, error)
	DeleteDocumentSets(ctx context.Context, userID, documentID int64) (int64, error)
}
