package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"study-buddy/internal/domain"
	"study-buddy/internal/repository/models"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/samber/lo"
)

type sqlxDocumentRepository struct {
	db *sqlx.DB
}

func NewSQLXDocumentRepository(db *sqlx.DB) domain.DocumentRepository {
	return &sqlxDocumentRepository{db: db}
}

func toDomainDocument(m models.Document) domain.StoredDocument {
	return domain.StoredDocument{
		ID:        m.ID,
		OwnerID:   m.OwnerID,
		Filename:  m.Filename,
		Content:   m.Content,
		CreatedAt: m.CreatedAt,
	}
}

func (r *sqlxDocumentRepository) CreateDocument(ctx context.Context, doc *domain.StoredDocument) error {
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now().UTC()
	}
	query := `INSERT INTO documents (owner_id, filename, content, created_at) VALUES (?, ?, ?, ?)`
	res, err := executor(ctx, r.db).ExecContext(ctx, query, doc.OwnerID, doc.Filename, doc.Content, doc.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create document: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read document id: %w", err)
	}
	doc.ID = id
	return nil
}

// GetDocument returns the document with its content, or (nil, nil) if ownerID has no
// such document.
func (r *sqlxDocumentRepository) GetDocument(ctx context.Context, ownerID, id int64) (*domain.StoredDocument, error) {
	var doc models.Document
	query := `SELECT id, owner_id, filename, content, created_at FROM documents WHERE id = ? AND owner_id = ?`
	if err := executor(ctx, r.db).GetContext(ctx, &doc, query, id, ownerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	d := toDomainDocument(doc)
	return &d, nil
}

// ListDocuments returns the owner's documents in upload order without their content.
func (r *sqlxDocumentRepository) ListDocuments(ctx context.Context, ownerID int64) ([]domain.StoredDocument, error) {
	var docs []models.Document
	query := `SELECT id, owner_id, filename, '' AS content, created_at FROM documents WHERE owner_id = ? ORDER BY id`
	if err := executor(ctx, r.db).SelectContext(ctx, &docs, query, ownerID); err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	return lo.Map(docs, func(d models.Document, _ int) domain.StoredDocument { return toDomainDocument(d) }), nil
}

// DeleteDocument removes the document; chat, quiz and flashcard rows cascade.
func (r *sqlxDocumentRepository) DeleteDocument(ctx context.Context, ownerID, id int64) error {
	res, err := executor(ctx, r.db).ExecContext(ctx, `DELETE FROM documents WHERE id = ? AND owner_id = ?`, id, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if rows == 0 {
		return domain.NewNotFoundError("Document not found or access denied")
	}
	return nil
}
