package repository

import (
	"context"
	"fmt"
	"study-buddy/internal/domain"
	"study-buddy/internal/repository/models"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/samber/lo"
)

type sqlxChatRepository struct {
	db *sqlx.DB
}

func NewSQLXChatRepository(db *sqlx.DB) domain.ChatRepository {
	return &sqlxChatRepository{db: db}
}

// AppendMessages stores msgs in order with the current time.
func (r *sqlxChatRepository) AppendMessages(ctx context.Context, documentID int64, msgs ...domain.ChatMessage) error {
	exec := executor(ctx, r.db)
	now := time.Now().UTC()
	for _, m := range msgs {
		_, err := exec.ExecContext(ctx,
			`INSERT INTO chat_history (document_id, role, content, timestamp) VALUES (?, ?, ?, ?)`,
			documentID, string(m.Role), m.Content, now)
		if err != nil {
			return fmt.Errorf("failed to append chat message: %w", err)
		}
	}
	return nil
}

func (r *sqlxChatRepository) ListMessages(ctx context.Context, documentID int64) ([]domain.ChatMessage, error) {
	var rows []models.ChatMessage
	query := `SELECT id, document_id, role, content, timestamp FROM chat_history WHERE document_id = ? ORDER BY timestamp, id`
	if err := executor(ctx, r.db).SelectContext(ctx, &rows, query, documentID); err != nil {
		return nil, fmt.Errorf("failed to list chat history: %w", err)
	}
	return lo.Map(rows, func(m models.ChatMessage, _ int) domain.ChatMessage {
		return domain.ChatMessage{Role: domain.ChatRole(m.Role), Content: m.Content}
	}), nil
}

func (r *sqlxChatRepository) ClearMessages(ctx context.Context, documentID int64) error {
	if _, err := executor(ctx, r.db).ExecContext(ctx, `DELETE FROM chat_history WHERE document_id = ?`, documentID); err != nil {
		return fmt.Errorf("failed to clear chat history: %w", err)
	}
	return nil
}
