package repository

import (
	"context"
	"errors"
	"fmt"
	"study-buddy/internal/domain"
	"study-buddy/internal/logger"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// SQLTxManager runs units of work in one SQLite transaction. Repositories pick the
// transaction up from the context passed to the unit of work.
type SQLTxManager struct {
	db *sqlx.DB
}

func NewTransactionManagerAdapter(db *sqlx.DB) domain.TransactionManager {
	return &SQLTxManager{db: db}
}

// WithTransaction commits when fn succeeds and rolls back when it fails or panics.
// Nested calls join the outer transaction.
func (m *SQLTxManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if _, ok := ctx.Value(txKey{}).(*sqlx.Tx); ok {
		return fn(ctx)
	}

	tx, err := m.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				logger.Get().Error("Failed to roll back transaction after panic", zap.Error(rbErr))
			}
			panic(p)
		}
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				err = errors.Join(err, fmt.Errorf("failed to roll back transaction: %w", rbErr))
			}
			return
		}
		if cErr := tx.Commit(); cErr != nil {
			err = fmt.Errorf("failed to commit transaction: %w", cErr)
		}
	}()

	return fn(context.WithValue(ctx, txKey{}, tx))
}
