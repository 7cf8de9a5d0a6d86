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

// DefaultFlashcardSetTitle is used for sets created without a title.
const DefaultFlashcardSetTitle = "Flashcards"

type sqlxFlashcardRepository struct {
	db *sqlx.DB
}

func NewSQLXFlashcardRepository(db *sqlx.DB) domain.FlashcardRepository {
	return &sqlxFlashcardRepository{db: db}
}

// CreateSet stores set with its cards and fills in the generated ids.
func (r *sqlxFlashcardRepository) CreateSet(ctx context.Context, userID int64, set *domain.FlashcardSet) error {
	exec := executor(ctx, r.db)
	if set.Title == "" {
		set.Title = DefaultFlashcardSetTitle
	}
	if set.Timestamp.IsZero() {
		set.Timestamp = time.Now().UTC()
	}

	res, err := exec.ExecContext(ctx,
		`INSERT INTO flashcard_sets (user_id, document_id, title, timestamp) VALUES (?, ?, ?, ?)`,
		userID, set.DocumentID, set.Title, set.Timestamp)
	if err != nil {
		return fmt.Errorf("failed to create flashcard set: %w", err)
	}
	if set.ID, err = res.LastInsertId(); err != nil {
		return fmt.Errorf("failed to read flashcard set id: %w", err)
	}

	for i := range set.Cards {
		res, err := exec.ExecContext(ctx,
			`INSERT INTO flashcards (set_id, front, back) VALUES (?, ?, ?)`,
			set.ID, set.Cards[i].Front, set.Cards[i].Back)
		if err != nil {
			return fmt.Errorf("failed to create flashcard: %w", err)
		}
		if set.Cards[i].ID, err = res.LastInsertId(); err != nil {
			return fmt.Errorf("failed to read flashcard id: %w", err)
		}
	}
	return nil
}

// ListSets returns the user's sets for documentID, newest first.
func (r *sqlxFlashcardRepository) ListSets(ctx context.Context, userID, documentID int64) ([]domain.FlashcardSet, error) {
	exec := executor(ctx, r.db)

	var sets []models.FlashcardSet
	err := exec.SelectContext(ctx, &sets,
		`SELECT id, user_id, document_id, title, timestamp FROM flashcard_sets
		 WHERE user_id = ? AND document_id = ? ORDER BY timestamp DESC, id DESC`,
		userID, documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list flashcard sets: %w", err)
	}
	if len(sets) == 0 {
		return []domain.FlashcardSet{}, nil
	}

	ids := lo.Map(sets, func(s models.FlashcardSet, _ int) int64 { return s.ID })
	query, args, err := inClause(exec, `SELECT id, set_id, front, back FROM flashcards WHERE set_id IN (?) ORDER BY id`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to build flashcard query: %w", err)
	}
	var cards []models.Flashcard
	if err := exec.SelectContext(ctx, &cards, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list flashcards: %w", err)
	}
	bySet := lo.GroupBy(cards, func(c models.Flashcard) int64 { return c.SetID })

	return lo.Map(sets, func(s models.FlashcardSet, _ int) domain.FlashcardSet {
		return domain.FlashcardSet{
			ID:         s.ID,
			DocumentID: s.DocumentID,
			Title:      s.Title,
			Timestamp:  s.Timestamp,
			Cards: lo.Map(bySet[s.ID], func(c models.Flashcard, _ int) domain.Flashcard {
				return domain.Flashcard{ID: c.ID, Front: c.Front, Back: c.Back}
			}),
		}
	}), nil
}

func (r *sqlxFlashcardRepository) DeleteSets(ctx context.Context, userID int64, ids []int64) (int64, error) {
	return deleteOwned(ctx, executor(ctx, r.db), "flashcard_sets", userID, ids,
		"One or more flashcard sets not found or access denied")
}

func (r *sqlxFlashcardRepository) DeleteDocumentSets(ctx context.Context, userID, documentID int64) (int64, error) {
	res, err := executor(ctx, r.db).ExecContext(ctx,
		`DELETE FROM flashcard_sets WHERE user_id = ? AND document_id = ?`, userID, documentID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete flashcard sets: %w", err)
	}
	return res.RowsAffected()
}
