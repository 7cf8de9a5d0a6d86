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

type sqlxQuizAttemptRepository struct {
	db *sqlx.DB
}

func NewSQLXQuizAttemptRepository(db *sqlx.DB) domain.QuizAttemptRepository {
	return &sqlxQuizAttemptRepository{db: db}
}

// CreateAttempt stores the attempt and its answers. Run it inside a transaction so a
// partial attempt is never visible.
func (r *sqlxQuizAttemptRepository) CreateAttempt(ctx context.Context, userID int64, submission domain.QuizSubmission) (*domain.QuizAttempt, error) {
	exec := executor(ctx, r.db)
	now := time.Now().UTC()

	res, err := exec.ExecContext(ctx,
		`INSERT INTO quiz_attempts (user_id, document_id, score, timestamp) VALUES (?, ?, ?, ?)`,
		userID, submission.DocumentID, submission.Score, now)
	if err != nil {
		return nil, fmt.Errorf("failed to create quiz attempt: %w", err)
	}
	attemptID, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read quiz attempt id: %w", err)
	}

	for _, a := range submission.Answers {
		_, err := exec.ExecContext(ctx,
			`INSERT INTO quiz_answers (attempt_id, question_text, selected_answer, correct_answer, is_correct) VALUES (?, ?, ?, ?, ?)`,
			attemptID, a.QuestionText, a.SelectedAnswer, a.CorrectAnswer, a.IsCorrect)
		if err != nil {
			return nil, fmt.Errorf("failed to create quiz answer: %w", err)
		}
	}

	return &domain.QuizAttempt{
		ID:         attemptID,
		DocumentID: submission.DocumentID,
		Score:      submission.Score,
		Timestamp:  now,
		Answers:    append([]domain.AnswerRecord{}, submission.Answers...),
	}, nil
}

// ListAttempts returns the user's attempts for documentID, newest first, with answers.
func (r *sqlxQuizAttemptRepository) ListAttempts(ctx context.Context, userID, documentID int64) ([]domain.QuizAttempt, error) {
	exec := executor(ctx, r.db)

	var attempts []models.QuizAttempt
	err := exec.SelectContext(ctx, &attempts,
		`SELECT id, user_id, document_id, score, timestamp FROM quiz_attempts
		 WHERE user_id = ? AND document_id = ? ORDER BY timestamp DESC, id DESC`,
		userID, documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list quiz attempts: %w", err)
	}
	if len(attempts) == 0 {
		return []domain.QuizAttempt{}, nil
	}

	ids := lo.Map(attempts, func(a models.QuizAttempt, _ int) int64 { return a.ID })
	query, args, err := inClause(exec,
		`SELECT id, attempt_id, question_text, selected_answer, correct_answer, is_correct FROM quiz_answers
		 WHERE attempt_id IN (?) ORDER BY id`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to build quiz answer query: %w", err)
	}
	var answers []models.QuizAnswer
	if err := exec.SelectContext(ctx, &answers, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list quiz answers: %w", err)
	}
	byAttempt := lo.GroupBy(answers, func(a models.QuizAnswer) int64 { return a.AttemptID })

	return lo.Map(attempts, func(a models.QuizAttempt, _ int) domain.QuizAttempt {
		return domain.QuizAttempt{
			ID:         a.ID,
			DocumentID: a.DocumentID,
			Score:      a.Score,
			Timestamp:  a.Timestamp,
			Answers: lo.Map(byAttempt[a.ID], func(ans models.QuizAnswer, _ int) domain.AnswerRecord {
				return domain.AnswerRecord{
					QuestionText:   ans.QuestionText,
					SelectedAnswer: ans.SelectedAnswer,
					CorrectAnswer:  ans.CorrectAnswer,
					IsCorrect:      ans.IsCorrect,
				}
			}),
		}
	}), nil
}

// DeleteAttempts deletes ids only if every one of them belongs to userID.
func (r *sqlxQuizAttemptRepository) DeleteAttempts(ctx context.Context, userID int64, ids []int64) (int64, error) {
	return deleteOwned(ctx, executor(ctx, r.db), "quiz_attempts", userID, ids,
		"One or more quiz attempts not found or access denied")
}

func (r *sqlxQuizAttemptRepository) DeleteDocumentAttempts(ctx context.Context, userID, documentID int64) (int64, error) {
	res, err := executor(ctx, r.db).ExecContext(ctx,
		`DELETE FROM quiz_attempts WHERE user_id = ? AND document_id = ?`, userID, documentID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete quiz attempts: %w", err)
	}
	return res.RowsAffected()
}

// deleteOwned deletes rows of table with the given ids after checking that userID owns
// all of them. Nothing is deleted when the check fails.
func deleteOwned(ctx context.Context, exec DBTX, table string, userID int64, ids []int64, deniedMessage string) (int64, error) {
	ids = lo.Uniq(ids)
	if len(ids) == 0 {
		return 0, nil
	}

	query, args, err := inClause(exec, "SELECT COUNT(*) FROM "+table+" WHERE user_id = ? AND id IN (?)", userID, ids)
	if err != nil {
		return 0, fmt.Errorf("failed to build ownership query: %w", err)
	}
	var owned int
	if err := exec.GetContext(ctx, &owned, query, args...); err != nil {
		return 0, fmt.Errorf("failed to check ownership: %w", err)
	}
	if owned != len(ids) {
		return 0, domain.NewForbiddenError(deniedMessage)
	}

	query, args, err = inClause(exec, "DELETE FROM "+table+" WHERE user_id = ? AND id IN (?)", userID, ids)
	if err != nil {
		return 0, fmt.Errorf("failed to build delete query: %w", err)
	}
	res, err := exec.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to delete from %s: %w", table, err)
	}
	return res.RowsAffected()
}
