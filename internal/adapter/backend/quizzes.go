package backend

import (
	"context"
	"fmt"
	"net/http"
	"study-buddy/internal/domain"
	"study-buddy/internal/dto"
)

func (c *Client) GenerateQuiz(ctx context.Context, token string, documentID int64) (*domain.Quiz, error) {
	var resp dto.QuizResponse
	err := c.do(ctx, call{
		method: http.MethodPost,
		path:   "/generate-quiz",
		token:  token,
		body:   dto.DocumentRequest{DocumentID: documentID},
		out:    &resp,
	})
	if err != nil {
		return nil, err
	}
	return resp.ToDomain(), nil
}

func (c *Client) SubmitQuiz(ctx context.Context, token string, submission domain.QuizSubmission) error {
	return c.do(ctx, call{
		method: http.MethodPost,
		path:   "/submit-quiz",
		token:  token,
		body:   dto.NewSubmitQuizRequest(submission),
	})
}

func (c *Client) QuizHistory(ctx context.Context, token string, documentID int64) ([]domain.QuizAttempt, error) {
	var resp []dto.QuizAttemptResponse
	err := c.do(ctx, call{method: http.MethodGet, path: fmt.Sprintf("/documents/%d/quiz-history", documentID), token: token, out: &resp})
	if err != nil {
		return nil, err
	}
	attempts := make([]domain.QuizAttempt, 0, len(resp))
	for _, a := range resp {
		attempts = append(attempts, a.ToDomain(documentID))
	}
	return attempts, nil
}

func (c *Client) DeleteQuizAttempt(ctx context.Context, token string, attemptID int64) error {
	return c.do(ctx, call{method: http.MethodDelete, path: fmt.Sprintf("/quiz-attempts/%d", attemptID), token: token})
}

func (c *Client) DeleteQuizAttempts(ctx context.Context, token string, attemptIDs []int64) error {
	return c.do(ctx, call{
		method: http.MethodPost,
		path:   "/quiz-attempts/delete-multiple",
		token:  token,
		body:   dto.DeleteAttemptsRequest{AttemptIDs: attemptIDs},
	})
}

func (c *Client) DeleteAllQuizAttempts(ctx context.Context, token string, documentID int64) error {
	return c.do(ctx, call{method: http.MethodDelete, path: fmt.Sprintf("/documents/%d/quizzes", documentID), token: token})
}
