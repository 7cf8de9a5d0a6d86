package backend

import (
	"context"
	"fmt"
	"net/http"
	"study-buddy/internal/domain"
	"study-buddy/internal/dto"
)

func (c *Client) ChatHistory(ctx context.Context, token string, documentID int64) ([]domain.ChatMessage, error) {
	var resp []dto.ChatMessage
	err := c.do(ctx, call{method: http.MethodGet, path: fmt.Sprintf("/documents/%d/history", documentID), token: token, out: &resp})
	if err != nil {
		return nil, err
	}
	return dto.ChatToDomain(resp), nil
}

func (c *Client) ClearChat(ctx context.Context, token string, documentID int64) error {
	return c.do(ctx, call{method: http.MethodDelete, path: fmt.Sprintf("/documents/%d/chat", documentID), token: token})
}

// Ask sends the question together with the prior conversation for context.
func (c *Client) Ask(ctx context.Context, token string, documentID int64, question string, history []domain.ChatMessage) (string, error) {
	var resp dto.AskResponse
	err := c.do(ctx, call{
		method: http.MethodPost,
		path:   "/ask",
		token:  token,
		body: dto.AskRequest{
			Question:    question,
			DocumentIDs: []int64{documentID},
			ChatHistory: dto.NewChatHistory(history),
		},
		out: &resp,
	})
	return resp.Answer, err
}

func (c *Client) Summarize(ctx context.Context, token string, documentID int64) (string, error) {
	var resp dto.SummarizeResponse
	err := c.do(ctx, call{
		method: http.MethodPost,
		path:   "/summarize",
		token:  token,
		body:   dto.DocumentRequest{DocumentID: documentID},
		out:    &resp,
	})
	return resp.Summary, err
}
