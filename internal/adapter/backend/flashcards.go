package backend

import (
	"context"
	"fmt"
	"net/http"
	"study-buddy/internal/domain"
	"study-buddy/internal/dto"
)

func (c *Client) GenerateFlashcards(ctx context.Context, token string, documentID int64) (*domain.FlashcardSet, error) {
	var resp dto.FlashcardSetResponse
	err := c.do(ctx, call{
		method: http.MethodPost,
		path:   "/flashcards/generate",
		token:  token,
		body:   dto.DocumentRequest{DocumentID: documentID},
		out:    &resp,
	})
	if err != nil {
		return nil, err
	}
	set := resp.ToDomain(documentID)
	return &set, nil
}

func (c *Client) FlashcardSets(ctx context.Context, token string, documentID int64) ([]domain.FlashcardSet, error) {
	var resp []dto.FlashcardSetResponse
	err := c.do(ctx, call{method: http.MethodGet, path: fmt.Sprintf("/flashcards/document/%d", documentID), token: token, out: &resp})
	if err != nil {
		return nil, err
	}
	sets := make([]domain.FlashcardSet, 0, len(resp))
	for _, s := range resp {
		sets = append(sets, s.ToDomain(documentID))
	}
	return sets, nil
}

func (c *Client) DeleteFlashcardSet(ctx context.Context, token string, setID int64) error {
	return c.do(ctx, call{method: http.MethodDelete, path: fmt.Sprintf("/flashcards/set/%d", setID), token: token})
}

func (c *Client) DeleteFlashcardSets(ctx context.Context, token string, setIDs []int64) error {
	return c.do(ctx, call{
		method: http.MethodPost,
		path:   "/flashcards/delete-multiple",
		token:  token,
		body:   dto.DeleteItemsRequest{ItemIDs: setIDs},
	})
}

func (c *Client) DeleteAllFlashcardSets(ctx context.Context, token string, documentID int64) error {
	return c.do(ctx, call{method: http.MethodDelete, path: fmt.Sprintf("/flashcards/document/%d/all", documentID), token: token})
}
