package backend

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"study-buddy/internal/domain"
	"study-buddy/internal/dto"
)

func (c *Client) ListDocuments(ctx context.Context, token string) ([]domain.Document, error) {
	var resp []dto.DocumentResponse
	if err := c.do(ctx, call{method: http.MethodGet, path: "/documents/", token: token, out: &resp}); err != nil {
		return nil, err
	}
	return dto.DocumentsToDomain(resp), nil
}

// UploadDocument posts the file as multipart form field "file".
func (c *Client) UploadDocument(ctx context.Context, token string, upload domain.Upload) (*domain.Document, error) {
	src, err := upload.Open()
	if err != nil {
		return nil, domain.NewError(domain.CodeValidation, fmt.Sprintf("Cannot read %s.", upload.Filename), err)
	}
	defer src.Close()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", upload.Filename)
	if err != nil {
		return nil, domain.NewInternalError("failed to build upload", err)
	}
	if _, err := io.Copy(part, src); err != nil {
		return nil, domain.NewError(domain.CodeValidation, fmt.Sprintf("Cannot read %s.", upload.Filename), err)
	}
	if err := mw.Close(); err != nil {
		return nil, domain.NewInternalError("failed to build upload", err)
	}

	var resp dto.DocumentResponse
	cl := call{method: http.MethodPost, path: "/documents/upload", token: token, out: &resp}
	if err := c.send(ctx, cl, &buf, mw.FormDataContentType()); err != nil {
		return nil, err
	}
	doc := resp.ToDomain()
	return &doc, nil
}

func (c *Client) DeleteDocument(ctx context.Context, token string, documentID int64) error {
	return c.do(ctx, call{method: http.MethodDelete, path: fmt.Sprintf("/documents/%d", documentID), token: token})
}
