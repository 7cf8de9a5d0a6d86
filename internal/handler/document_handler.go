package handler

import (
	"io"
	"study-buddy/internal/domain"
	"study-buddy/internal/dto"
	"study-buddy/internal/logger"
	"study-buddy/internal/middleware"
	"study-buddy/internal/tutor"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const documentIDParam = "document_id"

// DocumentHandler serves uploads, the document list and chat history.
type DocumentHandler struct {
	documents tutor.DocumentService
}

func NewDocumentHandler(documents tutor.DocumentService) *DocumentHandler {
	return &DocumentHandler{documents: documents}
}

// List handles GET /documents/
func (h *DocumentHandler) List(c *fiber.Ctx) error {
	docs, err := h.documents.List(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return err
	}
	resp := make([]dto.DocumentResponse, 0, len(docs))
	for _, d := range docs {
		resp = append(resp, dto.NewDocumentResponse(d))
	}
	return c.JSON(resp)
}

// Upload handles POST /documents/upload with a multipart "file" field.
func (h *DocumentHandler) Upload(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return domain.ValidationErrors{domain.NewMissingFieldError("file")}
	}
	f, err := fh.Open()
	if err != nil {
		return domain.NewInternalError("failed to open upload", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return domain.NewInternalError("failed to read upload", err)
	}

	userID := middleware.UserID(c)
	doc, err := h.documents.Upload(c.UserContext(), userID, fh.Filename, fh.Header.Get(fiber.HeaderContentType), data)
	if err != nil {
		return err
	}
	logger.Get().Info("Document uploaded",
		zap.Int64("userID", userID),
		zap.Int64("documentID", doc.ID),
		zap.Int("bytes", len(data)))
	return c.JSON(dto.NewDocumentResponse(*doc))
}

// Delete handles DELETE /documents/:document_id
func (h *DocumentHandler) Delete(c *fiber.Ctx) error {
	msg, err := h.documents.Delete(c.UserContext(), middleware.UserID(c), middleware.IDParam(c, documentIDParam))
	if err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: msg})
}

// History handles GET /documents/:document_id/history
func (h *DocumentHandler) History(c *fiber.Ctx) error {
	msgs, err := h.documents.ChatHistory(c.UserContext(), middleware.UserID(c), middleware.IDParam(c, documentIDParam))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewChatHistory(msgs))
}

// ClearChat handles DELETE /documents/:document_id/chat
func (h *DocumentHandler) ClearChat(c *fiber.Ctx) error {
	msg, err := h.documents.ClearChat(c.UserContext(), middleware.UserID(c), middleware.IDParam(c, documentIDParam))
	if err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: msg})
}
