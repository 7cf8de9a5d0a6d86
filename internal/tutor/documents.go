package tutor

import (
	"context"
	"mime"
	"path/filepath"
	"strings"
	"study-buddy/internal/adapter/generator"
	"study-buddy/internal/domain"
	"study-buddy/internal/logger"
	"time"
	"unicode/utf8"

	"github.com/samber/lo"
	"go.uber.org/zap"
)

const (
	DeleteDocumentMessage = "Document and all associated data deleted successfully."
	ClearChatMessage      = "Chat history deleted successfully."
)

var textExtensions = []string{".txt", ".md", ".markdown", ".text", ".csv"}

// DocumentService stores uploaded documents and their chat history.
type DocumentService interface {
	Upload(ctx context.Context, userID int64, filename, contentType string, data []byte) (*domain.Document, error)
	List(ctx context.Context, userID int64) ([]domain.Document, error)
	Delete(ctx context.Context, userID, documentID int64) (string, error)
	ChatHistory(ctx context.Context, userID, documentID int64) ([]domain.ChatMessage, error)
	ClearChat(ctx context.Context, userID, documentID int64) (string, error)
}

type documentService struct {
	docs   domain.DocumentRepository
	chats  domain.ChatRepository
	chunks *ChunkCache
}

func NewDocumentService(docs domain.DocumentRepository, chats domain.ChatRepository, chunks *ChunkCache) DocumentService {
	return &documentService{docs: docs, chats: chats, chunks: chunks}
}

// ownedDocument loads a document of userID, reporting any other document as missing.
func ownedDocument(ctx context.Context, docs domain.DocumentRepository, userID, documentID int64) (*domain.StoredDocument, error) {
	doc, err := docs.GetDocument(ctx, userID, documentID)
	if err != nil {
		return nil, domain.NewInternalError("failed to load document", err)
	}
	if doc == nil {
		return nil, domain.NewNotFoundError("Document not found.")
	}
	return doc, nil
}

// isTextUpload accepts text/* content types and common plain-text extensions.
func isTextUpload(filename, contentType string) bool {
	if mediaType, _, err := mime.ParseMediaType(contentType); err == nil && strings.HasPrefix(mediaType, "text/") {
		return true
	}
	return lo.Contains(textExtensions, strings.ToLower(filepath.Ext(filename)))
}

func (s *documentService) Upload(ctx context.Context, userID int64, filename, contentType string, data []byte) (*domain.Document, error) {
	filename = filepath.Base(strings.TrimSpace(filename))
	if filename == "" || filename == "." {
		return nil, domain.NewValidationError("A file is required.")
	}
	if !isTextUpload(filename, contentType) || !utf8.Valid(data) {
		return nil, domain.NewValidationError("Unsupported file type")
	}

	content := string(data)
	chunks, err := generator.Chunk(content)
	if err != nil {
		return nil, domain.NewInternalError("failed to split document", err)
	}
	if len(chunks) == 0 {
		return nil, domain.NewValidationError("Document could not be chunked.")
	}

	doc := &domain.StoredDocument{OwnerID: userID, Filename: filename, Content: content, CreatedAt: time.Now().UTC()}
	if err := s.docs.CreateDocument(ctx, doc); err != nil {
		return nil, err
	}
	s.chunks.put(doc.ID, chunks)

	logger.Get().Info("Document uploaded",
		zap.Int64("userID", userID),
		zap.Int64("documentID", doc.ID),
		zap.String("filename", filename),
		zap.Int("chunks", len(chunks)))
	summary := doc.Summary()
	return &summary, nil
}

func (s *documentService) List(ctx context.Context, userID int64) ([]domain.Document, error) {
	docs, err := s.docs.ListDocuments(ctx, userID)
	if err != nil {
		return nil, err
	}
	return lo.Map(docs, func(d domain.StoredDocument, _ int) domain.Document { return d.Summary() }), nil
}

func (s *documentService) Delete(ctx context.Context, userID, documentID int64) (string, error) {
	if err := s.docs.DeleteDocument(ctx, userID, documentID); err != nil {
		return "", err
	}
	s.chunks.forget(documentID)
	logger.Get().Info("Document deleted", zap.Int64("userID", userID), zap.Int64("documentID", documentID))
	return DeleteDocumentMessage, nil
}

func (s *documentService) ChatHistory(ctx context.Context, userID, documentID int64) ([]domain.ChatMessage, error) {
	if _, err := ownedDocument(ctx, s.docs, userID, documentID); err != nil {
		return nil, err
	}
	return s.chats.ListMessages(ctx, documentID)
}

func (s *documentService) ClearChat(ctx context.Context, userID, documentID int64) (string, error) {
	doc, err := s.docs.GetDocument(ctx, userID, documentID)
	if err != nil {
		return "", domain.NewInternalError("failed to load document", err)
	}
	if doc == nil {
		return "", domain.NewForbiddenError("Not authorized to delete this chat history")
	}
	if err := s.chats.ClearMessages(ctx, documentID); err != nil {
		return "", err
	}
	return ClearChatMessage, nil
}
