package service

import (
	"context"
	"sort"
	"strings"
	"study-buddy/internal/domain"
	"study-buddy/internal/logger"
	"sync"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

// DeleteDocumentMessage warns that deleting a document cascades to its study data.
const DeleteDocumentMessage = "This will delete the document and all its associated chat and quiz data. This action cannot be undone."

const uploadServerErrorMessage = "Upload failed. Server error."

// DocumentController lists, uploads, selects and deletes documents.
type DocumentController struct {
	backend domain.DocumentBackend
	session *SessionStore
	gate    *ConfirmationGate
	upload  *Operation

	mu      sync.Mutex
	pending *domain.Upload
	message string
}

func NewDocumentController(backend domain.DocumentBackend, session *SessionStore, gate *ConfirmationGate) *DocumentController {
	return &DocumentController{
		backend: backend,
		session: session,
		gate:    gate,
		upload:  NewOperation("Upload"),
	}
}

// List replaces the document cache with the backend's list. If no document is active,
// or the active one is gone, the first document becomes active; an empty list leaves
// none active. On failure the cache is left untouched.
func (c *DocumentController) List(ctx context.Context) ([]domain.Document, error) {
	return c.refresh(ctx, true)
}

func (c *DocumentController) refresh(ctx context.Context, autoSelect bool) ([]domain.Document, error) {
	docs, err := c.backend.ListDocuments(ctx, c.session.Token())
	if err := c.session.Guard(ctx, err); err != nil {
		logger.Get().Warn("Failed to list documents", zap.Error(err))
		return nil, err
	}
	c.session.SetDocuments(docs)

	if len(docs) == 0 {
		c.session.SetActiveDocument(nil)
		return docs, nil
	}
	active, ok := c.session.ActiveDocument()
	if ok {
		if current, found := domain.FindDocument(docs, active.ID); found {
			c.session.SetActiveDocument(&current)
			return docs, nil
		}
	}
	if autoSelect {
		first := docs[0]
		c.session.SetActiveDocument(&first)
	} else if ok {
		c.session.SetActiveDocument(nil)
	}
	return docs, nil
}

// Select makes the cached document with id active.
func (c *DocumentController) Select(id int64) error {
	doc, ok := domain.FindDocument(c.session.Documents(), id)
	if !ok {
		return domain.NewNotFoundError("Document not found.")
	}
	c.session.SetActiveDocument(&doc)
	return nil
}

// Find returns the cached document whose filename best matches query. An exact
// case-insensitive match wins over fuzzy matches.
func (c *DocumentController) Find(query string) (domain.Document, bool) {
	docs := c.session.Documents()
	query = strings.TrimSpace(query)
	if query == "" || len(docs) == 0 {
		return domain.Document{}, false
	}
	if doc, ok := lo.Find(docs, func(d domain.Document) bool {
		return strings.EqualFold(d.Filename, query)
	}); ok {
		return doc, true
	}

	names := lo.Map(docs, func(d domain.Document, _ int) string { return d.Filename })
	ranks := fuzzy.RankFindNormalizedFold(query, names)
	if len(ranks) == 0 {
		return domain.Document{}, false
	}
	sort.Sort(ranks)
	return docs[ranks[0].OriginalIndex], true
}

// SelectFile sets the file the next Upload sends.
func (c *DocumentController) SelectFile(upload domain.Upload) {
	c.mu.Lock()
	defer c.mu.Unlock()
	u := upload
	c.pending = &u
	c.message = ""
}

// PendingFile returns the name of the file waiting to be uploaded.
func (c *DocumentController) PendingFile() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pending == nil {
		return "", false
	}
	return c.pending.Filename, true
}

// Upload sends the selected file. Only one upload can be in flight. On success the
// document list is refreshed and the pending file cleared; on failure the cache is
// not touched and the server's message is kept in UploadMessage.
func (c *DocumentController) Upload(ctx context.Context) (*domain.Document, error) {
	c.mu.Lock()
	pending := c.pending
	c.mu.Unlock()
	if pending == nil {
		return nil, domain.ValidationErrors{domain.NewFieldError("file", "Choose a file to upload.")}
	}

	if err := c.upload.Begin(); err != nil {
		return nil, err
	}
	c.setMessage("Processing...")

	doc, err := c.backend.UploadDocument(ctx, c.session.Token(), *pending)
	if err = c.session.Guard(ctx, err); err != nil {
		c.setMessage(uploadFailureMessage(err))
		c.upload.Finish(err)
		logger.Get().Warn("Upload failed", zap.String("filename", pending.Filename), zap.Error(err))
		return nil, err
	}

	c.setMessage("Uploaded: " + doc.Filename)
	if _, err := c.List(ctx); err != nil {
		logger.Get().Warn("Failed to refresh documents after upload", zap.Error(err))
	}

	c.mu.Lock()
	if c.pending == pending {
		c.pending = nil
	}
	c.mu.Unlock()

	c.upload.Finish(nil)
	logger.Get().Info("Document uploaded", zap.Int64("documentID", doc.ID), zap.String("filename", doc.Filename))
	return doc, nil
}

func uploadFailureMessage(err error) string {
	if domain.CodeOf(err) == domain.CodeTransport {
		return uploadServerErrorMessage
	}
	return "Error: " + domain.UserMessage(err)
}

func (c *DocumentController) setMessage(msg string) {
	c.mu.Lock()
	c.message = msg
	c.mu.Unlock()
}

// UploadMessage is the status line of the last upload.
func (c *DocumentController) UploadMessage() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.message
}

func (c *DocumentController) UploadState() OperationState {
	return c.upload.State()
}

// Delete asks for confirmation to delete document id. Once confirmed the document is
// deleted, the active document is unset if it was the deleted one, and the list is
// refreshed without selecting a replacement.
func (c *DocumentController) Delete(id int64) error {
	c.gate.Open(DeleteDocumentMessage, func(ctx context.Context) error {
		err := c.backend.DeleteDocument(ctx, c.session.Token(), id)
		if err := c.session.Guard(ctx, err); err != nil {
			return err
		}
		if active, ok := c.session.ActiveDocument(); ok && active.ID == id {
			c.session.SetActiveDocument(nil)
		}
		logger.Get().Info("Document deleted", zap.Int64("documentID", id))
		_, err = c.refresh(ctx, false)
		return err
	})
	return nil
}
