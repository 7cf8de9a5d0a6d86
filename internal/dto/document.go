package dto

import "study-buddy/internal/domain"

type DocumentResponse struct {
	ID       int64  `json:"id"`
	Filename string `json:"filename"`
	OwnerID  *int64 `json:"owner_id,omitempty"`
}

// DocumentRequest is the body of every endpoint that acts on a single document.
type DocumentRequest struct {
	DocumentID int64 `json:"document_id"`
}

func (d DocumentResponse) ToDomain() domain.Document {
	return domain.Document{ID: d.ID, Filename: d.Filename}
}

func DocumentsToDomain(in []DocumentResponse) []domain.Document {
	out := make([]domain.Document, 0, len(in))
	for _, d := range in {
		out = append(out, d.ToDomain())
	}
	return out
}

func NewDocumentResponse(d domain.Document) DocumentResponse {
	return DocumentResponse{ID: d.ID, Filename: d.Filename}
}
