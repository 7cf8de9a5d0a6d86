package dto

import "study-buddy/internal/domain"

type Flashcard struct {
	ID    int64  `json:"id"`
	SetID int64  `json:"set_id"`
	Front string `json:"front"`
	Back  string `json:"back"`
}

type FlashcardSetResponse struct {
	ID        int64       `json:"id"`
	Title     string      `json:"title"`
	Timestamp Timestamp   `json:"timestamp"`
	Cards     []Flashcard `json:"cards"`
}

// DeleteItemsRequest deletes several flashcard sets at once.
type DeleteItemsRequest struct {
	ItemIDs []int64 `json:"item_ids"`
}

func (s FlashcardSetResponse) ToDomain(documentID int64) domain.FlashcardSet {
	set := domain.FlashcardSet{
		ID:         s.ID,
		DocumentID: documentID,
		Title:      s.Title,
		Timestamp:  s.Timestamp.Time,
		Cards:      make([]domain.Flashcard, 0, len(s.Cards)),
	}
	for _, c := range s.Cards {
		set.Cards = append(set.Cards, domain.Flashcard{ID: c.ID, Front: c.Front, Back: c.Back})
	}
	return set
}

func NewFlashcardSetResponse(s domain.FlashcardSet) FlashcardSetResponse {
	resp := FlashcardSetResponse{
		ID:        s.ID,
		Title:     s.Title,
		Timestamp: NewTimestamp(s.Timestamp),
		Cards:     make([]Flashcard, 0, len(s.Cards)),
	}
	for _, c := range s.Cards {
		resp.Cards = append(resp.Cards, Flashcard{ID: c.ID, SetID: s.ID, Front: c.Front, Back: c.Back})
	}
	return resp
}
