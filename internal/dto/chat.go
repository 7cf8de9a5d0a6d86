package dto

import "study-buddy/internal/domain"

// ChatMessage is a stored chat turn. ID and Timestamp are only set by the server.
type ChatMessage struct {
	ID        int64      `json:"id,omitempty"`
	Role      string     `json:"role"`
	Content   string     `json:"content"`
	Timestamp *Timestamp `json:"timestamp,omitempty"`
}

type AskRequest struct {
	Question    string        `json:"question"`
	DocumentIDs []int64       `json:"document_ids"`
	ChatHistory []ChatMessage `json:"chat_history"`
}

type AskResponse struct {
	Answer string `json:"answer"`
}

type SummarizeResponse struct {
	Summary string `json:"summary"`
}

func (m ChatMessage) ToDomain() domain.ChatMessage {
	return domain.ChatMessage{Role: domain.ChatRole(m.Role), Content: m.Content}
}

func ChatToDomain(in []ChatMessage) []domain.ChatMessage {
	out := make([]domain.ChatMessage, 0, len(in))
	for _, m := range in {
		out = append(out, m.ToDomain())
	}
	return out
}

func NewChatHistory(in []domain.ChatMessage) []ChatMessage {
	out := make([]ChatMessage, 0, len(in))
	for _, m := range in {
		out = append(out, ChatMessage{Role: string(m.Role), Content: m.Content})
	}
	return out
}
