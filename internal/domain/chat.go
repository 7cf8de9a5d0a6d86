package domain

import "fmt"

// ChatRole identifies who authored a chat message.
type ChatRole string

const (
	RoleHuman ChatRole = "human"
	RoleAI    ChatRole = "ai"
)

// ChatMessage is one turn of the conversation about a single document.
type ChatMessage struct {
	Role    ChatRole
	Content string
}

// Greeting is the placeholder conversation shown for a document without chat history.
func Greeting(doc Document) []ChatMessage {
	return []ChatMessage{{
		Role:    RoleAI,
		Content: fmt.Sprintf("Hi! I'm your AI Study Buddy. How can I help you with **%s**?", doc.Filename),
	}}
}
