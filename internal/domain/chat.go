package domain

import "time"

// Message roles
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage represents one turn of a widget transcript. It lives only in
// the in-memory session of the widget.
type ChatMessage struct {
	Role           string    `json:"role"` // user, assistant
	Content        string    `json:"content"`
	Timestamp      time.Time `json:"timestamp"`
	Liked          *bool     `json:"liked,omitempty"` // nil is neutral
	HasContactInfo bool      `json:"has_contact_info,omitempty"`
}

// ChatRequest is the request to send a chat message.
// Message is a pointer so a missing field can be told apart from an empty one.
type ChatRequest struct {
	Message *string `json:"message"`
}

// ChatResponse is the response from a chat message
type ChatResponse struct {
	Reply          string `json:"reply"`
	Language       string `json:"language,omitempty"`
	HasContactInfo bool   `json:"has_contact_info"`
}

// ErrorResponse is the error envelope returned by the chat endpoint
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// DiagnosticReport reports whether the knowledge store can be read back
type DiagnosticReport struct {
	Success bool               `json:"success"`
	Data    []KnowledgeSection `json:"data"`
	Error   string             `json:"error,omitempty"`
	Message string             `json:"message"`
}
