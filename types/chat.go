package types

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message represents a single message in the conversation
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatRequest struct {
	Message string `json:"message"`
	Persist bool   `json:"persist"`
}

type ChatResponse struct {
	Message *Message `json:"message"`
}

type TranscriptResponse struct {
	Messages   []Message `json:"messages"`
	Transcript string    `json:"transcript"`
}
