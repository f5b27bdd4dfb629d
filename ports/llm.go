package ports

import "context"

// Chat roles
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is one message of a chat completion request
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is a single completion call. Zero values fall back to the
// client's defaults.
type ChatRequest struct {
	Messages    []ChatMessage
	Model       string
	Temperature *float64
	MaxTokens   int
}

// UsageData represents raw usage data from LLM provider APIs
type UsageData struct {
	PromptTokens     int    `json:"prompt_tokens"`
	CompletionTokens int    `json:"completion_tokens"`
	TotalTokens      int    `json:"total_tokens"`
	Model            string `json:"model"`
	Provider         string `json:"provider"`
}

// Completion is the first choice of a chat completion response
type Completion struct {
	ID           string
	Model        string
	Content      string
	FinishReason string
	Usage        *UsageData
}

// ChatClient is an OpenAI-compatible chat completion endpoint
type ChatClient interface {
	Chat(ctx context.Context, req ChatRequest) (*Completion, error)
	Stream(ctx context.Context, req ChatRequest, onDelta func(string) error) (*Completion, error)
}
