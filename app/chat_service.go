package app

import (
	"context"
	"strings"
	"time"

	"paperkit/adapters/llm"
	"paperkit/internal"
	"paperkit/internal/errors"
	"paperkit/ports"

	"github.com/google/uuid"
)

// ChatService sends single-turn prompts to a chat provider
type ChatService struct {
	client ports.ChatClient
	log    *internal.Logger
}

// NewChatService creates a chat service on top of client
func NewChatService(client ports.ChatClient, log *internal.Logger) *ChatService {
	if log == nil {
		log = internal.DefaultLogger
	}
	return &ChatService{client: client, log: log}
}

// ChatPrompt is one prompt with optional overrides
type ChatPrompt struct {
	Prompt      string
	System      string
	Model       string
	Temperature *float64
	MaxTokens   int
}

// Ask sends the prompt and returns the completion. When onDelta is non-nil
// the reply is streamed through it.
func (s *ChatService) Ask(ctx context.Context, p ChatPrompt, onDelta func(string) error) (*ports.Completion, error) {
	if strings.TrimSpace(p.Prompt) == "" {
		return nil, errors.InvalidInput("prompt must not be empty")
	}

	requestID := uuid.New().String()
	log := s.log.With("request_id", requestID)
	req := ports.ChatRequest{
		Messages:    llm.Messages(p.Prompt, p.System),
		Model:       p.Model,
		Temperature: p.Temperature,
		MaxTokens:   p.MaxTokens,
	}

	start := time.Now()
	var (
		completion *ports.Completion
		err        error
	)
	if onDelta != nil {
		completion, err = s.client.Stream(ctx, req, onDelta)
	} else {
		completion, err = s.client.Chat(ctx, req)
	}
	if err != nil {
		log.Error("[Chat] request failed: %v", err)
		return nil, err
	}

	if u := completion.Usage; u != nil {
		log.Debug("[Chat] tokens prompt=%d completion=%d total=%d", u.PromptTokens, u.CompletionTokens, u.TotalTokens)
	}
	log.Info("[Chat] %s replied in %.2fms", completion.Model, float64(time.Since(start).Nanoseconds())/1e6)
	return completion, nil
}
