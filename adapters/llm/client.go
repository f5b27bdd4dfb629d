package llm

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"paperkit/internal"
	"paperkit/internal/config"
	"paperkit/internal/errors"
	"paperkit/ports"

	"github.com/tidwall/gjson"
)

// Request defaults
const (
	DefaultSystemPrompt = "You are a helpful assistant."
	DefaultTemperature  = 0.2
	DefaultMaxTokens    = 1024
)

// Client talks to an OpenAI-compatible chat completions endpoint
type Client struct {
	Provider   string
	APIKey     string
	BaseURL    string
	Model      string
	Timeout    time.Duration
	HTTPClient *http.Client

	log *internal.Logger
}

var _ ports.ChatClient = (*Client)(nil)

// New creates a client from a resolved provider configuration
func New(cfg config.AIConfig, log *internal.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.ConfigMissing(strings.ToUpper(firstNonEmpty(cfg.Provider, config.ProviderDeepSeek)) + "_API_KEY")
	}
	if log == nil {
		log = internal.DefaultLogger
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		Provider:   cfg.Provider,
		APIKey:     cfg.APIKey,
		BaseURL:    strings.TrimRight(firstNonEmpty(cfg.BaseURL, "https://api.deepseek.com/v1"), "/"),
		Model:      firstNonEmpty(cfg.Model, "deepseek-chat"),
		Timeout:    timeout,
		HTTPClient: &http.Client{Timeout: timeout},
		log:        log,
	}, nil
}

type wireRequest struct {
	Model       string              `json:"model"`
	Messages    []ports.ChatMessage `json:"messages"`
	Temperature float64             `json:"temperature"`
	MaxTokens   int                 `json:"max_tokens"`
	Stream      bool                `json:"stream,omitempty"`
}

func (c *Client) wire(req ports.ChatRequest, stream bool) (wireRequest, error) {
	if len(req.Messages) == 0 {
		return wireRequest{}, errors.InvalidInput("chat request needs at least one message")
	}
	w := wireRequest{
		Model:       firstNonEmpty(req.Model, c.Model),
		Messages:    req.Messages,
		Temperature: DefaultTemperature,
		MaxTokens:   req.MaxTokens,
		Stream:      stream,
	}
	if req.Temperature != nil {
		w.Temperature = *req.Temperature
	}
	if w.MaxTokens <= 0 {
		w.MaxTokens = DefaultMaxTokens
	}
	return w, nil
}

// post sends the request and returns the response once a 2xx status is seen
func (c *Client) post(ctx context.Context, body wireRequest) (*http.Response, error) {
	raw, err := json.Marshal(body)
	if err != nil {
		return nil, errors.Wrap(err, "marshal request")
	}

	url := c.BaseURL + "/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(raw))
	if err != nil {
		return nil, errors.Wrap(err, "build request")
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.APIKey)
	httpReq.Header.Set("Content-Type", "application/json")
	if body.Stream {
		httpReq.Header.Set("Accept", "text/event-stream")
	}

	c.log.Debug("[LLM] POST %s (model=%s, messages=%d, stream=%t)", url, body.Model, len(body.Messages), body.Stream)
	resp, err := c.HTTPClient.Do(httpReq)
	if err != nil {
		return nil, errors.ExternalServiceError(c.service(), err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()
		respRaw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		return nil, errors.ExternalServiceError(c.service(),
			fmt.Errorf("http %d: %s", resp.StatusCode, strings.TrimSpace(string(respRaw))))
	}
	return resp, nil
}

// Chat sends one completion request and returns the first choice
func (c *Client) Chat(ctx context.Context, req ports.ChatRequest) (*ports.Completion, error) {
	body, err := c.wire(req, false)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := c.post(ctx, body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respRaw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.ExternalServiceError(c.service(), fmt.Errorf("read response: %w", err))
	}
	if !gjson.ValidBytes(respRaw) {
		return nil, errors.ExternalServiceError(c.service(), fmt.Errorf("invalid JSON response"))
	}

	doc := gjson.ParseBytes(respRaw)
	choice := doc.Get("choices.0")
	if !choice.Exists() {
		return nil, errors.ExternalServiceError(c.service(), fmt.Errorf("response missing choices"))
	}

	out := &ports.Completion{
		ID:           doc.Get("id").String(),
		Model:        firstNonEmpty(doc.Get("model").String(), body.Model),
		Content:      choice.Get("message.content").String(),
		FinishReason: choice.Get("finish_reason").String(),
		Usage:        c.usage(doc.Get("usage"), body.Model),
	}
	c.log.Info("[LLM] %s completion in %.2fms (finish=%s)", out.Model,
		float64(time.Since(start).Nanoseconds())/1e6, out.FinishReason)
	return out, nil
}

// Stream requests a server-sent event stream and calls onDelta for every
// content fragment until the [DONE] marker. The returned completion carries
// the concatenated content.
func (c *Client) Stream(ctx context.Context, req ports.ChatRequest, onDelta func(string) error) (*ports.Completion, error) {
	body, err := c.wire(req, true)
	if err != nil {
		return nil, err
	}
	resp, err := c.post(ctx, body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	out := &ports.Completion{Model: body.Model}
	var content strings.Builder

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64<<10), 1<<20)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if data == "[DONE]" {
			break
		}
		if !gjson.Valid(data) {
			c.log.Warn("[LLM] skipping malformed stream event: %s", data)
			continue
		}

		event := gjson.Parse(data)
		if id := event.Get("id").String(); id != "" {
			out.ID = id
		}
		if model := event.Get("model").String(); model != "" {
			out.Model = model
		}
		if reason := event.Get("choices.0.finish_reason").String(); reason != "" {
			out.FinishReason = reason
		}
		if u := event.Get("usage"); u.IsObject() {
			out.Usage = c.usage(u, out.Model)
		}

		delta := event.Get("choices.0.delta.content").String()
		if delta == "" {
			continue
		}
		content.WriteString(delta)
		if onDelta != nil {
			if err := onDelta(delta); err != nil {
				return nil, err
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.ExternalServiceError(c.service(), fmt.Errorf("read stream: %w", err))
	}

	out.Content = content.String()
	return out, nil
}

// Ask sends a system prompt and one user prompt and returns the reply text
func (c *Client) Ask(ctx context.Context, prompt, system string) (string, error) {
	completion, err := c.Chat(ctx, ports.ChatRequest{Messages: Messages(prompt, system)})
	if err != nil {
		return "", err
	}
	return completion.Content, nil
}

// Messages builds the system and user message pair for a single prompt
func Messages(prompt, system string) []ports.ChatMessage {
	return []ports.ChatMessage{
		{Role: ports.RoleSystem, Content: firstNonEmpty(system, DefaultSystemPrompt)},
		{Role: ports.RoleUser, Content: prompt},
	}
}

func (c *Client) usage(u gjson.Result, model string) *ports.UsageData {
	if !u.Exists() {
		return nil
	}
	return &ports.UsageData{
		PromptTokens:     int(u.Get("prompt_tokens").Int()),
		CompletionTokens: int(u.Get("completion_tokens").Int()),
		TotalTokens:      int(u.Get("total_tokens").Int()),
		Model:            model,
		Provider:         c.Provider,
	}
}

func (c *Client) service() string {
	return firstNonEmpty(c.Provider, "llm")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
