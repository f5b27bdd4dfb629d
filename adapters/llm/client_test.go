package llm

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"paperkit/internal"
	"paperkit/internal/config"
	"paperkit/internal/errors"
	"paperkit/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := New(config.AIConfig{
		Provider: config.ProviderDeepSeek,
		APIKey:   "test-key",
		BaseURL:  srv.URL + "/v1/",
		Model:    "deepseek-chat",
		Timeout:  5 * time.Second,
	}, internal.NewLoggerTo(os.Stderr, internal.LogLevelError))
	require.NoError(t, err)
	return c
}

func TestNew_RequiresAPIKey(t *testing.T) {
	_, err := New(config.AIConfig{Provider: "openai"}, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.CodeConfigMissing))
	assert.Equal(t, "OPENAI_API_KEY is required", err.Error())

	_, err = New(config.AIConfig{}, nil)
	assert.EqualError(t, err, "DEEPSEEK_API_KEY is required")
}

func TestChat_SendsRequestAndParsesFirstChoice(t *testing.T) {
	var captured gjson.Result
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		raw, _ := io.ReadAll(r.Body)
		captured = gjson.ParseBytes(raw)

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"id": "cmpl-1",
			"model": "deepseek-chat",
			"choices": [
				{"message": {"role": "assistant", "content": "Hallo!"}, "finish_reason": "stop"},
				{"message": {"role": "assistant", "content": "ignored"}}
			],
			"usage": {"prompt_tokens": 12, "completion_tokens": 3, "total_tokens": 15}
		}`)
	})

	got, err := c.Chat(context.Background(), ports.ChatRequest{Messages: Messages("Sag hallo", "")})
	require.NoError(t, err)

	assert.Equal(t, "cmpl-1", got.ID)
	assert.Equal(t, "Hallo!", got.Content)
	assert.Equal(t, "stop", got.FinishReason)
	require.NotNil(t, got.Usage)
	assert.Equal(t, 15, got.Usage.TotalTokens)
	assert.Equal(t, config.ProviderDeepSeek, got.Usage.Provider)

	assert.Equal(t, "deepseek-chat", captured.Get("model").String())
	assert.Equal(t, 0.2, captured.Get("temperature").Float())
	assert.Equal(t, int64(1024), captured.Get("max_tokens").Int())
	assert.Equal(t, "system", captured.Get("messages.0.role").String())
	assert.Equal(t, DefaultSystemPrompt, captured.Get("messages.0.content").String())
	assert.Equal(t, "Sag hallo", captured.Get("messages.1.content").String())
	assert.False(t, captured.Get("stream").Exists())
}

func TestChat_RequestOverrides(t *testing.T) {
	var captured gjson.Result
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		captured = gjson.ParseBytes(raw)
		fmt.Fprint(w, `{"choices": [{"message": {"content": "ok"}}]}`)
	})

	temp := 0.0
	_, err := c.Chat(context.Background(), ports.ChatRequest{
		Messages:    Messages("q", "sys"),
		Model:       "deepseek-reasoner",
		Temperature: &temp,
		MaxTokens:   64,
	})
	require.NoError(t, err)
	assert.Equal(t, "deepseek-reasoner", captured.Get("model").String())
	assert.True(t, captured.Get("temperature").Exists())
	assert.Equal(t, 0.0, captured.Get("temperature").Float())
	assert.Equal(t, int64(64), captured.Get("max_tokens").Int())
}

func TestChat_HTTPErrorIsExternalServiceError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": {"message": "invalid api key"}}`, http.StatusUnauthorized)
	})

	_, err := c.Chat(context.Background(), ports.ChatRequest{Messages: Messages("q", "")})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.CodeExternalService))
	assert.Contains(t, err.Error(), "http 401")
	assert.Contains(t, err.Error(), "invalid api key")
}

func TestChat_MissingChoices(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"id": "x", "choices": []}`)
	})

	_, err := c.Chat(context.Background(), ports.ChatRequest{Messages: Messages("q", "")})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.CodeExternalService))
	assert.Contains(t, err.Error(), "missing choices")
}

func TestChat_RejectsEmptyMessages(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})
	_, err := c.Chat(context.Background(), ports.ChatRequest{})
	assert.True(t, errors.Is(err, errors.CodeInvalidInput))
}

func TestStream_CollectsDeltasUntilDone(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		assert.True(t, gjson.GetBytes(raw, "stream").Bool())

		w.Header().Set("Content-Type", "text/event-stream")
		events := []string{
			`{"id":"s1","model":"deepseek-chat","choices":[{"delta":{"role":"assistant"}}]}`,
			`{"id":"s1","choices":[{"delta":{"content":"Hal"}}]}`,
			`{"id":"s1","choices":[{"delta":{"content":"lo"}}]}`,
			`{"id":"s1","choices":[{"delta":{},"finish_reason":"stop"}]}`,
		}
		for _, e := range events {
			fmt.Fprintf(w, "data: %s\n\n", e)
		}
		fmt.Fprint(w, ": keep-alive\n\n")
		fmt.Fprint(w, "data: [DONE]\n\n")
		fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"content\":\"late\"}}]}\n\n")
	})

	var deltas []string
	got, err := c.Stream(context.Background(), ports.ChatRequest{Messages: Messages("q", "")}, func(d string) error {
		deltas = append(deltas, d)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Hal", "lo"}, deltas)
	assert.Equal(t, "Hallo", got.Content)
	assert.Equal(t, "s1", got.ID)
	assert.Equal(t, "stop", got.FinishReason)
}

func TestStream_CallbackErrorStops(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"content\":\"a\"}}]}\n\n")
		fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"content\":\"b\"}}]}\n\n")
	})

	stop := fmt.Errorf("stop")
	_, err := c.Stream(context.Background(), ports.ChatRequest{Messages: Messages("q", "")}, func(string) error {
		return stop
	})
	assert.ErrorIs(t, err, stop)
}

func TestAsk(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		assert.Equal(t, "Be brief.", gjson.GetBytes(raw, "messages.0.content").String())
		fmt.Fprint(w, `{"choices": [{"message": {"content": "42"}}]}`)
	})

	answer, err := c.Ask(context.Background(), "What is the answer?", "Be brief.")
	require.NoError(t, err)
	assert.Equal(t, "42", answer)
}
