package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/yungbote/moonshill-backend/internal/pkg/httpx"
	"github.com/yungbote/moonshill-backend/internal/platform/llm"
	"github.com/yungbote/moonshill-backend/internal/platform/logger"
)

func newTestClient(t *testing.T, h http.HandlerFunc) llm.Provider {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := NewClient(Config{APIKey: "sk-test", BaseURL: srv.URL, Model: "gpt-test"}, logger.NewNop())
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return c
}

func TestGenerateSendsParams(t *testing.T) {
	var got chatRequest
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("path: want=/v1/chat/completions got=%s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer sk-test" {
			t.Errorf("auth: got=%q", auth)
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"  wagmi  "},"finish_reason":"stop"}]}`))
	})

	out, err := c.Generate(context.Background(), "write a post", llm.Params{Temperature: 0.3, PresencePenalty: 0.1})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if out != "wagmi" {
		t.Fatalf("Generate: want=wagmi got=%q", out)
	}
	if got.Model != "gpt-test" || got.Temperature != 0.3 || got.MaxTokens != 500 || got.TopP != 1 || got.PresencePenalty != 0.1 {
		t.Fatalf("request: got=%+v", got)
	}
	if len(got.Messages) != 1 || got.Messages[0].Role != "user" || got.Messages[0].Content != "write a post" {
		t.Fatalf("messages: got=%+v", got.Messages)
	}
}

func TestGenerateSendsSystemInstruction(t *testing.T) {
	var got chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"gm"}}]}`))
	}))
	t.Cleanup(srv.Close)
	c, err := NewClient(Config{APIKey: "sk-test", BaseURL: srv.URL, System: "  You are a crypto community member.  "}, logger.NewNop())
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	if _, err := c.Generate(context.Background(), "write a post", llm.DefaultParams()); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(got.Messages) != 2 {
		t.Fatalf("messages: want=2 got=%+v", got.Messages)
	}
	if got.Messages[0].Role != "system" || got.Messages[0].Content != "You are a crypto community member." {
		t.Fatalf("system message: got=%+v", got.Messages[0])
	}
	if got.Messages[1].Role != "user" || got.Messages[1].Content != "write a post" {
		t.Fatalf("user message: got=%+v", got.Messages[1])
	}
}

func TestGenerateReturnsStatusError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error":"overloaded"}`))
	})
	_, err := c.Generate(context.Background(), "x", llm.DefaultParams())
	var se *httpx.StatusError
	if !errors.As(err, &se) || se.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("Generate: want StatusError 503 got=%v", err)
	}
	if !httpx.IsRetryableError(err) {
		t.Fatalf("503 should be retryable")
	}
}

func TestEmbed(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/embeddings" {
			t.Errorf("path: got=%s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"data":[{"index":0,"embedding":[0.5,-0.25]}]}`))
	})
	v, err := c.Embed(context.Background(), "gm")
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if len(v) != 2 || v[0] != 0.5 || v[1] != -0.25 {
		t.Fatalf("Embed: want=[0.5 -0.25] got=%v", v)
	}
}

func TestNewClientRequiresKey(t *testing.T) {
	if _, err := NewClient(Config{}, logger.NewNop()); err == nil {
		t.Fatalf("NewClient: want error without api key")
	}
}
