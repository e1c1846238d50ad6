package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/yungbote/moonshill-backend/internal/pkg/httpx"
	"github.com/yungbote/moonshill-backend/internal/platform/llm"
	"github.com/yungbote/moonshill-backend/internal/platform/logger"
)

type Config struct {
	APIKey     string
	BaseURL    string
	Model      string
	EmbedModel string
	Timeout    time.Duration
	// System is sent as a leading system message on every generation.
	System string
}

type client struct {
	log        *logger.Logger
	baseURL    string
	apiKey     string
	model      string
	embedModel string
	system     string
	httpClient *http.Client
}

// NewClient returns an llm.Provider backed by the chat completions and
// embeddings endpoints. It performs a single attempt per call; retries are
// layered on with llm.Retrying.
func NewClient(cfg Config, log *logger.Logger) (llm.Provider, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, fmt.Errorf("missing OPENAI_API_KEY")
	}
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = "https://api.openai.com"
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = "gpt-4o-mini"
	}
	embed := strings.TrimSpace(cfg.EmbedModel)
	if embed == "" {
		embed = "text-embedding-3-small"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &client{
		log:        log.With("service", "OpenAIClient"),
		baseURL:    baseURL,
		apiKey:     apiKey,
		model:      model,
		embedModel: embed,
		system:     strings.TrimSpace(cfg.System),
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

func (c *client) Name() string  { return "openai" }
func (c *client) Model() string { return c.model }

func (c *client) headers() map[string]string {
	return map[string]string{"Authorization": "Bearer " + c.apiKey}
}

// -------------------- Chat --------------------

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model            string        `json:"model"`
	Messages         []chatMessage `json:"messages"`
	Temperature      float64       `json:"temperature"`
	MaxTokens        int           `json:"max_tokens,omitempty"`
	TopP             float64       `json:"top_p,omitempty"`
	PresencePenalty  float64       `json:"presence_penalty"`
	FrequencyPenalty float64       `json:"frequency_penalty"`
}

type chatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
}

func (c *client) Generate(ctx context.Context, prompt string, params llm.Params) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", errors.New("openai: empty prompt")
	}
	params = params.WithDefaults()
	messages := make([]chatMessage, 0, 2)
	if c.system != "" {
		messages = append(messages, chatMessage{Role: "system", Content: c.system})
	}
	messages = append(messages, chatMessage{Role: "user", Content: prompt})
	req := chatRequest{
		Model:            c.model,
		Messages:         messages,
		Temperature:      params.Temperature,
		MaxTokens:        params.MaxTokens,
		TopP:             params.TopP,
		PresencePenalty:  params.PresencePenalty,
		FrequencyPenalty: params.FrequencyPenalty,
	}
	start := time.Now()
	var resp chatResponse
	if err := httpx.DoJSON(ctx, c.httpClient, "openai", http.MethodPost, c.baseURL+"/v1/chat/completions", c.headers(), req, &resp); err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openai: response has no choices")
	}
	out := strings.TrimSpace(resp.Choices[0].Message.Content)
	c.log.Debug("OpenAI completion",
		"model", c.model,
		"duration", time.Since(start).String(),
		"prompt_tokens", resp.Usage.PromptTokens,
		"completion_tokens", resp.Usage.CompletionTokens,
		"finish_reason", resp.Choices[0].FinishReason,
	)
	return out, nil
}

// -------------------- Embeddings --------------------

type embeddingsRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embeddingsResponse struct {
	Data []struct {
		Embedding []float64 `json:"embedding"`
		Index     int       `json:"index"`
	} `json:"data"`
}

func (c *client) Embed(ctx context.Context, text string) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errors.New("openai: empty embedding input")
	}
	var resp embeddingsResponse
	req := embeddingsRequest{Model: c.embedModel, Input: []string{text}}
	if err := httpx.DoJSON(ctx, c.httpClient, "openai", http.MethodPost, c.baseURL+"/v1/embeddings", c.headers(), req, &resp); err != nil {
		return nil, err
	}
	for _, d := range resp.Data {
		if d.Index != 0 {
			continue
		}
		if len(d.Embedding) == 0 {
			break
		}
		out := make([]float32, len(d.Embedding))
		for i, v := range d.Embedding {
			out[i] = float32(v)
		}
		return out, nil
	}
	return nil, errors.New("openai: embedding missing from response")
}
