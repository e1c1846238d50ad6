package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/yungbote/moonshill-backend/internal/platform/llm"
	"github.com/yungbote/moonshill-backend/internal/platform/logger"
)

type Config struct {
	APIKey     string
	Model      string
	EmbedModel string
	// System is sent as the system instruction on every generation.
	System string
}

type client struct {
	log        *logger.Logger
	genai      *genai.Client
	model      string
	embedModel string
	system     string
}

func NewClient(ctx context.Context, cfg Config, log *logger.Logger) (llm.Provider, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, fmt.Errorf("missing GEMINI_API_KEY")
	}
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	gc, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = "gemini-2.0-flash"
	}
	embed := strings.TrimSpace(cfg.EmbedModel)
	if embed == "" {
		embed = "gemini-embedding-001"
	}
	return &client{
		log:        log.With("service", "GeminiClient"),
		genai:      gc,
		model:      model,
		embedModel: embed,
		system:     strings.TrimSpace(cfg.System),
	}, nil
}

func (c *client) Name() string  { return "gemini" }
func (c *client) Model() string { return c.model }

func (c *client) Generate(ctx context.Context, prompt string, params llm.Params) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", errors.New("gemini: empty prompt")
	}
	resp, err := c.genai.Models.GenerateContent(ctx, c.model, genai.Text(prompt), generateConfig(params, c.system))
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	if resp == nil {
		return "", errors.New("gemini: empty response")
	}
	return strings.TrimSpace(resp.Text()), nil
}

func (c *client) Embed(ctx context.Context, text string) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errors.New("gemini: empty embedding input")
	}
	contents := []*genai.Content{genai.NewContentFromText(text, genai.RoleUser)}
	result, err := c.genai.Models.EmbedContent(ctx, c.embedModel, contents, &genai.EmbedContentConfig{
		TaskType: "SEMANTIC_SIMILARITY",
	})
	if err != nil {
		return nil, fmt.Errorf("gemini embed: %w", err)
	}
	if result == nil || len(result.Embeddings) == 0 || len(result.Embeddings[0].Values) == 0 {
		return nil, errors.New("gemini: no embeddings returned")
	}
	return result.Embeddings[0].Values, nil
}

func generateConfig(params llm.Params, system string) *genai.GenerateContentConfig {
	params = params.WithDefaults()
	cfg := &genai.GenerateContentConfig{
		Temperature:      genai.Ptr[float32](float32(params.Temperature)),
		TopP:             genai.Ptr[float32](float32(params.TopP)),
		MaxOutputTokens:  int32(params.MaxTokens),
		PresencePenalty:  genai.Ptr[float32](float32(params.PresencePenalty)),
		FrequencyPenalty: genai.Ptr[float32](float32(params.FrequencyPenalty)),
	}
	if system != "" {
		cfg.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}
	return cfg
}
