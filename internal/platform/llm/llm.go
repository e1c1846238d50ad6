package llm

import (
	"context"
)

// Params are the sampling knobs forwarded to a text provider. Zero values
// are replaced by DefaultParams.
type Params struct {
	Temperature      float64
	MaxTokens        int
	TopP             float64
	PresencePenalty  float64
	FrequencyPenalty float64
}

func DefaultParams() Params {
	return Params{
		Temperature:      0.7,
		MaxTokens:        500,
		TopP:             1.0,
		PresencePenalty:  0,
		FrequencyPenalty: 0,
	}
}

// WithDefaults fills unset MaxTokens and TopP. Temperature 0 and zero
// penalties are legitimate so they pass through.
func (p Params) WithDefaults() Params {
	d := DefaultParams()
	if p.MaxTokens <= 0 {
		p.MaxTokens = d.MaxTokens
	}
	if p.TopP <= 0 {
		p.TopP = d.TopP
	}
	if p.Temperature < 0 {
		p.Temperature = d.Temperature
	}
	return p
}

// Provider produces post text and embeddings.
type Provider interface {
	Name() string
	Model() string
	Generate(ctx context.Context, prompt string, params Params) (string, error)
	Embed(ctx context.Context, text string) ([]float32, error)
}
