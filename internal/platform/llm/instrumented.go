package llm

import (
	"context"
	"time"
)

// Observer receives one call per provider operation, retries included.
type Observer func(provider, op string, dur time.Duration, err error)

type instrumented struct {
	next    Provider
	observe Observer
}

// Instrumented reports the latency and outcome of every call on p. Wrap it
// outside Retrying to measure whole calls, inside to measure attempts.
func Instrumented(p Provider, observe Observer) Provider {
	if observe == nil {
		return p
	}
	return &instrumented{next: p, observe: observe}
}

func (i *instrumented) Name() string  { return i.next.Name() }
func (i *instrumented) Model() string { return i.next.Model() }

func (i *instrumented) Generate(ctx context.Context, prompt string, params Params) (string, error) {
	start := time.Now()
	out, err := i.next.Generate(ctx, prompt, params)
	i.observe(i.next.Name(), "generate", time.Since(start), err)
	return out, err
}

func (i *instrumented) Embed(ctx context.Context, text string) ([]float32, error) {
	start := time.Now()
	out, err := i.next.Embed(ctx, text)
	i.observe(i.next.Name(), "embed", time.Since(start), err)
	return out, err
}
