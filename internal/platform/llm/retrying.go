package llm

import (
	"context"
	"strings"

	"github.com/yungbote/moonshill-backend/internal/platform/logger"
	"github.com/yungbote/moonshill-backend/internal/platform/retry"
)

type retrying struct {
	next   Provider
	policy retry.Policy
	log    *logger.Logger
}

// Retrying wraps p so every call runs under policy. Empty generations are
// returned as-is; deciding what to do with them is the caller's job.
func Retrying(p Provider, policy retry.Policy, log *logger.Logger) Provider {
	if log == nil {
		log = logger.NewNop()
	}
	r := &retrying{next: p, policy: policy, log: log.With("provider", p.Name())}
	userHook := policy.OnRetry
	r.policy.OnRetry = func(attempt int, err error) {
		r.log.Warn("Provider call retrying", "attempt", attempt, "max_attempts", policy.MaxAttempts, "error", err.Error())
		if userHook != nil {
			userHook(attempt, err)
		}
	}
	return r
}

func (r *retrying) Name() string  { return r.next.Name() }
func (r *retrying) Model() string { return r.next.Model() }

func (r *retrying) Generate(ctx context.Context, prompt string, params Params) (string, error) {
	return retry.Do(ctx, r.policy, func(ctx context.Context) (string, error) {
		out, err := r.next.Generate(ctx, prompt, params)
		return strings.TrimSpace(out), err
	})
}

func (r *retrying) Embed(ctx context.Context, text string) ([]float32, error) {
	return retry.Do(ctx, r.policy, func(ctx context.Context) ([]float32, error) {
		return r.next.Embed(ctx, text)
	})
}
