package retry

import (
	"context"
	"time"

	"github.com/failsafe-go/failsafe-go"
	"github.com/failsafe-go/failsafe-go/retrypolicy"

	"github.com/yungbote/moonshill-backend/internal/pkg/httpx"
)

// Policy describes how a provider call is retried. MaxAttempts counts the
// first call, so 3 means one call plus two retries.
type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	Retryable   func(error) bool
	// OnRetry is invoked before each retry with the attempt that failed.
	OnRetry func(attempt int, err error)
}

// Default is 3 attempts with exponential backoff from 4s up to 10s and 10%
// jitter.
func Default() Policy {
	return Policy{
		MaxAttempts: 3,
		BaseDelay:   4 * time.Second,
		MaxDelay:    10 * time.Second,
		Retryable:   httpx.IsRetryableError,
	}
}

func (p Policy) normalized() Policy {
	if p.MaxAttempts < 1 {
		p.MaxAttempts = 1
	}
	if p.BaseDelay <= 0 {
		p.BaseDelay = time.Millisecond
	}
	if p.MaxDelay < p.BaseDelay {
		p.MaxDelay = p.BaseDelay
	}
	if p.Retryable == nil {
		p.Retryable = httpx.IsRetryableError
	}
	return p
}

func build[T any](p Policy) retrypolicy.RetryPolicy[T] {
	return retrypolicy.NewBuilder[T]().
		WithBackoff(p.BaseDelay, p.MaxDelay).
		WithMaxRetries(p.MaxAttempts - 1).
		WithJitterFactor(0.1).
		HandleIf(func(_ T, err error) bool {
			return err != nil && p.Retryable(err)
		}).
		Build()
}

// Do runs fn under the policy. Non-retryable errors are returned unchanged on
// the attempt that produced them.
func Do[T any](ctx context.Context, p Policy, fn func(ctx context.Context) (T, error)) (T, error) {
	p = p.normalized()
	attempt := 0
	return failsafe.With[T](build[T](p)).WithContext(ctx).Get(func() (T, error) {
		attempt++
		out, err := fn(ctx)
		if err != nil && p.OnRetry != nil && attempt < p.MaxAttempts && p.Retryable(err) {
			p.OnRetry(attempt, err)
		}
		return out, err
	})
}
