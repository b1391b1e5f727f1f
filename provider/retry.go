package provider

import (
	"context"
	"math"
	"math/rand"
	"time"

	"quark/config"
	"quark/model"
)

// RetryPolicy controls how Chat calls are retried. Wait receives the 1-based
// attempt number that just failed and returns how long to sleep before the
// next attempt. A nil Wait means no sleep, which tests rely on.
type RetryPolicy struct {
	Attempts int
	Wait     func(attempt int) time.Duration
}

// DefaultRetryPolicy retries 3 times with randomized exponential backoff:
// a uniform sleep in [0, min(60, 2^attempt)] seconds.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		Attempts: 3,
		Wait: func(attempt int) time.Duration {
			ceiling := math.Min(60, math.Pow(2, float64(attempt)))
			return time.Duration(rand.Float64() * ceiling * float64(time.Second))
		},
	}
}

// retryProvider decorates a Provider with retry on Chat. All other methods
// pass through.
type retryProvider struct {
	model.Provider
	policy RetryPolicy
}

// WithRetry wraps p so that transient Chat failures are retried per policy.
// The last error is returned when every attempt fails.
func WithRetry(p model.Provider, policy RetryPolicy) model.Provider {
	if policy.Attempts < 1 {
		policy.Attempts = 1
	}
	return &retryProvider{Provider: p, policy: policy}
}

func (r *retryProvider) Chat(ctx context.Context, messages []model.Message, opts model.ChatOptions) (string, error) {
	var lastErr error
	for attempt := 1; attempt <= r.policy.Attempts; attempt++ {
		text, err := r.Provider.Chat(ctx, messages, opts)
		if err == nil {
			return text, nil
		}
		lastErr = err

		if config.Debug && config.DebugLog != nil {
			config.DebugLog.Printf("[Provider] Chat attempt %d/%d failed: %v", attempt, r.policy.Attempts, err)
		}
		if attempt == r.policy.Attempts {
			break
		}

		var wait time.Duration
		if r.policy.Wait != nil {
			wait = r.policy.Wait(attempt)
		}
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(wait):
		}
	}
	return "", lastErr
}
