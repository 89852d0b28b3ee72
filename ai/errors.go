package ai

import (
	"errors"
	"fmt"

	"github.com/poiesic/hrchat/core"
	"github.com/tmc/langchaingo/llms"
)

var (
	// ErrInvalidMaxAttempts is returned when maxAttempts is <= 0
	ErrInvalidMaxAttempts = errors.New("maxAttempts must be greater than 0")
)

// WrapProviderError classifies err and wraps it with kind, which should be
// core.ErrEmbeddingProvider or core.ErrLLMProvider. Timeouts additionally
// wrap core.ErrProviderTimeout.
func WrapProviderError(kind error, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, kind) {
		return err
	}

	mapped := llms.OpenAIErrorMapper().WrapError(err)
	if llms.IsTimeoutError(mapped) {
		return fmt.Errorf("%w: %w: %w", kind, core.ErrProviderTimeout, mapped)
	}
	return fmt.Errorf("%w: %w", kind, mapped)
}

// IsRetryable reports whether a provider error is transient.
// Rate limits, timeouts and unavailable services are retried; authentication,
// invalid requests and cancellations are not.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, core.ErrProviderTimeout) {
		return true
	}
	return llms.IsRateLimitError(err) ||
		llms.IsTimeoutError(err) ||
		llms.IsProviderUnavailableError(err)
}
