// Package llm defines the boundary to external inference providers.
package llm

import (
	"context"
	"errors"
)

// Client abstracts an inference provider. Implementations send the prompt and
// return the raw model output without interpreting field content; schema
// validation happens downstream in the normalizer.
type Client interface {
	Infer(ctx context.Context, prompt string) (string, error)
	Model() string
}

// Provider failures, distinguished so the orchestrator can decide what is
// worth retrying.
var (
	// ErrTimeout means the provider did not answer within the request deadline.
	ErrTimeout = errors.New("inference timeout")

	// ErrUnavailable means the provider rejected the call with a rate limit or
	// a server-side (5xx-class) failure.
	ErrUnavailable = errors.New("inference provider unavailable")

	// ErrTransport covers every other transport-level failure, e.g. bad
	// credentials or a malformed response envelope. Not retryable.
	ErrTransport = errors.New("inference transport failure")
)

// Retryable reports whether the error is transient per the taxonomy above.
func Retryable(err error) bool {
	return errors.Is(err, ErrTimeout) || errors.Is(err, ErrUnavailable)
}
