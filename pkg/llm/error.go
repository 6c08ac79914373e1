package llm

import "errors"

var (
	// ErrCompletion is returned when completion generation fails.
	ErrCompletion = errors.New("completion failed")

	// ErrEmptyResponse is returned when the provider returns no content.
	ErrEmptyResponse = errors.New("provider returned empty response")
)
