// Package llm treats the language model as an opaque prompt-to-text
// function. Everything provider-specific stays behind Generator.
package llm

import "context"

// Generator produces free-form text for a prompt. Implementations block
// until the model responds or ctx is done.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// FailurePolicy says what an operation does when the model call fails or
// returns empty text. The two policies are deliberately different:
// summarize/answer degrade to a sentinel string with HTTP success, quiz
// generation aborts the whole batch.
type FailurePolicy int

const (
	// FailSentinel swallows the failure and substitutes a fixed string.
	FailSentinel FailurePolicy = iota
	// FailAbort propagates the failure to the caller.
	FailAbort
)

// GeneratorFunc adapts a plain function to Generator; tests use it to
// script model output.
type GeneratorFunc func(ctx context.Context, prompt string) (string, error)

func (f GeneratorFunc) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}
