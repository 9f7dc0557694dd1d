// Package completion abstracts the text-completion capability used for
// extraction. Implementations only perform the network call; interpreting
// the returned text is the extractor's job.
package completion

import "context"

// Request carries one prompt with its sampling parameters.
type Request struct {
	Prompt      string
	Temperature float64
	MaxTokens   int
}

// Client produces a text completion for a prompt. Errors are transport-class
// (network, timeout, server-side) and distinguishable from content problems,
// which a client never inspects.
type Client interface {
	Complete(ctx context.Context, req Request) (string, error)
}
