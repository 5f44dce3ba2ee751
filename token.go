package webgraph

import "context"

// TokenCounter counts model tokens in text. It bounds the size of the
// context sent to an LLM.
type TokenCounter interface {
	CountTokens(ctx context.Context, text string) (int, error)
}
