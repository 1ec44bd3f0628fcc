package interfaces

import "context"

// Provider is a hosted LLM reachable through one synchronous text completion.
// No streaming, no multi-turn state.
type Provider interface {
	Complete(ctx context.Context, prompt string) (string, error)
}
