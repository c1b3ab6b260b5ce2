package llm

import "context"

// DisabledClient is used when no API key is configured. Every call fails, so
// callers serve their fallback content.
type DisabledClient struct{}

func (DisabledClient) Complete(ctx context.Context, messages []Message) (string, error) {
	return "", ErrNotConfigured
}
