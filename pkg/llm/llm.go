package llm

import (
	"context"
	"errors"
)

const (
	RoleSystem = "system"
	RoleUser   = "user"
)

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Client sends one chat turn to a language-model service and returns the
// text of the first completion.
type Client interface {
	Complete(ctx context.Context, messages []Message) (string, error)
}

var ErrNotConfigured = errors.New("llm: client not configured")
