// Package llm provides the text-generation client behind chat replies.
package llm

import (
	"context"
	"errors"
)

var (
	ErrNoAPIKey    = errors.New("llm: API key not configured")
	ErrEmptyReply  = errors.New("llm: model returned an empty reply")
	ErrEmptyPrompt = errors.New("llm: empty prompt")
)

// Role of a history message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn of prior conversation handed to the model.
type Message struct {
	Role Role
	Text string
}

// Generator produces a reply to the prompt given the conversation so far.
type Generator interface {
	// Reply blocks until the model answers or ctx is done.
	Reply(ctx context.Context, history []Message, prompt string) (string, error)
}
