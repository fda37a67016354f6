package llm

import (
	"context"
	"fmt"
	"strings"
)

// Echo is an offline generator used when no API key is configured and in
// tests. It parrots the prompt so the rest of the pipeline stays exercised.
type Echo struct{}

func (Echo) Reply(_ context.Context, _ []Message, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", ErrEmptyPrompt
	}
	return fmt.Sprintf("You said: %s", prompt), nil
}
