// Package llm is the transport boundary to the remote model providers.
// A Client takes the conversation so far and returns the model's next turn:
// either final text or one or more requested tool calls.
package llm

import (
	"context"
	"fmt"

	"github.com/wardenhq/warden/session"
	"github.com/wardenhq/warden/tools"
)

// Client is the interface for interacting with a Large Language Model.
type Client interface {
	Chat(ctx context.Context, messages []session.Message, availableTools []tools.Tool) (*session.Message, error)
}

// MockClient is a deterministic stand-in used when no provider is
// configured and in tests. It never requests tools.
type MockClient struct{}

func (m *MockClient) Chat(ctx context.Context, messages []session.Message, availableTools []tools.Tool) (*session.Message, error) {
	if len(messages) == 0 {
		return &session.Message{Role: "assistant", Content: "I am a mock LLM."}, nil
	}
	last := messages[len(messages)-1]
	return &session.Message{
		Role:    "assistant",
		Content: fmt.Sprintf("I am a mock LLM. You said: '%s'.", last.Content),
	}, nil
}

// paramProperties renders a tool's parameters as a flat JSON-schema
// property map. Every warden tool argument is a string.
func paramProperties(t tools.Tool) (map[string]interface{}, []string) {
	props := make(map[string]interface{})
	var required []string
	for _, p := range t.Parameters() {
		props[p.Name] = map[string]interface{}{
			"type":        "string",
			"description": p.Description,
		}
		required = append(required, p.Name)
	}
	return props, required
}
