package node

import (
	"fmt"

	"github.com/cloudwego/eino/schema"
	contractx "github.com/naruebet/memochat/agent/contract"
	promptx "github.com/naruebet/memochat/agent/prompt"
)

// BuildContext assembles the instruction sequence for the model: exactly one
// system message (policy + memory context) first, then the prior conversation
// with any stale system messages dropped, then the new user message.
func BuildContext(in *GraphState, systemPrompt string) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}
	if systemPrompt == "" {
		return nil, fmt.Errorf("%w: system prompt", contractx.ErrPromptMissing)
	}

	system := schema.SystemMessage(promptx.WithMemoryContext(systemPrompt, in.Facts))

	messages := make([]*schema.Message, 0, len(in.Messages)+2)
	messages = append(messages, system)
	for _, msg := range in.Messages {
		if msg == nil || msg.Role == schema.System {
			continue
		}
		messages = append(messages, msg)
	}
	messages = append(messages, schema.UserMessage(in.Text))

	in.Messages = messages
	return in, nil
}
