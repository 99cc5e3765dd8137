package node

import (
	"fmt"

	contractx "github.com/naruebet/memochat/agent/contract"
)

// FinalizeReply extracts the reply. The final answer is passed through
// exactly as the model produced it — empty included; the controller does not
// force a retry or rewrite the text.
func FinalizeReply(in *GraphState) (GraphOutput, error) {
	if in == nil {
		return GraphOutput{}, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}
	return GraphOutput{
		Reply:     in.Answer,
		ToolCalls: in.ToolCalls,
	}, nil
}
