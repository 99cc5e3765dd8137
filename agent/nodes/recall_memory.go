package node

import (
	"context"
	"fmt"

	contractx "github.com/naruebet/memochat/agent/contract"
)

// RecallMemory loads relevant facts for the user. The gateway absorbs store
// failures, so this node cannot fail the turn for memory reasons.
func RecallMemory(ctx context.Context, in *GraphState, memory contractx.MemoryGateway) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}
	in.Facts = memory.Recall(ctx, in.Text, in.UserID)
	return in, nil
}
