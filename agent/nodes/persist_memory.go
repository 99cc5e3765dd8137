package node

import (
	"context"
	"fmt"

	contractx "github.com/naruebet/memochat/agent/contract"
)

// PersistMemory writes the finished exchange back to long-term memory. The
// answer is already final at this point, so the gateway swallows failures and
// this node never aborts the turn.
func PersistMemory(ctx context.Context, in *GraphState, memory contractx.MemoryGateway) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}
	memory.Persist(ctx, in.UserID, in.Text, in.Answer)
	return in, nil
}
