package contract

import "context"

// MemoryStore is the external long-term fact store (Mem0 REST in production).
type MemoryStore interface {
	Search(ctx context.Context, query, userID string, limit int) ([]MemoryFact, error)
	Add(ctx context.Context, userID string, messages []InteractionMessage) error
}

// MemoryGateway mediates recall and write-back against the fact store. Both
// operations are best-effort: failures are logged, never returned, so a store
// outage degrades personalization without breaking the turn.
type MemoryGateway interface {
	Recall(ctx context.Context, query, userID string) []string
	Persist(ctx context.Context, userID, userMessage, assistantMessage string)
}

// Assistant handles one conversational turn end to end.
type Assistant interface {
	HandleMessage(ctx context.Context, userID, text string) (string, error)
}
