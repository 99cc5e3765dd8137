package memory

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	contractx "github.com/naruebet/memochat/agent/contract"
	logx "github.com/naruebet/memochat/pkg/logger"
)

const (
	// recallLimit caps how many facts get injected into the prompt.
	recallLimit = 5

	// minRecallWords gates recall: greetings and other very short inputs are
	// uninformative queries and would pull in noise, so they skip the store
	// round trip entirely.
	minRecallWords = 3
)

// Gateway implements contract.MemoryGateway over a MemoryStore. Memory is a
// best-effort enrichment layer: store outages degrade personalization, never
// the current turn.
type Gateway struct {
	store contractx.MemoryStore
	log   zerolog.Logger
}

var _ contractx.MemoryGateway = (*Gateway)(nil)

func NewGateway(store contractx.MemoryStore) *Gateway {
	return &Gateway{
		store: store,
		log:   logx.Component("memory"),
	}
}

// Recall returns up to recallLimit fact strings for the user, most relevant
// first. Short queries short-circuit without contacting the store; store
// failures are logged and reported as "nothing recalled".
func (g *Gateway) Recall(ctx context.Context, query, userID string) []string {
	query = strings.TrimSpace(query)
	if len(strings.Fields(query)) < minRecallWords {
		g.log.Debug().Str("user_id", userID).Msg("query too short, skipping memory recall")
		return nil
	}

	facts, err := g.store.Search(ctx, query, userID, recallLimit)
	if err != nil {
		g.log.Warn().Err(err).Str("user_id", userID).Msg("memory recall failed, continuing without facts")
		return nil
	}

	out := make([]string, 0, len(facts))
	for _, fact := range facts {
		text := strings.TrimSpace(fact.Text)
		if text == "" {
			continue
		}
		out = append(out, text)
		if len(out) == recallLimit {
			break
		}
	}
	return out
}

// Persist writes the completed exchange as one interaction unit. The answer
// has already been delivered by the time this runs, so failures are logged
// and swallowed.
func (g *Gateway) Persist(ctx context.Context, userID, userMessage, assistantMessage string) {
	messages := []contractx.InteractionMessage{
		{Role: "user", Content: userMessage},
		{Role: "assistant", Content: assistantMessage},
	}
	if err := g.store.Add(ctx, userID, messages); err != nil {
		g.log.Warn().Err(err).Str("user_id", userID).Msg("memory persist failed, interaction not saved")
	}
}
