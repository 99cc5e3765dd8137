package node

import (
	"errors"
	"time"

	"github.com/cloudwego/eino/schema"
)

var (
	ErrInvalidMessage = errors.New("message text is empty")
	ErrInvalidUser    = errors.New("user id is empty")
)

// GraphInput is one incoming conversational turn.
type GraphInput struct {
	UserID string
	Text   string
}

// GraphState is the working state threaded through the per-turn pipeline.
// It lives for exactly one HandleMessage invocation and is discarded after
// the reply is extracted.
type GraphState struct {
	UserID string
	Text   string
	Now    time.Time

	Facts     []string
	Messages  []*schema.Message
	Answer    string
	ToolCalls int
}

// GraphOutput is the final reply for the turn.
type GraphOutput struct {
	Reply     string
	ToolCalls int
}
