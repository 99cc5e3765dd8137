package node

import (
	"fmt"
	"strings"
	"time"

	contractx "github.com/naruebet/memochat/agent/contract"
)

func ValidateRequest(in GraphInput, now func() time.Time) (*GraphState, error) {
	userID := strings.TrimSpace(in.UserID)
	if userID == "" {
		return nil, fmt.Errorf("%w: %v", contractx.ErrValidation, ErrInvalidUser)
	}
	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, fmt.Errorf("%w: %v", contractx.ErrValidation, ErrInvalidMessage)
	}

	return &GraphState{
		UserID: userID,
		Text:   text,
		Now:    now(),
	}, nil
}
