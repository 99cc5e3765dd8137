package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/cloudwego/eino/schema"
	contractx "github.com/naruebet/memochat/agent/contract"
	nodex "github.com/naruebet/memochat/agent/nodes"
)

// runToolLoop drives the bounded decision cycle: ask the model, execute any
// requested tools, feed the results back, repeat. Every tool call is matched
// by exactly one tool-role message before the model is asked again. When the
// model never converges, the loop aborts deterministically at the configured
// cycle cap.
func (s *Service) runToolLoop(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	messages := in.Messages
	for cycle := 1; cycle <= s.maxIterations; cycle++ {
		msg, err := s.toolModel.Generate(ctx, messages)
		if err != nil {
			return nil, fmt.Errorf("%w: generate (cycle %d): %v", contractx.ErrModelInvoke, cycle, err)
		}
		if msg == nil {
			return nil, fmt.Errorf("%w: model returned no message", contractx.ErrSchemaViolation)
		}

		if len(msg.ToolCalls) == 0 {
			in.Messages = append(messages, msg)
			in.Answer = msg.Content
			return in, nil
		}

		messages = append(messages, msg)

		results := s.executeBatch(ctx, msg.ToolCalls)
		for _, res := range results {
			in.ToolCalls++
			if res.Failed() {
				s.log.Debug().Str("tool", res.Tool).Str("error", res.Error).Msg("tool call failed in-band")
			}
			payload, err := json.Marshal(res)
			if err != nil {
				return nil, fmt.Errorf("%w: marshal result for tool=%s: %v", contractx.ErrValidation, res.Tool, err)
			}
			messages = append(messages, schema.ToolMessage(string(payload), res.CallID))
		}
	}

	return nil, fmt.Errorf("%w: no final answer after %d cycles", contractx.ErrIterationLimit, s.maxIterations)
}

// executeBatch runs one ToolCallBatch. Invocations within a batch share no
// state and run concurrently; all results are collected before the model is
// consulted again (scatter/gather, not a pipeline). Results keep the request
// order so transcripts stay reproducible.
func (s *Service) executeBatch(ctx context.Context, calls []schema.ToolCall) []contractx.ToolResult {
	results := make([]contractx.ToolResult, len(calls))

	var wg sync.WaitGroup
	for i, call := range calls {
		req, preFailed := parseToolCall(call)
		if preFailed != nil {
			results[i] = *preFailed
			continue
		}
		wg.Add(1)
		go func(i int, req contractx.ToolRequest) {
			defer wg.Done()
			results[i] = s.tools.Execute(ctx, req)
		}(i, req)
	}
	wg.Wait()

	return results
}

// parseToolCall decodes one model-issued call. Malformed requests become
// pre-failed in-band results so the model can self-correct; they never abort
// the loop.
func parseToolCall(call schema.ToolCall) (contractx.ToolRequest, *contractx.ToolResult) {
	name := strings.TrimSpace(call.Function.Name)
	req := contractx.ToolRequest{
		CallID: call.ID,
		Tool:   name,
	}

	if name == "" {
		return req, &contractx.ToolResult{
			CallID: call.ID,
			Error:  "tool call name is empty",
		}
	}

	args := map[string]any{}
	rawArgs := strings.TrimSpace(call.Function.Arguments)
	if rawArgs != "" {
		if err := json.Unmarshal([]byte(rawArgs), &args); err != nil {
			return req, &contractx.ToolResult{
				CallID: call.ID,
				Tool:   name,
				Error:  fmt.Sprintf("invalid tool arguments: %v", err),
			}
		}
	}
	req.Args = args

	return req, nil
}
