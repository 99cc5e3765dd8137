package contract

// ToolRequest is a single tool invocation requested by the model. CallID ties
// the request to the tool-role message carrying its result.
type ToolRequest struct {
	CallID string         `json:"call_id"`
	Tool   string         `json:"tool"`
	Args   map[string]any `json:"args,omitempty"`
}

// ToolResult is the outcome of one tool invocation. Failures never cross the
// tool boundary as Go errors; they ride in Error so the model can react.
type ToolResult struct {
	CallID string `json:"call_id"`
	Tool   string `json:"tool"`
	Result any    `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}

func (r ToolResult) Failed() bool {
	return r.Error != ""
}

// MemoryFact is one recalled fact about a user. Store results are ordered
// most relevant first.
type MemoryFact struct {
	Text string `json:"memory"`
}

// InteractionMessage is one side of a persisted user/assistant exchange.
type InteractionMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
