package assistant

import (
	"context"
	"errors"
	"fmt"
	"time"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	"github.com/rs/zerolog"
	contractx "github.com/naruebet/memochat/agent/contract"
	nodex "github.com/naruebet/memochat/agent/nodes"
	promptx "github.com/naruebet/memochat/agent/prompt"
	toolx "github.com/naruebet/memochat/agent/tool"
	logx "github.com/naruebet/memochat/pkg/logger"
)

const defaultMaxIterations = 6

type Config struct {
	// MaxIterations bounds the model<->tool round trips for one turn. The
	// breach outcome is a deterministic abort, not a silent truncation.
	MaxIterations int `envconfig:"MAX_ITERATIONS" split_words:"true" default:"6"`
}

// Service runs one conversational turn: recall, context assembly, the
// tool-calling loop, and write-back. It implements contract.Assistant.
type Service struct {
	toolModel     einomodel.ToolCallingChatModel
	tools         *toolx.Registry
	memory        contractx.MemoryGateway
	systemPrompt  string
	maxIterations int

	graphRunner compose.Runnable[nodex.GraphInput, nodex.GraphOutput]

	now func() time.Time
	log zerolog.Logger
}

var _ contractx.Assistant = (*Service)(nil)

func New(
	ctx context.Context,
	chatModel einomodel.ToolCallingChatModel,
	tools *toolx.Registry,
	memory contractx.MemoryGateway,
	cfg Config,
) (*Service, error) {
	if chatModel == nil {
		return nil, errors.New("chat model is required")
	}
	if tools == nil {
		return nil, errors.New("tool registry is required")
	}
	if memory == nil {
		return nil, errors.New("memory gateway is required")
	}

	prompts := promptx.LoadPromptSet()
	if prompts.System == "" {
		return nil, fmt.Errorf("%w: system prompt", contractx.ErrPromptMissing)
	}

	toolModel, err := chatModel.WithTools(tools.Infos())
	if err != nil {
		return nil, fmt.Errorf("%w: bind tools: %v", contractx.ErrModelInvoke, err)
	}

	maxIterations := cfg.MaxIterations
	if maxIterations <= 0 {
		maxIterations = defaultMaxIterations
	}

	s := &Service{
		toolModel:     toolModel,
		tools:         tools,
		memory:        memory,
		systemPrompt:  prompts.System,
		maxIterations: maxIterations,
		now:           time.Now,
		log:           logx.Component("assistant"),
	}

	graphRunner, err := s.compileHandleMessageGraph(ctx)
	if err != nil {
		return nil, err
	}
	s.graphRunner = graphRunner

	return s, nil
}

// HandleMessage runs one turn for the user and returns the final answer.
func (s *Service) HandleMessage(ctx context.Context, userID, text string) (string, error) {
	out, err := s.graphRunner.Invoke(ctx, nodex.GraphInput{
		UserID: userID,
		Text:   text,
	})
	if err != nil {
		return "", err
	}
	return out.Reply, nil
}
