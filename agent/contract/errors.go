package contract

import (
	"errors"
	"fmt"
)

var (
	ErrModelInvoke     = errors.New("model invoke failed")
	ErrIterationLimit  = fmt.Errorf("%w: tool loop iteration limit reached", ErrModelInvoke)
	ErrSchemaViolation = errors.New("model response violates schema")
	ErrPromptMissing   = errors.New("required prompt is missing")
	ErrValidation      = errors.New("validation failed")
	ErrDuplicateTool   = errors.New("duplicate tool name")
	ErrUnknownTool     = errors.New("unknown tool")
)
