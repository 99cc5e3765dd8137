package tool

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/cloudwego/eino/schema"
	contractx "github.com/naruebet/memochat/agent/contract"
)

// Spec is one registered capability: its model-facing schema and the function
// that executes it. Invoke errors are converted to in-band results at the
// registry boundary; they never propagate as Go errors.
type Spec struct {
	Info   *schema.ToolInfo
	Params map[string]*schema.ParameterInfo
	Invoke func(ctx context.Context, args map[string]any) (any, error)
}

// Registry is the fixed capability menu exposed to the model. It is populated
// once at startup and read-only afterwards, so it is safe to share across
// concurrent turns.
type Registry struct {
	order []string
	specs map[string]*Spec
}

func NewRegistry() *Registry {
	return &Registry{
		specs: make(map[string]*Spec, 8),
	}
}

func (r *Registry) Register(spec *Spec) error {
	if spec == nil || spec.Info == nil || strings.TrimSpace(spec.Info.Name) == "" {
		return fmt.Errorf("%w: tool spec must carry a name", contractx.ErrValidation)
	}
	if spec.Invoke == nil {
		return fmt.Errorf("%w: tool=%s has no invoke function", contractx.ErrValidation, spec.Info.Name)
	}
	name := spec.Info.Name
	if _, exists := r.specs[name]; exists {
		return fmt.Errorf("%w: %s", contractx.ErrDuplicateTool, name)
	}
	r.specs[name] = spec
	r.order = append(r.order, name)
	return nil
}

func (r *Registry) Get(name string) (*Spec, error) {
	spec, ok := r.specs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", contractx.ErrUnknownTool, name)
	}
	return spec, nil
}

// List returns specs in registration order so the menu sent to the model is
// stable across runs.
func (r *Registry) List() []*Spec {
	out := make([]*Spec, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.specs[name])
	}
	return out
}

// Infos returns the model-facing tool menu in registration order.
func (r *Registry) Infos() []*schema.ToolInfo {
	out := make([]*schema.ToolInfo, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.specs[name].Info)
	}
	return out
}

// Execute resolves, validates, and runs one requested invocation. Every
// failure mode (unknown tool, bad arguments, tool-internal error) comes back
// as an in-band error result.
func (r *Registry) Execute(ctx context.Context, req contractx.ToolRequest) contractx.ToolResult {
	res := contractx.ToolResult{
		CallID: req.CallID,
		Tool:   req.Tool,
	}

	spec, err := r.Get(req.Tool)
	if err != nil {
		res.Error = err.Error()
		return res
	}

	if err := validateArgs(spec.Params, req.Args); err != nil {
		res.Error = err.Error()
		return res
	}

	payload, err := spec.Invoke(ctx, req.Args)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	res.Result = payload
	return res
}

func validateArgs(params map[string]*schema.ParameterInfo, args map[string]any) error {
	for name, info := range params {
		raw, present := args[name]
		if !present {
			if info.Required {
				return fmt.Errorf("%w: argument %q is required", contractx.ErrValidation, name)
			}
			continue
		}
		if err := checkArgType(name, info.Type, raw); err != nil {
			return err
		}
	}
	for name := range args {
		if _, known := params[name]; !known {
			return fmt.Errorf("%w: unexpected argument %q", contractx.ErrValidation, name)
		}
	}
	return nil
}

func checkArgType(name string, want schema.DataType, raw any) error {
	switch want {
	case schema.String:
		if _, ok := raw.(string); !ok {
			return fmt.Errorf("%w: argument %q must be a string", contractx.ErrValidation, name)
		}
	case schema.Integer:
		switch v := raw.(type) {
		case int, int32, int64:
		case float64:
			if v != math.Trunc(v) {
				return fmt.Errorf("%w: argument %q must be an integer", contractx.ErrValidation, name)
			}
		default:
			return fmt.Errorf("%w: argument %q must be an integer", contractx.ErrValidation, name)
		}
	case schema.Number:
		switch raw.(type) {
		case int, int32, int64, float32, float64:
		default:
			return fmt.Errorf("%w: argument %q must be a number", contractx.ErrValidation, name)
		}
	case schema.Boolean:
		if _, ok := raw.(bool); !ok {
			return fmt.Errorf("%w: argument %q must be a boolean", contractx.ErrValidation, name)
		}
	}
	return nil
}

// intArg extracts an integer argument after validation has vouched for its
// shape.
func intArg(args map[string]any, name string) (int, bool) {
	raw, ok := args[name]
	if !ok {
		return 0, false
	}
	switch v := raw.(type) {
	case int:
		return v, true
	case int32:
		return int(v), true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

func stringArg(args map[string]any, name string) (string, bool) {
	raw, ok := args[name]
	if !ok {
		return "", false
	}
	s, ok := raw.(string)
	return s, ok
}
