package tool

import (
	"fmt"

	weatherx "github.com/naruebet/memochat/pkg/weatherstack"
)

// BuildRegistry assembles the fixed startup catalog. Registration order is
// the order the menu is presented to the model.
func BuildRegistry(weather *weatherx.Client) (*Registry, error) {
	registry := NewRegistry()
	specs := []*Spec{
		NewMathTool(),
		NewDateTool(nil),
		NewTextTool(),
		NewWeatherTool(weather),
	}
	for _, spec := range specs {
		if err := registry.Register(spec); err != nil {
			return nil, fmt.Errorf("build tool registry: %w", err)
		}
	}
	return registry, nil
}
