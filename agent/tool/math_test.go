package tool

import (
	"context"
	"testing"

	contractx "github.com/naruebet/memochat/agent/contract"
)

func mathRegistry(t *testing.T) *Registry {
	t.Helper()
	registry := NewRegistry()
	if err := registry.Register(NewMathTool()); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	return registry
}

func evalExpression(t *testing.T, registry *Registry, expression string) contractx.ToolResult {
	t.Helper()
	return registry.Execute(context.Background(), contractx.ToolRequest{
		CallID: "call-1",
		Tool:   ToolMathEvaluate,
		Args:   map[string]any{"expression": expression},
	})
}

func TestMathEvaluate(t *testing.T) {
	t.Parallel()

	cases := []struct {
		expression string
		want       float64
	}{
		{"(234 * 12) + 98", 2906},
		{"2 + 3 * (4 - 1)", 11},
		{"2 ** 10", 1024},
		{"2 ^ 10", 1024},
		{"7 // 2", 3},
		{"-7 // 2", -4},
		{"10 % 3", 1},
		{"-7 % 3", 2},
		{"7 % -3", -2},
		{"-2 ** 2", -4},
		{"2 ** -1", 0.5},
		{"-(2 ** 2)", -4},
		{"2 ** 3 ** 2", 512},
		{"-5 + 3", -2},
		{"5 - -3", 8},
		{"1.5 * 4", 6},
		{"12 × 3 ÷ 4", 9},
		{"((2))", 2},
	}

	registry := mathRegistry(t)
	for _, tc := range cases {
		res := evalExpression(t, registry, tc.expression)
		if res.Failed() {
			t.Fatalf("%q: unexpected error: %s", tc.expression, res.Error)
		}
		out, ok := res.Result.(MathEvaluateOutput)
		if !ok {
			t.Fatalf("%q: unexpected result type %T", tc.expression, res.Result)
		}
		if out.Result != tc.want {
			t.Fatalf("%q = %v, want %v", tc.expression, out.Result, tc.want)
		}
	}
}

func TestMathEvaluateRejectsNonArithmetic(t *testing.T) {
	t.Parallel()

	cases := []string{
		"",
		"  ",
		"import os",
		"__builtins__",
		"abs(-1)",
		"2 + x",
		"(1 + 2",
		"1 + 2)",
		"1 / 0",
		"4 % 0",
		"1..2",
	}

	registry := mathRegistry(t)
	for _, expression := range cases {
		res := evalExpression(t, registry, expression)
		if !res.Failed() {
			t.Fatalf("%q: expected in-band error, got %#v", expression, res.Result)
		}
	}
}

func TestMathEvaluateFormatsIntegralResults(t *testing.T) {
	t.Parallel()

	registry := mathRegistry(t)

	res := evalExpression(t, registry, "(234*12)+98")
	out := res.Result.(MathEvaluateOutput)
	if out.Formatted != "2906" {
		t.Fatalf("Formatted = %q, want 2906", out.Formatted)
	}

	res = evalExpression(t, registry, "7 / 2")
	out = res.Result.(MathEvaluateOutput)
	if out.Formatted != "3.5" {
		t.Fatalf("Formatted = %q, want 3.5", out.Formatted)
	}
}
