package prompt

import (
	"strings"
	"testing"
)

func TestWithMemoryContextListsFacts(t *testing.T) {
	t.Parallel()

	got := WithMemoryContext("You are helpful.", []string{"name is Priya", " lives in Pune ", ""})
	if !strings.HasPrefix(got, "You are helpful.") {
		t.Fatalf("base policy not first:\n%s", got)
	}
	if !strings.Contains(got, "=== MEMORY CONTEXT ===") || !strings.Contains(got, "=== END MEMORY CONTEXT ===") {
		t.Fatal("memory block delimiters missing")
	}
	if !strings.Contains(got, "- name is Priya") {
		t.Fatal("fact missing from block")
	}
	if !strings.Contains(got, "- lives in Pune") {
		t.Fatal("fact not trimmed into block")
	}
	if strings.Contains(got, NoMemoryMarker) {
		t.Fatal("no-memory marker emitted despite facts")
	}
	if !strings.Contains(got, "Memory instructions:") {
		t.Fatal("memory instruction block missing")
	}
}

func TestWithMemoryContextEmptyRecallKeepsBlock(t *testing.T) {
	t.Parallel()

	for _, facts := range [][]string{nil, {}, {"", "  "}} {
		got := WithMemoryContext("You are helpful.", facts)
		if !strings.Contains(got, "=== MEMORY CONTEXT ===") {
			t.Fatal("memory block must be present even without facts")
		}
		if len(facts) == 0 && !strings.Contains(got, NoMemoryMarker) {
			t.Fatal("no-memory marker missing on empty recall")
		}
	}
}

func TestLoadPromptSet(t *testing.T) {
	t.Parallel()

	prompts := LoadPromptSet()
	if strings.TrimSpace(prompts.System) == "" {
		t.Fatal("embedded system prompt is empty")
	}
}
