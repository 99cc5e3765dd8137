package prompt

import "strings"

const (
	memoryBlockOpen  = "=== MEMORY CONTEXT ==="
	memoryBlockClose = "=== END MEMORY CONTEXT ==="

	// NoMemoryMarker is emitted inside the memory block when recall produced
	// nothing. The block itself is always present so the model never has to
	// guess whether memory was consulted.
	NoMemoryMarker = "(no prior context for this user)"
)

const memoryInstructions = `Memory instructions:
- Treat the memory context above as authoritative for personal details.
- Address the user by name when the memory context includes one.
- Never claim you have no personal information about the user while the memory context lists facts.`

// WithMemoryContext appends the delimited memory block and the memory
// instruction block to the base policy prompt.
func WithMemoryContext(base string, facts []string) string {
	var b strings.Builder
	b.WriteString(strings.TrimSpace(base))
	b.WriteString("\n\n")
	b.WriteString(memoryBlockOpen)
	b.WriteString("\n")
	if len(facts) == 0 {
		b.WriteString(NoMemoryMarker)
		b.WriteString("\n")
	} else {
		for _, fact := range facts {
			fact = strings.TrimSpace(fact)
			if fact == "" {
				continue
			}
			b.WriteString("- ")
			b.WriteString(fact)
			b.WriteString("\n")
		}
	}
	b.WriteString(memoryBlockClose)
	b.WriteString("\n\n")
	b.WriteString(memoryInstructions)
	return b.String()
}
