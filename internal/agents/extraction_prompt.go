package agents

import (
	"strings"

	"github.com/samber/lo"

	"github.com/AaronL1011/polly-ai/internal/rag"
)

// buildExtractionPrompt formats the per-component-type extraction prompt,
// grounded on extractor.py's _build_prompt: joined context chunks, a query
// focus line summarizing the intent's named entities, and a component-type
// label. Every component type gets this same prompt; there is no
// per-type prompt template, and the type-specific shape of the answer comes
// only from the extraction schema sent alongside it.
func buildExtractionPrompt(componentType rag.ComponentType, context []string, intent rag.Intent) string {
	var b strings.Builder

	b.WriteString("Component type: ")
	b.WriteString(string(componentType))
	b.WriteString("\n\nQuery focus: ")
	b.WriteString(queryFocus(intent))
	b.WriteString("\n\nContext:\n")
	b.WriteString(strings.Join(context, "\n\n---\n\n"))
	b.WriteString("\n\nExtract only facts explicitly present in the context above, quoting the exact " +
		"supporting sentence for each. If the context doesn't support this component type, set " +
		"completeness low and explain why in warnings.")

	return b.String()
}

// queryFocus summarizes an intent's named entities into a single line,
// matching extractor.py's query_focus_parts assembly.
func queryFocus(intent rag.Intent) string {
	var parts []string

	if len(intent.Entities.Parties) > 0 {
		parts = append(parts, "Parties: "+strings.Join(intent.Entities.Parties, ", "))
	}
	if len(intent.Entities.Members) > 0 {
		parts = append(parts, "Members: "+strings.Join(intent.Entities.Members, ", "))
	}
	if len(intent.Entities.Bills) > 0 {
		parts = append(parts, "Bills: "+strings.Join(intent.Entities.Bills, ", "))
	}
	if len(intent.Entities.Topics) > 0 {
		parts = append(parts, "Topics: "+strings.Join(intent.Entities.Topics, ", "))
	}

	if len(parts) == 0 {
		return "General query"
	}
	return strings.Join(lo.Uniq(parts), "; ")
}
