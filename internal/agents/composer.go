package agents

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/AaronL1011/polly-ai/internal/llm"
	"github.com/AaronL1011/polly-ai/internal/rag"
)

const composerTemperature = 0.1

// completenessThreshold is the per-extraction cutoff below which a
// "data availability" notice is inserted, matching composer.py's
// _add_extraction_warnings check.
const completenessThreshold = 0.5

// rawLayoutKeys is the top-level key set rag.RawLayout decodes, used to
// strip stray commentary fields a model adds alongside its JSON object.
var rawLayoutKeys = map[string]bool{"title": true, "subtitle": true, "sections": true}

// Composer assembles a set of component extractions into a final Layout and
// component list, per spec.md §4.4. Grounded on
// original_source/.../composer.py's LLMResponseComposer.
type Composer struct {
	client llm.Client
	model  string
}

// NewComposer builds a Composer invoking the given model through client.
func NewComposer(client llm.Client, model string) *Composer {
	return &Composer{client: client, model: model}
}

// Compose formats extractions into a Layout and Components, plus the token
// usage the composition call incurred (zero on any path that never
// invokes the LLM). When none of the extractions are complete, it returns
// the fixed insufficient-data response without invoking the LLM at all.
func (c *Composer) Compose(ctx context.Context, query string, intent rag.Intent, extractions []rag.ExtractionResult) (rag.Layout, []rag.Component, llm.Usage) {
	var valid []rag.ExtractionResult
	for _, e := range extractions {
		if e.IsComplete() {
			valid = append(valid, e)
		}
	}
	if len(valid) == 0 {
		layout, components := insufficientDataResponse(query, extractions)
		return layout, components, llm.Usage{Model: c.model}
	}

	schema, err := llm.SchemaOf[rag.RawLayout]()
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Msg("composer schema generation failed")
		layout, components := fallbackResponse()
		return layout, components, llm.Usage{Model: c.model}
	}

	resp, err := c.client.InvokeStructured(ctx, llm.Request{
		System:      composerSystemPrompt,
		User:        buildComposerPrompt(query, intent, valid),
		Schema:      schema,
		Temperature: composerTemperature,
	})
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Msg("composer invocation failed")
		layout, components := fallbackResponse()
		return layout, components, llm.Usage{Model: c.model}
	}

	layout, components, ok := parseComposerResponse(resp.Content)
	if !ok {
		layout, components = fallbackLayout(string(resp.Content))
		return layout, components, resp.Usage
	}

	components = addExtractionWarnings(components, extractions)
	return layout, components, resp.Usage
}

// buildComposerPrompt formats the composer's input prompt, grounded on
// composer.py's _build_prompt.
func buildComposerPrompt(query string, intent rag.Intent, extractions []rag.ExtractionResult) string {
	var parts []string
	for _, e := range extractions {
		data, _ := json.MarshalIndent(e.ExtractedData, "", "  ")
		parts = append(parts, fmt.Sprintf("## %s\nCompleteness: %g\nData: %s\nWarnings: %v",
			e.ComponentType, e.Completeness, string(data), e.Warnings))
	}

	var expected []string
	for _, c := range intent.ExpectedComponents {
		expected = append(expected, string(c))
	}

	var b strings.Builder
	b.WriteString("Query: ")
	b.WriteString(query)
	b.WriteString("\n\nIntent: type=")
	b.WriteString(string(intent.QueryType))
	b.WriteString(", components=")
	b.WriteString(strings.Join(expected, ", "))
	b.WriteString("\n\nResponse depth: ")
	b.WriteString(string(intent.ResponseDepth))
	b.WriteString("\n\nExtracted data:\n")
	b.WriteString(strings.Join(parts, "\n\n"))
	b.WriteString("\n\nCompose a structured response using only this extracted data. Output JSON only.")

	return b.String()
}

// parseComposerResponse decodes the composer's structured JSON output into
// a Layout and component list, dropping sections whose components all fail
// validation, matching composer.py's _build_layout_from_data.
func parseComposerResponse(raw json.RawMessage) (rag.Layout, []rag.Component, bool) {
	decoded, err := llm.Decode[rag.RawLayout](raw)
	if err != nil {
		content := llm.StripCodeFence(string(raw))
		if extracted, ok := extractJSONObject(content); ok {
			if cleaned, cleanErr := dropUnknownKeys(extracted, rawLayoutKeys); cleanErr == nil {
				extracted = cleaned
			}
			decoded, err = llm.Decode[rag.RawLayout](json.RawMessage(extracted))
		}
		if err != nil {
			return rag.Layout{}, nil, false
		}
	}

	return buildLayoutFromData(decoded)
}

func buildLayoutFromData(data rag.RawLayout) (rag.Layout, []rag.Component, bool) {
	var components []rag.Component
	var sections []rag.Section

	for _, sectionData := range data.Sections {
		var ids []string
		for _, compData := range sectionData.Components {
			component, ok := rag.ParseComponent(compData)
			if !ok {
				continue
			}
			components = append(components, component)
			ids = append(ids, component.ID)
		}
		if len(ids) == 0 {
			continue
		}

		section := rag.Section{ComponentIDs: ids}
		if sectionData.Title != "" {
			title := sectionData.Title
			section.Title = &title
		}
		if sectionData.Layout != "" {
			layout := rag.SectionLayout(sectionData.Layout)
			section.Layout = &layout
		}
		sections = append(sections, section)
	}

	layout := rag.Layout{Sections: sections}
	if data.Title != "" {
		title := data.Title
		layout.Title = &title
	}
	if data.Subtitle != "" {
		subtitle := data.Subtitle
		layout.Subtitle = &subtitle
	}

	return layout, components, len(components) > 0
}

// addExtractionWarnings inserts a data-availability notice near the
// beginning of the component list when any extraction fell below the
// completeness threshold, matching composer.py's _add_extraction_warnings.
func addExtractionWarnings(components []rag.Component, extractions []rag.ExtractionResult) []rag.Component {
	var lowCompleteness []string
	for _, e := range extractions {
		if e.Completeness < completenessThreshold {
			lowCompleteness = append(lowCompleteness, string(e.ComponentType))
		}
	}
	if len(lowCompleteness) == 0 {
		return components
	}

	message := fmt.Sprintf("Limited data available for: %s. Some information may be incomplete.",
		strings.Join(lowCompleteness, ", "))
	title := "Data Availability"
	notice := rag.NewComponent(rag.Notice{
		Message: message,
		Level:   rag.NoticeLevelInfo,
		Title:   &title,
	}, nil)

	at := 1
	if at > len(components) {
		at = len(components)
	}
	out := make([]rag.Component, 0, len(components)+1)
	out = append(out, components[:at]...)
	out = append(out, notice)
	out = append(out, components[at:]...)
	return out
}

// insufficientDataResponse builds the fixed response used when no
// extraction produced complete data, matching composer.py's
// _insufficient_data_response.
func insufficientDataResponse(query string, extractions []rag.ExtractionResult) (rag.Layout, []rag.Component) {
	var warnings []string
	for _, e := range extractions {
		warnings = append(warnings, e.Warnings...)
	}

	warningText := "No relevant information found in the available documents."
	if len(warnings) > 0 {
		warningText = strings.Join(warnings, "; ")
	}

	noticeTitle := "Insufficient Information"
	notice := rag.NewComponent(rag.Notice{
		Message: "Unable to answer this query: " + warningText,
		Level:   rag.NoticeLevelWarning,
		Title:   &noticeTitle,
	}, nil)

	text := rag.NewComponent(rag.TextBlock{
		Content: fmt.Sprintf("The query '%s' could not be answered with the available information. "+
			"Try refining your search or using different keywords.", query),
		Format: rag.TextFormatMarkdown,
	}, nil)

	title := "Unable to Answer Query"
	subtitle := "Insufficient information available"
	layout := rag.Layout{
		Title:    &title,
		Subtitle: &subtitle,
		Sections: []rag.Section{{ComponentIDs: []string{notice.ID, text.ID}}},
	}

	return layout, []rag.Component{notice, text}
}

// fallbackResponse builds the fixed response used when composition itself
// fails (schema generation or invocation error), matching composer.py's
// _fallback_response.
func fallbackResponse() (rag.Layout, []rag.Component) {
	text := rag.NewComponent(rag.TextBlock{
		Content: "An error occurred while generating the response. Please try again.",
		Format:  rag.TextFormatMarkdown,
	}, nil)

	title := "Error"
	layout := rag.Layout{
		Title:    &title,
		Sections: []rag.Section{{ComponentIDs: []string{text.ID}}},
	}
	return layout, []rag.Component{text}
}

// fallbackLayout wraps unparseable raw content in a single text block,
// matching composer.py's _fallback_layout.
func fallbackLayout(content string) (rag.Layout, []rag.Component) {
	text := rag.NewComponent(rag.TextBlock{
		Content: content,
		Format:  rag.TextFormatMarkdown,
	}, nil)

	layout := rag.Layout{Sections: []rag.Section{{ComponentIDs: []string{text.ID}}}}
	return layout, []rag.Component{text}
}
