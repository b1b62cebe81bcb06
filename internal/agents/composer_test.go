package agents

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AaronL1011/polly-ai/internal/llm"
	"github.com/AaronL1011/polly-ai/internal/rag"
)

func completeExtraction(t rag.ComponentType) rag.ExtractionResult {
	return rag.ExtractionResult{
		ComponentType: t,
		ExtractedData: map[string]any{"title": "x"},
		Completeness:  0.9,
	}
}

func TestComposerInsufficientData(t *testing.T) {
	client := llm.NewScriptedClient()
	composer := NewComposer(client, "test-model")

	extractions := []rag.ExtractionResult{
		rag.EmptyExtraction(rag.ComponentTypeTextBlock, "no context"),
	}

	layout, components, usageOut := composer.Compose(context.Background(), "what happened?", rag.Intent{}, extractions)

	assert.Len(t, components, 2)
	require.NotNil(t, layout.Title)
	assert.Equal(t, "Unable to Answer Query", *layout.Title)
	assert.Empty(t, usageOut.InputTokens)
	assert.Empty(t, client.Calls(), "should not invoke the LLM when no extraction is complete")
}

func TestComposerSuccess(t *testing.T) {
	raw := rag.RawLayout{
		Title: "Clean Energy Bill",
		Sections: []rag.RawSection{
			{
				Title: "Overview",
				Components: []rag.RawComponent{
					{Type: "text_block", Content: "The bill passed."},
				},
			},
		},
	}

	client := llm.NewScriptedClient().WithJSON(raw, llm.Usage{InputTokens: 100, OutputTokens: 50, Model: "test-model"})
	composer := NewComposer(client, "test-model")

	extractions := []rag.ExtractionResult{completeExtraction(rag.ComponentTypeTextBlock)}
	layout, components, usageOut := composer.Compose(context.Background(), "what happened?", rag.Intent{}, extractions)

	require.Len(t, components, 1)
	assert.Equal(t, "Clean Energy Bill", *layout.Title)
	require.Len(t, layout.Sections, 1)
	assert.Equal(t, 100, usageOut.InputTokens)
}

func TestComposerInsertsLowCompletenessNotice(t *testing.T) {
	raw := rag.RawLayout{
		Sections: []rag.RawSection{
			{Components: []rag.RawComponent{{Type: "text_block", Content: "content"}}},
		},
	}
	client := llm.NewScriptedClient().WithJSON(raw, llm.Usage{})
	composer := NewComposer(client, "test-model")

	extractions := []rag.ExtractionResult{
		completeExtraction(rag.ComponentTypeTextBlock),
		{ComponentType: rag.ComponentTypeChart, ExtractedData: map[string]any{"x": 1}, Completeness: 0.2},
	}

	_, components, _ := composer.Compose(context.Background(), "q", rag.Intent{}, extractions)

	require.Len(t, components, 2)
	notice, ok := components[1].Content.(rag.Notice)
	require.True(t, ok)
	assert.Contains(t, notice.Message, "chart")
}

func TestComposerFallbackOnInvocationError(t *testing.T) {
	client := llm.NewScriptedClient().WithError(errors.New("invocation failed"))
	composer := NewComposer(client, "test-model")

	extractions := []rag.ExtractionResult{completeExtraction(rag.ComponentTypeTextBlock)}
	layout, components, _ := composer.Compose(context.Background(), "q", rag.Intent{}, extractions)

	require.Len(t, components, 1)
	assert.Equal(t, "Error", *layout.Title)
}

func TestComposerFallbackOnMalformedResponse(t *testing.T) {
	client := llm.NewScriptedClient().WithRaw("this is not json at all", llm.Usage{})
	composer := NewComposer(client, "test-model")

	extractions := []rag.ExtractionResult{completeExtraction(rag.ComponentTypeTextBlock)}
	layout, components, _ := composer.Compose(context.Background(), "q", rag.Intent{}, extractions)

	require.Len(t, components, 1)
	block, ok := components[0].Content.(rag.TextBlock)
	require.True(t, ok)
	assert.Equal(t, "this is not json at all", block.Content)
	assert.Empty(t, layout.Sections[0].Title)
}

