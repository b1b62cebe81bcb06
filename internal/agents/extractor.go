// Package agents implements the pipeline's stages: the LLM-backed
// planner, extractor, composer, and verifier, and the embedding-based
// retriever, each
// grounded on the corresponding original_source/.../adapters/agents/*.py
// class, generalized into Go's explicit error-return style in place of
// Python's try/except.
package agents

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/AaronL1011/polly-ai/internal/llm"
	"github.com/AaronL1011/polly-ai/internal/rag"
)

const extractorTemperature = 0.1

// Extractor extracts grounded, structured data for a single expected
// component type from retrieved context, per spec.md §4.3. Grounded on
// original_source/.../extractor.py's LLMDataExtractor.
type Extractor struct {
	client llm.Client
	model  string
}

// NewExtractor builds an Extractor invoking the given model through client.
func NewExtractor(client llm.Client, model string) *Extractor {
	return &Extractor{client: client, model: model}
}

// Extract runs one schema-constrained extraction for componentType against
// context. An empty context short-circuits to EmptyExtraction without
// invoking the LLM (spec.md §4.3's "no context available" case); any
// invocation error degrades to EmptyExtraction rather than propagating.
func (e *Extractor) Extract(ctx context.Context, componentType rag.ComponentType, context_ []string, intent rag.Intent) rag.ExtractionResult {
	if len(context_) == 0 {
		return rag.EmptyExtraction(componentType, "No context available")
	}

	user := buildExtractionPrompt(componentType, context_, intent)

	switch componentType {
	case rag.ComponentTypeTextBlock:
		return runExtraction[textBlockExtraction](ctx, e, componentType, user)
	case rag.ComponentTypeVotingBreakdown:
		return runExtraction[votingExtraction](ctx, e, componentType, user)
	case rag.ComponentTypeTimeline:
		return runExtraction[timelineExtraction](ctx, e, componentType, user)
	case rag.ComponentTypeComparison:
		return runExtraction[comparisonExtraction](ctx, e, componentType, user)
	case rag.ComponentTypeChart:
		return runExtraction[chartExtraction](ctx, e, componentType, user)
	case rag.ComponentTypeDataTable:
		return runExtraction[dataTableExtraction](ctx, e, componentType, user)
	case rag.ComponentTypeMemberProfiles:
		return runExtraction[memberProfilesExtraction](ctx, e, componentType, user)
	case rag.ComponentTypeNotice:
		return runExtraction[noticeExtraction](ctx, e, componentType, user)
	default:
		return runExtraction[genericExtraction](ctx, e, componentType, user)
	}
}

func runExtraction[T any](ctx context.Context, e *Extractor, componentType rag.ComponentType, user string) rag.ExtractionResult {
	schema, err := llm.SchemaOf[T]()
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("component_type", string(componentType)).Msg("extraction schema generation failed")
		return rag.EmptyExtraction(componentType, err.Error())
	}

	resp, err := e.client.InvokeStructured(ctx, llm.Request{
		System:      extractorSystemPrompt,
		User:        user,
		Schema:      schema,
		Temperature: extractorTemperature,
	})
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("component_type", string(componentType)).Msg("extraction failed")
		return rag.EmptyExtraction(componentType, err.Error())
	}

	decoded, err := llm.Decode[T](resp.Content)
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("component_type", string(componentType)).Msg("extraction response decode failed")
		return rag.EmptyExtraction(componentType, err.Error())
	}

	return buildExtractionResult(componentType, decoded)
}

// buildExtractionResult converts a decoded extraction schema value into an
// ExtractionResult, pulling source_quotes/completeness/warnings out of the
// marshaled JSON and leaving everything else as the loosely-typed
// ExtractedData map, mirroring extractor.py's model_dump(exclude=...).
func buildExtractionResult[T any](componentType rag.ComponentType, decoded T) rag.ExtractionResult {
	raw, err := json.Marshal(decoded)
	if err != nil {
		return rag.EmptyExtraction(componentType, err.Error())
	}

	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return rag.EmptyExtraction(componentType, err.Error())
	}

	var base baseExtraction
	_ = json.Unmarshal(raw, &base)

	delete(fields, "source_quotes")
	delete(fields, "completeness")
	delete(fields, "warnings")

	quotes := make([]rag.SourceQuote, len(base.SourceQuotes))
	for i, q := range base.SourceQuotes {
		quotes[i] = rag.SourceQuote{Text: q}
	}

	return rag.ExtractionResult{
		ComponentType: componentType,
		ExtractedData: fields,
		SourceQuotes:  quotes,
		Completeness:  base.Completeness,
		Warnings:      base.Warnings,
	}
}
