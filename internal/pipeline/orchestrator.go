// Package pipeline wires the planner, retriever, extractor, composer, and
// verifier stages into a single cached query execution, grounded on
// original_source/.../domain/rag/use_cases.py's ExecuteQuery.
package pipeline

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/AaronL1011/polly-ai/internal/agents"
	"github.com/AaronL1011/polly-ai/internal/cache"
	"github.com/AaronL1011/polly-ai/internal/config"
	"github.com/AaronL1011/polly-ai/internal/rag"
	"github.com/AaronL1011/polly-ai/internal/usage"
)

// ExecuteQueryResult pairs a pipeline run's Result with the cost it
// incurred (zero for cache hits and error/insufficient-data responses).
type ExecuteQueryResult struct {
	Result rag.Result
	Cost   usage.CostBreakdown
}

// Orchestrator runs the full agentic RAG pipeline for a single query.
type Orchestrator struct {
	planner   *agents.Planner
	retriever *agents.Retriever
	extractor *agents.Extractor
	composer  *agents.Composer
	verifier  *agents.Verifier
	cache     cache.Cache
	cfg       *config.Pipeline
}

// NewOrchestrator wires the pipeline's stages. verifier may be nil when
// cfg.VerifierEnabled is false.
func NewOrchestrator(
	planner *agents.Planner,
	retriever *agents.Retriever,
	extractor *agents.Extractor,
	composer *agents.Composer,
	verifier *agents.Verifier,
	cacheImpl cache.Cache,
	cfg *config.Pipeline,
) *Orchestrator {
	return &Orchestrator{
		planner:   planner,
		retriever: retriever,
		extractor: extractor,
		composer:  composer,
		verifier:  verifier,
		cache:     cacheImpl,
		cfg:       cfg,
	}
}

// Execute runs the pipeline end to end: cache lookup, plan, retrieve,
// extract, compose, optionally verify, aggregate sources, cost, cache
// store. Any stage error degrades to a fixed error response rather than
// propagating, matching use_cases.py's broad except at the top level.
func (o *Orchestrator) Execute(ctx context.Context, query rag.Query) ExecuteQueryResult {
	start := time.Now()
	key := o.cache.QueryKey(query)

	if cached, ok, err := o.cache.Get(ctx, key); err == nil && ok {
		result := *cached
		result.Cached = true
		return ExecuteQueryResult{Result: result, Cost: usage.Zero()}
	}

	intent := o.planner.Analyze(ctx, query.Text)
	log.Ctx(ctx).Debug().
		Str("query_type", string(intent.QueryType)).
		Str("response_depth", string(intent.ResponseDepth)).
		Msg("intent classified")

	retrieval, err := o.retriever.Retrieve(ctx, query.Text, intent)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("retrieval failed")
		return errorResponse(start)
	}

	if !retrieval.IsSufficient {
		result := insufficientDataResponse(query, retrieval.Warnings)
		result.Metadata = rag.Metadata{
			DocumentsRetrieved: 0,
			ChunksUsed:         len(retrieval.Chunks),
			ProcessingTimeMS:   time.Since(start).Milliseconds(),
		}
		return ExecuteQueryResult{Result: result, Cost: usage.Zero()}
	}

	contextTexts := retrieval.ContextTexts()
	extractions, err := o.extractAll(ctx, contextTexts, intent)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("extraction failed")
		return errorResponse(start)
	}
	for _, e := range extractions {
		log.Ctx(ctx).Debug().
			Str("component_type", string(e.ComponentType)).
			Float64("completeness", e.Completeness).
			Msg("extraction complete")
	}

	layout, components, composerUsage := o.composer.Compose(ctx, query.Text, intent, extractions)

	if o.verifier != nil && len(contextTexts) > 0 {
		verification := o.verifier.Verify(ctx, layout, components, contextTexts)
		if !verification.IsValid {
			log.Ctx(ctx).Warn().
				Int("unsupported_claims", len(verification.UnsupportedClaims)).
				Msg("verification found issues")
			components = insertVerificationWarning(components, verification)
		}
	}

	sources := aggregateSources(retrieval.Chunks)

	model := composerUsage.Model
	if model == "" {
		model = o.cfg.ComposerModel
	}

	result := rag.Result{
		Layout:     layout,
		Components: components,
		Metadata: rag.Metadata{
			DocumentsRetrieved: countDistinctDocuments(retrieval.Chunks),
			ChunksUsed:         len(retrieval.Chunks),
			ProcessingTimeMS:   time.Since(start).Milliseconds(),
			Model:              model,
		},
		Sources: sources,
		Cached:  false,
	}

	embeddingTokens := usage.EstimateBatchTokens(intent.RewrittenQueries)
	vectorQueries := 1
	if intent.RetrievalStrategy == rag.StrategyMultiEntity {
		vectorQueries = len(intent.RewrittenQueries)
	}

	cost := usage.Calculate(embeddingTokens, composerUsage.InputTokens, composerUsage.OutputTokens, vectorQueries, o.cfg.CostMargin)

	if err := o.cache.Set(ctx, key, &result, o.cfg.CacheTTL()); err != nil {
		log.Ctx(ctx).Warn().Err(err).Msg("cache store failed")
	}

	return ExecuteQueryResult{Result: result, Cost: cost}
}

// extractAll runs one extraction per expected component type concurrently,
// matching use_cases.py's asyncio.gather fan-out.
func (o *Orchestrator) extractAll(ctx context.Context, contextTexts []string, intent rag.Intent) ([]rag.ExtractionResult, error) {
	results := make([]rag.ExtractionResult, len(intent.ExpectedComponents))

	g, gctx := errgroup.WithContext(ctx)
	for i, componentType := range intent.ExpectedComponents {
		i, componentType := i, componentType
		g.Go(func() error {
			results[i] = o.extractor.Extract(gctx, componentType, contextTexts, intent)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func countDistinctDocuments(chunks []rag.Chunk) int {
	seen := make(map[string]bool, len(chunks))
	for _, c := range chunks {
		seen[c.DocumentID] = true
	}
	return len(seen)
}

// aggregateSources deduplicates chunk provenance into one SourceReference
// per document, matching use_cases.py's _aggregate_sources.
func aggregateSources(chunks []rag.Chunk) []rag.SourceReference {
	seen := make(map[string]rag.SourceReference)
	order := make([]string, 0)

	for _, c := range chunks {
		if _, ok := seen[c.DocumentID]; ok {
			continue
		}
		sourceName := c.Metadata["source_name"]
		if sourceName == "" {
			sourceName = "Unknown"
		}
		ref := rag.SourceReference{
			DocumentID: c.DocumentID,
			SourceName: sourceName,
		}
		if url := c.Metadata["source_url"]; url != "" {
			ref.SourceURL = &url
		}
		if date := c.Metadata["source_date"]; date != "" {
			ref.SourceDate = &date
		}
		seen[c.DocumentID] = ref
		order = append(order, c.DocumentID)
	}

	out := make([]rag.SourceReference, len(order))
	for i, id := range order {
		out[i] = seen[id]
	}
	return out
}

// insertVerificationWarning adds a notice near the start of the component
// list when the verifier found error-severity unsupported claims, never
// removing any existing component, matching use_cases.py's
// _filter_unsupported_claims (a misleading name in the original: it never
// filters, only annotates).
func insertVerificationWarning(components []rag.Component, verification rag.VerificationResult) []rag.Component {
	if !verification.HasErrorSeverity() {
		return components
	}

	title := "Verification Warning"
	notice := rag.NewComponent(rag.Notice{
		Message: "Some information could not be fully verified against source documents. Please verify critical facts independently.",
		Level:   rag.NoticeLevelWarning,
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

// insufficientDataResponse builds the pipeline-level fixed response for a
// retrieval that didn't meet the sufficiency threshold, matching
// use_cases.py's _insufficient_data_response.
func insufficientDataResponse(query rag.Query, warnings []string) rag.Result {
	warningText := "Limited relevant information found."
	if len(warnings) > 0 {
		warningText = joinWarnings(warnings)
	}

	noticeTitle := "Limited Information"
	notice := rag.NewComponent(rag.Notice{
		Message: "Unable to fully answer this query: " + warningText,
		Level:   rag.NoticeLevelWarning,
		Title:   &noticeTitle,
	}, nil)

	text := rag.NewComponent(rag.TextBlock{
		Content: "The query '" + query.Text + "' could not be fully answered. Try:\n" +
			"- Using different keywords\n" +
			"- Narrowing the date range\n" +
			"- Specifying particular politicians or parties",
		Format: rag.TextFormatMarkdown,
	}, nil)

	title := "Unable to Answer Query"
	subtitle := "Insufficient information available"

	return rag.Result{
		Layout: rag.Layout{
			Title:    &title,
			Subtitle: &subtitle,
			Sections: []rag.Section{{ComponentIDs: []string{notice.ID, text.ID}}},
		},
		Components: []rag.Component{notice, text},
		Cached:     false,
	}
}

// errorResponse builds the pipeline-level fixed response used when a stage
// returns an unrecoverable error, matching use_cases.py's _error_response.
func errorResponse(start time.Time) ExecuteQueryResult {
	noticeTitle := "Error"
	notice := rag.NewComponent(rag.Notice{
		Message: "An error occurred while processing your query. Please try again.",
		Level:   rag.NoticeLevelWarning,
		Title:   &noticeTitle,
	}, nil)

	title := "Error Processing Query"
	result := rag.Result{
		Layout: rag.Layout{
			Title:    &title,
			Sections: []rag.Section{{ComponentIDs: []string{notice.ID}}},
		},
		Components: []rag.Component{notice},
		Metadata: rag.Metadata{
			Model:            "error",
			ProcessingTimeMS: time.Since(start).Milliseconds(),
		},
		Cached: false,
	}

	return ExecuteQueryResult{Result: result, Cost: usage.Zero()}
}

func joinWarnings(warnings []string) string {
	out := warnings[0]
	for _, w := range warnings[1:] {
		out += "; " + w
	}
	return out
}
