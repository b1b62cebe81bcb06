package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AaronL1011/polly-ai/internal/agents"
	"github.com/AaronL1011/polly-ai/internal/cache"
	"github.com/AaronL1011/polly-ai/internal/config"
	"github.com/AaronL1011/polly-ai/internal/llm"
	"github.com/AaronL1011/polly-ai/internal/rag"
	"github.com/AaronL1011/polly-ai/internal/usage"
	"github.com/AaronL1011/polly-ai/internal/vectorstore"
)

// failingStore is a VectorStore that always errors, used to exercise the
// orchestrator's retrieval-error path.
type failingStore struct{}

func (failingStore) Search(_ context.Context, _ []float32, _ int, _ *vectorstore.Filter) ([]rag.Chunk, error) {
	return nil, errSearchUnavailable
}

var errSearchUnavailable = errors.New("search unavailable")

func testPipelineConfig() *config.Pipeline {
	cfg, err := config.NewPipeline(config.Pipeline{
		PlannerModel:        "planner-model",
		ExtractorModel:      "extractor-model",
		ComposerModel:       "composer-model",
		VerifierModel:       "verifier-model",
		EmbeddingModel:      "embed-model",
		EmbeddingDimensions: 16,
	})
	if err != nil {
		panic(err)
	}
	return cfg
}

func newTestOrchestrator(t *testing.T, retriever *agents.Retriever, plannerClient, extractorClient, composerClient llm.Client, verifier *agents.Verifier, cacheImpl cache.Cache, cfg *config.Pipeline) *Orchestrator {
	t.Helper()
	planner := agents.NewPlanner(plannerClient, cfg.PlannerModel)
	extractor := agents.NewExtractor(extractorClient, cfg.ExtractorModel)
	composer := agents.NewComposer(composerClient, cfg.ComposerModel)
	return NewOrchestrator(planner, retriever, extractor, composer, verifier, cacheImpl, cfg)
}

func TestExecuteReturnsCachedResultWithoutRunningPipeline(t *testing.T) {
	cfg := testPipelineConfig()
	cacheImpl := cache.NewMemory()
	query := rag.NewQuery("how did the vote go?")

	title := "Cached Response"
	cached := &rag.Result{Layout: rag.Layout{Title: &title}}
	require.NoError(t, cacheImpl.Set(context.Background(), cacheImpl.QueryKey(query), cached, time.Minute))

	// No steps are queued on any of these scripted clients: if the
	// orchestrator reached past the cache lookup it would either panic on a
	// nil retriever or fall back to a default intent, either of which this
	// test's assertions would catch.
	o := newTestOrchestrator(t, nil, llm.NewScriptedClient(), llm.NewScriptedClient(), llm.NewScriptedClient(), nil, cacheImpl, cfg)

	out := o.Execute(context.Background(), query)

	require.NotNil(t, out.Result.Layout.Title)
	assert.Equal(t, "Cached Response", *out.Result.Layout.Title)
	assert.True(t, out.Result.Cached)
	assert.Equal(t, usage.Zero(), out.Cost)
}

func TestExecuteDegradesToErrorResponseOnRetrievalFailure(t *testing.T) {
	cfg := testPipelineConfig()
	embedder := vectorstore.NewFakeEmbedder(cfg.EmbeddingDimensions)
	retriever := agents.NewRetriever(embedder, failingStore{}, cfg.DefaultTopK, cfg.MinChunksForSufficiency)

	o := newTestOrchestrator(t, retriever, llm.NewScriptedClient(), llm.NewScriptedClient(), llm.NewScriptedClient(), nil, cache.NewMemory(), cfg)

	out := o.Execute(context.Background(), rag.NewQuery("clean energy bill"))

	require.Len(t, out.Result.Components, 1)
	assert.Equal(t, "Error Processing Query", *out.Result.Layout.Title)
	assert.Equal(t, "error", out.Result.Metadata.Model)
}

func TestExecuteReturnsInsufficientDataResponseBelowSufficiencyThreshold(t *testing.T) {
	cfg := testPipelineConfig()
	embedder := vectorstore.NewFakeEmbedder(cfg.EmbeddingDimensions)
	store := vectorstore.NewMemory()
	vector, err := embedder.EmbedSingle(context.Background(), "one lonely chunk")
	require.NoError(t, err)
	store.Add(rag.Chunk{ID: "1", DocumentID: "d1", Text: "one lonely chunk"}, vector)

	retriever := agents.NewRetriever(embedder, store, cfg.DefaultTopK, cfg.MinChunksForSufficiency)

	o := newTestOrchestrator(t, retriever, llm.NewScriptedClient(), llm.NewScriptedClient(), llm.NewScriptedClient(), nil, cache.NewMemory(), cfg)

	out := o.Execute(context.Background(), rag.NewQuery("obscure query"))

	require.Len(t, out.Result.Components, 2)
	assert.Equal(t, "Unable to Answer Query", *out.Result.Layout.Title)
	assert.Equal(t, 1, out.Result.Metadata.ChunksUsed)
	assert.Equal(t, usage.Zero(), out.Cost)
}

func seedCorpus(t *testing.T, embedder *vectorstore.FakeEmbedder, store *vectorstore.Memory, texts []string) {
	t.Helper()
	for i, text := range texts {
		vector, err := embedder.EmbedSingle(context.Background(), text)
		require.NoError(t, err)
		store.Add(rag.Chunk{ID: string(rune('a' + i)), DocumentID: "doc-" + string(rune('a'+i)), Text: text, Metadata: map[string]string{
			"source_name": "Hansard",
			"source_url":  "https://example.org/doc",
		}}, vector)
	}
}

func plannerResponse() map[string]any {
	return map[string]any{
		"query_type":          "factual",
		"response_depth":      "standard",
		"entities":            map[string]any{},
		"expected_components": []string{"text_block"},
		"retrieval_strategy":  "single_focus",
		"rewritten_queries":   []string{"clean energy bill"},
		"confidence":          0.8,
	}
}

func textBlockExtractionResponse() map[string]any {
	return map[string]any{
		"title":         "Overview",
		"key_points":    []map[string]any{},
		"summary_focus": "the bill's passage",
		"source_quotes": []string{"the bill passed 80 to 40"},
		"completeness":  0.9,
		"warnings":      []string{},
	}
}

func composerLayoutResponse() rag.RawLayout {
	return rag.RawLayout{
		Title: "Clean Energy Bill",
		Sections: []rag.RawSection{
			{
				Title: "Summary",
				Components: []rag.RawComponent{
					{Type: "text_block", Content: "The bill passed 80 to 40."},
				},
			},
		},
	}
}

func TestExecuteSuccessfulEndToEnd(t *testing.T) {
	cfg := testPipelineConfig()
	embedder := vectorstore.NewFakeEmbedder(cfg.EmbeddingDimensions)
	store := vectorstore.NewMemory()
	seedCorpus(t, embedder, store, []string{
		"the clean energy bill passed 80 to 40",
		"members debated emissions targets at length",
		"the vote was recorded in hansard",
	})
	retriever := agents.NewRetriever(embedder, store, cfg.DefaultTopK, cfg.MinChunksForSufficiency)

	plannerClient := llm.NewScriptedClient().WithJSON(plannerResponse(), llm.Usage{})
	extractorClient := llm.NewScriptedClient().WithJSON(textBlockExtractionResponse(), llm.Usage{})
	composerClient := llm.NewScriptedClient().WithJSON(composerLayoutResponse(), llm.Usage{InputTokens: 400, OutputTokens: 120, Model: "composer-model"})

	o := newTestOrchestrator(t, retriever, plannerClient, extractorClient, composerClient, nil, cache.NewMemory(), cfg)

	out := o.Execute(context.Background(), rag.NewQuery("what happened with the clean energy bill?"))

	require.Len(t, out.Result.Components, 1)
	assert.Equal(t, "Clean Energy Bill", *out.Result.Layout.Title)
	assert.Equal(t, "composer-model", out.Result.Metadata.Model)
	assert.False(t, out.Result.Cached)
	require.Len(t, out.Result.Sources, 3)
	assert.Greater(t, out.Cost.TotalCents, 0)
}

func TestExecuteInsertsVerificationWarningOnErrorSeverityClaim(t *testing.T) {
	cfg := testPipelineConfig()
	embedder := vectorstore.NewFakeEmbedder(cfg.EmbeddingDimensions)
	store := vectorstore.NewMemory()
	seedCorpus(t, embedder, store, []string{
		"the clean energy bill passed 80 to 40",
		"members debated emissions targets at length",
		"the vote was recorded in hansard",
	})
	retriever := agents.NewRetriever(embedder, store, cfg.DefaultTopK, cfg.MinChunksForSufficiency)

	plannerClient := llm.NewScriptedClient().WithJSON(plannerResponse(), llm.Usage{})
	extractorClient := llm.NewScriptedClient().WithJSON(textBlockExtractionResponse(), llm.Usage{})
	composerClient := llm.NewScriptedClient().WithJSON(composerLayoutResponse(), llm.Usage{Model: "composer-model"})
	verifierClient := llm.NewScriptedClient().WithJSON(map[string]any{
		"is_valid": false,
		"unsupported_claims": []map[string]any{
			{"claim_text": "the bill passed unanimously", "component_id": "c1", "severity": "error"},
		},
		"confidence_score": 0.4,
		"warnings":         []string{},
	}, llm.Usage{})
	verifier := agents.NewVerifier(verifierClient, cfg.VerifierModel)

	o := newTestOrchestrator(t, retriever, plannerClient, extractorClient, composerClient, verifier, cache.NewMemory(), cfg)

	out := o.Execute(context.Background(), rag.NewQuery("what happened with the clean energy bill?"))

	require.Len(t, out.Result.Components, 2)
	notice, ok := out.Result.Components[1].Content.(rag.Notice)
	require.True(t, ok)
	assert.Equal(t, rag.NoticeLevelWarning, notice.Level)
}
