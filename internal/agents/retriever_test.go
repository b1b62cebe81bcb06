package agents

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AaronL1011/polly-ai/internal/rag"
	"github.com/AaronL1011/polly-ai/internal/vectorstore"
)

func seedStore(t *testing.T, store *vectorstore.Memory, embedder *vectorstore.FakeEmbedder, chunks []rag.Chunk) {
	t.Helper()
	for _, c := range chunks {
		vector, err := embedder.EmbedSingle(context.Background(), c.Text)
		require.NoError(t, err)
		store.Add(c, vector)
	}
}

func TestRetrieverSingleFocus(t *testing.T) {
	embedder := vectorstore.NewFakeEmbedder(16)
	store := vectorstore.NewMemory()
	seedStore(t, store, embedder, []rag.Chunk{
		{ID: "1", DocumentID: "d1", Text: "the clean energy bill passed"},
		{ID: "2", DocumentID: "d2", Text: "members debated emissions targets"},
		{ID: "3", DocumentID: "d3", Text: "vote tally recorded"},
	})

	r := NewRetriever(embedder, store, 3, 3)
	result, err := r.Retrieve(context.Background(), "clean energy bill", rag.DefaultFactualIntent("clean energy bill"))
	require.NoError(t, err)

	assert.Equal(t, rag.StrategySingleFocus, result.StrategyUsed)
	assert.Len(t, result.Chunks, 3)
	assert.True(t, result.IsSufficient)
	assert.Empty(t, result.Warnings)
}

func TestRetrieverSingleFocusInsufficient(t *testing.T) {
	embedder := vectorstore.NewFakeEmbedder(16)
	store := vectorstore.NewMemory()
	seedStore(t, store, embedder, []rag.Chunk{
		{ID: "1", DocumentID: "d1", Text: "one chunk only"},
	})

	r := NewRetriever(embedder, store, 5, 3)
	result, err := r.Retrieve(context.Background(), "query", rag.DefaultFactualIntent("query"))
	require.NoError(t, err)

	assert.False(t, result.IsSufficient)
	assert.NotEmpty(t, result.Warnings)
}

func TestRetrieverMultiEntity(t *testing.T) {
	embedder := vectorstore.NewFakeEmbedder(16)
	store := vectorstore.NewMemory()
	seedStore(t, store, embedder, []rag.Chunk{
		{ID: "1", DocumentID: "d1", Text: "labor party position"},
		{ID: "2", DocumentID: "d2", Text: "liberal party position"},
		{ID: "3", DocumentID: "d3", Text: "greens party position"},
		{ID: "4", DocumentID: "d4", Text: "independent crossbench position"},
	})

	intent := rag.Intent{
		RetrievalStrategy: rag.StrategyMultiEntity,
		RewrittenQueries:  []string{"labor party", "liberal party"},
	}

	r := NewRetriever(embedder, store, 4, 2)
	result, err := r.Retrieve(context.Background(), "party positions", intent)
	require.NoError(t, err)

	assert.Equal(t, rag.StrategyMultiEntity, result.StrategyUsed)
	assert.NotEmpty(t, result.Chunks)
	assert.Len(t, result.Coverage, 2)

	seen := make(map[string]bool)
	for _, c := range result.Chunks {
		assert.False(t, seen[c.ID], "chunk %s should appear at most once", c.ID)
		seen[c.ID] = true
	}
}

func TestRetrieverChronological(t *testing.T) {
	embedder := vectorstore.NewFakeEmbedder(16)
	store := vectorstore.NewMemory()
	seedStore(t, store, embedder, []rag.Chunk{
		{ID: "1", DocumentID: "d1", Text: "later event", Metadata: map[string]string{"date": "2025-06-01"}},
		{ID: "2", DocumentID: "d2", Text: "earlier event", Metadata: map[string]string{"date": "2024-01-01"}},
		{ID: "3", DocumentID: "d3", Text: "undated event"},
	})

	intent := rag.Intent{RetrievalStrategy: rag.StrategyChronological}
	r := NewRetriever(embedder, store, 5, 1)
	result, err := r.Retrieve(context.Background(), "timeline of events", intent)
	require.NoError(t, err)

	require.Len(t, result.Chunks, 3)
	assert.Equal(t, "2024-01-01", result.Chunks[0].Metadata["date"])
	assert.Equal(t, "2025-06-01", result.Chunks[1].Metadata["date"])
	assert.Equal(t, "3", result.Chunks[2].ID, "undated chunk sorts last")
}

func TestRetrieverBroad(t *testing.T) {
	embedder := vectorstore.NewFakeEmbedder(16)
	store := vectorstore.NewMemory()
	seedStore(t, store, embedder, []rag.Chunk{
		{ID: "1", DocumentID: "d1", Text: "bill text", Metadata: map[string]string{"document_type": string(rag.DocumentTypeBill)}},
		{ID: "2", DocumentID: "d2", Text: "hansard text", Metadata: map[string]string{"document_type": string(rag.DocumentTypeHansard)}},
	})

	intent := rag.Intent{
		RetrievalStrategy: rag.StrategyBroad,
		Entities:          rag.Entities{DocumentTypes: []rag.DocumentType{rag.DocumentTypeBill}},
	}
	r := NewRetriever(embedder, store, 5, 1)
	result, err := r.Retrieve(context.Background(), "general query", intent)
	require.NoError(t, err)

	assert.Equal(t, rag.StrategyBroad, result.StrategyUsed)
	require.Len(t, result.Chunks, 1)
	assert.Equal(t, "1", result.Chunks[0].ID)
}
