package agents

import (
	"context"
	"sort"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/AaronL1011/polly-ai/internal/rag"
	"github.com/AaronL1011/polly-ai/internal/vectorstore"
)

// dateSentinel sorts chunks with no date metadata to the end of a
// chronological result, matching retriever.py's "9999-99-99" sentinel.
const dateSentinel = "9999-99-99"

// Retriever selects and runs one of four context-retrieval strategies
// based on the planner's classified intent, per spec.md §4.2. Grounded on
// original_source/.../retriever.py's IntentDrivenRetriever.
type Retriever struct {
	embedder                vectorstore.Embedder
	store                   vectorstore.VectorStore
	defaultTopK             int
	minChunksForSufficiency int
}

// NewRetriever builds a Retriever. defaultTopK and minChunksForSufficiency
// default to vectorstore.DefaultTopK and rag.MinSufficientChunks when <= 0.
func NewRetriever(embedder vectorstore.Embedder, store vectorstore.VectorStore, defaultTopK, minChunksForSufficiency int) *Retriever {
	if defaultTopK <= 0 {
		defaultTopK = vectorstore.DefaultTopK
	}
	if minChunksForSufficiency <= 0 {
		minChunksForSufficiency = rag.MinSufficientChunks
	}
	return &Retriever{
		embedder:                embedder,
		store:                   store,
		defaultTopK:             defaultTopK,
		minChunksForSufficiency: minChunksForSufficiency,
	}
}

// Retrieve dispatches to the strategy named by intent.RetrievalStrategy.
func (r *Retriever) Retrieve(ctx context.Context, query string, intent rag.Intent) (rag.RetrievalResult, error) {
	switch intent.RetrievalStrategy {
	case rag.StrategyMultiEntity:
		return r.retrieveMultiEntity(ctx, query, intent)
	case rag.StrategyChronological:
		return r.retrieveChronological(ctx, query, intent)
	case rag.StrategyBroad:
		return r.retrieveBroad(ctx, query, intent)
	default:
		return r.retrieveSingleFocus(ctx, query, intent)
	}
}

func (r *Retriever) retrieveSingleFocus(ctx context.Context, query string, intent rag.Intent) (rag.RetrievalResult, error) {
	chunks, err := r.search(ctx, query, intent, r.defaultTopK)
	if err != nil {
		return rag.RetrievalResult{}, err
	}

	sufficient := len(chunks) >= r.minChunksForSufficiency
	return rag.RetrievalResult{
		Chunks:       chunks,
		StrategyUsed: rag.StrategySingleFocus,
		IsSufficient: sufficient,
		Warnings:     warningsIfInsufficient(sufficient, "Few relevant documents found"),
	}, nil
}

// retrieveMultiEntity runs one search per rewritten query in parallel via
// errgroup, merging results by first-occurrence chunk id. A failed
// sub-search is logged and skipped rather than failing the whole
// retrieval, the same isolation ai/rag/pipeline.go's retrieveByQueries
// uses for its fan-out.
func (r *Retriever) retrieveMultiEntity(ctx context.Context, query string, intent rag.Intent) (rag.RetrievalResult, error) {
	rewritten := intent.RewrittenQueries
	if len(rewritten) == 0 {
		rewritten = []string{query}
	}

	results := make([][]rag.Chunk, len(rewritten))
	coverage := make(map[string]float64, len(rewritten))

	g, gctx := errgroup.WithContext(ctx)
	for i, rq := range rewritten {
		i, rq := i, rq
		g.Go(func() error {
			chunks, err := r.search(gctx, rq, intent, r.defaultTopK/2)
			if err != nil {
				log.Ctx(ctx).Warn().Err(err).Str("query", rq).Msg("multi-entity sub-search failed")
				return nil
			}
			results[i] = chunks
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return rag.RetrievalResult{}, err
	}

	var merged []rag.Chunk
	for i, rq := range rewritten {
		coverage[rq] = float64(len(results[i])) / float64(r.defaultTopK)
		merged = append(merged, results[i]...)
	}
	merged = dedupeChunkIDs(merged)

	limit := r.defaultTopK * 2
	if len(merged) > limit {
		merged = merged[:limit]
	}

	sufficient := len(merged) >= r.minChunksForSufficiency
	return rag.RetrievalResult{
		Chunks:       merged,
		StrategyUsed: rag.StrategyMultiEntity,
		Coverage:     coverage,
		IsSufficient: sufficient,
		Warnings:     warningsIfInsufficient(sufficient, "Limited coverage for some entities"),
	}, nil
}

func (r *Retriever) retrieveChronological(ctx context.Context, query string, intent rag.Intent) (rag.RetrievalResult, error) {
	chunks, err := r.search(ctx, query, intent, r.defaultTopK)
	if err != nil {
		return rag.RetrievalResult{}, err
	}

	sorted := make([]rag.Chunk, len(chunks))
	copy(sorted, chunks)
	sort.SliceStable(sorted, func(i, j int) bool {
		return chunkDate(sorted[i]) < chunkDate(sorted[j])
	})

	sufficient := len(sorted) >= r.minChunksForSufficiency
	return rag.RetrievalResult{
		Chunks:       sorted,
		StrategyUsed: rag.StrategyChronological,
		IsSufficient: sufficient,
		Warnings:     warningsIfInsufficient(sufficient, "Few chronological events found"),
	}, nil
}

// retrieveBroad skips the date range filter and asks for more chunks,
// matching retriever.py's _retrieve_broad: only document_types narrows the
// search, for maximum diversity.
func (r *Retriever) retrieveBroad(ctx context.Context, query string, intent rag.Intent) (rag.RetrievalResult, error) {
	vector, err := r.embedder.EmbedSingle(ctx, query)
	if err != nil {
		return rag.RetrievalResult{}, err
	}

	filter := &vectorstore.Filter{}
	if len(intent.Entities.DocumentTypes) > 0 {
		filter.DocumentTypes = intent.Entities.DocumentTypes
	}

	chunks, err := r.store.Search(ctx, vector, r.defaultTopK+10, filter)
	if err != nil {
		return rag.RetrievalResult{}, err
	}

	sufficient := len(chunks) >= r.minChunksForSufficiency
	return rag.RetrievalResult{
		Chunks:       chunks,
		StrategyUsed: rag.StrategyBroad,
		IsSufficient: sufficient,
		Warnings:     warningsIfInsufficient(sufficient, "Limited diverse content found"),
	}, nil
}

// search embeds query and runs a filtered vector search using intent's
// entities, at the given k.
func (r *Retriever) search(ctx context.Context, query string, intent rag.Intent, k int) ([]rag.Chunk, error) {
	vector, err := r.embedder.EmbedSingle(ctx, query)
	if err != nil {
		return nil, err
	}
	return r.store.Search(ctx, vector, k, buildFilter(intent))
}

// buildFilter builds a vectorstore.Filter from an intent's extracted
// entities, matching retriever.py's _build_filters.
func buildFilter(intent rag.Intent) *vectorstore.Filter {
	return &vectorstore.Filter{
		DocumentTypes: intent.Entities.DocumentTypes,
		DateFrom:      intent.Entities.DateFrom,
		DateTo:        intent.Entities.DateTo,
	}
}

func chunkDate(c rag.Chunk) string {
	if date, ok := c.Metadata["date"]; ok && date != "" {
		return date
	}
	return dateSentinel
}

func warningsIfInsufficient(sufficient bool, message string) []string {
	if sufficient {
		return nil
	}
	return []string{message}
}

// dedupeChunkIDs merges retrieveMultiEntity's per-query result slices into
// one, keeping the first occurrence of each chunk ID, via samber/lo's
// UniqBy to match the corpus's preference for functional collection
// helpers over hand-rolled loops.
func dedupeChunkIDs(chunks []rag.Chunk) []rag.Chunk {
	return lo.UniqBy(chunks, func(c rag.Chunk) string { return c.ID })
}
