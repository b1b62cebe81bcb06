// Command pollyctl runs a single query through the agentic RAG pipeline
// against an in-memory demo corpus, printing the composed response as
// JSON. It wires a ScriptedClient or a real OpenAI client depending on
// whether an API key is available, matching spec.md §6's external
// interfaces end to end.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/openai/openai-go/v3/option"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	flag "github.com/spf13/pflag"

	"github.com/AaronL1011/polly-ai/internal/agents"
	"github.com/AaronL1011/polly-ai/internal/cache"
	"github.com/AaronL1011/polly-ai/internal/config"
	"github.com/AaronL1011/polly-ai/internal/llm"
	"github.com/AaronL1011/polly-ai/internal/pipeline"
	"github.com/AaronL1011/polly-ai/internal/rag"
	"github.com/AaronL1011/polly-ai/internal/vectorstore"
)

func main() {
	var (
		query       = flag.StringP("query", "q", "", "query text to run through the pipeline")
		model       = flag.String("model", "gpt-4o-mini", "model name used for every agent call")
		verbose     = flag.BoolP("verbose", "v", false, "enable debug logging")
		noVerifier  = flag.Bool("no-verifier", false, "disable the verification stage")
		seedDemoDoc = flag.Bool("seed-demo", true, "seed the in-memory vector store with demo documents")
	)
	flag.Parse()

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.DefaultContextLogger = &log.Logger

	if *query == "" {
		fmt.Fprintln(os.Stderr, "pollyctl: --query is required")
		os.Exit(2)
	}

	cfg, err := config.NewPipeline(config.Pipeline{
		PlannerModel:        *model,
		ExtractorModel:      *model,
		ComposerModel:       *model,
		VerifierModel:       *model,
		EmbeddingModel:      "text-embedding-3-small",
		EmbeddingDimensions: 64,
		VerifierEnabled:     !*noVerifier,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("invalid pipeline config")
	}

	embedder := vectorstore.NewFakeEmbedder(cfg.EmbeddingDimensions)
	store := vectorstore.NewMemory()
	if *seedDemoDoc {
		seedDemoCorpus(context.Background(), store, embedder)
	}

	client := newLLMClient(*model)

	planner := agents.NewPlanner(client, cfg.PlannerModel)
	retriever := agents.NewRetriever(embedder, store, cfg.DefaultTopK, cfg.MinChunksForSufficiency)
	extractor := agents.NewExtractor(client, cfg.ExtractorModel)
	composer := agents.NewComposer(client, cfg.ComposerModel)

	var verifier *agents.Verifier
	if cfg.VerifierEnabled {
		verifier = agents.NewVerifier(client, cfg.VerifierModel)
	}

	orchestrator := pipeline.NewOrchestrator(planner, retriever, extractor, composer, verifier, cache.NewMemory(), cfg)

	result := orchestrator.Execute(context.Background(), rag.NewQuery(*query))

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		log.Fatal().Err(err).Msg("failed to marshal result")
	}
	fmt.Println(string(out))
}

// newLLMClient picks a real OpenAI-backed client when an API key is set in
// the environment, otherwise a scripted client that returns canned
// responses — enough to exercise the pipeline end to end without network
// access.
func newLLMClient(model string) llm.Client {
	if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" {
		return llm.NewOpenAIClient(model, option.WithAPIKey(apiKey))
	}
	log.Warn().Msg("OPENAI_API_KEY not set, using a scripted client with no queued responses")
	return llm.NewScriptedClient()
}

// seedDemoCorpus indexes a handful of illustrative parliamentary documents
// so a demo query against the in-memory store has something to retrieve.
func seedDemoCorpus(ctx context.Context, store *vectorstore.Memory, embedder *vectorstore.FakeEmbedder) {
	docs := []rag.Chunk{
		{
			ID:         "chunk-1",
			DocumentID: "doc-bill-clean-energy",
			Text:       "The Clean Energy Amendment Bill passed its second reading on 2025-03-14 with 78 votes for and 62 against.",
			Position:   0,
			Metadata: map[string]string{
				"document_type": string(rag.DocumentTypeBill),
				"date":          "2025-03-14",
				"source_name":   "Parliament of Australia",
			},
		},
		{
			ID:         "chunk-2",
			DocumentID: "doc-hansard-0314",
			Text:       "During debate, the Member for Wentworth argued the bill's emissions targets were insufficiently ambitious.",
			Position:   0,
			Metadata: map[string]string{
				"document_type": string(rag.DocumentTypeHansard),
				"date":          "2025-03-14",
				"source_name":   "Hansard",
			},
		},
		{
			ID:         "chunk-3",
			DocumentID: "doc-vote-clean-energy",
			Text:       "Vote breakdown: Labor 45 for, 2 against. Liberal 5 for, 55 against. Greens 12 for, 0 against. 5 abstentions.",
			Position:   0,
			Metadata: map[string]string{
				"document_type": string(rag.DocumentTypeVote),
				"date":          "2025-03-14",
				"source_name":   "AEC Division Records",
			},
		},
	}

	for _, chunk := range docs {
		vector, _ := embedder.EmbedSingle(ctx, chunk.Text)
		store.Add(chunk, vector)
	}
}
