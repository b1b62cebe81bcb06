package agents

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/AaronL1011/polly-ai/internal/llm"
	"github.com/AaronL1011/polly-ai/internal/rag"
)

const plannerTemperature = 0.1

// plannerOutput is the planner's structured-output schema, grounded on
// schemas.py's PlannerOutputSchema/EntitiesSchema.
type plannerOutput struct {
	QueryType          string          `json:"query_type"`
	ResponseDepth      string          `json:"response_depth"`
	Entities           plannerEntities `json:"entities"`
	ExpectedComponents []string        `json:"expected_components"`
	RetrievalStrategy  string          `json:"retrieval_strategy"`
	RewrittenQueries   []string        `json:"rewritten_queries"`
	Confidence         float64         `json:"confidence"`
}

type plannerEntities struct {
	Parties       []string `json:"parties"`
	Members       []string `json:"members"`
	Bills         []string `json:"bills"`
	Topics        []string `json:"topics"`
	DateFrom      string   `json:"date_from"`
	DateTo        string   `json:"date_to"`
	DocumentTypes []string `json:"document_types"`
}

// Planner classifies a query's intent and extracts entities via a
// structured-output LLM call, falling back to a fixed default on any
// failure. Grounded on original_source/.../planner.py's LLMQueryPlanner.
type Planner struct {
	client llm.Client
	model  string
}

// NewPlanner builds a Planner invoking the given model through client.
func NewPlanner(client llm.Client, model string) *Planner {
	return &Planner{client: client, model: model}
}

// Analyze classifies queryText's intent, defaulting to
// rag.DefaultFactualIntent on any failure (schema generation, invocation,
// or decode), per spec.md §4.1.
func (p *Planner) Analyze(ctx context.Context, queryText string) rag.Intent {
	schema, err := llm.SchemaOf[plannerOutput]()
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Msg("planner schema generation failed, using default intent")
		return rag.DefaultFactualIntent(queryText)
	}

	resp, err := p.client.InvokeStructured(ctx, llm.Request{
		System:      plannerSystemPrompt,
		User:        "Analyze this query: " + queryText,
		Schema:      schema,
		Temperature: plannerTemperature,
	})
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Msg("planner invocation failed, using default intent")
		return rag.DefaultFactualIntent(queryText)
	}

	decoded, err := llm.Decode[plannerOutput](resp.Content)
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Msg("planner response decode failed, using default intent")
		return rag.DefaultFactualIntent(queryText)
	}

	return buildIntent(decoded, queryText)
}

func buildIntent(data plannerOutput, originalQuery string) rag.Intent {
	queryType := rag.QueryType(data.QueryType)
	switch queryType {
	case rag.QueryTypeFactual, rag.QueryTypeComparative, rag.QueryTypeTimeline, rag.QueryTypeVoting, rag.QueryTypeAnalytical:
	default:
		queryType = rag.QueryTypeFactual
	}

	retrievalStrategy := rag.RetrievalStrategy(data.RetrievalStrategy)
	switch retrievalStrategy {
	case rag.StrategySingleFocus, rag.StrategyMultiEntity, rag.StrategyChronological, rag.StrategyBroad:
	default:
		retrievalStrategy = rag.StrategySingleFocus
	}

	responseDepth := rag.ResponseDepth(data.ResponseDepth)
	switch responseDepth {
	case rag.ResponseDepthBrief, rag.ResponseDepthStandard, rag.ResponseDepthComprehensive:
	default:
		responseDepth = rag.ResponseDepthStandard
	}

	expectedComponents := make([]rag.ComponentType, 0, len(data.ExpectedComponents))
	for _, raw := range data.ExpectedComponents {
		if typ, ok := rag.NormalizeComponentType(raw); ok {
			expectedComponents = append(expectedComponents, typ)
		}
	}
	if len(expectedComponents) == 0 {
		expectedComponents = []rag.ComponentType{rag.ComponentTypeTextBlock}
	}

	rewrittenQueries := data.RewrittenQueries
	if len(rewrittenQueries) == 0 {
		rewrittenQueries = []string{originalQuery}
	}

	documentTypes := make([]rag.DocumentType, 0, len(data.Entities.DocumentTypes))
	for _, dt := range data.Entities.DocumentTypes {
		documentTypes = append(documentTypes, rag.DocumentType(strings.ToLower(dt)))
	}

	return rag.Intent{
		QueryType:     queryType,
		ResponseDepth: responseDepth,
		Entities: rag.Entities{
			Parties:       data.Entities.Parties,
			Members:       data.Entities.Members,
			Bills:         data.Entities.Bills,
			Topics:        data.Entities.Topics,
			DateFrom:      data.Entities.DateFrom,
			DateTo:        data.Entities.DateTo,
			DocumentTypes: documentTypes,
		},
		ExpectedComponents: expectedComponents,
		RetrievalStrategy:  retrievalStrategy,
		RewrittenQueries:   rewrittenQueries,
		Confidence:         data.Confidence,
	}
}
