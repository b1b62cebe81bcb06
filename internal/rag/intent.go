package rag

// QueryType is the closed-set classification of what a query is asking for.
type QueryType string

const (
	QueryTypeFactual     QueryType = "factual"
	QueryTypeComparative QueryType = "comparative"
	QueryTypeTimeline    QueryType = "timeline"
	QueryTypeVoting      QueryType = "voting"
	QueryTypeAnalytical  QueryType = "analytical"
)

// ResponseDepth controls how thorough the composed response should be.
type ResponseDepth string

const (
	ResponseDepthBrief         ResponseDepth = "brief"
	ResponseDepthStandard      ResponseDepth = "standard"
	ResponseDepthComprehensive ResponseDepth = "comprehensive"
)

// RetrievalStrategy selects which of the retriever's four strategies is used.
type RetrievalStrategy string

const (
	StrategySingleFocus   RetrievalStrategy = "single_focus"
	StrategyMultiEntity   RetrievalStrategy = "multi_entity"
	StrategyChronological RetrievalStrategy = "chronological"
	StrategyBroad         RetrievalStrategy = "broad"
)

// Entities holds the parties, members, bills, and topics a planner extracted
// from a query, plus any date bounds and document-type restrictions.
type Entities struct {
	Parties       []string
	Members       []string
	Bills         []string
	Topics        []string
	DateFrom      string
	DateTo        string
	DocumentTypes []DocumentType
}

// Intent is the planner's structured description of a query: what kind of
// question it is, what entities it names, which components should answer
// it, and how the retriever should go about finding context.
type Intent struct {
	QueryType          QueryType
	ResponseDepth      ResponseDepth
	Entities           Entities
	ExpectedComponents []ComponentType
	RetrievalStrategy  RetrievalStrategy
	RewrittenQueries   []string
	Confidence         float64
}

// DefaultFactualIntent returns the planner's fallback intent used whenever
// LLM classification fails or returns malformed output (spec.md §4.1).
func DefaultFactualIntent(queryText string) Intent {
	return Intent{
		QueryType:          QueryTypeFactual,
		ResponseDepth:      ResponseDepthStandard,
		ExpectedComponents: []ComponentType{ComponentTypeTextBlock},
		RetrievalStrategy:  StrategySingleFocus,
		RewrittenQueries:   []string{queryText},
		Confidence:         0.5,
	}
}
