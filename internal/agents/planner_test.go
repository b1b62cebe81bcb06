package agents

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AaronL1011/polly-ai/internal/llm"
	"github.com/AaronL1011/polly-ai/internal/rag"
)

func TestPlannerAnalyze(t *testing.T) {
	t.Run("builds intent from a valid structured response", func(t *testing.T) {
		client := llm.NewScriptedClient().WithJSON(plannerOutput{
			QueryType:     "voting",
			ResponseDepth: "comprehensive",
			Entities: plannerEntities{
				Parties:       []string{"Labor"},
				DocumentTypes: []string{"Vote"},
			},
			ExpectedComponents: []string{"voting_breakdown", "not_a_real_type"},
			RetrievalStrategy:  "single_focus",
			RewrittenQueries:   []string{"rewritten query"},
			Confidence:         0.9,
		}, llm.Usage{Model: "test-model"})

		planner := NewPlanner(client, "test-model")
		intent := planner.Analyze(context.Background(), "how did Labor vote?")

		assert.Equal(t, rag.QueryTypeVoting, intent.QueryType)
		assert.Equal(t, rag.ResponseDepthComprehensive, intent.ResponseDepth)
		assert.Equal(t, []string{"Labor"}, intent.Entities.Parties)
		assert.Equal(t, []rag.DocumentType{rag.DocumentTypeVote}, intent.Entities.DocumentTypes)
		assert.Equal(t, []rag.ComponentType{rag.ComponentTypeVotingBreakdown}, intent.ExpectedComponents)
		assert.Equal(t, rag.StrategySingleFocus, intent.RetrievalStrategy)
		assert.Equal(t, []string{"rewritten query"}, intent.RewrittenQueries)
		assert.Equal(t, 0.9, intent.Confidence)
	})

	t.Run("falls back to default factual intent on invocation error", func(t *testing.T) {
		client := llm.NewScriptedClient().WithError(errors.New("boom"))
		planner := NewPlanner(client, "test-model")

		intent := planner.Analyze(context.Background(), "original query")

		assert.Equal(t, rag.DefaultFactualIntent("original query"), intent)
	})

	t.Run("falls back to default factual intent on malformed json", func(t *testing.T) {
		client := llm.NewScriptedClient().WithRaw("not json", llm.Usage{})
		planner := NewPlanner(client, "test-model")

		intent := planner.Analyze(context.Background(), "original query")

		assert.Equal(t, rag.DefaultFactualIntent("original query"), intent)
	})

	t.Run("defaults unrecognized closed-set values", func(t *testing.T) {
		client := llm.NewScriptedClient().WithJSON(plannerOutput{
			QueryType:         "not_a_real_type",
			ResponseDepth:     "not_a_real_depth",
			RetrievalStrategy: "not_a_real_strategy",
		}, llm.Usage{})

		planner := NewPlanner(client, "test-model")
		intent := planner.Analyze(context.Background(), "q")

		assert.Equal(t, rag.QueryTypeFactual, intent.QueryType)
		assert.Equal(t, rag.ResponseDepthStandard, intent.ResponseDepth)
		assert.Equal(t, rag.StrategySingleFocus, intent.RetrievalStrategy)
		assert.Equal(t, []rag.ComponentType{rag.ComponentTypeTextBlock}, intent.ExpectedComponents)
		assert.Equal(t, []string{"q"}, intent.RewrittenQueries)
	})
}

