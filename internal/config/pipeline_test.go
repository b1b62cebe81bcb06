package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validPipeline() Pipeline {
	return Pipeline{
		PlannerModel:        "gpt-4o-mini",
		ExtractorModel:      "gpt-4o-mini",
		ComposerModel:       "gpt-4o-mini",
		VerifierModel:       "gpt-4o-mini",
		EmbeddingModel:      "text-embedding-3-small",
		EmbeddingDimensions: 1536,
	}
}

func TestNewPipelineAppliesDefaults(t *testing.T) {
	p, err := NewPipeline(validPipeline())
	require.NoError(t, err)

	assert.Equal(t, 10, p.DefaultTopK)
	assert.Equal(t, 3, p.MinChunksForSufficiency)
	assert.Equal(t, 900, p.CacheTTLSeconds)
	assert.Equal(t, 0.4, p.CostMargin)
}

func TestNewPipelineRejectsMissingRequiredFields(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Pipeline)
	}{
		{"missing planner model", func(p *Pipeline) { p.PlannerModel = "" }},
		{"missing extractor model", func(p *Pipeline) { p.ExtractorModel = "" }},
		{"missing composer model", func(p *Pipeline) { p.ComposerModel = "" }},
		{"missing verifier model", func(p *Pipeline) { p.VerifierModel = "" }},
		{"missing embedding model", func(p *Pipeline) { p.EmbeddingModel = "" }},
		{"non-positive embedding dimensions", func(p *Pipeline) { p.EmbeddingDimensions = 0 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validPipeline()
			tc.mutate(&cfg)
			_, err := NewPipeline(cfg)
			assert.Error(t, err)
		})
	}
}

func TestCacheTTL(t *testing.T) {
	cfg := validPipeline()
	cfg.CacheTTLSeconds = 60
	p, err := NewPipeline(cfg)
	require.NoError(t, err)
	assert.Equal(t, 60_000_000_000, int(p.CacheTTL()))
}
