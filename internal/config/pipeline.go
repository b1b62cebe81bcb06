// Package config holds the pipeline's configuration record, following the
// teacher's Config+validate construction idiom (ai/rag/pipeline.go's
// PipelineConfig.validate): a struct of mostly-optional fields, a validate
// method applying defaults and rejecting missing required fields, invoked
// once at construction time rather than scattered through the pipeline.
package config

import (
	"errors"
	"time"
)

// Pipeline carries every tunable named in spec.md §6.
type Pipeline struct {
	// DefaultTopK is how many chunks the retriever asks the vector store
	// for when a strategy doesn't set its own limit.
	// Optional: defaults to 10.
	DefaultTopK int

	// MinChunksForSufficiency is the minimum merged chunk count for a
	// RetrievalResult to be considered sufficient.
	// Optional: defaults to rag.MinSufficientChunks (3).
	MinChunksForSufficiency int

	// CacheTTLSeconds is how long a cached Result stays valid.
	// Optional: defaults to 900 (15 minutes).
	CacheTTLSeconds int

	// CostMargin is the markup factor cost calculation applies on top of
	// raw per-token provider rates.
	// Optional: defaults to usage.DefaultMargin (0.4).
	CostMargin float64

	// VerifierEnabled toggles the verifier stage. There is no implicit
	// default here: a caller building Pipeline via a struct literal gets
	// false (verifier off) unless it sets this explicitly, since Go's bool
	// zero value can't stand in for "on". cmd/pollyctl sets this true.
	VerifierEnabled bool

	// PlannerModel, ExtractorModel, ComposerModel, VerifierModel name the
	// LLM model each agent invokes. Required: all four must be set.
	PlannerModel   string
	ExtractorModel string
	ComposerModel  string
	VerifierModel  string

	// EmbeddingModel names the embedding model the retriever's Embedder
	// uses. Required.
	EmbeddingModel string

	// EmbeddingDimensions is the embedding vector width, used to
	// initialize a vector store's collection schema when one is created
	// fresh. Required: must be positive.
	EmbeddingDimensions int
}

// CacheTTL returns CacheTTLSeconds as a time.Duration.
func (p *Pipeline) CacheTTL() time.Duration {
	return time.Duration(p.CacheTTLSeconds) * time.Second
}

// validate applies defaults for optional fields and rejects a config
// missing any required field.
func (p *Pipeline) validate() error {
	if p == nil {
		return errors.New("config: pipeline config cannot be nil")
	}

	if p.DefaultTopK <= 0 {
		p.DefaultTopK = 10
	}
	if p.MinChunksForSufficiency <= 0 {
		p.MinChunksForSufficiency = 3
	}
	if p.CacheTTLSeconds <= 0 {
		p.CacheTTLSeconds = 900
	}
	if p.CostMargin <= 0 {
		p.CostMargin = 0.4
	}

	if p.PlannerModel == "" {
		return errors.New("config: planner model is required")
	}
	if p.ExtractorModel == "" {
		return errors.New("config: extractor model is required")
	}
	if p.ComposerModel == "" {
		return errors.New("config: composer model is required")
	}
	if p.VerifierModel == "" {
		return errors.New("config: verifier model is required")
	}
	if p.EmbeddingModel == "" {
		return errors.New("config: embedding model is required")
	}
	if p.EmbeddingDimensions <= 0 {
		return errors.New("config: embedding dimensions must be positive")
	}

	return nil
}

// NewPipeline validates and returns a Pipeline config with defaults
// applied, or an error describing the first missing required field.
func NewPipeline(p Pipeline) (*Pipeline, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	return &p, nil
}
