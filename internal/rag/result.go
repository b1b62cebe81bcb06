package rag

// MinSufficientChunks is the default minimum chunk count for a retrieval to
// be considered sufficient (spec.md §3, RetrievalResult invariant).
const MinSufficientChunks = 3

// RetrievalResult is the retriever's output: the merged chunk set, which
// strategy produced it, per-query coverage, and a sufficiency verdict.
type RetrievalResult struct {
	Chunks       []Chunk
	StrategyUsed RetrievalStrategy
	Coverage     map[string]float64
	IsSufficient bool
	Warnings     []string
}

// ContextTexts extracts the raw text of every chunk, in order.
func (r RetrievalResult) ContextTexts() []string {
	texts := make([]string, len(r.Chunks))
	for i, c := range r.Chunks {
		texts[i] = c.Text
	}
	return texts
}

// SourceQuote is an exact-text quote an extractor attributed to a field,
// optionally with provenance back to a specific chunk or document.
type SourceQuote struct {
	Text       string
	ChunkIndex *int
	DocumentID *string
}

// ExtractionResult is one extractor's grounded output for a single expected
// component type.
type ExtractionResult struct {
	ComponentType ComponentType
	ExtractedData map[string]any
	SourceQuotes  []SourceQuote
	Completeness  float64
	Warnings      []string
}

// EmptyExtraction builds the extractor's failure-path result: no data, the
// given reason recorded as a warning, and completeness 0 so IsComplete is
// false (spec.md §4.3).
func EmptyExtraction(componentType ComponentType, reason string) ExtractionResult {
	return ExtractionResult{
		ComponentType: componentType,
		ExtractedData: map[string]any{},
		Warnings:      []string{reason},
	}
}

// IsComplete reports the §3 ExtractionResult invariant: non-empty extracted
// data and completeness at or above 0.5.
func (e ExtractionResult) IsComplete() bool {
	return len(e.ExtractedData) > 0 && e.Completeness >= 0.5
}

// ClaimSeverity is the closed set of severities for an unsupported claim.
type ClaimSeverity string

const (
	SeverityWarning ClaimSeverity = "warning"
	SeverityError   ClaimSeverity = "error"
)

// UnsupportedClaim is one claim the verifier found unsupported by context.
type UnsupportedClaim struct {
	ClaimText   string
	ComponentID string
	Severity    ClaimSeverity
}

// VerificationResult is the verifier's output: whether the response's
// claims check out against the source context.
type VerificationResult struct {
	IsValid           bool
	UnsupportedClaims []UnsupportedClaim
	ConfidenceScore   float64
	Warnings          []string
}

// ValidVerification is the verifier's no-op-success shortcut, used when
// context is empty or verification itself fails (spec.md §4.5).
func ValidVerification(warnings ...string) VerificationResult {
	return VerificationResult{
		IsValid:         true,
		ConfidenceScore: 1.0,
		Warnings:        warnings,
	}
}

// HasErrorSeverity reports whether any unsupported claim is severity=error,
// the trigger for the orchestrator's inserted warning notice (spec.md §4.5,
// §9's documented asymmetry with warning-only claims).
func (v VerificationResult) HasErrorSeverity() bool {
	for _, c := range v.UnsupportedClaims {
		if c.Severity == SeverityError {
			return true
		}
	}
	return false
}

// SourceReference is a deduplicated citation back to a retrieved document,
// derived from chunk metadata rather than LLM output (spec.md §9).
type SourceReference struct {
	DocumentID string
	SourceName string
	SourceURL  *string
	SourceDate *string
}

// Metadata carries timing and retrieval-size information about a response.
type Metadata struct {
	DocumentsRetrieved int
	ChunksUsed         int
	ProcessingTimeMS   int64
	Model              string
}

// Result is the pipeline's top-level output, cacheable in full.
type Result struct {
	Layout     Layout
	Components []Component
	Metadata   Metadata
	Sources    []SourceReference
	Cached     bool
}
