// Package vectorstore defines the Embedder and VectorStore contracts the
// retriever depends on (spec.md §6), plus an in-memory implementation used
// by tests and the pollyctl demo, and a thin adapter over a real Qdrant
// collection. Grounded on ai/vectorstore/vector_store.go's
// RetrievalRequest/Config shape, simplified to the fixed filter fields
// spec.md actually names instead of the teacher's general filter-expression
// AST (see DESIGN.md for why that machinery wasn't wired here).
package vectorstore

import (
	"context"

	"github.com/AaronL1011/polly-ai/internal/rag"
)

// DefaultTopK mirrors the teacher's vectorstore.DefaultTopK default, reused
// here as the retriever's default_top_k (spec.md §4.2).
const DefaultTopK = 10

// Embedder turns text into fixed-dimension vectors for similarity search
// (spec.md §6).
type Embedder interface {
	EmbedSingle(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// Filter narrows a vector search to chunks matching any of DocumentTypes
// (when non-empty) and whose metadata date falls within [DateFrom, DateTo]
// (inclusive, when set). This is the fixed three-field filter shape spec.md
// §4.2 describes, not a general query language.
type Filter struct {
	DocumentTypes []rag.DocumentType
	DateFrom      string
	DateTo        string
}

// IsZero reports whether the filter applies no restriction at all.
func (f *Filter) IsZero() bool {
	return f == nil || (len(f.DocumentTypes) == 0 && f.DateFrom == "" && f.DateTo == "")
}

// VectorStore performs similarity search over embedded chunks, returning
// results in descending similarity order (spec.md §6).
type VectorStore interface {
	Search(ctx context.Context, vector []float32, k int, filter *Filter) ([]rag.Chunk, error)
}
