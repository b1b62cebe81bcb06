package vectorstore

import (
	"context"
	"errors"
	"math"
	"sort"

	"github.com/AaronL1011/polly-ai/internal/rag"
)

// Memory is an in-process VectorStore backed by a flat slice of chunks with
// precomputed embeddings, doing brute-force cosine similarity search. It
// exists for tests and for the pollyctl demo mode, in place of a real
// vector database.
type Memory struct {
	entries []memoryEntry
}

type memoryEntry struct {
	chunk  rag.Chunk
	vector []float32
}

// NewMemory builds an empty in-memory vector store.
func NewMemory() *Memory {
	return &Memory{}
}

// Add indexes a chunk under the given embedding vector.
func (m *Memory) Add(chunk rag.Chunk, vector []float32) {
	m.entries = append(m.entries, memoryEntry{chunk: chunk, vector: vector})
}

var _ VectorStore = (*Memory)(nil)

func (m *Memory) Search(_ context.Context, vector []float32, k int, filter *Filter) ([]rag.Chunk, error) {
	if k <= 0 {
		return nil, errors.New("vectorstore: k must be positive")
	}

	type scored struct {
		chunk rag.Chunk
		score float64
	}

	matches := make([]scored, 0, len(m.entries))
	for _, e := range m.entries {
		if !matchesFilter(e.chunk, filter) {
			continue
		}
		matches = append(matches, scored{chunk: e.chunk, score: cosineSimilarity(vector, e.vector)})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].score > matches[j].score
	})

	if k < len(matches) {
		matches = matches[:k]
	}

	out := make([]rag.Chunk, len(matches))
	for i, s := range matches {
		out[i] = s.chunk
	}
	return out, nil
}

func matchesFilter(chunk rag.Chunk, filter *Filter) bool {
	if filter.IsZero() {
		return true
	}

	if len(filter.DocumentTypes) > 0 {
		dt := rag.DocumentType(chunk.Metadata["document_type"])
		found := false
		for _, want := range filter.DocumentTypes {
			if dt == want {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	date := chunk.Metadata["date"]
	if filter.DateFrom != "" && date < filter.DateFrom {
		return false
	}
	if filter.DateTo != "" && date > filter.DateTo {
		return false
	}

	return true
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
