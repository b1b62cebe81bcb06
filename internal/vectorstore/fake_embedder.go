package vectorstore

import (
	"context"
	"crypto/sha256"
	"math"
)

var _ Embedder = (*FakeEmbedder)(nil)

// FakeEmbedder deterministically hashes text into a fixed-dimension unit
// vector, standing in for a real embedding model in tests and the pollyctl
// demo. Like llm.ScriptedClient it is a hand-written test double in place
// of a generated mock; unlike ScriptedClient it holds no per-call state.
type FakeEmbedder struct {
	Dimensions int
}

// NewFakeEmbedder builds a FakeEmbedder producing vectors of the given width.
func NewFakeEmbedder(dimensions int) *FakeEmbedder {
	return &FakeEmbedder{Dimensions: dimensions}
}

func (f *FakeEmbedder) EmbedSingle(_ context.Context, text string) ([]float32, error) {
	return hashVector(text, f.Dimensions), nil
}

func (f *FakeEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = hashVector(t, f.Dimensions)
	}
	return out, nil
}

// hashVector expands a sha256 digest of text into dimensions floats via
// repeated re-hashing, then normalizes to unit length so cosine similarity
// behaves sensibly.
func hashVector(text string, dimensions int) []float32 {
	vector := make([]float32, dimensions)
	seed := sha256.Sum256([]byte(text))

	block := seed
	for i := 0; i < dimensions; i++ {
		if i > 0 && i%32 == 0 {
			block = sha256.Sum256(block[:])
		}
		b := block[i%32]
		vector[i] = (float32(b)/255.0)*2 - 1
	}

	var norm float64
	for _, v := range vector {
		norm += float64(v) * float64(v)
	}
	norm = math.Sqrt(norm)
	if norm == 0 {
		return vector
	}
	for i := range vector {
		vector[i] = float32(float64(vector[i]) / norm)
	}
	return vector
}
