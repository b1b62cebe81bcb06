package usage

import (
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

// embeddingEncoding is the tokenizer used to estimate embedding token
// counts client-side, since the Embedder contract (spec.md §6) reports
// vectors, not usage. cl100k_base matches OpenAI's text-embedding-3 family.
const embeddingEncoding = "cl100k_base"

var (
	encOnce sync.Once
	enc     *tiktoken.Tiktoken
	encErr  error
)

func encoding() (*tiktoken.Tiktoken, error) {
	encOnce.Do(func() {
		enc, encErr = tiktoken.GetEncoding(embeddingEncoding)
	})
	return enc, encErr
}

// EstimateTokens counts the tokens text would cost to embed, falling back
// to a conservative words*1.3 heuristic if the tokenizer can't be loaded
// (spec.md doesn't make embedding cost accounting a hard dependency on any
// one tokenizer implementation).
func EstimateTokens(text string) int {
	tok, err := encoding()
	if err != nil {
		return estimateByWords(text)
	}
	return len(tok.Encode(text, nil, nil))
}

// EstimateBatchTokens sums EstimateTokens across texts.
func EstimateBatchTokens(texts []string) int {
	total := 0
	for _, t := range texts {
		total += EstimateTokens(t)
	}
	return total
}

func estimateByWords(text string) int {
	words := 0
	inWord := false
	for _, r := range text {
		isSpace := r == ' ' || r == '\n' || r == '\t' || r == '\r'
		if isSpace {
			inWord = false
			continue
		}
		if !inWord {
			words++
			inWord = true
		}
	}
	return int(float64(words) * 1.3)
}
