// Package usage implements the token-to-credit cost model described in
// spec.md §4.7, grounded on the original implementation's
// usage/entities.py CostBreakdown.calculate.
package usage

import "math"

// Per-1000-token/query rates in cents.
const (
	embeddingRateCents   = 0.01
	llmInputRateCents    = 1.0
	llmOutputRateCents   = 3.0
	vectorQueryRateCents = 0.01

	// DefaultMargin is the default cost margin applied on top of subtotal.
	DefaultMargin = 0.4
)

// CostBreakdown is the itemized, rounded cost of a single pipeline run.
// 1 credit is defined to equal 1 US cent.
type CostBreakdown struct {
	EmbeddingTokens    int
	EmbeddingCostCents int
	LLMInputTokens     int
	LLMOutputTokens    int
	LLMCostCents       int
	VectorQueries      int
	VectorCostCents    int
	MarginCents        int
	TotalCents         int
	TotalCredits       int
}

// Zero is the no-cost result used for cache hits and error/insufficient-data
// responses (spec.md §4.6, §7).
func Zero() CostBreakdown {
	return CostBreakdown{}
}

// Calculate computes a CostBreakdown from raw usage counters, applying the
// formula from spec.md §4.7: per-category cent costs, each floored at 1
// cent if its underlying counter is nonzero, a margin on the subtotal, and
// a rounded total.
func Calculate(embeddingTokens, llmInputTokens, llmOutputTokens, vectorQueries int, margin float64) CostBreakdown {
	embeddingCostF := (float64(embeddingTokens) / 1000) * embeddingRateCents
	llmInputCostF := (float64(llmInputTokens) / 1000) * llmInputRateCents
	llmOutputCostF := (float64(llmOutputTokens) / 1000) * llmOutputRateCents
	llmCostF := llmInputCostF + llmOutputCostF
	vectorCostF := float64(vectorQueries) * vectorQueryRateCents

	subtotalF := embeddingCostF + llmCostF + vectorCostF
	marginF := subtotalF * margin
	totalF := subtotalF + marginF

	embeddingCost := flooredCents(embeddingCostF, embeddingTokens > 0)
	llmCost := flooredCents(llmCostF, llmInputTokens+llmOutputTokens > 0)
	vectorCost := flooredCents(vectorCostF, vectorQueries > 0)
	marginCents := flooredCents(marginF, margin > 0 && subtotalF > 0)
	total := 0
	if totalF > 0 {
		total = roundCents(totalF)
	}

	return CostBreakdown{
		EmbeddingTokens:    embeddingTokens,
		EmbeddingCostCents: embeddingCost,
		LLMInputTokens:     llmInputTokens,
		LLMOutputTokens:    llmOutputTokens,
		LLMCostCents:       llmCost,
		VectorQueries:      vectorQueries,
		VectorCostCents:    vectorCost,
		MarginCents:        marginCents,
		TotalCents:         total,
		TotalCredits:       total,
	}
}

func flooredCents(costF float64, incurred bool) int {
	if !incurred {
		return 0
	}
	return max(1, roundCents(costF))
}

func roundCents(v float64) int {
	return int(math.Round(v))
}
