package usage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateZeroUsageIsFree(t *testing.T) {
	cost := Calculate(0, 0, 0, 0, DefaultMargin)
	assert.Equal(t, CostBreakdown{}, cost)
}

func TestCalculateFloorsEachIncurredCategoryAtOneCent(t *testing.T) {
	cost := Calculate(1, 1, 1, 1, 0)

	assert.Equal(t, 1, cost.EmbeddingCostCents)
	assert.Equal(t, 1, cost.LLMCostCents)
	assert.Equal(t, 1, cost.VectorCostCents)
}

func TestCalculateAppliesMarginOnSubtotal(t *testing.T) {
	withoutMargin := Calculate(10000, 10000, 10000, 10, 0)
	withMargin := Calculate(10000, 10000, 10000, 10, 0.5)

	assert.Greater(t, withMargin.TotalCents, withoutMargin.TotalCents)
	assert.Greater(t, withMargin.MarginCents, 0)
}

func TestCalculateTotalCreditsMatchesTotalCents(t *testing.T) {
	cost := Calculate(5000, 2000, 1000, 3, DefaultMargin)
	assert.Equal(t, cost.TotalCents, cost.TotalCredits)
}

func TestZeroIsNoCost(t *testing.T) {
	assert.Equal(t, CostBreakdown{}, Zero())
}
