package rag

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateChart(t *testing.T) {
	t.Run("rejects chart with no series", func(t *testing.T) {
		result := Validate(ComponentTypeChart, RawComponent{})
		assert.False(t, result.Valid)
		assert.Equal(t, ViolationInsufficientData, result.Violation)
	})

	t.Run("rejects chart below minimum data points", func(t *testing.T) {
		raw := RawComponent{
			Series: []RawChartSeries{{Name: "s", Data: []RawChartDataPoint{{Label: "a", Value: 1.0}}}},
		}
		result := Validate(ComponentTypeChart, raw)
		assert.False(t, result.Valid)
		assert.Equal(t, ViolationInsufficientData, result.Violation)
	})

	t.Run("rejects pie chart with too many slices", func(t *testing.T) {
		var points []RawChartDataPoint
		for i := 0; i < pieMaxSlices+1; i++ {
			points = append(points, RawChartDataPoint{Label: "x", Value: float64(i)})
		}
		raw := RawComponent{
			ChartType: "pie",
			Series:    []RawChartSeries{{Name: "s", Data: points}},
		}
		result := Validate(ComponentTypeChart, raw)
		assert.False(t, result.Valid)
		assert.Equal(t, ViolationPoorFit, result.Violation)
		assert.Equal(t, "bar", result.Suggestion)
	})

	t.Run("rejects pie chart with negative values", func(t *testing.T) {
		raw := RawComponent{
			ChartType: "pie",
			Series:    []RawChartSeries{{Name: "s", Data: []RawChartDataPoint{{Label: "a", Value: -1.0}, {Label: "b", Value: 2.0}}}},
		}
		result := Validate(ComponentTypeChart, raw)
		assert.False(t, result.Valid)
	})

	t.Run("rejects line chart below minimum points per series", func(t *testing.T) {
		raw := RawComponent{
			ChartType: "line",
			Series: []RawChartSeries{{Name: "s", Data: []RawChartDataPoint{
				{Label: "a", Value: 1.0}, {Label: "b", Value: 2.0},
			}}},
		}
		result := Validate(ComponentTypeChart, raw)
		assert.False(t, result.Valid)
	})

	t.Run("accepts valid bar chart", func(t *testing.T) {
		raw := RawComponent{
			ChartType: "bar",
			Series:    []RawChartSeries{{Name: "s", Data: []RawChartDataPoint{{Label: "a", Value: 1.0}, {Label: "b", Value: 2.0}}}},
		}
		result := Validate(ComponentTypeChart, raw)
		assert.True(t, result.Valid)
	})

	t.Run("rejects non-numeric data point", func(t *testing.T) {
		raw := RawComponent{
			Series: []RawChartSeries{{Name: "s", Data: []RawChartDataPoint{{Label: "a", Value: "not-a-number"}, {Label: "b", Value: 1.0}}}},
		}
		result := Validate(ComponentTypeChart, raw)
		assert.False(t, result.Valid)
		assert.Equal(t, ViolationInvalidStructure, result.Violation)
	})

	t.Run("accepts a numeric-string data point value", func(t *testing.T) {
		raw := RawComponent{
			ChartType: "bar",
			Series:    []RawChartSeries{{Name: "s", Data: []RawChartDataPoint{{Label: "a", Value: "42"}, {Label: "b", Value: 1.0}}}},
		}
		result := Validate(ComponentTypeChart, raw)
		assert.True(t, result.Valid)
	})
}

func TestValidateComparison(t *testing.T) {
	t.Run("rejects with fewer than two items", func(t *testing.T) {
		raw := RawComponent{
			Items:      []RawComparisonItem{{Name: "Labor"}},
			Attributes: []RawComparisonAttribute{{Name: "Seats", Values: []string{"77"}}},
		}
		result := Validate(ComponentTypeComparison, raw)
		assert.False(t, result.Valid)
	})

	t.Run("rejects with no attributes", func(t *testing.T) {
		raw := RawComponent{
			Items: []RawComparisonItem{{Name: "Labor"}, {Name: "Liberal"}},
		}
		result := Validate(ComponentTypeComparison, raw)
		assert.False(t, result.Valid)
	})

	t.Run("accepts valid comparison", func(t *testing.T) {
		raw := RawComponent{
			Items:      []RawComparisonItem{{Name: "Labor"}, {Name: "Liberal"}},
			Attributes: []RawComparisonAttribute{{Name: "Seats", Values: []string{"77", "58"}}},
		}
		result := Validate(ComponentTypeComparison, raw)
		assert.True(t, result.Valid)
	})
}

func TestValidateTimeline(t *testing.T) {
	t.Run("rejects below minimum events", func(t *testing.T) {
		raw := RawComponent{Events: []RawTimelineEvent{{Date: "2025-01-01", Label: "First reading"}}}
		result := Validate(ComponentTypeTimeline, raw)
		assert.False(t, result.Valid)
	})

	t.Run("accepts with minimum events", func(t *testing.T) {
		raw := RawComponent{Events: []RawTimelineEvent{
			{Date: "2025-01-01", Label: "First reading"},
			{Date: "2025-02-01", Label: "Second reading"},
		}}
		result := Validate(ComponentTypeTimeline, raw)
		assert.True(t, result.Valid)
	})
}

func TestValidateDataTable(t *testing.T) {
	t.Run("rejects below minimum columns and rows", func(t *testing.T) {
		raw := RawComponent{
			Columns: []RawTableColumn{{Header: "Name"}},
			Rows:    []map[string]string{{"Name": "a"}},
		}
		result := Validate(ComponentTypeDataTable, raw)
		assert.False(t, result.Valid)
	})

	t.Run("accepts with minimum columns and rows", func(t *testing.T) {
		raw := RawComponent{
			Columns: []RawTableColumn{{Header: "Name"}, {Header: "Party"}},
			Rows:    []map[string]string{{"Name": "a"}, {"Name": "b"}},
		}
		result := Validate(ComponentTypeDataTable, raw)
		assert.True(t, result.Valid)
	})
}

func TestValidateVotingBreakdown(t *testing.T) {
	t.Run("rejects with no vote data", func(t *testing.T) {
		result := Validate(ComponentTypeVotingBreakdown, RawComponent{})
		assert.False(t, result.Valid)
	})

	t.Run("accepts with totals only", func(t *testing.T) {
		raw := RawComponent{TotalFor: 10, TotalAgainst: 5}
		result := Validate(ComponentTypeVotingBreakdown, raw)
		assert.True(t, result.Valid)
	})

	t.Run("accepts with party breakdown only", func(t *testing.T) {
		raw := RawComponent{PartyBreakdown: []RawPartyVote{{Party: "Labor", VotesFor: 10}}}
		result := Validate(ComponentTypeVotingBreakdown, raw)
		assert.True(t, result.Valid)
	})
}

func TestValidateMemberProfiles(t *testing.T) {
	t.Run("rejects with no named members", func(t *testing.T) {
		result := Validate(ComponentTypeMemberProfiles, RawComponent{Members: []RawMemberProfile{{}}})
		assert.False(t, result.Valid)
	})

	t.Run("accepts with one named member", func(t *testing.T) {
		raw := RawComponent{Members: []RawMemberProfile{{Name: "Jane Smith"}}}
		result := Validate(ComponentTypeMemberProfiles, raw)
		assert.True(t, result.Valid)
	})
}

func TestValidateTextBlockAndNotice(t *testing.T) {
	t.Run("rejects empty text block", func(t *testing.T) {
		assert.False(t, Validate(ComponentTypeTextBlock, RawComponent{}).Valid)
	})
	t.Run("accepts non-empty text block", func(t *testing.T) {
		assert.True(t, Validate(ComponentTypeTextBlock, RawComponent{Content: "hello"}).Valid)
	})
	t.Run("rejects empty notice", func(t *testing.T) {
		assert.False(t, Validate(ComponentTypeNotice, RawComponent{}).Valid)
	})
	t.Run("accepts non-empty notice", func(t *testing.T) {
		assert.True(t, Validate(ComponentTypeNotice, RawComponent{Message: "careful"}).Valid)
	})
}

func TestParseComponent(t *testing.T) {
	t.Run("builds a text block component", func(t *testing.T) {
		component, ok := ParseComponent(RawComponent{Type: "text_block", Content: "some content"})
		assert.True(t, ok)
		block, isBlock := component.Content.(TextBlock)
		assert.True(t, isBlock)
		assert.Equal(t, "some content", block.Content)
	})

	t.Run("rejects unrecognized type", func(t *testing.T) {
		_, ok := ParseComponent(RawComponent{Type: "not_a_real_type"})
		assert.False(t, ok)
	})

	t.Run("normalizes an alias before validating", func(t *testing.T) {
		component, ok := ParseComponent(RawComponent{Type: "history", Events: []RawTimelineEvent{
			{Date: "2025-01-01", Label: "a"}, {Date: "2025-02-01", Label: "b"},
		}})
		assert.True(t, ok)
		assert.Equal(t, ComponentTypeTimeline, component.Content.Type())
	})
}

func TestResolveSections(t *testing.T) {
	t.Run("drops sections with no resolvable ids", func(t *testing.T) {
		known := []Component{{ID: "a"}, {ID: "b"}}
		sections := []Section{
			{ComponentIDs: []string{"a"}},
			{ComponentIDs: []string{"missing"}},
		}
		resolved := ResolveSections(sections, known)
		assert.Len(t, resolved, 1)
		assert.Equal(t, []string{"a"}, resolved[0].ComponentIDs)
	})
}
