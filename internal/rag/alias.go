package rag

import "strings"

// typeAliases maps loosely-phrased or legacy type strings an LLM might emit
// onto the eight canonical ComponentType values. Carried over verbatim from
// the original implementation's TYPE_ALIASES table (see SPEC_FULL.md's
// "Supplemented from original_source" section) since spec.md names the
// aliasing mechanism but not its exact entries.
var typeAliases = map[string]ComponentType{
	"text":             ComponentTypeTextBlock,
	"textblock":        ComponentTypeTextBlock,
	"text-block":       ComponentTypeTextBlock,
	"paragraph":        ComponentTypeTextBlock,
	"voting":           ComponentTypeVotingBreakdown,
	"vote":             ComponentTypeVotingBreakdown,
	"vote_breakdown":   ComponentTypeVotingBreakdown,
	"votes":            ComponentTypeVotingBreakdown,
	"table":            ComponentTypeDataTable,
	"datatable":        ComponentTypeDataTable,
	"data-table":       ComponentTypeDataTable,
	"compare":          ComponentTypeComparison,
	"members":          ComponentTypeMemberProfiles,
	"member":           ComponentTypeMemberProfiles,
	"profiles":         ComponentTypeMemberProfiles,
	"memberprofiles":   ComponentTypeMemberProfiles,
	"member-profiles":  ComponentTypeMemberProfiles,
	"graph":            ComponentTypeChart,
	"bar_chart":        ComponentTypeChart,
	"pie_chart":        ComponentTypeChart,
	"line_chart":       ComponentTypeChart,
	"events":           ComponentTypeTimeline,
	"history":          ComponentTypeTimeline,
	"alert":            ComponentTypeNotice,
	"warning":          ComponentTypeNotice,
	"info":             ComponentTypeNotice,
}

// canonicalTypes is the closed set of type strings that need no aliasing.
var canonicalTypes = map[ComponentType]bool{
	ComponentTypeTextBlock:       true,
	ComponentTypeNotice:          true,
	ComponentTypeChart:           true,
	ComponentTypeTimeline:        true,
	ComponentTypeDataTable:       true,
	ComponentTypeComparison:      true,
	ComponentTypeMemberProfiles:  true,
	ComponentTypeVotingBreakdown: true,
}

// NormalizeComponentType lowercases, hyphen/space-normalizes, and aliases a
// raw type string from LLM output into a canonical ComponentType. The
// second return value is false when the type is unrecognized even after
// aliasing.
func NormalizeComponentType(raw string) (ComponentType, bool) {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	normalized = strings.ReplaceAll(normalized, " ", "_")
	normalized = strings.ReplaceAll(normalized, "-", "_")

	if canonicalTypes[ComponentType(normalized)] {
		return ComponentType(normalized), true
	}

	hyphenated := strings.ReplaceAll(normalized, "_", "-")
	if aliased, ok := typeAliases[hyphenated]; ok {
		return aliased, true
	}
	if aliased, ok := typeAliases[normalized]; ok {
		return aliased, true
	}

	return "", false
}
