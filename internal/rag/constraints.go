package rag

import (
	"fmt"
	"strings"

	"github.com/spf13/cast"
)

// Violation is the closed set of reasons a component can fail validation.
type Violation string

const (
	ViolationInsufficientData Violation = "insufficient_data"
	ViolationInvalidStructure Violation = "invalid_structure"
	ViolationPoorFit          Violation = "poor_fit"
)

// ValidationResult reports whether a parsed component is admitted into the
// response, and if not, why and what alternative might fit better.
type ValidationResult struct {
	Valid      bool
	Violation  Violation
	Reason     string
	Suggestion string
}

// Valid is the zero-friction passing result.
func Valid() ValidationResult {
	return ValidationResult{Valid: true}
}

// Invalid builds a failing ValidationResult. suggestion may be empty.
func Invalid(violation Violation, reason, suggestion string) ValidationResult {
	return ValidationResult{
		Valid:      false,
		Violation:  violation,
		Reason:     reason,
		Suggestion: suggestion,
	}
}

// Constraint thresholds, carried verbatim from the original implementation's
// constraints.py so the numbers in spec.md §3.2 have a single source of truth.
const (
	chartMinDataPoints = 2
	pieMaxSlices       = 7
	lineMinDataPoints  = 3

	comparisonMinItems      = 2
	comparisonMinAttributes = 1

	timelineMinEvents = 2

	tableMinRows    = 2
	tableMinColumns = 2

	membersMinCount = 1
)

// RawComponent is the loosely-typed shape a component arrives in from LLM
// output, before being normalized, validated, and converted into a typed
// Content value. Fields are populated as needed per component type; unused
// fields are left at their zero value.
type RawComponent struct {
	Type string `json:"type"`
	Size string `json:"size,omitempty"`

	// text_block / notice
	Content string `json:"content,omitempty"`
	Message string `json:"message,omitempty"`
	Title   string `json:"title,omitempty"`
	Format  string `json:"format,omitempty"`
	Level   string `json:"level,omitempty"`

	// chart
	ChartType  string           `json:"chart_type,omitempty"`
	Series     []RawChartSeries `json:"series,omitempty"`
	XAxisLabel string           `json:"x_axis_label,omitempty"`
	YAxisLabel string           `json:"y_axis_label,omitempty"`
	Caption    string           `json:"caption,omitempty"`

	// timeline
	Events []RawTimelineEvent `json:"events,omitempty"`

	// data_table
	Columns []RawTableColumn    `json:"columns,omitempty"`
	Rows    []map[string]string `json:"rows,omitempty"`

	// comparison
	Items      []RawComparisonItem      `json:"items,omitempty"`
	Attributes []RawComparisonAttribute `json:"attributes,omitempty"`

	// member_profiles
	Members []RawMemberProfile `json:"members,omitempty"`

	// voting_breakdown
	TotalFor         int            `json:"total_for,omitempty"`
	TotalAgainst     int            `json:"total_against,omitempty"`
	TotalAbstentions int            `json:"total_abstentions,omitempty"`
	PartyBreakdown   []RawPartyVote `json:"party_breakdown,omitempty"`
	Date             string         `json:"date,omitempty"`
	Result           string         `json:"result,omitempty"`
}

type RawChartSeries struct {
	Name string              `json:"name"`
	Data []RawChartDataPoint `json:"data"`
}

type RawChartDataPoint struct {
	Label    string `json:"label"`
	Value    any    `json:"value"`
	Category string `json:"category,omitempty"`
}

type RawTimelineEvent struct {
	Date         string `json:"date"`
	Label        string `json:"label"`
	Description  string `json:"description,omitempty"`
	ReferenceURL string `json:"reference_url,omitempty"`
	Significance int    `json:"significance,omitempty"`
}

type RawTableColumn struct {
	Header   string `json:"header"`
	Key      string `json:"key"`
	Sortable bool   `json:"sortable,omitempty"`
	Align    string `json:"align,omitempty"`
}

type RawComparisonItem struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type RawComparisonAttribute struct {
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

type RawMemberProfile struct {
	MemberID     string   `json:"member_id,omitempty"`
	Name         string   `json:"name"`
	Party        string   `json:"party,omitempty"`
	Constituency string   `json:"constituency,omitempty"`
	Roles        []string `json:"roles,omitempty"`
	PhotoURL     string   `json:"photo_url,omitempty"`
	Biography    string   `json:"biography,omitempty"`
	ProfileURL   string   `json:"profile_url,omitempty"`
}

type RawPartyVote struct {
	Party        string `json:"party"`
	VotesFor     int    `json:"votes_for,omitempty"`
	VotesAgainst int    `json:"votes_against,omitempty"`
	Abstentions  int    `json:"abstentions,omitempty"`
	NotVoting    int    `json:"not_voting,omitempty"`
}

// Validate runs the §3.2 constraint for typ against raw, returning an
// Invalid result if the component should be dropped rather than admitted.
func Validate(typ ComponentType, raw RawComponent) ValidationResult {
	switch typ {
	case ComponentTypeChart:
		return validateChart(raw)
	case ComponentTypeComparison:
		return validateComparison(raw)
	case ComponentTypeTimeline:
		return validateTimeline(raw)
	case ComponentTypeDataTable:
		return validateDataTable(raw)
	case ComponentTypeVotingBreakdown:
		return validateVotingBreakdown(raw)
	case ComponentTypeMemberProfiles:
		return validateMemberProfiles(raw)
	case ComponentTypeTextBlock:
		return validateTextBlock(raw)
	case ComponentTypeNotice:
		return validateNotice(raw)
	default:
		return Valid()
	}
}

func validateChart(raw RawComponent) ValidationResult {
	if len(raw.Series) == 0 {
		return Invalid(ViolationInsufficientData, "chart has no series data", "text_block")
	}

	total := 0
	for _, s := range raw.Series {
		total += len(s.Data)
	}
	if total < chartMinDataPoints {
		return Invalid(ViolationInsufficientData,
			fmt.Sprintf("chart has only %d data point(s), minimum is %d", total, chartMinDataPoints),
			"text_block")
	}

	for _, s := range raw.Series {
		for _, p := range s.Data {
			if _, ok := coerceNumber(p.Value); !ok {
				return Invalid(ViolationInvalidStructure,
					fmt.Sprintf("chart data point has non-numeric value: %v", p.Value), "")
			}
		}
	}

	chartType := raw.ChartType
	if chartType == "" {
		chartType = "bar"
	}

	switch chartType {
	case "pie", "doughnut":
		var points []RawChartDataPoint
		if len(raw.Series) > 0 {
			points = raw.Series[0].Data
		}
		if len(points) > pieMaxSlices {
			return Invalid(ViolationPoorFit,
				fmt.Sprintf("pie chart has %d slices, maximum recommended is %d", len(points), pieMaxSlices),
				"bar")
		}
		for _, p := range points {
			if v, ok := coerceNumber(p.Value); ok && v < 0 {
				return Invalid(ViolationPoorFit, "pie chart cannot display negative values", "bar")
			}
		}
	case "line":
		for _, s := range raw.Series {
			if len(s.Data) < lineMinDataPoints {
				return Invalid(ViolationPoorFit,
					fmt.Sprintf("line chart series has only %d points, minimum is %d", len(s.Data), lineMinDataPoints),
					"bar")
			}
		}
	}

	return Valid()
}

// coerceNumber tolerantly converts a decoded chart value to float64,
// accepting a numeric string the way original_source's validate_chart
// accepts anything float() doesn't reject, via cast.ToFloat64E.
func coerceNumber(v any) (float64, bool) {
	n, err := cast.ToFloat64E(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

func validateComparison(raw RawComponent) ValidationResult {
	validItems := 0
	for _, i := range raw.Items {
		if strings.TrimSpace(i.Name) != "" {
			validItems++
		}
	}
	validAttributes := 0
	for _, a := range raw.Attributes {
		if strings.TrimSpace(a.Name) != "" && len(a.Values) > 0 {
			validAttributes++
		}
	}

	if validItems < comparisonMinItems {
		return Invalid(ViolationInsufficientData,
			fmt.Sprintf("comparison has only %d item(s), minimum is %d", validItems, comparisonMinItems),
			"text_block")
	}
	if validAttributes < comparisonMinAttributes {
		return Invalid(ViolationInsufficientData, "comparison has no attributes to compare", "text_block")
	}

	return Valid()
}

func validateTimeline(raw RawComponent) ValidationResult {
	valid := 0
	for _, e := range raw.Events {
		if strings.TrimSpace(e.Date) != "" || strings.TrimSpace(e.Label) != "" {
			valid++
		}
	}
	if valid < timelineMinEvents {
		return Invalid(ViolationInsufficientData,
			fmt.Sprintf("timeline has only %d event(s), minimum is %d", valid, timelineMinEvents),
			"text_block")
	}
	return Valid()
}

func validateDataTable(raw RawComponent) ValidationResult {
	validColumns := 0
	for _, c := range raw.Columns {
		if strings.TrimSpace(c.Header) != "" || strings.TrimSpace(c.Key) != "" {
			validColumns++
		}
	}
	validRows := 0
	for _, r := range raw.Rows {
		if len(r) > 0 {
			validRows++
		}
	}

	if validColumns < tableMinColumns {
		return Invalid(ViolationInsufficientData,
			fmt.Sprintf("table has only %d column(s), minimum is %d", validColumns, tableMinColumns),
			"text_block")
	}
	if validRows < tableMinRows {
		return Invalid(ViolationInsufficientData,
			fmt.Sprintf("table has only %d row(s), minimum is %d", validRows, tableMinRows),
			"text_block")
	}
	return Valid()
}

func validateVotingBreakdown(raw RawComponent) ValidationResult {
	hasTotals := raw.TotalFor > 0 || raw.TotalAgainst > 0

	hasPartyVotes := false
	for _, p := range raw.PartyBreakdown {
		if strings.TrimSpace(p.Party) == "" {
			continue
		}
		if p.VotesFor > 0 || p.VotesAgainst > 0 {
			hasPartyVotes = true
			break
		}
	}

	if !hasTotals && !hasPartyVotes {
		return Invalid(ViolationInsufficientData, "voting breakdown has no vote data", "text_block")
	}
	return Valid()
}

func validateMemberProfiles(raw RawComponent) ValidationResult {
	valid := 0
	for _, m := range raw.Members {
		if strings.TrimSpace(m.Name) != "" {
			valid++
		}
	}
	if valid < membersMinCount {
		return Invalid(ViolationInsufficientData, "member profiles has no valid members", "")
	}
	return Valid()
}

func validateTextBlock(raw RawComponent) ValidationResult {
	if strings.TrimSpace(raw.Content) == "" {
		return Invalid(ViolationInsufficientData, "text block has no content", "")
	}
	return Valid()
}

func validateNotice(raw RawComponent) ValidationResult {
	if strings.TrimSpace(raw.Message) == "" {
		return Invalid(ViolationInsufficientData, "notice has no message", "")
	}
	return Valid()
}
