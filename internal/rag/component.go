package rag

import "github.com/google/uuid"

// ComponentType is the closed set of UI component variants the composer can
// produce. Unknown type strings are aliased (alias.go) or rejected before a
// Content value is ever constructed.
type ComponentType string

const (
	ComponentTypeTextBlock        ComponentType = "text_block"
	ComponentTypeNotice           ComponentType = "notice"
	ComponentTypeChart            ComponentType = "chart"
	ComponentTypeTimeline         ComponentType = "timeline"
	ComponentTypeDataTable        ComponentType = "data_table"
	ComponentTypeComparison       ComponentType = "comparison"
	ComponentTypeMemberProfiles   ComponentType = "member_profiles"
	ComponentTypeVotingBreakdown  ComponentType = "voting_breakdown"
)

// ComponentSize is the optional width hint attached to a component within a
// grid or multi-column section layout.
type ComponentSize string

const (
	SizeFull       ComponentSize = "full"
	SizeHalf       ComponentSize = "half"
	SizeThird      ComponentSize = "third"
	SizeTwoThirds  ComponentSize = "two-thirds"
	SizeAuto       ComponentSize = "auto"
)

// Content is the tagged-union payload carried by a Component envelope. Each
// of the eight variants below implements it.
type Content interface {
	Type() ComponentType
}

// Component is the envelope around a typed Content payload, assigned a
// fresh id at construction time and an optional layout size hint.
type Component struct {
	ID      string
	Content Content
	Size    *ComponentSize
}

// NewComponent wraps content in a freshly-id'd Component envelope.
func NewComponent(content Content, size *ComponentSize) Component {
	return Component{
		ID:      uuid.NewString(),
		Content: content,
		Size:    size,
	}
}

// TextFormat distinguishes plain text from markdown content.
type TextFormat string

const (
	TextFormatPlain    TextFormat = "plain"
	TextFormatMarkdown TextFormat = "markdown"
)

// TextBlock carries narrative or explanatory markdown content.
type TextBlock struct {
	Content string
	Title   *string
	Format  TextFormat
}

func (TextBlock) Type() ComponentType { return ComponentTypeTextBlock }

// NoticeLevel is the severity of a Notice.
type NoticeLevel string

const (
	NoticeLevelInfo      NoticeLevel = "info"
	NoticeLevelWarning   NoticeLevel = "warning"
	NoticeLevelImportant NoticeLevel = "important"
)

// Notice is a short callout, e.g. a data-availability or verification warning.
type Notice struct {
	Message string
	Level   NoticeLevel
	Title   *string
}

func (Notice) Type() ComponentType { return ComponentTypeNotice }

// ChartType is the closed set of supported chart renderings.
type ChartType string

const (
	ChartTypeBar           ChartType = "bar"
	ChartTypeLine          ChartType = "line"
	ChartTypePie           ChartType = "pie"
	ChartTypeDoughnut      ChartType = "doughnut"
	ChartTypeHorizontalBar ChartType = "horizontal_bar"
	ChartTypeStackedBar    ChartType = "stacked_bar"
)

// ChartDataPoint is a single labeled value within a ChartSeries.
type ChartDataPoint struct {
	Label    string
	Value    float64
	Category *string
}

// ChartSeries is a named collection of data points.
type ChartSeries struct {
	Name string
	Data []ChartDataPoint
}

// Chart is a data visualization component.
type Chart struct {
	ChartType  ChartType
	Series     []ChartSeries
	Title      *string
	XAxisLabel *string
	YAxisLabel *string
	Caption    *string
}

func (Chart) Type() ComponentType { return ComponentTypeChart }

// TimelineEvent is a single dated entry in a Timeline.
type TimelineEvent struct {
	Date          string
	Label         string
	Description   *string
	ReferenceURL  *string
	Significance  int // 1-5
}

// Timeline is an ordered sequence of chronological events.
type Timeline struct {
	Events  []TimelineEvent
	Title   *string
	Caption *string
}

func (Timeline) Type() ComponentType { return ComponentTypeTimeline }

// TableColumn describes one column of a DataTable.
type TableColumn struct {
	Header   string
	Key      string
	Sortable bool
	Align    string
}

// DataTable is a generic tabular component; rows are loosely-typed string
// maps keyed by column key, matching how the composer's LLM output arrives.
type DataTable struct {
	Columns []TableColumn
	Rows    []map[string]string
	Title   *string
	Caption *string
}

func (DataTable) Type() ComponentType { return ComponentTypeDataTable }

// ComparisonItem is one of the entities being compared (e.g. a party).
type ComparisonItem struct {
	Name        string
	Description *string
}

// ComparisonAttribute is one dimension of comparison, with one value per
// item, parallel to the Comparison's Items slice.
type ComparisonAttribute struct {
	Name   string
	Values []string
}

// Comparison lays out named items side by side across shared attributes.
type Comparison struct {
	Items      []ComparisonItem
	Attributes []ComparisonAttribute
	Title      *string
	Caption    *string
}

func (Comparison) Type() ComponentType { return ComponentTypeComparison }

// MemberProfile describes a single parliamentarian.
type MemberProfile struct {
	MemberID     string
	Name         string
	Party        string
	Constituency *string
	Roles        []string
	PhotoURL     *string
	Biography    *string
	ProfileURL   *string
}

// MemberProfiles is a collection of politician profiles.
type MemberProfiles struct {
	Members []MemberProfile
	Title   *string
	Caption *string
}

func (MemberProfiles) Type() ComponentType { return ComponentTypeMemberProfiles }

// VoteResult is the closed-set outcome of a vote.
type VoteResult string

const (
	VoteResultPassed   VoteResult = "passed"
	VoteResultRejected VoteResult = "rejected"
	VoteResultTied     VoteResult = "tied"
)

// PartyVote is one party's contribution to a vote tally.
type PartyVote struct {
	Party         string
	VotesFor      int
	VotesAgainst  int
	Abstentions   int
	NotVoting     int
}

// VotingBreakdown summarizes a parliamentary vote, overall and by party.
type VotingBreakdown struct {
	TotalFor         int
	TotalAgainst     int
	TotalAbstentions int
	PartyBreakdown   []PartyVote
	Title            *string
	Date             *string
	Result           *VoteResult
	Caption          *string
}

func (VotingBreakdown) Type() ComponentType { return ComponentTypeVotingBreakdown }
