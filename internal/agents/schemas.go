package agents

// Extraction schemas, one per expected component type plus a generic
// fallback, grounded field-for-field on
// original_source/.../schemas.py's EXTRACTION_SCHEMAS mapping. Each embeds
// baseExtraction for the source_quotes/completeness/warnings fields every
// extraction carries regardless of component type.

type baseExtraction struct {
	SourceQuotes []string `json:"source_quotes"`
	Completeness float64  `json:"completeness"`
	Warnings     []string `json:"warnings"`
}

type textBlockExtraction struct {
	baseExtraction
	Title        string           `json:"title"`
	KeyPoints    []map[string]any `json:"key_points"`
	SummaryFocus string           `json:"summary_focus"`
}

type votingExtraction struct {
	baseExtraction
	BillName         string           `json:"bill_name"`
	VoteDate         string           `json:"vote_date"`
	Result           string           `json:"result"`
	VotesFor         int              `json:"votes_for"`
	VotesAgainst     int              `json:"votes_against"`
	TotalAbstentions int              `json:"total_abstentions"`
	PartyBreakdown   []map[string]any `json:"party_breakdown"`
}

type timelineEventExtraction struct {
	Date        string `json:"date"`
	Label       string `json:"label"`
	Description string `json:"description"`
	SourceQuote string `json:"source_quote"`
}

type timelineExtraction struct {
	baseExtraction
	Title  string                    `json:"title"`
	Events []timelineEventExtraction `json:"events"`
}

type comparisonAttributeExtraction struct {
	Name         string   `json:"name"`
	Values       []string `json:"values"`
	SourceQuotes []string `json:"source_quotes"`
}

type comparisonExtraction struct {
	baseExtraction
	Title      string                          `json:"title"`
	Items      []map[string]any                `json:"items"`
	Attributes []comparisonAttributeExtraction `json:"attributes"`
}

type chartDataPointExtraction struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

type chartSeriesExtraction struct {
	Name string                     `json:"name"`
	Data []chartDataPointExtraction `json:"data"`
}

type chartExtraction struct {
	baseExtraction
	ChartType  string                  `json:"chart_type"`
	Title      string                  `json:"title"`
	Series     []chartSeriesExtraction `json:"series"`
	XAxisLabel string                  `json:"x_axis_label"`
	YAxisLabel string                  `json:"y_axis_label"`
}

type dataTableExtraction struct {
	baseExtraction
	Title   string           `json:"title"`
	Columns []map[string]any `json:"columns"`
	Rows    []map[string]any `json:"rows"`
}

type memberExtraction struct {
	Name         string   `json:"name"`
	Party        string   `json:"party"`
	Constituency string   `json:"constituency"`
	Roles        []string `json:"roles"`
	SourceQuote  string   `json:"source_quote"`
}

type memberProfilesExtraction struct {
	baseExtraction
	Title   string             `json:"title"`
	Members []memberExtraction `json:"members"`
}

type noticeItemExtraction struct {
	Level       string `json:"level"`
	Title       string `json:"title"`
	Message     string `json:"message"`
	SourceQuote string `json:"source_quote"`
}

type noticeExtraction struct {
	baseExtraction
	Notices []noticeItemExtraction `json:"notices"`
}

type genericExtraction struct {
	baseExtraction
	Data map[string]any `json:"data"`
}
