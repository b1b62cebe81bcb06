package rag

import "strings"

// RawLayout is the composer LLM's raw JSON response shape: a title,
// optional subtitle, and sections of raw components. Grounded on
// adapters/llm/components.py's RESPONSE_SCHEMA.
type RawLayout struct {
	Title    string       `json:"title"`
	Subtitle string       `json:"subtitle,omitempty"`
	Sections []RawSection `json:"sections"`
}

// RawSection is one section of a RawLayout, before its components have been
// parsed and validated.
type RawSection struct {
	Title      string         `json:"title,omitempty"`
	Layout     string         `json:"layout,omitempty"`
	Components []RawComponent `json:"components"`
}

// ParseComponent normalizes a raw component's type, validates it against
// §3.2's per-type constraints, and on success builds the typed Content
// value and wraps it in a fresh Component envelope. It returns ok=false
// when the type is unrecognized or fails validation, mirroring
// components.py's parse_component returning None.
func ParseComponent(raw RawComponent) (Component, bool) {
	typ, ok := NormalizeComponentType(raw.Type)
	if !ok {
		return Component{}, false
	}

	validation := Validate(typ, raw)
	if !validation.Valid {
		return Component{}, false
	}

	var size *ComponentSize
	if raw.Size != "" {
		s := ComponentSize(raw.Size)
		size = &s
	}

	content, ok := buildContent(typ, raw)
	if !ok {
		return Component{}, false
	}

	return NewComponent(content, size), true
}

func buildContent(typ ComponentType, raw RawComponent) (Content, bool) {
	switch typ {
	case ComponentTypeTextBlock:
		content := strings.TrimSpace(raw.Content)
		return TextBlock{
			Content: content,
			Title:   optionalString(raw.Title),
			Format:  TextFormatMarkdown,
		}, true

	case ComponentTypeNotice:
		level := NoticeLevelInfo
		switch raw.Level {
		case "warning":
			level = NoticeLevelWarning
		case "important":
			level = NoticeLevelImportant
		}
		return Notice{
			Message: strings.TrimSpace(raw.Message),
			Level:   level,
			Title:   optionalString(raw.Title),
		}, true

	case ComponentTypeChart:
		return buildChart(raw)

	case ComponentTypeTimeline:
		return buildTimeline(raw)

	case ComponentTypeDataTable:
		return buildDataTable(raw)

	case ComponentTypeComparison:
		return buildComparison(raw)

	case ComponentTypeMemberProfiles:
		return buildMemberProfiles(raw)

	case ComponentTypeVotingBreakdown:
		return buildVotingBreakdown(raw), true
	}
	return nil, false
}

func buildChart(raw RawComponent) (Content, bool) {
	chartType := ChartType(raw.ChartType)
	switch chartType {
	case ChartTypeBar, ChartTypeLine, ChartTypePie, ChartTypeDoughnut, ChartTypeHorizontalBar, ChartTypeStackedBar:
	default:
		chartType = ChartTypeBar
	}

	var series []ChartSeries
	for _, s := range raw.Series {
		var points []ChartDataPoint
		for _, d := range s.Data {
			value, _ := coerceNumber(d.Value)
			points = append(points, ChartDataPoint{
				Label:    d.Label,
				Value:    value,
				Category: optionalString(d.Category),
			})
		}
		if len(points) > 0 {
			series = append(series, ChartSeries{Name: s.Name, Data: points})
		}
	}
	if len(series) == 0 {
		return nil, false
	}

	return Chart{
		ChartType:  chartType,
		Series:     series,
		Title:      optionalString(raw.Title),
		XAxisLabel: optionalString(raw.XAxisLabel),
		YAxisLabel: optionalString(raw.YAxisLabel),
		Caption:    optionalString(raw.Caption),
	}, true
}

func buildTimeline(raw RawComponent) (Content, bool) {
	var events []TimelineEvent
	for _, e := range raw.Events {
		if strings.TrimSpace(e.Date) == "" && strings.TrimSpace(e.Label) == "" {
			continue
		}
		significance := e.Significance
		if significance == 0 {
			significance = 3
		}
		events = append(events, TimelineEvent{
			Date:         e.Date,
			Label:        e.Label,
			Description:  optionalString(e.Description),
			ReferenceURL: optionalString(e.ReferenceURL),
			Significance: significance,
		})
	}
	if len(events) == 0 {
		return nil, false
	}

	return Timeline{
		Events: events,
		Title:  optionalString(raw.Title),
	}, true
}

func buildDataTable(raw RawComponent) (Content, bool) {
	var columns []TableColumn
	for _, c := range raw.Columns {
		if strings.TrimSpace(c.Header) == "" && strings.TrimSpace(c.Key) == "" {
			continue
		}
		align := c.Align
		if align == "" {
			align = "left"
		}
		columns = append(columns, TableColumn{
			Header:   c.Header,
			Key:      c.Key,
			Sortable: c.Sortable,
			Align:    align,
		})
	}

	var rows []map[string]string
	for _, r := range raw.Rows {
		if len(r) > 0 {
			rows = append(rows, r)
		}
	}

	if len(columns) == 0 || len(rows) == 0 {
		return nil, false
	}

	return DataTable{
		Columns: columns,
		Rows:    rows,
		Title:   optionalString(raw.Title),
		Caption: optionalString(raw.Caption),
	}, true
}

func buildComparison(raw RawComponent) (Content, bool) {
	var items []ComparisonItem
	for _, i := range raw.Items {
		if strings.TrimSpace(i.Name) == "" {
			continue
		}
		items = append(items, ComparisonItem{Name: i.Name, Description: optionalString(i.Description)})
	}

	var attributes []ComparisonAttribute
	for _, a := range raw.Attributes {
		if strings.TrimSpace(a.Name) == "" || len(a.Values) == 0 {
			continue
		}
		attributes = append(attributes, ComparisonAttribute{Name: a.Name, Values: a.Values})
	}

	if len(items) == 0 || len(attributes) == 0 {
		return nil, false
	}

	return Comparison{
		Items:      items,
		Attributes: attributes,
		Title:      optionalString(raw.Title),
		Caption:    optionalString(raw.Caption),
	}, true
}

func buildMemberProfiles(raw RawComponent) (Content, bool) {
	var members []MemberProfile
	for _, m := range raw.Members {
		if strings.TrimSpace(m.Name) == "" {
			continue
		}
		members = append(members, MemberProfile{
			MemberID:     m.MemberID,
			Name:         m.Name,
			Party:        m.Party,
			Constituency: optionalString(m.Constituency),
			Roles:        m.Roles,
			PhotoURL:     optionalString(m.PhotoURL),
			Biography:    optionalString(m.Biography),
			ProfileURL:   optionalString(m.ProfileURL),
		})
	}
	if len(members) == 0 {
		return nil, false
	}

	return MemberProfiles{
		Members: members,
		Title:   optionalString(raw.Title),
		Caption: optionalString(raw.Caption),
	}, true
}

func buildVotingBreakdown(raw RawComponent) Content {
	var partyBreakdown []PartyVote
	for _, p := range raw.PartyBreakdown {
		if strings.TrimSpace(p.Party) == "" {
			continue
		}
		partyBreakdown = append(partyBreakdown, PartyVote{
			Party:        p.Party,
			VotesFor:     p.VotesFor,
			VotesAgainst: p.VotesAgainst,
			Abstentions:  p.Abstentions,
			NotVoting:    p.NotVoting,
		})
	}

	var result *VoteResult
	if raw.Result != "" {
		r := VoteResult(raw.Result)
		result = &r
	}

	return VotingBreakdown{
		TotalFor:         raw.TotalFor,
		TotalAgainst:     raw.TotalAgainst,
		TotalAbstentions: raw.TotalAbstentions,
		PartyBreakdown:   partyBreakdown,
		Title:            optionalString(raw.Title),
		Date:             optionalString(raw.Date),
		Result:           result,
		Caption:          optionalString(raw.Caption),
	}
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
