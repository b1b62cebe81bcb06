package rag

// SectionLayout controls how a section's components are arranged.
type SectionLayout string

const (
	SectionLayoutStack        SectionLayout = "stack"
	SectionLayoutGrid         SectionLayout = "grid"
	SectionLayoutTwoColumn    SectionLayout = "two-column"
	SectionLayoutThreeColumn  SectionLayout = "three-column"
)

// Section groups a set of component ids under an optional title and layout.
type Section struct {
	ComponentIDs []string
	Title        *string
	Layout       *SectionLayout
}

// Layout is the top-level arrangement of sections in a composed response.
type Layout struct {
	Sections []Section
	Title    *string
	Subtitle *string
}

// ResolveSections drops any section whose ComponentIDs no longer resolve to
// an entry in known (the response's final component list), per spec.md
// §3.1's Layout invariant: "sections with no resolvable ids are dropped."
func ResolveSections(sections []Section, known []Component) []Section {
	present := make(map[string]bool, len(known))
	for _, c := range known {
		present[c.ID] = true
	}

	resolved := make([]Section, 0, len(sections))
	for _, s := range sections {
		ids := make([]string, 0, len(s.ComponentIDs))
		for _, id := range s.ComponentIDs {
			if present[id] {
				ids = append(ids, id)
			}
		}
		if len(ids) == 0 {
			continue
		}
		s.ComponentIDs = ids
		resolved = append(resolved, s)
	}
	return resolved
}
