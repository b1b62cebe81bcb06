// Package rag holds the component data model for the agentic RAG query
// pipeline: queries, intents, chunks, the eight typed UI components, the
// layout they're arranged into, and the constraint validator that gates
// which parsed components are admitted into a response.
package rag

import (
	"maps"
	"slices"
)

// DocumentType is a closed-set classification of a source document.
type DocumentType string

const (
	DocumentTypeBill    DocumentType = "bill"
	DocumentTypeHansard DocumentType = "hansard"
	DocumentTypeVote    DocumentType = "vote"
	DocumentTypeMember  DocumentType = "member"
	DocumentTypeReport  DocumentType = "report"
	DocumentTypeOther   DocumentType = "other"
)

// QueryFilters narrows retrieval to a subset of the corpus. All fields are
// optional; a zero-value QueryFilters applies no restriction.
type QueryFilters struct {
	DocumentTypes []DocumentType
	DateFrom      string // YYYY-MM-DD, inclusive
	DateTo        string // YYYY-MM-DD, inclusive
	SourceNames   []string
	MemberIDs     []string
}

// Query is the immutable user-facing input to the pipeline.
type Query struct {
	Text      string
	SessionID string
	Filters   QueryFilters
}

// NewQuery constructs a Query from free text and optional filters.
func NewQuery(text string, filters ...QueryFilters) Query {
	q := Query{Text: text}
	if len(filters) > 0 {
		q.Filters = filters[0]
	}
	return q
}

// Clone returns a deep copy, matching the teacher's Query.Clone semantics
// (ai/rag/query.go) so callers can mutate a copy without affecting the
// original across pipeline stages.
func (q Query) Clone() Query {
	return Query{
		Text:      q.Text,
		SessionID: q.SessionID,
		Filters: QueryFilters{
			DocumentTypes: slices.Clone(q.Filters.DocumentTypes),
			DateFrom:      q.Filters.DateFrom,
			DateTo:        q.Filters.DateTo,
			SourceNames:   slices.Clone(q.Filters.SourceNames),
			MemberIDs:     slices.Clone(q.Filters.MemberIDs),
		},
	}
}

// Chunk is a retrieved text span with its originating document and metadata.
// Its shape is opaque to the pipeline's contract beyond these fields.
type Chunk struct {
	ID         string
	DocumentID string
	Text       string
	Position   int
	Metadata   map[string]string
}

// MetadataClone returns a shallow copy of the chunk's metadata map, useful
// when a caller needs to mutate metadata without aliasing the original.
func (c Chunk) MetadataClone() map[string]string {
	return maps.Clone(c.Metadata)
}
