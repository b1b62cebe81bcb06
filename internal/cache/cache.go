// Package cache defines the pipeline's result-cache contract (spec.md §6)
// and an in-memory TTL-based implementation, grounded on the teacher's
// sha256-based content hashing (ai/media/document/id/sha256.go) and its
// Config+validate construction idiom.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/AaronL1011/polly-ai/internal/rag"
)

// pipelineVersion is prefixed to every cache key so a change to the
// extraction/composition logic invalidates previously cached results
// without needing an explicit flush (SPEC_FULL.md §9's cache-key
// versioning note).
const pipelineVersion = "v1"

// Cache stores and retrieves pipeline results by query key (spec.md §6).
type Cache interface {
	Get(ctx context.Context, key string) (*rag.Result, bool, error)
	Set(ctx context.Context, key string, value *rag.Result, ttl time.Duration) error
	QueryKey(q rag.Query) string
}

// QueryKey builds the cache key shared by every Cache implementation:
// sha256(text + "|" + filters)[:16], prefixed with the pipeline version
// tag (SPEC_FULL.md §4.6).
func QueryKey(q rag.Query) string {
	var filters strings.Builder
	filters.WriteString(strings.Join(documentTypeStrings(q.Filters.DocumentTypes), ","))
	filters.WriteByte('|')
	filters.WriteString(q.Filters.DateFrom)
	filters.WriteByte('|')
	filters.WriteString(q.Filters.DateTo)
	filters.WriteByte('|')
	filters.WriteString(strings.Join(q.Filters.SourceNames, ","))
	filters.WriteByte('|')
	filters.WriteString(strings.Join(q.Filters.MemberIDs, ","))

	hasher := sha256.New()
	hasher.Write([]byte(q.Text))
	hasher.Write([]byte("|"))
	hasher.Write([]byte(filters.String()))
	digest := hex.EncodeToString(hasher.Sum(nil))

	return fmt.Sprintf("%s:%s", pipelineVersion, digest[:16])
}

func documentTypeStrings(types []rag.DocumentType) []string {
	out := make([]string, len(types))
	for i, t := range types {
		out[i] = string(t)
	}
	return out
}
