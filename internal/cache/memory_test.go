package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AaronL1011/polly-ai/internal/rag"
)

func TestMemoryGetSet(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	query := rag.NewQuery("how did the vote go?")
	key := m.QueryKey(query)

	_, ok, err := m.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)

	value := &rag.Result{}
	require.NoError(t, m.Set(ctx, key, value, time.Minute))

	got, ok, err := m.Get(ctx, key)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Same(t, value, got)
}

func TestMemoryExpiresEntries(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	key := "k"

	require.NoError(t, m.Set(ctx, key, &rag.Result{}, -time.Second))

	_, ok, err := m.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok, "entry with a negative ttl should already be expired")
}

func TestQueryKeyIsStableAndFilterSensitive(t *testing.T) {
	base := rag.NewQuery("clean energy bill")
	filtered := rag.NewQuery("clean energy bill", rag.QueryFilters{DocumentTypes: []rag.DocumentType{rag.DocumentTypeBill}})

	assert.Equal(t, QueryKey(base), QueryKey(base))
	assert.NotEqual(t, QueryKey(base), QueryKey(filtered))
}
