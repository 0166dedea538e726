package describe

import (
	"context"
	"fmt"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingProvider records how often it is asked.
type countingProvider struct {
	calls atomic.Int64
	fail  bool
}

func (p *countingProvider) Name() string { return "counting" }

func (p *countingProvider) Describe(_ context.Context, name, _ string) (string, error) {
	p.calls.Add(1)
	if p.fail {
		return "", fmt.Errorf("provider down")
	}
	return "description of " + name, nil
}

func TestCacheHitSkipsInnerProvider(t *testing.T) {
	inner := &countingProvider{}
	cache, err := NewCache(":memory:", inner)
	require.NoError(t, err)
	defer func() { _ = cache.Close() }()

	ctx := context.Background()
	first, err := cache.Describe(ctx, "calc/hw1.pdf", "limits and derivatives")
	require.NoError(t, err)
	second, err := cache.Describe(ctx, "calc/hw1.pdf", "limits and derivatives")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int64(1), inner.calls.Load())
}

func TestCacheMissOnChangedText(t *testing.T) {
	inner := &countingProvider{}
	cache, err := NewCache(":memory:", inner)
	require.NoError(t, err)
	defer func() { _ = cache.Close() }()

	ctx := context.Background()
	_, err = cache.Describe(ctx, "doc.pdf", "version one")
	require.NoError(t, err)
	_, err = cache.Describe(ctx, "doc.pdf", "version two")
	require.NoError(t, err)

	assert.Equal(t, int64(2), inner.calls.Load())
}

func TestCachePropagatesProviderError(t *testing.T) {
	inner := &countingProvider{fail: true}
	cache, err := NewCache(":memory:", inner)
	require.NoError(t, err)
	defer func() { _ = cache.Close() }()

	_, err = cache.Describe(context.Background(), "doc.pdf", "text")
	require.Error(t, err)
}

func TestCachePersistsAcrossReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "describe.db")
	ctx := context.Background()

	inner := &countingProvider{}
	cache, err := NewCache(dbPath, inner)
	require.NoError(t, err)
	_, err = cache.Describe(ctx, "doc.pdf", "stable text")
	require.NoError(t, err)
	require.NoError(t, cache.Close())

	inner2 := &countingProvider{}
	cache2, err := NewCache(dbPath, inner2)
	require.NoError(t, err)
	defer func() { _ = cache2.Close() }()

	// Same name+text from a fresh process does not re-ask the provider.
	desc, err := cache2.Describe(ctx, "doc.pdf", "stable text")
	require.NoError(t, err)
	assert.Equal(t, "description of doc.pdf", desc)
	assert.Equal(t, int64(0), inner2.calls.Load())
}
