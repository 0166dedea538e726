package docscan

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flakyProvider fails for one specific document and succeeds for the rest.
type flakyProvider struct {
	failFor string

	mu       sync.Mutex
	inflight int
	peak     int
}

func (p *flakyProvider) Name() string { return "flaky" }

func (p *flakyProvider) Describe(_ context.Context, name, _ string) (string, error) {
	p.mu.Lock()
	p.inflight++
	if p.inflight > p.peak {
		p.peak = p.inflight
	}
	p.mu.Unlock()
	defer func() {
		p.mu.Lock()
		p.inflight--
		p.mu.Unlock()
	}()

	if name == p.failFor {
		return "", fmt.Errorf("model unavailable")
	}
	return "summary of " + name, nil
}

func makeEntries(n int) []Entry {
	entries := make([]Entry, n)
	for i := range entries {
		entries[i] = Entry{
			RelPath: fmt.Sprintf("cat/doc%02d.pdf", i),
			Text:    "some extracted text",
		}
	}
	return entries
}

func TestEnrichFailureIsIsolated(t *testing.T) {
	entries := makeEntries(10)
	provider := &flakyProvider{failFor: "cat/doc03.pdf"}

	failures := Enrich(context.Background(), entries, provider, 3)
	assert.Equal(t, 1, failures)

	for i, e := range entries {
		if e.RelPath == "cat/doc03.pdf" {
			assert.Empty(t, e.Description, "failed entry keeps empty description")
			continue
		}
		assert.Equal(t, "summary of "+e.RelPath, e.Description, "entry %d", i)
	}
}

func TestEnrichRespectsConcurrencyCap(t *testing.T) {
	entries := makeEntries(20)
	provider := &flakyProvider{}

	Enrich(context.Background(), entries, provider, 2)
	assert.LessOrEqual(t, provider.peak, 2)
}

func TestEnrichNilProvider(t *testing.T) {
	entries := makeEntries(3)
	assert.Zero(t, Enrich(context.Background(), entries, nil, 4))
	for _, e := range entries {
		assert.Empty(t, e.Description)
	}
}

func TestEnrichNoEntries(t *testing.T) {
	provider := &flakyProvider{}
	assert.Zero(t, Enrich(context.Background(), nil, provider, 4))
}

func TestEnrichCanceledContextLeavesEntriesAlone(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	entries := makeEntries(5)
	var called atomic.Int64
	provider := &countProvider{calls: &called}

	Enrich(ctx, entries, provider, 2)
	for _, e := range entries {
		assert.Empty(t, e.Description)
	}
}

type countProvider struct {
	calls *atomic.Int64
}

func (p *countProvider) Name() string { return "count" }

func (p *countProvider) Describe(ctx context.Context, name, _ string) (string, error) {
	p.calls.Add(1)
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return "d", nil
}

func TestEnrichEmptyTextYieldsEmptyDescription(t *testing.T) {
	entries := []Entry{{RelPath: "cat/blank.pdf", Text: ""}}
	provider := &flakyProvider{}

	failures := Enrich(context.Background(), entries, provider, 1)
	require.Zero(t, failures)
	assert.Equal(t, "summary of cat/blank.pdf", entries[0].Description)
}
