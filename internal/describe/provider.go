// Package describe produces one-sentence document descriptions. The core
// pipeline only sees the Provider interface; whether a description comes
// from a fixed excerpt rule or a remote model is invisible to callers, and
// every failure mode is normalized to "no description" at the scanner
// boundary.
package describe

import (
	"context"
	"strings"

	"git.home.luguber.info/inful/sitegen/internal/config"
)

// Provider yields a short description for a document given its extracted
// text. Implementations must be safe for concurrent use: the scanner fans
// out over entries with a bounded worker count.
type Provider interface {
	// Name identifies the provider in logs.
	Name() string
	// Describe returns a one-sentence description for the named document.
	// An empty string with nil error means "nothing to say".
	Describe(ctx context.Context, name, text string) (string, error)
}

// Excerpt is the deterministic rule-based provider: the first N words of the
// document text followed by an ellipsis. Always available; the default.
type Excerpt struct {
	Words int
}

func (Excerpt) Name() string { return "excerpt" }

func (e Excerpt) Describe(_ context.Context, _ string, text string) (string, error) {
	words := strings.Fields(text)
	if len(words) == 0 {
		return "", nil
	}
	n := e.Words
	if n <= 0 {
		n = 20
	}
	if len(words) > n {
		words = words[:n]
	}
	return strings.Join(words, " ") + " ...", nil
}

// FromConfig constructs the configured provider chain. The returned closer
// releases cache resources; it is a no-op when no cache is configured. A nil
// Provider is returned for the "none" mode.
func FromConfig(cfg config.DescribeConfig) (Provider, func() error, error) {
	noop := func() error { return nil }

	var inner Provider
	switch cfg.Provider {
	case config.ProviderNone:
		return nil, noop, nil
	case config.ProviderOpenAI:
		inner = NewOpenAI(cfg.Endpoint, cfg.Model, cfg.APIKey, cfg.TimeoutDuration())
	default:
		inner = Excerpt{Words: cfg.ExcerptWords}
	}

	if cfg.CachePath == "" {
		return inner, noop, nil
	}
	cache, err := NewCache(cfg.CachePath, inner)
	if err != nil {
		return nil, noop, err
	}
	return cache, cache.Close, nil
}
