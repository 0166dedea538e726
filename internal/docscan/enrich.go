package docscan

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"git.home.luguber.info/inful/sitegen/internal/describe"
	"git.home.luguber.info/inful/sitegen/internal/logfields"
)

// Enrich fills entry descriptions via the provider, fanning out over entries
// with at most limit in-flight requests. Each request is independent; a
// provider failure leaves that entry's description empty, logs a warning and
// never affects the other entries or the build outcome. Returns the number
// of failed lookups. A nil provider is a no-op.
func Enrich(ctx context.Context, entries []Entry, provider describe.Provider, limit int) int {
	if provider == nil || len(entries) == 0 {
		return 0
	}
	if limit < 1 {
		limit = 1
	}

	failed := make([]bool, len(entries))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i := range entries {
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			entry := &entries[i]
			desc, err := provider.Describe(gctx, entry.RelPath, entry.Text)
			if err != nil {
				failed[i] = true
				slog.Warn("Description provider failed",
					logfields.Provider(provider.Name()),
					logfields.Document(entry.RelPath),
					logfields.Error(err))
				return nil
			}
			entry.Description = desc
			return nil
		})
	}
	_ = g.Wait() // workers never return errors

	n := 0
	for _, f := range failed {
		if f {
			n++
		}
	}
	return n
}
