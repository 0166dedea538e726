package commands

import (
	"context"
	"log/slog"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"git.home.luguber.info/inful/sitegen/internal/config"
	"git.home.luguber.info/inful/sitegen/internal/logfields"
	"git.home.luguber.info/inful/sitegen/internal/metrics"
	"git.home.luguber.info/inful/sitegen/internal/server"
)

// ServeCmd implements the 'serve' command.
type ServeCmd struct {
	Watch        bool          `short:"w" help:"Rebuild the site when source files change"`
	RebuildEvery time.Duration `name:"rebuild-every" help:"Rebuild the site on a fixed interval (e.g. 10m); zero disables"`
	Metrics      bool          `help:"Expose Prometheus metrics on /metrics"`
	NoBuild      bool          `name:"no-build" help:"Skip the initial build and serve the existing output"`
}

func (s *ServeCmd) Run(_ *Global, root *CLI) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	recorder := metrics.NewPrometheusRecorder(nil)

	pipeline, closeProvider, err := newPipeline(root.Config, recorder)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeProvider(); err != nil {
			slog.Warn("Failed to close description provider", logfields.Error(err))
		}
	}()

	cfg := pipeline.Config()
	if s.Metrics {
		cfg.Serve.Metrics = true
	}

	rebuild := func(ctx context.Context) error {
		_, err := pipeline.Run(ctx)
		return err
	}

	if !s.NoBuild {
		if _, err := pipeline.Run(ctx); err != nil {
			return err
		}
	}

	if s.Watch {
		roots := watchRoots(cfg)
		w, err := server.NewWatcher(roots, rebuild)
		if err != nil {
			return err
		}
		if err := w.Start(ctx); err != nil {
			return err
		}
		defer func() {
			if err := w.Stop(); err != nil {
				slog.Warn("Failed to stop watcher", logfields.Error(err))
			}
		}()
	}

	if s.RebuildEvery > 0 {
		sched, err := server.NewScheduler(rebuild)
		if err != nil {
			return err
		}
		if err := sched.Start(ctx, s.RebuildEvery); err != nil {
			return err
		}
		defer func() {
			if err := sched.Stop(); err != nil {
				slog.Warn("Failed to stop scheduler", logfields.Error(err))
			}
		}()
	}

	return server.New(cfg, recorder).Run(ctx)
}

// watchRoots lists the source locations whose changes should trigger a
// rebuild: the page sources, the master template's directory and the
// document collection.
func watchRoots(cfg *config.Config) []string {
	return []string{
		cfg.Pages.InputDir,
		filepath.Dir(cfg.Pages.Template),
		cfg.Docs.Root,
	}
}
