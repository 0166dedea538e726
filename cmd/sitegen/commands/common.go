package commands

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/sitegen/internal/config"
	"git.home.luguber.info/inful/sitegen/internal/describe"
	serrors "git.home.luguber.info/inful/sitegen/internal/errors"
	"git.home.luguber.info/inful/sitegen/internal/metrics"
	"git.home.luguber.info/inful/sitegen/internal/site"
)

// Global context passed to subcommands if we need to share global state later.
type Global struct {
	Logger *slog.Logger
}

// CLI definition & global flags - used by commands that need access to root config.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"config.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build   BuildCmd   `cmd:"" help:"Run the full site build: pages, document scan, descriptions, listing"`
	Pages   PagesCmd   `cmd:"" help:"Generate HTML pages from the source tree only"`
	Listing ListingCmd `cmd:"" help:"Scan the document collection and regenerate the listing page only"`
	Serve   ServeCmd   `cmd:"" help:"Serve the generated site locally for development"`
	Init    InitCmd    `cmd:"" help:"Initialize a new configuration file"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

// newPipeline loads the config and wires a pipeline with the configured
// description provider. The returned closer releases provider resources
// (cache handles) and must be called after the run.
func newPipeline(configPath string, recorder metrics.Recorder) (*site.Pipeline, func() error, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}

	provider, closeProvider, err := describe.FromConfig(cfg.Describe)
	if err != nil {
		return nil, nil, serrors.Wrap(err, serrors.CategoryDescribe, serrors.SeverityFatal, "failed to configure description provider")
	}

	return site.NewPipeline(cfg, provider, recorder), closeProvider, nil
}
