package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"git.home.luguber.info/inful/sitegen/internal/logfields"
	"git.home.luguber.info/inful/sitegen/internal/site"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct{}

func (b *BuildCmd) Run(_ *Global, root *CLI) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	pipeline, closeProvider, err := newPipeline(root.Config, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeProvider(); err != nil {
			slog.Warn("Failed to close description provider", logfields.Error(err))
		}
	}()

	fmt.Println("Starting site build")

	report, err := pipeline.Run(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Build %s: %d pages, %d documents\n", report.Outcome, report.PagesWritten, report.Documents)
	if report.Outcome == site.OutcomeWarning {
		fmt.Printf("%d description lookups failed; affected entries have no description\n", report.DescribeFailures)
	}
	return nil
}
