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

// ListingCmd implements the 'listing' command.
type ListingCmd struct{}

func (l *ListingCmd) Run(_ *Global, root *CLI) error {
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

	report, err := pipeline.RunListing(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Listing regenerated from %d documents\n", report.Documents)
	if report.Outcome == site.OutcomeWarning {
		fmt.Printf("%d description lookups failed; affected entries have no description\n", report.DescribeFailures)
	}
	return nil
}
