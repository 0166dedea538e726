package commands

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
)

// PagesCmd implements the 'pages' command.
type PagesCmd struct{}

func (p *PagesCmd) Run(_ *Global, root *CLI) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	pipeline, closeProvider, err := newPipeline(root.Config, nil)
	if err != nil {
		return err
	}
	defer closeProvider() //nolint:errcheck

	report, err := pipeline.RunPages(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Generated %d pages\n", report.PagesWritten)
	return nil
}
