// Package site orchestrates the build pipeline: page generation, document
// scanning, description enrichment and listing emission run as discrete
// stages with per-stage timing and classification.
package site

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"git.home.luguber.info/inful/sitegen/internal/config"
	"git.home.luguber.info/inful/sitegen/internal/describe"
	"git.home.luguber.info/inful/sitegen/internal/docscan"
	"git.home.luguber.info/inful/sitegen/internal/listing"
	"git.home.luguber.info/inful/sitegen/internal/logfields"
	"git.home.luguber.info/inful/sitegen/internal/metrics"
	"git.home.luguber.info/inful/sitegen/internal/pages"
)

// Stage names, in execution order.
const (
	StagePages   = "pages"
	StageScan    = "scan"
	StageEnrich  = "enrich"
	StageListing = "listing"
)

// StageErrorKind enumerates structured stage error categories.
type StageErrorKind string

const (
	StageErrorFatal    StageErrorKind = "fatal"    // Build must abort.
	StageErrorWarning  StageErrorKind = "warning"  // Non-fatal; record and continue.
	StageErrorCanceled StageErrorKind = "canceled" // Context cancellation.
)

// StageError is a structured error carrying category and underlying cause.
type StageError struct {
	Kind  StageErrorKind
	Stage string
	Err   error
}

func (e *StageError) Error() string { return fmt.Sprintf("%s stage %s: %v", e.Kind, e.Stage, e.Err) }
func (e *StageError) Unwrap() error { return e.Err }

// stage is a discrete unit of work in the site build.
type stage struct {
	name string
	fn   func(ctx context.Context, st *buildState) error
}

// buildState carries mutable state across stages.
type buildState struct {
	entries          []docscan.Entry
	pagesWritten     int
	describeFailures int
}

// Pipeline runs the configured build stages.
type Pipeline struct {
	cfg      *config.Config
	provider describe.Provider
	recorder metrics.Recorder
}

// Config returns the configuration the pipeline was built with.
func (p *Pipeline) Config() *config.Config { return p.cfg }

// NewPipeline creates a pipeline. provider may be nil (no enrichment);
// recorder may be nil (no metrics).
func NewPipeline(cfg *config.Config, provider describe.Provider, recorder metrics.Recorder) *Pipeline {
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	return &Pipeline{cfg: cfg, provider: provider, recorder: recorder}
}

// Run executes the full build: pages, scan, enrich, listing.
func (p *Pipeline) Run(ctx context.Context) (*Report, error) {
	return p.run(ctx, []stage{
		{StagePages, p.stagePages},
		{StageScan, p.stageScan},
		{StageEnrich, p.stageEnrich},
		{StageListing, p.stageListing},
	})
}

// RunPages executes page generation only.
func (p *Pipeline) RunPages(ctx context.Context) (*Report, error) {
	return p.run(ctx, []stage{{StagePages, p.stagePages}})
}

// RunListing executes scan, enrich and listing only. Fails with
// TemplateNotFound when the page skeleton (and with it the text template)
// has not been generated yet.
func (p *Pipeline) RunListing(ctx context.Context) (*Report, error) {
	return p.run(ctx, []stage{
		{StageScan, p.stageScan},
		{StageEnrich, p.stageEnrich},
		{StageListing, p.stageListing},
	})
}

// run executes stages in order, recording timing and stopping on the first
// fatal error. Warnings are recorded and execution continues.
func (p *Pipeline) run(ctx context.Context, stages []stage) (*Report, error) {
	report := newReport()
	st := &buildState{}
	start := time.Now()

	var fatal error
	for _, s := range stages {
		select {
		case <-ctx.Done():
			se := &StageError{Kind: StageErrorCanceled, Stage: s.name, Err: ctx.Err()}
			report.recordStage(s.name, 0, se, p.recorder)
			fatal = se
		default:
		}
		if fatal != nil {
			break
		}

		t0 := time.Now()
		err := s.fn(ctx, st)
		dur := time.Since(t0)

		var se *StageError
		if err != nil && !errors.As(err, &se) {
			kind := StageErrorFatal
			if ctx.Err() != nil {
				kind = StageErrorCanceled
			}
			se = &StageError{Kind: kind, Stage: s.name, Err: err}
		}
		report.recordStage(s.name, dur, se, p.recorder)

		if se != nil && se.Kind != StageErrorWarning {
			fatal = se
		}
	}

	report.finish(time.Since(start), st, fatal)
	p.recorder.ObserveBuildDuration(report.Duration)
	p.recorder.IncBuildOutcome(report.Outcome)

	if p.cfg.Report.Path != "" {
		if err := report.Persist(p.cfg.Report.Path); err != nil {
			slog.Warn("Failed to persist build report", logfields.Path(p.cfg.Report.Path), logfields.Error(err))
		}
	}

	if fatal != nil {
		return report, fatal
	}
	return report, nil
}

func (p *Pipeline) stagePages(ctx context.Context, st *buildState) error {
	gen := pages.NewGenerator(
		p.cfg.Pages.InputDir,
		p.cfg.Pages.OutputDir,
		p.cfg.Pages.Template,
		p.cfg.Site.Title,
	)
	n, err := gen.Generate(ctx)
	st.pagesWritten = n
	if err != nil {
		return err
	}
	p.recorder.AddPagesWritten(n)
	return nil
}

func (p *Pipeline) stageScan(ctx context.Context, st *buildState) error {
	scanner := docscan.NewScanner(p.cfg.Docs.Root, p.cfg.Docs.Names)
	entries, err := scanner.Scan(ctx)
	if err != nil {
		return err
	}
	st.entries = entries
	p.recorder.AddDocumentsScanned(len(entries))
	return nil
}

func (p *Pipeline) stageEnrich(ctx context.Context, st *buildState) error {
	if p.provider == nil {
		return nil
	}
	failures := docscan.Enrich(ctx, st.entries, p.provider, p.cfg.Describe.Concurrency)
	st.describeFailures = failures
	for i := 0; i < len(st.entries)-failures; i++ {
		p.recorder.IncDescribeResult(true)
	}
	for i := 0; i < failures; i++ {
		p.recorder.IncDescribeResult(false)
	}
	if failures > 0 {
		// Best-effort enrichment: degraded, not failed.
		return &StageError{
			Kind:  StageErrorWarning,
			Stage: StageEnrich,
			Err:   fmt.Errorf("%d of %d descriptions unavailable", failures, len(st.entries)),
		}
	}
	return nil
}

func (p *Pipeline) stageListing(ctx context.Context, st *buildState) error {
	builder := listing.NewBuilder(
		p.cfg.Listing.Template,
		p.cfg.Listing.Output,
		p.cfg.Docs.WebPrefix,
	)
	return builder.Build(ctx, st.entries)
}
