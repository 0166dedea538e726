package site

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitegen/internal/config"
	serrors "git.home.luguber.info/inful/sitegen/internal/errors"
)

// testConfig builds a config rooted in a temp directory with a minimal site
// layout: one master template, one regular page, the text template page and
// a document root with two PDFs.
func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()

	write := func(rel, content string) {
		t.Helper()
		path := filepath.Join(dir, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}

	write("src/template.html", "<html><title>{title}</title>{content}</html>")
	write("src/pages/index.html", "<h1>Home</h1>")
	write("src/pages/posts/text.template.html", "<ul>{public_doc_content}</ul>")
	write("docs/assets/public_doc/calc/hw1.pdf", "%PDF-1.4 stub")
	write("docs/assets/public_doc/readme.pdf", "%PDF-1.4 stub")

	cfg := &config.Config{}
	cfg.Site.Title = "Test Site"
	cfg.Pages.InputDir = filepath.Join(dir, "src", "pages")
	cfg.Pages.OutputDir = filepath.Join(dir, "docs", "pages")
	cfg.Pages.Template = filepath.Join(dir, "src", "template.html")
	cfg.Docs.Root = filepath.Join(dir, "docs", "assets", "public_doc")
	cfg.Docs.WebPrefix = "/assets/public_doc"
	cfg.Listing.Template = filepath.Join(dir, "docs", "pages", "posts", "text.template.html")
	cfg.Listing.Output = filepath.Join(dir, "docs", "pages", "posts", "text.html")
	cfg.ApplyDefaults()
	return cfg
}

type fixedProvider struct{ failFor string }

func (p fixedProvider) Name() string { return "fixed" }

func (p fixedProvider) Describe(_ context.Context, name, _ string) (string, error) {
	if name == p.failFor {
		return "", fmt.Errorf("unavailable")
	}
	return "about " + name, nil
}

func TestPipelineFullRun(t *testing.T) {
	cfg := testConfig(t)
	p := NewPipeline(cfg, fixedProvider{}, nil)

	report, err := p.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, OutcomeSuccess, report.Outcome)
	assert.Equal(t, 2, report.PagesWritten)
	assert.Equal(t, 2, report.Documents)
	assert.NotEmpty(t, report.RunID)

	out, err := os.ReadFile(cfg.Listing.Output)
	require.NoError(t, err)
	assert.Contains(t, string(out), "<h2>Calc</h2>")
	assert.Contains(t, string(out), "<h2>Uncategorized</h2>")
	assert.Contains(t, string(out), "(about calc/hw1.pdf)")
}

func TestPipelineListingRequiresPagesFirst(t *testing.T) {
	cfg := testConfig(t)
	p := NewPipeline(cfg, nil, nil)

	// Listing before pages: the text template page does not exist yet.
	report, err := p.RunListing(context.Background())
	require.Error(t, err)
	assert.True(t, serrors.IsCategory(err, serrors.CategoryTemplate))
	assert.Equal(t, OutcomeFailed, report.Outcome)

	// After page generation the listing run succeeds.
	_, err = p.RunPages(context.Background())
	require.NoError(t, err)
	_, err = p.RunListing(context.Background())
	require.NoError(t, err)
}

func TestPipelineEnrichmentFailureIsWarning(t *testing.T) {
	cfg := testConfig(t)
	p := NewPipeline(cfg, fixedProvider{failFor: "calc/hw1.pdf"}, nil)

	report, err := p.Run(context.Background())
	require.NoError(t, err, "enrichment failures must not fail the build")

	assert.Equal(t, OutcomeWarning, report.Outcome)
	assert.Equal(t, 1, report.DescribeFailures)
	assert.Equal(t, "warning", report.StageResults[StageEnrich])

	// The failed entry appears without a description, the other with one.
	out, err := os.ReadFile(cfg.Listing.Output)
	require.NoError(t, err)
	assert.NotContains(t, string(out), "(about calc/hw1.pdf)")
	assert.Contains(t, string(out), "(about readme.pdf)")
}

func TestPipelineMissingPagesInputFails(t *testing.T) {
	cfg := testConfig(t)
	cfg.Pages.InputDir = filepath.Join(cfg.Pages.InputDir, "missing")
	p := NewPipeline(cfg, nil, nil)

	report, err := p.Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, OutcomeFailed, report.Outcome)
	assert.Equal(t, "fatal", report.StageResults[StagePages])
	// Later stages never ran.
	assert.NotContains(t, report.StageResults, StageListing)
}

func TestPipelineCanceledContext(t *testing.T) {
	cfg := testConfig(t)
	p := NewPipeline(cfg, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := p.Run(ctx)
	require.Error(t, err)
	assert.Equal(t, OutcomeCanceled, report.Outcome)
}

func TestPipelinePersistsReport(t *testing.T) {
	cfg := testConfig(t)
	cfg.Report.Path = filepath.Join(t.TempDir(), "report.json")
	p := NewPipeline(cfg, nil, nil)

	_, err := p.Run(context.Background())
	require.NoError(t, err)

	data, err := os.ReadFile(cfg.Report.Path)
	require.NoError(t, err)

	var persisted Report
	require.NoError(t, json.Unmarshal(data, &persisted))
	assert.Equal(t, OutcomeSuccess, persisted.Outcome)
	assert.Equal(t, 2, persisted.PagesWritten)
	assert.Contains(t, persisted.StageDurationsMS, StagePages)
}

func TestPipelineIdempotentRebuild(t *testing.T) {
	cfg := testConfig(t)
	p := NewPipeline(cfg, nil, nil)

	_, err := p.Run(context.Background())
	require.NoError(t, err)
	first, err := os.ReadFile(filepath.Join(cfg.Pages.OutputDir, "index.html"))
	require.NoError(t, err)
	firstListing, err := os.ReadFile(cfg.Listing.Output)
	require.NoError(t, err)

	_, err = p.Run(context.Background())
	require.NoError(t, err)
	second, err := os.ReadFile(filepath.Join(cfg.Pages.OutputDir, "index.html"))
	require.NoError(t, err)
	secondListing, err := os.ReadFile(cfg.Listing.Output)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, firstListing, secondListing)
}
