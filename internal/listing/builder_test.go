package listing

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitegen/internal/docscan"
	serrors "git.home.luguber.info/inful/sitegen/internal/errors"
)

func buildFixture(t *testing.T, tmpl string) (*Builder, string) {
	t.Helper()
	dir := t.TempDir()
	tmplPath := filepath.Join(dir, "text.template.html")
	outPath := filepath.Join(dir, "text.html")
	require.NoError(t, os.WriteFile(tmplPath, []byte(tmpl), 0o644))
	return NewBuilder(tmplPath, outPath, "/assets/public_doc"), outPath
}

func readOut(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestBuildGroupsByCategory(t *testing.T) {
	builder, outPath := buildFixture(t, "<div>{public_doc_content}</div>")

	entries := []docscan.Entry{
		{RelPath: "calc/hw1.pdf", Category: "calc", Title: "hw1"},
		{RelPath: "calc/hw2.pdf", Category: "calc", Title: "hw2"},
		{RelPath: "study_notes/ma5232/main.pdf", Category: "study_notes", Title: "ma5232"},
	}

	require.NoError(t, builder.Build(context.Background(), entries))
	out := readOut(t, outPath)

	assert.Contains(t, out, "<h2>Calc</h2>")
	assert.Contains(t, out, "<h2>Study Notes</h2>")
	assert.Contains(t, out, `<a href="/assets/public_doc/calc/hw1.pdf">hw1</a>`)
	assert.Contains(t, out, `<a href="/assets/public_doc/study_notes/ma5232/main.pdf">ma5232</a>`)

	// Category heading order follows entry order (the scanner's fixed sort).
	assert.Less(t, strings.Index(out, "<h2>Calc</h2>"), strings.Index(out, "<h2>Study Notes</h2>"))
}

func TestBuildIncludesDescriptionsAndDates(t *testing.T) {
	builder, outPath := buildFixture(t, "{public_doc_content}")

	mod := time.Date(2023, time.January, 15, 10, 0, 0, 0, time.UTC)
	entries := []docscan.Entry{
		{RelPath: "calc/hw1.pdf", Category: "calc", Title: "hw1", Description: "Calculus homework.", ModTime: mod},
		{RelPath: "calc/hw2.pdf", Category: "calc", Title: "hw2"},
	}

	require.NoError(t, builder.Build(context.Background(), entries))
	out := readOut(t, outPath)

	assert.Contains(t, out, "(last compiled 15 Jan 2023)")
	assert.Contains(t, out, "(Calculus homework.)")

	// The entry without a description has no annotation block.
	assert.Equal(t, 1, strings.Count(out, "<br>"))
}

func TestBuildEscapesHTMLInTitlesAndDescriptions(t *testing.T) {
	builder, outPath := buildFixture(t, "{public_doc_content}")

	entries := []docscan.Entry{
		{RelPath: "x/a.pdf", Category: "x", Title: "a <b> title", Description: "uses <script>"},
	}

	require.NoError(t, builder.Build(context.Background(), entries))
	out := readOut(t, outPath)

	assert.Contains(t, out, "a &lt;b&gt; title")
	assert.Contains(t, out, "uses &lt;script&gt;")
	assert.NotContains(t, out, "<script>")
}

func TestBuildContentPlaceholderAlias(t *testing.T) {
	builder, outPath := buildFixture(t, "<main>{content}</main>")

	entries := []docscan.Entry{{RelPath: "a.pdf", Category: "uncategorized", Title: "a"}}
	require.NoError(t, builder.Build(context.Background(), entries))
	assert.Contains(t, readOut(t, outPath), "<main><h2>Uncategorized</h2>")
}

func TestBuildMissingTemplate(t *testing.T) {
	dir := t.TempDir()
	builder := NewBuilder(filepath.Join(dir, "absent.html"), filepath.Join(dir, "out.html"), "/docs")

	err := builder.Build(context.Background(), nil)
	require.Error(t, err)
	assert.True(t, serrors.IsCategory(err, serrors.CategoryTemplate))
}

func TestBuildEmptyEntries(t *testing.T) {
	builder, outPath := buildFixture(t, "<div>{public_doc_content}</div>")
	require.NoError(t, builder.Build(context.Background(), nil))
	assert.Equal(t, "<div></div>", readOut(t, outPath))
}

func TestBuildOverwritesExistingOutput(t *testing.T) {
	builder, outPath := buildFixture(t, "{public_doc_content}")
	require.NoError(t, os.WriteFile(outPath, []byte("stale"), 0o644))

	entries := []docscan.Entry{{RelPath: "a.pdf", Category: "uncategorized", Title: "a"}}
	require.NoError(t, builder.Build(context.Background(), entries))
	assert.NotContains(t, readOut(t, outPath), "stale")
}
