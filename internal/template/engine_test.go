package template

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderRoundTrip(t *testing.T) {
	tmpl := "<html><head><title>{title}</title></head><body>{content}</body></html>"
	out, err := Render(tmpl, map[string]string{"title": "T", "content": "C"})
	require.NoError(t, err)
	assert.Equal(t, "<html><head><title>T</title></head><body>C</body></html>", out)
}

func TestRenderRepeatedPlaceholder(t *testing.T) {
	out, err := Render("{title} and {title}", map[string]string{"title": "X"})
	require.NoError(t, err)
	assert.Equal(t, "X and X", out)
}

func TestRenderMissingBindingFailsFast(t *testing.T) {
	_, err := Render("<p>{missing}</p>", map[string]string{"content": "C"})
	require.Error(t, err)

	var mbe *MissingBindingError
	require.True(t, errors.As(err, &mbe))
	assert.Equal(t, "missing", mbe.Placeholder)
}

func TestRenderUnusedBindingsAllowed(t *testing.T) {
	// Templates evolve independently of callers; extra keys are fine.
	out, err := Render("<p>{content}</p>", map[string]string{
		"content": "C",
		"title":   "unused",
	})
	require.NoError(t, err)
	assert.Equal(t, "<p>C</p>", out)
}

func TestRenderIsNotRecursive(t *testing.T) {
	out, err := Render("{content}", map[string]string{
		"content": "literal {title} stays",
		"title":   "BOOM",
	})
	require.NoError(t, err)
	assert.Equal(t, "literal {title} stays", out)
}

func TestRenderIgnoresNonIdentifierBraces(t *testing.T) {
	// CSS blocks and JSON snippets are not placeholders.
	tmpl := "<style>body { color: red; }</style>{content}{\"k\": 1}"
	out, err := Render(tmpl, map[string]string{"content": "C"})
	require.NoError(t, err)
	assert.Equal(t, "<style>body { color: red; }</style>C{\"k\": 1}", out)
}

func TestRenderNoPlaceholders(t *testing.T) {
	out, err := Render("static text", nil)
	require.NoError(t, err)
	assert.Equal(t, "static text", out)
}

func TestPlaceholders(t *testing.T) {
	names := Placeholders("{b} {a} {b} body { x } {a_1}")
	assert.Equal(t, []string{"a", "a_1", "b"}, names)
}

func TestPlaceholdersEmpty(t *testing.T) {
	assert.Empty(t, Placeholders("no markers here"))
}
