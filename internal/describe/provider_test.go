package describe

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitegen/internal/config"
)

func TestExcerptFirstWords(t *testing.T) {
	p := Excerpt{Words: 3}
	desc, err := p.Describe(context.Background(), "doc", "one two three four five")
	require.NoError(t, err)
	assert.Equal(t, "one two three ...", desc)
}

func TestExcerptShortText(t *testing.T) {
	p := Excerpt{Words: 20}
	desc, err := p.Describe(context.Background(), "doc", "  just   two\nwords ")
	require.NoError(t, err)
	assert.Equal(t, "just two words ...", desc)
}

func TestExcerptEmptyText(t *testing.T) {
	p := Excerpt{Words: 20}
	desc, err := p.Describe(context.Background(), "doc", "   ")
	require.NoError(t, err)
	assert.Empty(t, desc)
}

func TestExcerptDefaultWordCount(t *testing.T) {
	p := Excerpt{}
	text := strings.Repeat("word ", 50)
	desc, err := p.Describe(context.Background(), "doc", text)
	require.NoError(t, err)
	assert.Len(t, strings.Fields(desc), 21) // 20 words + ellipsis
}

func TestFromConfigNone(t *testing.T) {
	p, closer, err := FromConfig(config.DescribeConfig{Provider: config.ProviderNone})
	require.NoError(t, err)
	assert.Nil(t, p)
	assert.NoError(t, closer())
}

func TestFromConfigExcerpt(t *testing.T) {
	p, closer, err := FromConfig(config.DescribeConfig{Provider: config.ProviderExcerpt, ExcerptWords: 5})
	require.NoError(t, err)
	defer func() { _ = closer() }()

	require.NotNil(t, p)
	assert.Equal(t, "excerpt", p.Name())
}

func TestFromConfigWithCache(t *testing.T) {
	p, closer, err := FromConfig(config.DescribeConfig{
		Provider:  config.ProviderExcerpt,
		CachePath: ":memory:",
	})
	require.NoError(t, err)
	defer func() { _ = closer() }()

	require.NotNil(t, p)
	assert.Equal(t, "excerpt+cache", p.Name())
}
