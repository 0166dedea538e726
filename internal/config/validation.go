package config

import (
	"strings"
	"time"

	serrors "git.home.luguber.info/inful/sitegen/internal/errors"
)

// Validate checks the configuration for internal consistency. Path existence
// is deliberately not checked here: each pipeline stage reports missing
// inputs against the path it actually reads.
func (c *Config) Validate() error {
	required := []struct {
		field string
		value string
	}{
		{"pages.input_dir", c.Pages.InputDir},
		{"pages.output_dir", c.Pages.OutputDir},
		{"pages.template", c.Pages.Template},
		{"docs.root", c.Docs.Root},
		{"listing.template", c.Listing.Template},
		{"listing.output", c.Listing.Output},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return serrors.ValidationFailed(r.field, "must not be empty")
		}
	}

	if !strings.HasPrefix(c.Docs.WebPrefix, "/") {
		return serrors.ValidationFailed("docs.web_prefix", "must be an absolute web path")
	}

	switch c.Describe.Provider {
	case ProviderNone, ProviderExcerpt:
	case ProviderOpenAI:
		if c.Describe.Model == "" {
			return serrors.ValidationFailed("describe.model", "required for the openai provider")
		}
	default:
		return serrors.ValidationFailed("describe.provider", "must be none, excerpt, or openai")
	}

	if c.Describe.Concurrency < 1 {
		return serrors.ValidationFailed("describe.concurrency", "must be at least 1")
	}

	if c.Describe.Timeout != "" {
		if _, err := time.ParseDuration(c.Describe.Timeout); err != nil {
			return serrors.ValidationFailed("describe.timeout", "must be a duration like 30s or 2m")
		}
	}

	return nil
}
