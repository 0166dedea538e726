package config

// Provider mode names accepted by DescribeConfig.Provider.
const (
	ProviderNone    = "none"
	ProviderExcerpt = "excerpt"
	ProviderOpenAI  = "openai"
)

// ApplyDefaults fills zero-valued fields with the defaults matching the
// conventional site layout (src/ sources published into docs/).
func (c *Config) ApplyDefaults() {
	if c.Site.Title == "" {
		c.Site.Title = "Personal Site"
	}

	if c.Pages.InputDir == "" {
		c.Pages.InputDir = "src/pages"
	}
	if c.Pages.OutputDir == "" {
		c.Pages.OutputDir = "docs/pages"
	}
	if c.Pages.Template == "" {
		c.Pages.Template = "src/template.html"
	}

	if c.Docs.Root == "" {
		c.Docs.Root = "docs/assets/public_doc"
	}
	if c.Docs.WebPrefix == "" {
		c.Docs.WebPrefix = "/assets/public_doc"
	}

	if c.Listing.Template == "" {
		c.Listing.Template = "docs/pages/posts/text.template.html"
	}
	if c.Listing.Output == "" {
		c.Listing.Output = "docs/pages/posts/text.html"
	}

	if c.Describe.Provider == "" {
		c.Describe.Provider = ProviderExcerpt
	}
	if c.Describe.ExcerptWords == 0 {
		c.Describe.ExcerptWords = 20
	}
	if c.Describe.Timeout == "" {
		c.Describe.Timeout = "30s"
	}
	if c.Describe.Concurrency == 0 {
		c.Describe.Concurrency = 4
	}

	if c.Serve.Addr == "" {
		c.Serve.Addr = "127.0.0.1:3000"
	}
	if c.Serve.Root == "" {
		c.Serve.Root = "docs"
	}
}

// Default returns a fully defaulted configuration, used by the init command.
func Default() *Config {
	cfg := &Config{}
	cfg.ApplyDefaults()
	return cfg
}
