package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	serrors "git.home.luguber.info/inful/sitegen/internal/errors"
)

// Config represents the application configuration
type Config struct {
	Site     SiteConfig     `yaml:"site"`
	Pages    PagesConfig    `yaml:"pages"`
	Docs     DocsConfig     `yaml:"docs"`
	Listing  ListingConfig  `yaml:"listing"`
	Describe DescribeConfig `yaml:"describe"`
	Serve    ServeConfig    `yaml:"serve"`
	Report   ReportConfig   `yaml:"report"`
}

// SiteConfig carries site-wide presentation settings.
type SiteConfig struct {
	Title string `yaml:"title"`
}

// PagesConfig configures the page generator.
type PagesConfig struct {
	InputDir  string `yaml:"input_dir"`
	OutputDir string `yaml:"output_dir"`
	Template  string `yaml:"template"`
}

// DocsConfig configures the document collection scanner.
type DocsConfig struct {
	Root      string            `yaml:"root"`
	WebPrefix string            `yaml:"web_prefix"`
	Names     map[string]string `yaml:"names,omitempty"` // relative path -> display title override
}

// ListingConfig configures the text post generator.
type ListingConfig struct {
	Template string `yaml:"template"`
	Output   string `yaml:"output"`
}

// DescribeConfig configures the description provider.
type DescribeConfig struct {
	Provider     string        `yaml:"provider"` // "none", "excerpt", or "openai"
	ExcerptWords int           `yaml:"excerpt_words,omitempty"`
	Endpoint     string `yaml:"endpoint,omitempty"`
	Model        string `yaml:"model,omitempty"`
	APIKey       string `yaml:"api_key,omitempty"`
	Timeout      string `yaml:"timeout,omitempty"` // Go duration string, e.g. "30s"
	Concurrency  int    `yaml:"concurrency,omitempty"`
	CachePath    string `yaml:"cache_path,omitempty"` // empty disables the cache
}

// TimeoutDuration parses the configured request timeout. Validation
// guarantees the format; an unset value falls back to the default.
func (d DescribeConfig) TimeoutDuration() time.Duration {
	dur, err := time.ParseDuration(d.Timeout)
	if err != nil || dur <= 0 {
		return 30 * time.Second
	}
	return dur
}

// ServeConfig configures the development file server.
type ServeConfig struct {
	Addr    string `yaml:"addr"`
	Root    string `yaml:"root"`
	Metrics bool   `yaml:"metrics"`
}

// ReportConfig configures optional build report persistence.
type ReportConfig struct {
	Path string `yaml:"path,omitempty"` // empty disables persistence
}

// Load loads configuration from the specified file
func Load(configPath string) (*Config, error) {
	// Load .env file if it exists
	if err := loadEnvFiles(); err != nil {
		// Don't fail if .env doesn't exist, just log it
		fmt.Fprintf(os.Stderr, "Note: .env file not found or couldn't be loaded: %v\n", err)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, serrors.ConfigNotFound(configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Expand environment variables in the YAML content
	expandedData := os.ExpandEnv(string(data))

	var config Config
	if err := yaml.Unmarshal([]byte(expandedData), &config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	config.ApplyDefaults()
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}
