package quotes

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	urlkit "github.com/goliatone/go-urlkit"
)

// Config drives engine construction.
type Config struct {
	// ContentDir is the directory Build scans for Markdown documents.
	ContentDir string
	// Pattern limits discovered files to those matching the supplied glob.
	Pattern string
	// Recursive controls whether sub-directories are traversed.
	Recursive bool
	// Logging configures the go-logger provider built when no custom
	// provider is injected.
	Logging LoggingConfig
	// Routes optionally supplies the go-urlkit route table used to build
	// absolute backlink URLs. Without it backlinks stay fragment-only.
	Routes *urlkit.Config
	// Backlinks selects the route used for backlink URLs.
	Backlinks BacklinkConfig
}

// LoggingConfig mirrors the go-logger options the engine exposes.
type LoggingConfig struct {
	Enabled   bool
	Level     string
	Format    string
	AddSource bool
}

// BacklinkConfig names the urlkit group/route/param used for backlinks.
type BacklinkConfig struct {
	Group string
	Route string
	Param string
}

// DefaultConfig returns the baseline configuration.
func DefaultConfig() Config {
	return Config{
		ContentDir: "content",
		Pattern:    "*.md",
		Recursive:  true,
		Logging: LoggingConfig{
			Enabled: true,
			Level:   "info",
			Format:  "console",
		},
		Backlinks: BacklinkConfig{
			Group: "site",
			Route: "document",
			Param: "document",
		},
	}
}

// Validate reports configuration mistakes before any wiring happens.
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.ContentDir, validation.Required),
		validation.Field(&c.Pattern, validation.Required),
		validation.Field(&c.Logging),
	)
}

// Validate checks the logging options against what the provider supports.
func (c LoggingConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Level, validation.In("", "trace", "debug", "info", "warn", "warning", "error", "fatal")),
		validation.Field(&c.Format, validation.In("", "json", "console", "pretty")),
	)
}
