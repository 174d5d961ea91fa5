// Package quotes lets authors embed quote blocks in Markdown documents and
// render filtered, optionally random-sampled, collections of those quotes
// elsewhere in the same document set.
//
// The package is a thin extension over a goldmark-based document pipeline: it
// registers the `quote` and `quotes` directives, keeps a build-wide registry
// of collected quotes, and subscribes to the pipeline's lifecycle hooks to
// collect entries after parsing, substitute selector placeholders during
// resolution, and evict entries when a document leaves an incremental build.
package quotes

import (
	"context"
	"errors"
	"io/fs"
	"math/rand"

	goerrors "github.com/goliatone/go-errors"
	urlkit "github.com/goliatone/go-urlkit"

	"github.com/goliatone/go-quotes/internal/commands"
	"github.com/goliatone/go-quotes/internal/directive"
	"github.com/goliatone/go-quotes/internal/logging"
	"github.com/goliatone/go-quotes/internal/logging/gologger"
	"github.com/goliatone/go-quotes/internal/pipeline"
	"github.com/goliatone/go-quotes/internal/registry"
	"github.com/goliatone/go-quotes/pkg/interfaces"
)

// Entry exports the registry entry record.
type Entry = registry.Entry

// FilterOptions exports the selector filter contract.
type FilterOptions = registry.FilterOptions

// Document exports the pipeline document record.
type Document = pipeline.Document

// QuoteOptions exports the quote directive options.
type QuoteOptions = directive.QuoteOptions

// TagSet exports the normalized tag collection.
type TagSet = directive.TagSet

// BuildDirectoryCommand exports the build command message.
type BuildDirectoryCommand = commands.BuildDirectoryCommand

// ResolveDocumentCommand exports the resolve command message.
type ResolveDocumentCommand = commands.ResolveDocumentCommand

// PurgeDocumentCommand exports the purge command message.
type PurgeDocumentCommand = commands.PurgeDocumentCommand

// ErrSampleExceedsMatches exports the registry sampling error.
var ErrSampleExceedsMatches = registry.ErrSampleExceedsMatches

// ErrDocumentNotFound exports the pipeline lookup error.
var ErrDocumentNotFound = pipeline.ErrDocumentNotFound

// ErrSectionsUnsupported signals use of the selector `sections` option, which
// is recognized but not implemented.
var ErrSectionsUnsupported = errors.New("quotes: sections option is not supported")

// Engine wires the directive extension, registry, and pipeline together.
type Engine struct {
	cfg      Config
	logger   interfaces.Logger
	provider interfaces.LoggerProvider
	pipeline *pipeline.Engine
	registry *registry.Registry
	rng      *rand.Rand
}

// Option customises engine construction.
type Option func(*Engine)

// WithLoggerProvider overrides the go-logger provider built from Config.Logging.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(e *Engine) {
		e.provider = provider
	}
}

// WithRand injects the random source used for selector sampling, mainly so
// tests can make sampling deterministic.
func WithRand(rng *rand.Rand) Option {
	return func(e *Engine) {
		e.rng = rng
	}
}

// New constructs an engine over the supplied filesystem.
func New(cfg Config, fsys fs.FS, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryValidation, "quotes: invalid configuration").
			WithTextCode("QUOTES_CONFIG_INVALID")
	}
	if fsys == nil {
		return nil, errors.New("quotes: filesystem is required")
	}

	e := &Engine{cfg: cfg}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}

	if e.provider == nil && cfg.Logging.Enabled {
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     cfg.Logging.Level,
			Format:    cfg.Logging.Format,
			AddSource: cfg.Logging.AddSource,
		})
		if err != nil {
			return nil, err
		}
		e.provider = provider
	}
	e.logger = logging.ModuleLogger(e.provider, "")
	e.registry = registry.New(logging.RegistryLogger(e.provider))

	backlinkCfg := pipeline.BacklinkConfig{
		Group: cfg.Backlinks.Group,
		Route: cfg.Backlinks.Route,
		Param: cfg.Backlinks.Param,
	}
	if cfg.Routes != nil {
		backlinkCfg.Manager = urlkit.NewRouteManager(cfg.Routes)
	}

	loader := pipeline.NewLoader(fsys, pipeline.LoaderConfig{
		Pattern:   cfg.Pattern,
		Recursive: cfg.Recursive,
	})

	engine, err := pipeline.NewEngine(loader,
		pipeline.WithExtensions(directive.New(
			directive.WithLogger(logging.DirectiveLogger(e.provider)),
		)),
		pipeline.WithLogger(logging.PipelineLogger(e.provider)),
		pipeline.WithBacklinks(pipeline.NewBacklinkResolver(backlinkCfg)),
	)
	if err != nil {
		return nil, err
	}
	e.pipeline = engine

	engine.OnDocumentParsed(e.collectQuotes)
	engine.OnDocumentResolved(e.resolveQuoteLists)
	engine.OnDocumentPurged(e.purgeQuotes)

	return e, nil
}

// Build parses every matching document under the configured content directory.
func (e *Engine) Build(ctx context.Context) ([]*Document, error) {
	return e.pipeline.BuildDirectory(ctx, e.cfg.ContentDir)
}

// BuildDirectory parses every matching document under dir.
func (e *Engine) BuildDirectory(ctx context.Context, dir string) ([]*Document, error) {
	return e.pipeline.BuildDirectory(ctx, dir)
}

// ParseDocument loads and parses a single document.
func (e *Engine) ParseDocument(ctx context.Context, path string) (*Document, error) {
	return e.pipeline.ParseDocument(ctx, path)
}

// Resolve substitutes quote selections in every parsed document.
func (e *Engine) Resolve(ctx context.Context) error {
	return e.pipeline.ResolveAll(ctx)
}

// ResolveDocument substitutes quote selections in one parsed document.
func (e *Engine) ResolveDocument(ctx context.Context, path string) error {
	return e.pipeline.ResolveDocument(ctx, path)
}

// Purge evicts a document from the build, dropping its registry entries.
func (e *Engine) Purge(ctx context.Context, path string) error {
	return e.pipeline.PurgeDocument(ctx, path)
}

// RenderHTML renders a parsed (and normally resolved) document to HTML.
func (e *Engine) RenderHTML(ctx context.Context, path string) (string, error) {
	return e.pipeline.RenderHTML(ctx, path)
}

// Quotes returns a copy of the collected registry entries, in build order.
func (e *Engine) Quotes() []Entry {
	return e.registry.Entries()
}

// Pipeline exposes the underlying pipeline engine for advanced wiring.
func (e *Engine) Pipeline() *pipeline.Engine {
	return e.pipeline
}

// CommandHandlers bundles go-command handlers over the engine operations.
type CommandHandlers struct {
	Build   *commands.Handler[commands.BuildDirectoryCommand]
	Resolve *commands.Handler[commands.ResolveDocumentCommand]
	Purge   *commands.Handler[commands.PurgeDocumentCommand]
}

// CommandHandlers builds the command-bus surface for this engine.
func (e *Engine) CommandHandlers() CommandHandlers {
	logger := logging.CommandsLogger(e.provider)
	return CommandHandlers{
		Build:   commands.NewBuildDirectoryHandler(e.pipeline, logger),
		Resolve: commands.NewResolveDocumentHandler(e.pipeline, logger),
		Purge:   commands.NewPurgeDocumentHandler(e.pipeline, logger),
	}
}
