// Package pipeline is the document-processing host the quotes extension plugs
// into: it loads Markdown from a filesystem, parses it with goldmark, and
// fires lifecycle hooks (document parsed, document resolved, document purged)
// that extensions subscribe to. Hooks for a given document run sequentially
// and non-overlapping, so subscribers need no locking.
package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/adrg/frontmatter"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/goliatone/go-quotes/internal/directive"
	"github.com/goliatone/go-quotes/internal/identity"
	"github.com/goliatone/go-quotes/internal/logging"
	"github.com/goliatone/go-quotes/pkg/interfaces"
)

// ErrDocumentNotFound is returned when an operation references a document the
// engine has not parsed.
var ErrDocumentNotFound = errors.New("pipeline: document not found")

// DocumentMeta is the document-level frontmatter envelope.
type DocumentMeta struct {
	Title  string         `yaml:"title"`
	Slug   string         `yaml:"slug"`
	Custom map[string]any `yaml:",inline"`
}

// Document is one parsed Markdown document tracked by the engine.
type Document struct {
	Path         string
	Slug         string
	Meta         DocumentMeta
	Source       []byte
	Tree         ast.Node
	LastModified time.Time
}

// ParsedHook runs after a document has been parsed into its tree.
type ParsedHook func(ctx context.Context, doc *Document) error

// ResolvedHook runs during final resolution of a document.
type ResolvedHook func(ctx context.Context, doc *Document) error

// PurgedHook runs when a document is removed from an incremental build.
type PurgedHook func(ctx context.Context, path string) error

// Engine drives the parse/resolve/render lifecycle over a document set.
type Engine struct {
	markdown  goldmark.Markdown
	loader    *Loader
	logger    interfaces.Logger
	backlinks *BacklinkResolver

	docs  map[string]*Document
	order []string

	parsedHooks   []ParsedHook
	resolvedHooks []ResolvedHook
	purgedHooks   []PurgedHook
}

// EngineOption customises engine construction.
type EngineOption func(*Engine) error

// WithExtensions installs goldmark extenders on the engine's parser.
func WithExtensions(exts ...goldmark.Extender) EngineOption {
	return func(e *Engine) error {
		e.markdown = goldmark.New(goldmark.WithExtensions(exts...))
		return nil
	}
}

// WithLogger injects the engine logger.
func WithLogger(logger interfaces.Logger) EngineOption {
	return func(e *Engine) error {
		if logger != nil {
			e.logger = logger
		}
		return nil
	}
}

// WithBacklinks installs the resolver used to build links back to a quote's
// original location.
func WithBacklinks(resolver *BacklinkResolver) EngineOption {
	return func(e *Engine) error {
		e.backlinks = resolver
		return nil
	}
}

// NewEngine constructs an engine over the supplied loader.
func NewEngine(loader *Loader, opts ...EngineOption) (*Engine, error) {
	if loader == nil {
		return nil, errors.New("pipeline: loader is required")
	}

	e := &Engine{
		markdown:  goldmark.New(),
		loader:    loader,
		logger:    logging.NoOp(),
		backlinks: NewBacklinkResolver(BacklinkConfig{}),
		docs:      map[string]*Document{},
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(e); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// OnDocumentParsed subscribes a hook to the post-parse phase.
func (e *Engine) OnDocumentParsed(h ParsedHook) {
	if h != nil {
		e.parsedHooks = append(e.parsedHooks, h)
	}
}

// OnDocumentResolved subscribes a hook to the resolution phase.
func (e *Engine) OnDocumentResolved(h ResolvedHook) {
	if h != nil {
		e.resolvedHooks = append(e.resolvedHooks, h)
	}
}

// OnDocumentPurged subscribes a hook to document eviction.
func (e *Engine) OnDocumentPurged(h PurgedHook) {
	if h != nil {
		e.purgedHooks = append(e.purgedHooks, h)
	}
}

// ParseDocument loads and parses one document, replacing any previously
// parsed version, then fires the parsed hooks.
func (e *Engine) ParseDocument(ctx context.Context, path string) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, modified, err := e.loader.Load(ctx, path)
	if err != nil {
		return nil, err
	}

	var meta DocumentMeta
	body, err := frontmatter.Parse(bytes.NewReader(data), &meta)
	if err != nil {
		return nil, fmt.Errorf("pipeline parse frontmatter %s: %w", path, err)
	}

	pc := parser.NewContext()
	directive.WithDocumentName(pc, path)
	tree := e.markdown.Parser().Parse(text.NewReader(body), parser.WithContext(pc))

	if errs := directive.ParseErrors(pc); len(errs) > 0 {
		return nil, fmt.Errorf("pipeline parse %s: %w", path, errors.Join(errs...))
	}

	slug := strings.TrimSpace(meta.Slug)
	if slug == "" {
		slug = identity.DocumentSlug(path)
	}

	doc := &Document{
		Path:         path,
		Slug:         slug,
		Meta:         meta,
		Source:       body,
		Tree:         tree,
		LastModified: modified,
	}

	if _, exists := e.docs[path]; !exists {
		e.order = append(e.order, path)
	}
	e.docs[path] = doc

	for _, hook := range e.parsedHooks {
		if err := hook(ctx, doc); err != nil {
			return nil, err
		}
	}

	e.logger.Debug("pipeline.document.parsed", "document", path, "slug", slug)
	return doc, nil
}

// BuildDirectory discovers and parses every matching document under dir, in
// sorted path order.
func (e *Engine) BuildDirectory(ctx context.Context, dir string) ([]*Document, error) {
	paths, err := e.loader.Discover(ctx, dir)
	if err != nil {
		return nil, err
	}

	docs := make([]*Document, 0, len(paths))
	for _, path := range paths {
		doc, err := e.ParseDocument(ctx, path)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}

	e.logger.Info("pipeline.build.completed", "directory", dir, "documents", len(docs))
	return docs, nil
}

// ResolveDocument runs the resolution hooks over one parsed document.
func (e *Engine) ResolveDocument(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	doc, ok := e.docs[path]
	if !ok {
		return fmt.Errorf("%w: %s", ErrDocumentNotFound, path)
	}

	for _, hook := range e.resolvedHooks {
		if err := hook(ctx, doc); err != nil {
			return err
		}
	}

	e.logger.Debug("pipeline.document.resolved", "document", path)
	return nil
}

// ResolveAll resolves every parsed document in build order.
func (e *Engine) ResolveAll(ctx context.Context) error {
	for _, path := range e.order {
		if err := e.ResolveDocument(ctx, path); err != nil {
			return err
		}
	}
	return nil
}

// PurgeDocument evicts a document from the build and fires the purge hooks.
// Purging an unknown document only notifies subscribers, matching incremental
// rebuilds where the host purges before re-parsing.
func (e *Engine) PurgeDocument(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if _, ok := e.docs[path]; ok {
		delete(e.docs, path)
		for i, p := range e.order {
			if p == path {
				e.order = append(e.order[:i], e.order[i+1:]...)
				break
			}
		}
	}

	for _, hook := range e.purgedHooks {
		if err := hook(ctx, path); err != nil {
			return err
		}
	}

	e.logger.Debug("pipeline.document.purged", "document", path)
	return nil
}

// RenderHTML renders a resolved document tree to HTML.
func (e *Engine) RenderHTML(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	doc, ok := e.docs[path]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrDocumentNotFound, path)
	}

	var buf bytes.Buffer
	if err := e.markdown.Renderer().Render(&buf, doc.Source, doc.Tree); err != nil {
		return "", fmt.Errorf("pipeline render %s: %w", path, err)
	}
	return buf.String(), nil
}

// Document returns a parsed document by path.
func (e *Engine) Document(path string) (*Document, bool) {
	doc, ok := e.docs[path]
	return doc, ok
}

// Documents returns the parsed documents in build order.
func (e *Engine) Documents() []*Document {
	out := make([]*Document, 0, len(e.order))
	for _, path := range e.order {
		out = append(out, e.docs[path])
	}
	return out
}

// Backlink builds the URL pointing at an anchor inside the given document.
// Unknown documents fall back to a path-derived slug so purged entries can
// still be referenced.
func (e *Engine) Backlink(path, anchor string) (string, error) {
	slug := identity.DocumentSlug(path)
	if doc, ok := e.docs[path]; ok {
		slug = doc.Slug
	}
	return e.backlinks.Resolve(slug, anchor)
}
