package quotes

import (
	"context"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
	"github.com/yuin/goldmark/ast"

	"github.com/goliatone/go-quotes/internal/directive"
	"github.com/goliatone/go-quotes/internal/pipeline"
	"github.com/goliatone/go-quotes/internal/registry"
)

// The three lifecycle callbacks below are the extension proper: collection
// after parse, selector substitution during resolution, and registry eviction
// on purge. They are registered on the pipeline engine by New.

func (e *Engine) collectQuotes(ctx context.Context, doc *pipeline.Document) error {
	// Re-parsing a document replaces its entries rather than duplicating them.
	e.registry.Purge(doc.Path)
	e.registry.Collect(doc.Path, doc.Tree)
	return nil
}

func (e *Engine) resolveQuoteLists(ctx context.Context, doc *pipeline.Document) error {
	var selectors []*directive.QuoteListNode
	_ = ast.Walk(doc.Tree, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if selector, ok := n.(*directive.QuoteListNode); ok {
			selectors = append(selectors, selector)
		}
		return ast.WalkContinue, nil
	})

	for _, selector := range selectors {
		if err := e.substituteSelector(doc, selector); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) purgeQuotes(ctx context.Context, path string) error {
	e.registry.Purge(path)
	return nil
}

// substituteSelector replaces one selector placeholder with copies of the
// matching quote entries, in registry order unless sampling reorders them.
func (e *Engine) substituteSelector(doc *pipeline.Document, selector *directive.QuoteListNode) error {
	if selector.Options.Sections != "" {
		return goerrors.Wrap(ErrSectionsUnsupported, goerrors.CategoryValidation,
			fmt.Sprintf("quotes selector at %s:%d", doc.Path, selector.Line)).
			WithTextCode("QUOTES_SECTIONS_UNSUPPORTED")
	}

	entries := e.registry.Filter(registry.FilterFromSelector(selector.Options))

	if selector.Options.Random > 0 {
		sampled, err := registry.Sample(entries, selector.Options.Random, e.rng)
		if err != nil {
			return goerrors.Wrap(err, goerrors.CategoryValidation,
				fmt.Sprintf("quotes selector at %s:%d", doc.Path, selector.Line)).
				WithTextCode("QUOTES_SAMPLE_EXCEEDS_MATCHES")
		}
		entries = sampled
	}

	parent := selector.Parent()
	if parent == nil {
		return nil
	}

	for _, entry := range entries {
		backlink, err := e.pipeline.Backlink(entry.Document, entry.AnchorID)
		if err != nil {
			e.logger.Warn("quotes.backlink.failed", "document", entry.Document, "error", err)
			backlink = ""
		}
		parent.InsertBefore(parent, selector, entry.Node.Copy(backlink))
	}
	parent.RemoveChild(parent, selector)

	e.logger.Debug("quotes.selector.resolved",
		"document", doc.Path, "line", selector.Line, "selected", len(entries))
	return nil
}
