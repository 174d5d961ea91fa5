// Package directive implements the quote markup layer: two fenced directives
// (`quote` and `quotes`) parsed into custom goldmark AST nodes, plus the HTML
// rendering for those nodes.
//
// A quote directive carries its options as a YAML frontmatter envelope
// followed by the freeform quote body:
//
//	```quote
//	---
//	author: Dr. Joe Black
//	affiliation: Someone important, somewhere nice
//	date: 1990-01-01
//	tags: software, docs
//	group: Research software projects
//	---
//	go-quotes is a wonderful extension
//	```
//
// A quotes selector renders a filtered collection of collected quotes:
//
//	```quotes
//	---
//	random: 1
//	tags: docs
//	---
//	```
package directive

import (
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"

	"github.com/goliatone/go-quotes/pkg/interfaces"
)

// Extension wires the directive transformer and node renderer into a goldmark
// instance.
type Extension struct {
	logger interfaces.Logger
}

// Option customises the extension.
type Option func(*Extension)

// WithLogger injects the logger used while transforming directives.
func WithLogger(logger interfaces.Logger) Option {
	return func(e *Extension) {
		e.logger = logger
	}
}

// New constructs the quotes directive extension.
func New(opts ...Option) *Extension {
	e := &Extension{}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

// Extend implements goldmark.Extender.
func (e *Extension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(
		parser.WithASTTransformers(util.Prioritized(NewTransformer(e.logger), 500)),
	)
	m.Renderer().AddOptions(
		renderer.WithNodeRenderers(util.Prioritized(NewHTMLRenderer(), 500)),
	)
}
