package directive

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/goliatone/go-quotes/internal/identity"
	"github.com/goliatone/go-quotes/internal/logging"
	"github.com/goliatone/go-quotes/pkg/interfaces"
)

const (
	quoteDirective    = "quote"
	selectorDirective = "quotes"
)

var (
	documentNameKey = parser.NewContextKey()
	parseErrorsKey  = parser.NewContextKey()
)

// WithDocumentName records the document identifier on a parser context so
// directive anchors and error positions reference the owning document.
func WithDocumentName(pc parser.Context, name string) {
	pc.Set(documentNameKey, name)
}

// DocumentName returns the document identifier recorded on the context.
func DocumentName(pc parser.Context) string {
	if v, ok := pc.Get(documentNameKey).(string); ok {
		return v
	}
	return ""
}

// ParseErrors returns directive failures recorded while transforming. The
// transformer cannot fail mid-walk, so malformed directives are collected on
// the context for the caller to surface after parsing.
func ParseErrors(pc parser.Context) []error {
	if v, ok := pc.Get(parseErrorsKey).([]error); ok {
		return v
	}
	return nil
}

func appendParseError(pc parser.Context, err error) {
	errs, _ := pc.Get(parseErrorsKey).([]error)
	pc.Set(parseErrorsKey, append(errs, err))
}

// Transformer rewrites fenced blocks whose info string is a quotes directive
// into the custom AST nodes the rest of the pipeline operates on.
type Transformer struct {
	logger interfaces.Logger
}

// NewTransformer constructs a directive transformer.
func NewTransformer(logger interfaces.Logger) *Transformer {
	if logger == nil {
		logger = logging.NoOp()
	}
	return &Transformer{logger: logger}
}

// Transform implements parser.ASTTransformer. Each quote directive becomes an
// anchor node followed by a quote node; each quotes directive becomes a
// selector placeholder. Malformed directives are dropped from the tree and
// recorded as parse errors on the context.
func (t *Transformer) Transform(doc *ast.Document, reader text.Reader, pc parser.Context) {
	source := reader.Source()

	var fences []*ast.FencedCodeBlock
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if fcb, ok := n.(*ast.FencedCodeBlock); ok {
			switch string(fcb.Language(source)) {
			case quoteDirective, selectorDirective:
				fences = append(fences, fcb)
			}
		}
		return ast.WalkContinue, nil
	})

	docname := DocumentName(pc)
	for _, fcb := range fences {
		parent := fcb.Parent()
		if parent == nil {
			continue
		}

		raw := blockContent(fcb, source)
		line := blockLine(fcb, source)

		switch string(fcb.Language(source)) {
		case quoteDirective:
			opts, body, err := ParseQuoteBlock(raw)
			if err != nil {
				appendParseError(pc, positionError(docname, line, err))
				parent.RemoveChild(parent, fcb)
				continue
			}

			anchorID := identity.AnchorID(docname, line, opts.Author)
			node := NewQuoteNode(opts, body, anchorID, line)

			parent.InsertBefore(parent, fcb, NewQuoteAnchorNode(anchorID))
			parent.ReplaceChild(parent, fcb, node)

			t.logger.Debug("directive.quote.parsed",
				"document", docname, "line", line, "anchor", anchorID)

		case selectorDirective:
			opts, err := ParseSelectorBlock(raw)
			if err != nil {
				appendParseError(pc, positionError(docname, line, err))
				parent.RemoveChild(parent, fcb)
				continue
			}

			parent.ReplaceChild(parent, fcb, NewQuoteListNode(opts, line))

			t.logger.Debug("directive.quotes.parsed",
				"document", docname, "line", line, "tags", opts.Tags.String())
		}
	}
}

func blockContent(fcb *ast.FencedCodeBlock, source []byte) []byte {
	var buf bytes.Buffer
	lines := fcb.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.Write(seg.Value(source))
	}
	return buf.Bytes()
}

// blockLine returns the 1-based source line of the directive's opening fence.
func blockLine(fcb *ast.FencedCodeBlock, source []byte) int {
	offset := -1
	if lines := fcb.Lines(); lines.Len() > 0 {
		offset = lines.At(0).Start
	} else if fcb.Info != nil {
		return bytes.Count(source[:fcb.Info.Segment.Start], []byte{'\n'}) + 1
	}
	if offset < 0 {
		return 1
	}
	// Content starts on the line after the fence.
	return bytes.Count(source[:offset], []byte{'\n'})
}

func positionError(docname string, line int, err error) error {
	if docname == "" {
		return fmt.Errorf("line %d: %w", line, err)
	}
	return fmt.Errorf("%s:%d: %w", docname, line, err)
}
