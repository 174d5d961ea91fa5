package directive

import (
	"github.com/yuin/goldmark/ast"
)

// KindQuote identifies a parsed quote directive block.
var KindQuote = ast.NewNodeKind("Quote")

// KindQuoteList identifies a quotes selector placeholder. Selector nodes only
// exist between parse and resolution; resolution replaces them in place with
// the selected quote nodes.
var KindQuoteList = ast.NewNodeKind("QuoteList")

// KindQuoteAnchor identifies the anchor target emitted immediately before a
// quote node so selections elsewhere can link back to the original location.
var KindQuoteAnchor = ast.NewNodeKind("QuoteAnchor")

// QuoteNode carries one quote entry: its freeform body plus the parsed
// directive options and the anchor id assigned at parse time.
type QuoteNode struct {
	ast.BaseBlock

	Options  QuoteOptions
	Body     string
	AnchorID string
	Line     int

	// Backlink is only set on copies emitted by a selector; it points at the
	// quote's original location.
	Backlink string
}

// NewQuoteNode constructs a quote node from parsed directive content.
func NewQuoteNode(opts QuoteOptions, body, anchorID string, line int) *QuoteNode {
	return &QuoteNode{
		Options:  opts,
		Body:     body,
		AnchorID: anchorID,
		Line:     line,
	}
}

// Kind implements ast.Node.
func (n *QuoteNode) Kind() ast.NodeKind { return KindQuote }

// Dump implements ast.Node.
func (n *QuoteNode) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{
		"Author": n.Options.Author,
		"Group":  n.Options.Group,
		"Tags":   n.Options.Tags.String(),
		"Anchor": n.AnchorID,
	}, nil)
}

// Copy returns a detached duplicate of the node with the supplied backlink.
// Selector substitution always inserts copies so the originating document
// tree never shares nodes with rendered selections.
func (n *QuoteNode) Copy(backlink string) *QuoteNode {
	clone := NewQuoteNode(n.Options.clone(), n.Body, n.AnchorID, n.Line)
	clone.Backlink = backlink
	return clone
}

// QuoteListNode is the placeholder produced by a quotes selector directive.
type QuoteListNode struct {
	ast.BaseBlock

	Options SelectorOptions
	Line    int
}

// NewQuoteListNode constructs a selector placeholder node.
func NewQuoteListNode(opts SelectorOptions, line int) *QuoteListNode {
	return &QuoteListNode{Options: opts, Line: line}
}

// Kind implements ast.Node.
func (n *QuoteListNode) Kind() ast.NodeKind { return KindQuoteList }

// Dump implements ast.Node.
func (n *QuoteListNode) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{
		"Tags":  n.Options.Tags.String(),
		"Group": n.Options.Group,
	}, nil)
}

// QuoteAnchorNode marks the backlink target for the quote node that follows it.
type QuoteAnchorNode struct {
	ast.BaseBlock

	ID string
}

// NewQuoteAnchorNode constructs an anchor node with the supplied fragment id.
func NewQuoteAnchorNode(id string) *QuoteAnchorNode {
	return &QuoteAnchorNode{ID: id}
}

// Kind implements ast.Node.
func (n *QuoteAnchorNode) Kind() ast.NodeKind { return KindQuoteAnchor }

// Dump implements ast.Node.
func (n *QuoteAnchorNode) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{"ID": n.ID}, nil)
}
