package directive

import (
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"
)

// HTMLRenderer renders the quote node kinds as HTML. Quote entries become
// epigraph blockquotes with an attribution line; anchor nodes become empty
// targets; selector placeholders render nothing so a document rendered before
// resolution still produces well formed output.
type HTMLRenderer struct{}

// NewHTMLRenderer constructs the HTML node renderer for quote nodes.
func NewHTMLRenderer() renderer.NodeRenderer {
	return &HTMLRenderer{}
}

// RegisterFuncs implements renderer.NodeRenderer.
func (r *HTMLRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindQuote, r.renderQuote)
	reg.Register(KindQuoteAnchor, r.renderAnchor)
	reg.Register(KindQuoteList, r.renderQuoteList)
}

func (r *HTMLRenderer) renderQuote(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*QuoteNode)

	_, _ = w.WriteString("<blockquote class=\"epigraph\">\n<p class=\"text\">")
	_, _ = w.Write(util.EscapeHTML([]byte(n.Body)))
	_, _ = w.WriteString("</p>\n")

	parts := []struct {
		class string
		text  string
	}{
		{"author", n.Options.Author},
		{"date", n.Options.AttributionDate()},
		{"affiliation", n.Options.Affiliation},
		{"source", n.Options.AttributionSource()},
	}

	wrote := false
	for _, part := range parts {
		if part.text == "" {
			continue
		}
		if !wrote {
			_, _ = w.WriteString("<p class=\"attribution\">--")
			wrote = true
		}
		_, _ = w.WriteString(" <span class=\"" + part.class + "\">")
		_, _ = w.Write(util.EscapeHTML([]byte(part.text)))
		_, _ = w.WriteString("</span>")
	}
	if n.Backlink != "" {
		if !wrote {
			_, _ = w.WriteString("<p class=\"attribution\">--")
			wrote = true
		}
		_, _ = w.WriteString(" <a class=\"quote-backlink\" href=\"")
		_, _ = w.Write(util.EscapeHTML([]byte(n.Backlink)))
		_, _ = w.WriteString("\">&#182;</a>")
	}
	if wrote {
		_, _ = w.WriteString("</p>\n")
	}

	_, _ = w.WriteString("</blockquote>\n")
	return ast.WalkContinue, nil
}

func (r *HTMLRenderer) renderAnchor(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*QuoteAnchorNode)

	_, _ = w.WriteString("<span class=\"quote-anchor\" id=\"")
	_, _ = w.Write(util.EscapeHTML([]byte(n.ID)))
	_, _ = w.WriteString("\"></span>\n")
	return ast.WalkContinue, nil
}

func (r *HTMLRenderer) renderQuoteList(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	return ast.WalkContinue, nil
}
