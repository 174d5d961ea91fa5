package directive

import (
	"bytes"
	"strings"
	"testing"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

const quoteSource = "# Intro\n\n" +
	"```quote\n" +
	"---\n" +
	"author: Dr. Joe Black\n" +
	"affiliation: Someone important, somewhere nice\n" +
	"date: 1990-01-01\n" +
	"tags: software, Debian , docs\n" +
	"group: Research software projects\n" +
	"source: a conference hallway\n" +
	"---\n" +
	"go-quotes is a wonderful extension\n" +
	"```\n"

const selectorSource = "```quotes\n" +
	"---\n" +
	"random: 2\n" +
	"tags: docs\n" +
	"group: \"\"\n" +
	"---\n" +
	"```\n"

func parseSource(t *testing.T, src string) (ast.Node, parser.Context) {
	t.Helper()

	md := goldmark.New(goldmark.WithExtensions(New()))
	pc := parser.NewContext()
	WithDocumentName(pc, "guide/intro.md")
	tree := md.Parser().Parse(text.NewReader([]byte(src)), parser.WithContext(pc))
	return tree, pc
}

func findQuote(tree ast.Node) *QuoteNode {
	var quote *QuoteNode
	_ = ast.Walk(tree, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering {
			if q, ok := n.(*QuoteNode); ok {
				quote = q
				return ast.WalkStop, nil
			}
		}
		return ast.WalkContinue, nil
	})
	return quote
}

func TestParseTags(t *testing.T) {
	set := ParseTags(" software, Debian ,docs,, ")

	if len(set) != 3 {
		t.Fatalf("expected 3 tags, got %d: %v", len(set), set.Sorted())
	}
	for _, tag := range []string{"software", "Debian", "docs"} {
		if !set.Contains(tag) {
			t.Fatalf("expected tag %q in set %v", tag, set.Sorted())
		}
	}

	if empty := ParseTags(""); len(empty) != 0 {
		t.Fatalf("expected empty set for blank input, got %v", empty.Sorted())
	}
}

func TestTagSetSuperset(t *testing.T) {
	candidate := ParseTags("a,b,c")

	if !candidate.Superset(ParseTags("a,b")) {
		t.Fatalf("expected {a,b,c} to be a superset of {a,b}")
	}
	if !candidate.Superset(TagSet{}) {
		t.Fatalf("expected any set to be a superset of the empty set")
	}
	if ParseTags("b").Superset(ParseTags("a,b")) {
		t.Fatalf("expected {b} not to be a superset of {a,b}")
	}
}

func TestTransformQuoteDirective(t *testing.T) {
	tree, pc := parseSource(t, quoteSource)

	if errs := ParseErrors(pc); len(errs) != 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}

	quote := findQuote(tree)
	if quote == nil {
		t.Fatalf("expected a quote node in the tree")
	}
	if quote.Options.Author != "Dr. Joe Black" {
		t.Fatalf("author mismatch, got %q", quote.Options.Author)
	}
	if quote.Options.Group != "Research software projects" {
		t.Fatalf("group mismatch, got %q", quote.Options.Group)
	}
	if !quote.Options.Tags.Contains("Debian") || len(quote.Options.Tags) != 3 {
		t.Fatalf("tags mismatch: %v", quote.Options.Tags.Sorted())
	}
	if quote.Body != "go-quotes is a wonderful extension" {
		t.Fatalf("body mismatch, got %q", quote.Body)
	}
	if quote.AnchorID == "" || !strings.HasPrefix(quote.AnchorID, "quote-dr-joe-black-") {
		t.Fatalf("unexpected anchor id %q", quote.AnchorID)
	}

	anchor, ok := quote.PreviousSibling().(*QuoteAnchorNode)
	if !ok {
		t.Fatalf("expected an anchor node before the quote, got %T", quote.PreviousSibling())
	}
	if anchor.ID != quote.AnchorID {
		t.Fatalf("anchor id mismatch: %q vs %q", anchor.ID, quote.AnchorID)
	}
}

func TestTransformSelectorDirective(t *testing.T) {
	tree, pc := parseSource(t, selectorSource)

	if errs := ParseErrors(pc); len(errs) != 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}

	var selector *QuoteListNode
	_ = ast.Walk(tree, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering {
			if s, ok := n.(*QuoteListNode); ok {
				selector = s
			}
		}
		return ast.WalkContinue, nil
	})
	if selector == nil {
		t.Fatalf("expected a selector node in the tree")
	}

	if !selector.Options.HasTags || !selector.Options.Tags.Contains("docs") {
		t.Fatalf("selector tags mismatch: %+v", selector.Options)
	}
	if !selector.Options.HasGroup || selector.Options.Group != "" {
		t.Fatalf("expected explicit empty group, got %+v", selector.Options)
	}
	if selector.Options.Random != 2 {
		t.Fatalf("random mismatch, got %d", selector.Options.Random)
	}
}

func TestSelectorOptionsAbsentMeansNoFilter(t *testing.T) {
	opts, err := ParseSelectorBlock([]byte(""))
	if err != nil {
		t.Fatalf("ParseSelectorBlock: %v", err)
	}
	if opts.HasTags || opts.HasGroup || opts.Random != 0 {
		t.Fatalf("expected no filters for empty selector, got %+v", opts)
	}
}

func TestSelectorRandomMustBePositive(t *testing.T) {
	src := "```quotes\n---\nrandom: 0\n---\n```\n"
	_, pc := parseSource(t, src)

	errs := ParseErrors(pc)
	if len(errs) != 1 {
		t.Fatalf("expected one parse error, got %v", errs)
	}
	if !strings.Contains(errs[0].Error(), "guide/intro.md") {
		t.Fatalf("expected error to carry document position, got %q", errs[0].Error())
	}
	if !strings.Contains(errs[0].Error(), "positive") {
		t.Fatalf("expected positive-integer failure, got %q", errs[0].Error())
	}
}

func TestQuoteAttributionFormatting(t *testing.T) {
	opts := QuoteOptions{Date: "1990-01-01", Source: "a book"}

	if got := opts.AttributionDate(); got != "[1990-01-01]" {
		t.Fatalf("attribution date mismatch, got %q", got)
	}
	if got := opts.AttributionSource(); got != "Source: a book" {
		t.Fatalf("attribution source mismatch, got %q", got)
	}
	if got := (QuoteOptions{}).AttributionDate(); got != "" {
		t.Fatalf("expected empty attribution date, got %q", got)
	}
}

func TestRenderQuoteHTML(t *testing.T) {
	md := goldmark.New(goldmark.WithExtensions(New()))

	var buf bytes.Buffer
	pc := parser.NewContext()
	WithDocumentName(pc, "guide/intro.md")
	if err := md.Convert([]byte(quoteSource), &buf, parser.WithContext(pc)); err != nil {
		t.Fatalf("Convert: %v", err)
	}

	got := buf.String()
	if !strings.Contains(got, "<blockquote class=\"epigraph\">") {
		t.Fatalf("expected epigraph blockquote, got %q", got)
	}
	if !strings.Contains(got, "go-quotes is a wonderful extension") {
		t.Fatalf("expected quote body in output, got %q", got)
	}
	if !strings.Contains(got, "<p class=\"attribution\">--") {
		t.Fatalf("expected -- attribution marker, got %q", got)
	}
	if !strings.Contains(got, "[1990-01-01]") {
		t.Fatalf("expected verbatim [date] in attribution, got %q", got)
	}
	if !strings.Contains(got, "Source: a conference hallway") {
		t.Fatalf("expected verbatim source in attribution, got %q", got)
	}
	if !strings.Contains(got, "<span class=\"quote-anchor\" id=\"quote-dr-joe-black-") {
		t.Fatalf("expected anchor target in output, got %q", got)
	}
}

func TestRenderUnresolvedSelectorIsSilent(t *testing.T) {
	md := goldmark.New(goldmark.WithExtensions(New()))

	var buf bytes.Buffer
	if err := md.Convert([]byte(selectorSource), &buf); err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if strings.Contains(buf.String(), "quotes") {
		t.Fatalf("expected unresolved selector to render nothing, got %q", buf.String())
	}
}

func TestQuoteNodeCopyDetaches(t *testing.T) {
	tree, _ := parseSource(t, quoteSource)
	quote := findQuote(tree)
	if quote == nil {
		t.Fatalf("expected a quote node in the tree")
	}

	clone := quote.Copy("#somewhere")
	if clone == quote {
		t.Fatalf("expected a fresh node")
	}
	if clone.Parent() != nil {
		t.Fatalf("expected the copy to be detached")
	}
	if clone.Backlink != "#somewhere" {
		t.Fatalf("backlink mismatch, got %q", clone.Backlink)
	}

	clone.Options.Tags["mutated"] = struct{}{}
	if quote.Options.Tags.Contains("mutated") {
		t.Fatalf("expected copied tag set to be independent")
	}
}
