// Package registry keeps the build-wide list of collected quote entries. The
// registry lives for one build invocation: populated after each document
// parse, consulted during resolution, and pruned when a document leaves an
// incremental build.
package registry

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/yuin/goldmark/ast"

	"github.com/goliatone/go-quotes/internal/directive"
	"github.com/goliatone/go-quotes/internal/logging"
	"github.com/goliatone/go-quotes/pkg/interfaces"
)

// ErrSampleExceedsMatches signals a selector requesting more random samples
// than there are matching quotes. This is a configuration mistake on the
// author's side and is reported as such rather than crashing the build.
var ErrSampleExceedsMatches = errors.New("registry: sample size exceeds matching quotes")

// Entry records one collected quote: where it came from, the anchor emitted
// at its original location, and the parsed node itself.
type Entry struct {
	Document string
	Line     int
	AnchorID string
	Node     *directive.QuoteNode
}

// Options exposes the quote's directive options.
func (e Entry) Options() directive.QuoteOptions {
	if e.Node == nil {
		return directive.QuoteOptions{}
	}
	return e.Node.Options
}

// FilterOptions is the conjunction of selector predicates applied over the
// registry. Has* flags distinguish "option absent" from zero values; an empty
// requested group matches only entries with no group set.
type FilterOptions struct {
	Tags     directive.TagSet
	HasTags  bool
	Group    string
	HasGroup bool
}

// FilterFromSelector derives filter options from parsed selector options.
func FilterFromSelector(opts directive.SelectorOptions) FilterOptions {
	return FilterOptions{
		Tags:     opts.Tags,
		HasTags:  opts.HasTags,
		Group:    opts.Group,
		HasGroup: opts.HasGroup,
	}
}

// Registry is the ordered collection of quote entries for one build. Pipeline
// callbacks for a given document run sequentially, so no locking is needed.
type Registry struct {
	logger  interfaces.Logger
	entries []Entry
}

// New constructs an empty registry.
func New(logger interfaces.Logger) *Registry {
	if logger == nil {
		logger = logging.NoOp()
	}
	return &Registry{logger: logger}
}

// Collect walks a parsed document tree and appends one entry per quote node,
// preserving document order. The anchor is taken from the immediately
// preceding sibling when it is an anchor node; a missing anchor degrades to
// an entry without one. Collect never mutates existing entries.
func (r *Registry) Collect(doc string, tree ast.Node) int {
	count := 0
	_ = ast.Walk(tree, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		quote, ok := n.(*directive.QuoteNode)
		if !ok {
			return ast.WalkContinue, nil
		}

		anchorID := ""
		if anchor, ok := quote.PreviousSibling().(*directive.QuoteAnchorNode); ok {
			anchorID = anchor.ID
		}

		r.entries = append(r.entries, Entry{
			Document: doc,
			Line:     quote.Line,
			AnchorID: anchorID,
			Node:     quote,
		})
		count++
		return ast.WalkContinue, nil
	})

	if count > 0 {
		r.logger.Debug("registry.collect", "document", doc, "collected", count, "total", len(r.entries))
	}
	return count
}

// Purge removes exactly the entries owned by the supplied document, keeping
// the relative order of the remaining entries unchanged. It returns the
// number of evicted entries.
func (r *Registry) Purge(doc string) int {
	kept := r.entries[:0]
	removed := 0
	for _, entry := range r.entries {
		if entry.Document == doc {
			removed++
			continue
		}
		kept = append(kept, entry)
	}
	r.entries = kept

	if removed > 0 {
		r.logger.Debug("registry.purge", "document", doc, "removed", removed, "total", len(r.entries))
	}
	return removed
}

// Filter returns the entries passing every predicate, in registry order. The
// tag predicate passes when the entry's tag set is a superset of the
// requested set; the group predicate requires exact equality, with an unset
// entry group treated as the empty string.
func (r *Registry) Filter(opts FilterOptions) []Entry {
	var matched []Entry
	for _, entry := range r.entries {
		if opts.HasTags && !entry.Options().Tags.Superset(opts.Tags) {
			continue
		}
		if opts.HasGroup && entry.Options().Group != opts.Group {
			continue
		}
		matched = append(matched, entry)
	}
	return matched
}

// Entries returns a copy of the current registry contents.
func (r *Registry) Entries() []Entry {
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Len reports the number of collected entries.
func (r *Registry) Len() int {
	return len(r.entries)
}

// Sample draws n entries without replacement from the supplied slice, in
// unspecified order. Requesting more entries than available returns
// ErrSampleExceedsMatches. The input slice is not modified. A nil rng falls
// back to the shared source.
func Sample(entries []Entry, n int, rng *rand.Rand) ([]Entry, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: requested %d", ErrSampleExceedsMatches, n)
	}
	if n > len(entries) {
		return nil, fmt.Errorf("%w: requested %d of %d", ErrSampleExceedsMatches, n, len(entries))
	}

	out := make([]Entry, len(entries))
	copy(out, entries)

	swap := func(i, j int) { out[i], out[j] = out[j], out[i] }
	if rng != nil {
		rng.Shuffle(len(out), swap)
	} else {
		rand.Shuffle(len(out), swap)
	}
	return out[:n], nil
}
