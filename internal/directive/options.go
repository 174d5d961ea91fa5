package directive

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/adrg/frontmatter"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// TagSet holds the normalized tags attached to a quote or requested by a
// selector. Tags are compared verbatim after trimming.
type TagSet map[string]struct{}

// ParseTags splits a comma-separated tag list into a set, trimming whitespace
// and dropping empty fragments. An empty or blank input yields an empty set.
func ParseTags(raw string) TagSet {
	set := TagSet{}
	for _, part := range strings.Split(raw, ",") {
		if tag := strings.TrimSpace(part); tag != "" {
			set[tag] = struct{}{}
		}
	}
	return set
}

// Contains reports whether the set holds the supplied tag.
func (s TagSet) Contains(tag string) bool {
	_, ok := s[tag]
	return ok
}

// Superset reports whether every tag in other is present in s.
func (s TagSet) Superset(other TagSet) bool {
	for tag := range other {
		if !s.Contains(tag) {
			return false
		}
	}
	return true
}

// Sorted returns the tags in lexical order.
func (s TagSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for tag := range s {
		out = append(out, tag)
	}
	sort.Strings(out)
	return out
}

// String renders the set as a comma-joined list for logs and AST dumps.
func (s TagSet) String() string {
	return strings.Join(s.Sorted(), ",")
}

func (s TagSet) clone() TagSet {
	out := make(TagSet, len(s))
	for tag := range s {
		out[tag] = struct{}{}
	}
	return out
}

// QuoteOptions holds the recognized options of a quote directive.
type QuoteOptions struct {
	Author      string
	Affiliation string
	Date        string
	Group       string
	Source      string
	Tags        TagSet
}

// AttributionDate returns the date wrapped for attribution display, or the
// empty string when no date was supplied.
func (o QuoteOptions) AttributionDate() string {
	if o.Date == "" {
		return ""
	}
	return "[" + o.Date + "]"
}

// AttributionSource returns the source wrapped for attribution display, or
// the empty string when no source was supplied.
func (o QuoteOptions) AttributionSource() string {
	if o.Source == "" {
		return ""
	}
	return "Source: " + o.Source
}

func (o QuoteOptions) clone() QuoteOptions {
	o.Tags = o.Tags.clone()
	return o
}

// SelectorOptions holds the recognized options of a quotes selector.
//
// Group and Tags track presence separately from their values: a selector with
// `group: ""` matches only quotes with no group set, while a selector without
// a group option applies no group filter at all.
type SelectorOptions struct {
	Tags     TagSet
	HasTags  bool
	Group    string
	HasGroup bool
	Random   int
	Sections string
}

type quoteEnvelope struct {
	Author      string `yaml:"author"`
	Affiliation string `yaml:"affiliation"`
	Date        string `yaml:"date"`
	Group       string `yaml:"group"`
	Tags        string `yaml:"tags"`
	Source      string `yaml:"source"`
}

type selectorEnvelope struct {
	Tags     *string `yaml:"tags"`
	Group    *string `yaml:"group"`
	Random   *int    `yaml:"random"`
	Sections string  `yaml:"sections"`
}

func (env selectorEnvelope) validate() error {
	return validation.ValidateStruct(&env,
		validation.Field(&env.Random, validation.By(func(value any) error {
			v, ok := value.(*int)
			if !ok || v == nil {
				return nil
			}
			if *v < 1 {
				return validation.NewError("quotes.directive.random_positive", "random must be a positive integer")
			}
			return nil
		})),
	)
}

// ParseQuoteBlock splits a quote directive body into its frontmatter options
// and freeform quote text. A block without a frontmatter fence yields zero
// options and the whole body as quote text.
func ParseQuoteBlock(raw []byte) (QuoteOptions, string, error) {
	var env quoteEnvelope
	body, err := frontmatter.Parse(bytes.NewReader(raw), &env)
	if err != nil {
		return QuoteOptions{}, "", fmt.Errorf("quote directive options: %w", err)
	}

	opts := QuoteOptions{
		Author:      strings.TrimSpace(env.Author),
		Affiliation: strings.TrimSpace(env.Affiliation),
		Date:        strings.TrimSpace(env.Date),
		Group:       strings.TrimSpace(env.Group),
		Source:      strings.TrimSpace(env.Source),
		Tags:        ParseTags(env.Tags),
	}
	return opts, strings.TrimSpace(string(body)), nil
}

// ParseSelectorBlock parses a quotes selector body into filter options.
func ParseSelectorBlock(raw []byte) (SelectorOptions, error) {
	var env selectorEnvelope
	if _, err := frontmatter.Parse(bytes.NewReader(raw), &env); err != nil {
		return SelectorOptions{}, fmt.Errorf("quotes directive options: %w", err)
	}
	if err := env.validate(); err != nil {
		return SelectorOptions{}, fmt.Errorf("quotes directive options: %w", err)
	}

	opts := SelectorOptions{
		Sections: strings.TrimSpace(env.Sections),
	}
	if env.Tags != nil {
		opts.HasTags = true
		opts.Tags = ParseTags(*env.Tags)
	}
	if env.Group != nil {
		opts.HasGroup = true
		opts.Group = strings.TrimSpace(*env.Group)
	}
	if env.Random != nil {
		opts.Random = *env.Random
	}
	return opts, nil
}
