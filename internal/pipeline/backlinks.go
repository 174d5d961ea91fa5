package pipeline

import (
	"fmt"

	urlkit "github.com/goliatone/go-urlkit"
)

// BacklinkConfig configures the go-urlkit backed backlink resolver.
type BacklinkConfig struct {
	Manager *urlkit.RouteManager
	Group   string
	Route   string
	Param   string
}

// BacklinkResolver builds URLs pointing at a quote's original location. When
// no route manager is configured, resolution degrades to fragment-only links
// so in-document backlinks keep working.
type BacklinkResolver struct {
	manager *urlkit.RouteManager
	group   string
	route   string
	param   string
}

// NewBacklinkResolver constructs a resolver. Route and Param default to
// "document".
func NewBacklinkResolver(cfg BacklinkConfig) *BacklinkResolver {
	route := cfg.Route
	if route == "" {
		route = "document"
	}
	param := cfg.Param
	if param == "" {
		param = "document"
	}
	return &BacklinkResolver{
		manager: cfg.Manager,
		group:   cfg.Group,
		route:   route,
		param:   param,
	}
}

// Resolve builds the backlink URL for a document slug and anchor fragment.
func (r *BacklinkResolver) Resolve(slug, anchor string) (string, error) {
	if r == nil || r.manager == nil {
		if anchor == "" {
			return "", nil
		}
		return "#" + anchor, nil
	}

	group, err := lookupGroup(r.manager, r.group)
	if err != nil {
		return "", err
	}

	builder, err := safeBuilder(group, r.route)
	if err != nil {
		return "", err
	}
	builder.WithParam(r.param, slug)

	url, err := builder.Build()
	if err != nil {
		return "", fmt.Errorf("pipeline backlink build %s: %w", slug, err)
	}
	if anchor != "" {
		url += "#" + anchor
	}
	return url, nil
}

// go-urlkit panics on unknown groups and routes; contain that at the lookup
// boundary so a misconfigured route table surfaces as an error.
func lookupGroup(manager *urlkit.RouteManager, name string) (group *urlkit.Group, err error) {
	if manager == nil {
		return nil, fmt.Errorf("pipeline: route manager not configured")
	}
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("pipeline: route group %q not found", name)
		}
	}()
	group = manager.Group(name)
	return group, err
}

func safeBuilder(group *urlkit.Group, route string) (builder *urlkit.Builder, err error) {
	if group == nil {
		return nil, fmt.Errorf("pipeline: urlkit group is nil")
	}
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("pipeline: urlkit builder panic: %v", rec)
		}
	}()
	builder = group.Builder(route)
	return builder, err
}
