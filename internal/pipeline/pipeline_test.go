package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"
	"testing/fstest"

	urlkit "github.com/goliatone/go-urlkit"

	"github.com/goliatone/go-quotes/internal/directive"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"content/intro.md": &fstest.MapFile{Data: []byte(
			"---\ntitle: Intro\nslug: intro\n---\n# Intro\n\nHello **world**\n",
		)},
		"content/guide/advanced.md": &fstest.MapFile{Data: []byte(
			"# Advanced\n",
		)},
		"content/notes.txt": &fstest.MapFile{Data: []byte("not markdown")},
	}
}

func newTestEngine(t *testing.T, fsys fstest.MapFS, opts ...EngineOption) *Engine {
	t.Helper()

	loader := NewLoader(fsys, LoaderConfig{Pattern: "*.md", Recursive: true})
	defaults := []EngineOption{WithExtensions(directive.New())}
	engine, err := NewEngine(loader, append(defaults, opts...)...)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	return engine
}

func TestLoaderDiscover(t *testing.T) {
	loader := NewLoader(testFS(), LoaderConfig{Pattern: "*.md", Recursive: true})

	paths, err := loader.Discover(context.Background(), "content")
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("expected 2 documents, got %v", paths)
	}
	if paths[0] != "content/guide/advanced.md" || paths[1] != "content/intro.md" {
		t.Fatalf("expected sorted paths, got %v", paths)
	}
}

func TestLoaderDiscoverNonRecursive(t *testing.T) {
	loader := NewLoader(testFS(), LoaderConfig{Pattern: "*.md"})

	paths, err := loader.Discover(context.Background(), "content")
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(paths) != 1 || paths[0] != "content/intro.md" {
		t.Fatalf("expected only top-level documents, got %v", paths)
	}
}

func TestParseDocumentExtractsFrontMatter(t *testing.T) {
	engine := newTestEngine(t, testFS())

	doc, err := engine.ParseDocument(context.Background(), "content/intro.md")
	if err != nil {
		t.Fatalf("ParseDocument: %v", err)
	}
	if doc.Meta.Title != "Intro" {
		t.Fatalf("title mismatch, got %q", doc.Meta.Title)
	}
	if doc.Slug != "intro" {
		t.Fatalf("slug mismatch, got %q", doc.Slug)
	}
	if strings.Contains(string(doc.Source), "title:") {
		t.Fatalf("expected frontmatter stripped from source")
	}
}

func TestParseDocumentDerivesSlugFromPath(t *testing.T) {
	engine := newTestEngine(t, testFS())

	doc, err := engine.ParseDocument(context.Background(), "content/guide/advanced.md")
	if err != nil {
		t.Fatalf("ParseDocument: %v", err)
	}
	if doc.Slug != "content-guide-advanced" {
		t.Fatalf("slug mismatch, got %q", doc.Slug)
	}
}

func TestHookLifecycle(t *testing.T) {
	engine := newTestEngine(t, testFS())

	var parsed, resolved, purged []string
	engine.OnDocumentParsed(func(ctx context.Context, doc *Document) error {
		parsed = append(parsed, doc.Path)
		return nil
	})
	engine.OnDocumentResolved(func(ctx context.Context, doc *Document) error {
		resolved = append(resolved, doc.Path)
		return nil
	})
	engine.OnDocumentPurged(func(ctx context.Context, path string) error {
		purged = append(purged, path)
		return nil
	})

	ctx := context.Background()
	if _, err := engine.BuildDirectory(ctx, "content"); err != nil {
		t.Fatalf("BuildDirectory: %v", err)
	}
	if len(parsed) != 2 {
		t.Fatalf("expected 2 parsed notifications, got %v", parsed)
	}

	if err := engine.ResolveAll(ctx); err != nil {
		t.Fatalf("ResolveAll: %v", err)
	}
	if len(resolved) != 2 {
		t.Fatalf("expected 2 resolved notifications, got %v", resolved)
	}

	if err := engine.PurgeDocument(ctx, "content/intro.md"); err != nil {
		t.Fatalf("PurgeDocument: %v", err)
	}
	if len(purged) != 1 || purged[0] != "content/intro.md" {
		t.Fatalf("expected purge notification, got %v", purged)
	}
	if _, ok := engine.Document("content/intro.md"); ok {
		t.Fatalf("expected document evicted")
	}
	if len(engine.Documents()) != 1 {
		t.Fatalf("expected 1 remaining document")
	}
}

func TestResolveUnknownDocument(t *testing.T) {
	engine := newTestEngine(t, testFS())

	err := engine.ResolveDocument(context.Background(), "content/missing.md")
	if !errors.Is(err, ErrDocumentNotFound) {
		t.Fatalf("expected ErrDocumentNotFound, got %v", err)
	}
}

func TestRenderHTML(t *testing.T) {
	engine := newTestEngine(t, testFS())
	ctx := context.Background()

	if _, err := engine.ParseDocument(ctx, "content/intro.md"); err != nil {
		t.Fatalf("ParseDocument: %v", err)
	}

	html, err := engine.RenderHTML(ctx, "content/intro.md")
	if err != nil {
		t.Fatalf("RenderHTML: %v", err)
	}
	if !strings.Contains(html, "<strong>world</strong>") {
		t.Fatalf("expected rendered markdown, got %q", html)
	}
}

func TestBacklinkWithoutRouteManager(t *testing.T) {
	engine := newTestEngine(t, testFS(), WithBacklinks(NewBacklinkResolver(BacklinkConfig{})))

	url, err := engine.Backlink("content/intro.md", "quote-abc")
	if err != nil {
		t.Fatalf("Backlink: %v", err)
	}
	if url != "#quote-abc" {
		t.Fatalf("expected fragment-only backlink, got %q", url)
	}
}

func TestBacklinkWithRouteManager(t *testing.T) {
	manager := urlkit.NewRouteManager(&urlkit.Config{
		Groups: []urlkit.GroupConfig{
			{
				Name:    "site",
				BaseURL: "https://docs.example.com",
				Paths: map[string]string{
					"document": "/docs/:document",
				},
			},
		},
	})

	resolver := NewBacklinkResolver(BacklinkConfig{Manager: manager, Group: "site"})
	engine := newTestEngine(t, testFS(), WithBacklinks(resolver))

	ctx := context.Background()
	if _, err := engine.ParseDocument(ctx, "content/intro.md"); err != nil {
		t.Fatalf("ParseDocument: %v", err)
	}

	url, err := engine.Backlink("content/intro.md", "quote-abc")
	if err != nil {
		t.Fatalf("Backlink: %v", err)
	}
	if !strings.Contains(url, "https://docs.example.com") || !strings.Contains(url, "intro") {
		t.Fatalf("expected routed backlink, got %q", url)
	}
	if !strings.HasSuffix(url, "#quote-abc") {
		t.Fatalf("expected anchor fragment, got %q", url)
	}
}

func TestBacklinkUnknownGroupFails(t *testing.T) {
	manager := urlkit.NewRouteManager(&urlkit.Config{})
	resolver := NewBacklinkResolver(BacklinkConfig{Manager: manager, Group: "missing"})

	if _, err := resolver.Resolve("intro", "a"); err == nil {
		t.Fatalf("expected unknown group error")
	}
}
