package pipeline

import (
	"context"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"time"
)

// LoaderConfig configures how Markdown documents are discovered.
type LoaderConfig struct {
	// Pattern limits discovered files to those matching the supplied glob
	// (defaults to "*.md").
	Pattern string
	// Recursive controls whether sub-directories are traversed.
	Recursive bool
}

// Loader discovers and reads Markdown documents from a filesystem.
type Loader struct {
	fsys      fs.FS
	pattern   string
	recursive bool
}

// NewLoader constructs a Loader over the provided filesystem.
func NewLoader(fsys fs.FS, cfg LoaderConfig) *Loader {
	pattern := strings.TrimSpace(cfg.Pattern)
	if pattern == "" {
		pattern = "*.md"
	}
	return &Loader{
		fsys:      fsys,
		pattern:   pattern,
		recursive: cfg.Recursive,
	}
}

// Discover returns the matching document paths under dir, sorted for
// deterministic build order.
func (l *Loader) Discover(ctx context.Context, dir string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	root := path.Clean(strings.TrimSpace(dir))
	if root == "" || root == "." || root == "/" {
		root = "."
	}

	var paths []string
	err := fs.WalkDir(l.fsys, root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			if !l.recursive && p != root {
				return fs.SkipDir
			}
			return nil
		}
		matched, err := path.Match(l.pattern, d.Name())
		if err != nil {
			return fmt.Errorf("pipeline loader pattern %q: %w", l.pattern, err)
		}
		if matched {
			paths = append(paths, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("pipeline loader walk %s: %w", root, err)
	}

	sort.Strings(paths)
	return paths, nil
}

// Load reads a single document's raw bytes and modification time.
func (l *Loader) Load(ctx context.Context, p string) ([]byte, time.Time, error) {
	if err := ctx.Err(); err != nil {
		return nil, time.Time{}, err
	}

	clean := path.Clean(p)
	data, err := fs.ReadFile(l.fsys, clean)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("pipeline loader read %s: %w", p, err)
	}

	modified := time.Time{}
	if info, err := fs.Stat(l.fsys, clean); err == nil {
		modified = info.ModTime()
	}
	return data, modified, nil
}
