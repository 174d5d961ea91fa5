package commands

import (
	"context"

	"github.com/goliatone/go-quotes/internal/pipeline"
	"github.com/goliatone/go-quotes/pkg/interfaces"
)

// BuildService is the pipeline surface the build handler consumes.
type BuildService interface {
	BuildDirectory(ctx context.Context, dir string) ([]*pipeline.Document, error)
}

// ResolveService is the pipeline surface the resolve handler consumes.
type ResolveService interface {
	ResolveDocument(ctx context.Context, path string) error
	ResolveAll(ctx context.Context) error
}

// PurgeService is the pipeline surface the purge handler consumes.
type PurgeService interface {
	PurgeDocument(ctx context.Context, path string) error
}

// NewBuildDirectoryHandler wires a build-directory command to the pipeline.
func NewBuildDirectoryHandler(service BuildService, logger interfaces.Logger, opts ...HandlerOption[BuildDirectoryCommand]) *Handler[BuildDirectoryCommand] {
	fn := func(ctx context.Context, msg BuildDirectoryCommand) error {
		_, err := service.BuildDirectory(ctx, msg.Directory)
		return err
	}
	defaults := []HandlerOption[BuildDirectoryCommand]{
		WithLogger[BuildDirectoryCommand](logger),
		WithOperation[BuildDirectoryCommand]("quotes.build"),
	}
	return NewHandler(fn, append(defaults, opts...)...)
}

// NewResolveDocumentHandler wires a resolve command to the pipeline.
func NewResolveDocumentHandler(service ResolveService, logger interfaces.Logger, opts ...HandlerOption[ResolveDocumentCommand]) *Handler[ResolveDocumentCommand] {
	fn := func(ctx context.Context, msg ResolveDocumentCommand) error {
		if msg.ResolveAll() {
			return service.ResolveAll(ctx)
		}
		return service.ResolveDocument(ctx, msg.Document)
	}
	defaults := []HandlerOption[ResolveDocumentCommand]{
		WithLogger[ResolveDocumentCommand](logger),
		WithOperation[ResolveDocumentCommand]("quotes.resolve"),
	}
	return NewHandler(fn, append(defaults, opts...)...)
}

// NewPurgeDocumentHandler wires a purge command to the pipeline.
func NewPurgeDocumentHandler(service PurgeService, logger interfaces.Logger, opts ...HandlerOption[PurgeDocumentCommand]) *Handler[PurgeDocumentCommand] {
	fn := func(ctx context.Context, msg PurgeDocumentCommand) error {
		return service.PurgeDocument(ctx, msg.Document)
	}
	defaults := []HandlerOption[PurgeDocumentCommand]{
		WithLogger[PurgeDocumentCommand](logger),
		WithOperation[PurgeDocumentCommand]("quotes.purge"),
	}
	return NewHandler(fn, append(defaults, opts...)...)
}
