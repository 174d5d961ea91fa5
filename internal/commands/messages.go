package commands

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	buildDirectoryMessageType  = "quotes.pipeline.build_directory"
	resolveDocumentMessageType = "quotes.pipeline.resolve_document"
	purgeDocumentMessageType   = "quotes.pipeline.purge_document"
)

// BuildDirectoryCommand triggers a filesystem walk for Markdown documents
// under the provided Directory, parsing each and collecting its quotes.
type BuildDirectoryCommand struct {
	// Directory selects the filesystem path to load documents from.
	Directory string `json:"directory"`
}

// Type implements command.Message.
func (BuildDirectoryCommand) Type() string { return buildDirectoryMessageType }

// Validate ensures directory input is present before handlers execute.
func (cmd BuildDirectoryCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Directory, validation.Required, validation.By(func(value any) error {
			if strings.TrimSpace(value.(string)) == "" {
				return validation.NewError("quotes.pipeline.build_directory.directory_required", "directory is required")
			}
			return nil
		})),
	)
}

// ResolveDocumentCommand substitutes quote selections in one parsed document,
// or in every parsed document when Document is "*".
type ResolveDocumentCommand struct {
	// Document identifies the parsed document to resolve.
	Document string `json:"document"`
}

// Type implements command.Message.
func (ResolveDocumentCommand) Type() string { return resolveDocumentMessageType }

// Validate ensures a document identifier is present before handlers execute.
func (cmd ResolveDocumentCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Document, validation.Required, validation.By(func(value any) error {
			if strings.TrimSpace(value.(string)) == "" {
				return validation.NewError("quotes.pipeline.resolve_document.document_required", "document is required")
			}
			return nil
		})),
	)
}

// ResolveAll reports whether the command addresses the whole document set.
func (cmd ResolveDocumentCommand) ResolveAll() bool {
	return strings.TrimSpace(cmd.Document) == "*"
}

// PurgeDocumentCommand evicts a document from the incremental build,
// dropping its registry entries.
type PurgeDocumentCommand struct {
	// Document identifies the document to purge.
	Document string `json:"document"`
}

// Type implements command.Message.
func (PurgeDocumentCommand) Type() string { return purgeDocumentMessageType }

// Validate ensures a document identifier is present before handlers execute.
func (cmd PurgeDocumentCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Document, validation.Required, validation.By(func(value any) error {
			if strings.TrimSpace(value.(string)) == "" {
				return validation.NewError("quotes.pipeline.purge_document.document_required", "document is required")
			}
			return nil
		})),
	)
}
