package interfaces

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrContentNotFound is returned by ContentStore lookups for unknown ids.
var ErrContentNotFound = errors.New("content not found")

// ContentRecord is the host CMS view of a live content item. The staging
// engine never owns these records; it reads source items from the store and
// publishes completed translations back into it.
type ContentRecord struct {
	ID          uuid.UUID
	Title       string
	Body        string
	ContentType string
	Language    string
	Status      string
	Slug        string
}

// MetadataEntry is one key/value pair attached to a content record. Keys may
// repeat; the sequence order is the storage order.
type MetadataEntry struct {
	Key   string
	Value string
}

// ContentStore abstracts the host CMS content repository. It is the single
// collaborator the staging engine talks to for live content: reads of source
// items, language resolution, translation linking, and publication writes.
type ContentStore interface {
	// Get returns the content record for id or ErrContentNotFound.
	Get(ctx context.Context, id uuid.UUID) (*ContentRecord, error)

	// GetLanguage reports the language tag assigned to the record.
	GetLanguage(ctx context.Context, id uuid.UUID) (string, error)

	// GetTranslationLink resolves the linked translation of id for the given
	// language tag. It returns uuid.Nil without error when no link exists.
	GetTranslationLink(ctx context.Context, id uuid.UUID, language string) (uuid.UUID, error)

	// SetTranslationLink registers translated as the language translation of
	// id. Implementations must record the link in both directions so either
	// record resolves the other.
	SetTranslationLink(ctx context.Context, id uuid.UUID, language string, translated uuid.UUID) error

	// Create inserts a new live record and returns its id.
	Create(ctx context.Context, record *ContentRecord) (uuid.UUID, error)

	// Update overwrites the mutable fields of an existing record.
	Update(ctx context.Context, record *ContentRecord) error

	// ListMetadata returns the metadata entries of a record in storage order.
	ListMetadata(ctx context.Context, id uuid.UUID) ([]MetadataEntry, error)

	// SetMetadata attaches a value under key. Stores supporting multi-valued
	// keys append; single-valued stores overwrite.
	SetMetadata(ctx context.Context, id uuid.UUID, key, value string) error

	// ListByTypeAndLanguage returns the live records of the given content
	// type carrying the given language tag.
	ListByTypeAndLanguage(ctx context.Context, contentType, language string) ([]*ContentRecord, error)
}
