package content

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Content is a live, language-tagged content record. It stands in for the
// host CMS content table when the module runs with its own storage.
type Content struct {
	bun.BaseModel `bun:"table:contents,alias:c"`

	ID          uuid.UUID `bun:",pk,type:uuid"            json:"id"`
	Title       string    `bun:"title,notnull"            json:"title"`
	Body        string    `bun:"body"                     json:"body"`
	ContentType string    `bun:"content_type,notnull"     json:"content_type"`
	Language    string    `bun:"language,notnull"         json:"language"`
	Status      string    `bun:"status,notnull,default:'draft'" json:"status"`
	Slug        string    `bun:"slug,notnull"             json:"slug"`
	CreatedAt   time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt   time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// TranslationLink associates a content record with its translation in one
// language. Links are written in both directions so either side resolves
// the other.
type TranslationLink struct {
	bun.BaseModel `bun:"table:translation_links,alias:tl"`

	ID           uuid.UUID `bun:",pk,type:uuid"                                        json:"id"`
	ContentID    uuid.UUID `bun:"content_id,notnull,type:uuid,unique:link_content_language" json:"content_id"`
	Language     string    `bun:"language,notnull,unique:link_content_language"        json:"language"`
	TranslatedID uuid.UUID `bun:"translated_id,notnull,type:uuid"                      json:"translated_id"`
}

// ContentMeta is one key/value metadata row attached to a content record.
// Keys may repeat; Position preserves insertion order per record.
type ContentMeta struct {
	bun.BaseModel `bun:"table:content_metadata,alias:cm"`

	ID        uuid.UUID `bun:",pk,type:uuid"               json:"id"`
	ContentID uuid.UUID `bun:"content_id,notnull,type:uuid" json:"content_id"`
	Key       string    `bun:"meta_key,notnull"            json:"key"`
	Value     string    `bun:"meta_value"                  json:"value"`
	Position  int       `bun:"position,notnull,default:0"  json:"position"`
}
