package staging

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// StagingItem is a pending or in-flight translation unit. At most one item
// exists per (original_id, target_language) pair; the unique index backs the
// engine's conflict detection.
type StagingItem struct {
	bun.BaseModel `bun:"table:staging_items,alias:si"`

	ID             uuid.UUID  `bun:",pk,type:uuid"                          json:"id"`
	OriginalID     uuid.UUID  `bun:"original_id,notnull,type:uuid,unique:staging_original_target" json:"original_id"`
	SourceLanguage string     `bun:"source_language,notnull"                json:"source_language"`
	TargetLanguage string     `bun:"target_language,notnull,unique:staging_original_target" json:"target_language"`
	Title          string     `bun:"title,notnull"                          json:"title"`
	Body           string     `bun:"body,notnull"                           json:"body"`
	ContentType    string     `bun:"content_type,notnull"                   json:"content_type"`
	Status         Status     `bun:"status,notnull,default:'pending'"       json:"status"`
	LastSyncDate   *time.Time `bun:"last_sync_date,nullzero"                json:"last_sync_date,omitempty"`
	EditorUserID   *uuid.UUID `bun:"editor_user_id,type:uuid,nullzero"      json:"editor_user_id,omitempty"`

	Metadata []*StagingMetadataEntry `bun:"rel:has-many,join:id=staging_item_id" json:"metadata,omitempty"`
}

// StagingMetadataEntry is one key/value pair scoped to a staging item. Keys
// may repeat; Position preserves the fan-out order of the source metadata so
// multi-valued keys propagate in a stable sequence.
type StagingMetadataEntry struct {
	bun.BaseModel `bun:"table:staging_metadata,alias:sm"`

	ID            uuid.UUID `bun:",pk,type:uuid"                     json:"id"`
	StagingItemID uuid.UUID `bun:"staging_item_id,notnull,type:uuid" json:"staging_item_id"`
	Key           string    `bun:"meta_key,notnull"                  json:"key"`
	Value         string    `bun:"meta_value"                        json:"value"`
	Position      int       `bun:"position,notnull,default:0"        json:"position"`
}

// SyncOutcome records whether a promotion attempt succeeded.
type SyncOutcome string

const (
	SyncOutcomeSuccess SyncOutcome = "success"
	SyncOutcomeFailure SyncOutcome = "failure"
)

// SyncLogEntry is the append-only audit record of one sync attempt. It keys
// on the live content id rather than the staging item so the trail survives
// retention cleanup of staging rows.
type SyncLogEntry struct {
	bun.BaseModel `bun:"table:sync_log,alias:sl"`

	ID             uuid.UUID   `bun:",pk,type:uuid"              json:"id"`
	SyncDate       time.Time   `bun:"sync_date,notnull"          json:"sync_date"`
	ActorID        uuid.UUID   `bun:"actor_id,notnull,type:uuid" json:"actor_id"`
	ContentType    string      `bun:"content_type,notnull"       json:"content_type"`
	ContentID      uuid.UUID   `bun:"content_id,type:uuid"       json:"content_id"`
	SourceLanguage string      `bun:"source_language,notnull"    json:"source_language"`
	TargetLanguage string      `bun:"target_language,notnull"    json:"target_language"`
	Outcome        SyncOutcome `bun:"outcome,notnull"            json:"outcome"`
	Message        string      `bun:"message"                    json:"message,omitempty"`
}
