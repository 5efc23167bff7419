package staging

import (
	"github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

func NewStagingItemRepository(db *bun.DB) repository.Repository[*StagingItem] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*StagingItem]{
		NewRecord: func() *StagingItem { return &StagingItem{} },
		GetID: func(item *StagingItem) uuid.UUID {
			return item.ID
		},
		SetID: func(item *StagingItem, id uuid.UUID) {
			item.ID = id
		},
		GetIdentifier: func() string {
			return "id"
		},
		GetIdentifierValue: func(item *StagingItem) string {
			if item == nil {
				return ""
			}
			return item.ID.String()
		},
	})
}

func NewSyncLogRepository(db *bun.DB) repository.Repository[*SyncLogEntry] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*SyncLogEntry]{
		NewRecord: func() *SyncLogEntry { return &SyncLogEntry{} },
		GetID: func(entry *SyncLogEntry) uuid.UUID {
			return entry.ID
		},
		SetID: func(entry *SyncLogEntry, id uuid.UUID) {
			entry.ID = id
		},
		GetIdentifier: func() string {
			return "id"
		},
		GetIdentifierValue: func(entry *SyncLogEntry) string {
			if entry == nil {
				return ""
			}
			return entry.ID.String()
		},
	})
}

func wrapWithCache[T any](base repository.Repository[T], cacheService cache.CacheService, keySerializer cache.KeySerializer) repository.Repository[T] {
	if cacheService == nil || keySerializer == nil {
		return base
	}
	return repositorycache.New(base, cacheService, keySerializer)
}
