package staging

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// BunRepository persists staging state through a Bun-backed database.
type BunRepository struct {
	db    *bun.DB
	items repository.Repository[*StagingItem]
	logs  repository.Repository[*SyncLogEntry]
}

// NewBunRepository constructs a Bun-backed staging repository.
func NewBunRepository(db *bun.DB) *BunRepository {
	return NewBunRepositoryWithCache(db, nil, nil)
}

// NewBunRepositoryWithCache constructs the repository with optional
// read-through caching of item lookups.
func NewBunRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, keySerializer cache.KeySerializer) *BunRepository {
	return &BunRepository{
		db:    db,
		items: wrapWithCache(NewStagingItemRepository(db), cacheService, keySerializer),
		logs:  NewSyncLogRepository(db),
	}
}

// EnsureSchema creates the staging tables when absent. The unique group on
// (original_id, target_language) backs the engine's conflict detection.
func EnsureSchema(ctx context.Context, db *bun.DB) error {
	models := []any{
		(*StagingItem)(nil),
		(*StagingMetadataEntry)(nil),
		(*SyncLogEntry)(nil),
	}
	for _, model := range models {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("staging: create table: %w", err)
		}
	}
	if _, err := db.NewCreateIndex().
		Model((*StagingMetadataEntry)(nil)).
		Index("idx_staging_metadata_item").
		Column("staging_item_id").
		IfNotExists().
		Exec(ctx); err != nil {
		return fmt.Errorf("staging: create index: %w", err)
	}
	return nil
}

// CreateItem inserts the item plus metadata in one transaction. The in-tx
// lookup yields the friendly conflict error; the unique index closes the
// read-then-write race and is mapped to the same error.
func (r *BunRepository) CreateItem(ctx context.Context, item *StagingItem, metadata []*StagingMetadataEntry) (*StagingItem, error) {
	err := r.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		var existing StagingItem
		err := tx.NewSelect().
			Model(&existing).
			Column("id").
			Where("original_id = ?", item.OriginalID).
			Where("lower(target_language) = lower(?)", item.TargetLanguage).
			Limit(1).
			Scan(ctx)
		if err == nil {
			return &AlreadyStagedError{
				OriginalID:     item.OriginalID,
				TargetLanguage: item.TargetLanguage,
				ExistingID:     existing.ID,
			}
		}
		if err != sql.ErrNoRows {
			return err
		}

		if _, err := tx.NewInsert().Model(item).Exec(ctx); err != nil {
			if isUniqueViolation(err) {
				return &AlreadyStagedError{
					OriginalID:     item.OriginalID,
					TargetLanguage: item.TargetLanguage,
				}
			}
			return err
		}
		if len(metadata) > 0 {
			if _, err := tx.NewInsert().Model(&metadata).Exec(ctx); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cloneItem(item), nil
}

// GetItem retrieves a staging item by identifier.
func (r *BunRepository) GetItem(ctx context.Context, id uuid.UUID) (*StagingItem, error) {
	item, err := r.items.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, "staging_item", id.String())
	}
	return item, nil
}

// FindItem retrieves the staged item for the (original, language) pair.
func (r *BunRepository) FindItem(ctx context.Context, originalID uuid.UUID, targetLanguage string) (*StagingItem, error) {
	var item StagingItem
	err := r.db.NewSelect().
		Model(&item).
		Where("original_id = ?", originalID).
		Where("lower(target_language) = lower(?)", targetLanguage).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, &NotFoundError{Resource: "staging_item", Key: originalID.String()}
		}
		return nil, err
	}
	return &item, nil
}

// UpdateItem overwrites the stored item.
func (r *BunRepository) UpdateItem(ctx context.Context, item *StagingItem) (*StagingItem, error) {
	updated, err := r.items.Update(ctx, item)
	if err != nil {
		return nil, mapRepositoryError(err, "staging_item", item.ID.String())
	}
	return updated, nil
}

// ListItems returns matching items ordered by last_sync_date descending.
func (r *BunRepository) ListItems(ctx context.Context, filter ListRequest) ([]*StagingItem, error) {
	var items []*StagingItem
	query := r.db.NewSelect().Model(&items).Order("last_sync_date DESC")
	if target := strings.TrimSpace(filter.TargetLanguage); target != "" {
		query = query.Where("lower(target_language) = lower(?)", target)
	}
	if len(filter.Statuses) > 0 {
		statuses := make([]string, 0, len(filter.Statuses))
		for _, status := range filter.Statuses {
			statuses = append(statuses, string(status))
		}
		query = query.Where("status IN (?)", bun.In(statuses))
	}
	if err := query.Scan(ctx); err != nil {
		return nil, err
	}
	return items, nil
}

// ListMetadata returns metadata entries for an item in position order.
func (r *BunRepository) ListMetadata(ctx context.Context, itemID uuid.UUID) ([]*StagingMetadataEntry, error) {
	var entries []*StagingMetadataEntry
	err := r.db.NewSelect().
		Model(&entries).
		Where("staging_item_id = ?", itemID).
		Order("position ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// DeleteSyncedBefore removes synced items older than the cutoff together
// with their metadata rows. The sync log is left untouched.
func (r *BunRepository) DeleteSyncedBefore(ctx context.Context, cutoff time.Time) (int, error) {
	removed := 0
	err := r.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		var ids []uuid.UUID
		err := tx.NewSelect().
			Model((*StagingItem)(nil)).
			Column("id").
			Where("status = ?", string(StatusSynced)).
			Where("last_sync_date < ?", cutoff).
			Scan(ctx, &ids)
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}

		if _, err := tx.NewDelete().
			Model((*StagingMetadataEntry)(nil)).
			Where("staging_item_id IN (?)", bun.In(ids)).
			Exec(ctx); err != nil {
			return err
		}
		result, err := tx.NewDelete().
			Model((*StagingItem)(nil)).
			Where("id IN (?)", bun.In(ids)).
			Exec(ctx)
		if err != nil {
			return err
		}
		if affected, err := result.RowsAffected(); err == nil {
			removed = int(affected)
		} else {
			removed = len(ids)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}

// AppendLog records one sync attempt.
func (r *BunRepository) AppendLog(ctx context.Context, entry *SyncLogEntry) error {
	if _, err := r.logs.Create(ctx, entry); err != nil {
		return err
	}
	return nil
}

// ListRecentLogs returns the newest log entries, optionally filtered by outcome.
func (r *BunRepository) ListRecentLogs(ctx context.Context, outcome SyncOutcome, limit int) ([]*SyncLogEntry, error) {
	var entries []*SyncLogEntry
	query := r.db.NewSelect().Model(&entries).Order("sync_date DESC")
	if outcome != "" {
		query = query.Where("outcome = ?", string(outcome))
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Scan(ctx); err != nil {
		return nil, err
	}
	return entries, nil
}

// CountByStatus aggregates item counts per lifecycle status.
func (r *BunRepository) CountByStatus(ctx context.Context) ([]StatusCount, error) {
	var rows []StatusCount
	err := r.db.NewSelect().
		Model((*StagingItem)(nil)).
		ColumnExpr("status").
		ColumnExpr("COUNT(*) AS count").
		GroupExpr("status").
		OrderExpr("status").
		Scan(ctx, &rows)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// WorkloadByLanguage aggregates staged work per target language.
func (r *BunRepository) WorkloadByLanguage(ctx context.Context) ([]LanguageWorkload, error) {
	var rows []LanguageWorkload
	err := r.db.NewSelect().
		Model((*StagingItem)(nil)).
		ColumnExpr("target_language").
		ColumnExpr("COUNT(*) AS total").
		ColumnExpr("SUM(CASE WHEN status = 'pending' THEN 1 ELSE 0 END) AS pending").
		ColumnExpr("SUM(CASE WHEN status = 'in_progress' THEN 1 ELSE 0 END) AS in_progress").
		ColumnExpr("SUM(CASE WHEN status = 'completed' THEN 1 ELSE 0 END) AS completed").
		GroupExpr("target_language").
		OrderExpr("target_language").
		Scan(ctx, &rows)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func mapRepositoryError(err error, resource, key string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &NotFoundError{
			Resource: resource,
			Key:      key,
		}
	}
	return fmt.Errorf("%s repository error: %w", resource, err)
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	message := err.Error()
	return strings.Contains(message, "UNIQUE constraint failed") ||
		strings.Contains(message, "duplicate key value violates unique constraint")
}
