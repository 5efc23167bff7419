package staging

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

type pairKey struct {
	originalID uuid.UUID
	language   string
}

// MemoryRepository is an in-memory staging store for scaffolding and tests.
type MemoryRepository struct {
	mu        sync.RWMutex
	items     map[uuid.UUID]*StagingItem
	pairIndex map[pairKey]uuid.UUID
	metadata  map[uuid.UUID][]*StagingMetadataEntry
	log       []*SyncLogEntry
}

// NewMemoryRepository creates an empty in-memory staging repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		items:     make(map[uuid.UUID]*StagingItem),
		pairIndex: make(map[pairKey]uuid.UUID),
		metadata:  make(map[uuid.UUID][]*StagingMetadataEntry),
	}
}

func (m *MemoryRepository) key(originalID uuid.UUID, language string) pairKey {
	return pairKey{originalID: originalID, language: strings.ToLower(strings.TrimSpace(language))}
}

// CreateItem inserts the item and its metadata, enforcing the uniqueness
// contract for the (original, target language) pair.
func (m *MemoryRepository) CreateItem(_ context.Context, item *StagingItem, metadata []*StagingMetadataEntry) (*StagingItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := m.key(item.OriginalID, item.TargetLanguage)
	if existing, ok := m.pairIndex[key]; ok {
		return nil, &AlreadyStagedError{
			OriginalID:     item.OriginalID,
			TargetLanguage: item.TargetLanguage,
			ExistingID:     existing,
		}
	}

	copied := cloneItem(item)
	m.items[copied.ID] = copied
	m.pairIndex[key] = copied.ID
	for _, entry := range metadata {
		local := *entry
		m.metadata[copied.ID] = append(m.metadata[copied.ID], &local)
	}
	return cloneItem(copied), nil
}

// GetItem retrieves a staging item by identifier.
func (m *MemoryRepository) GetItem(_ context.Context, id uuid.UUID) (*StagingItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	item, ok := m.items[id]
	if !ok {
		return nil, &NotFoundError{Resource: "staging_item", Key: id.String()}
	}
	return cloneItem(item), nil
}

// FindItem retrieves the staged item for the (original, language) pair.
func (m *MemoryRepository) FindItem(_ context.Context, originalID uuid.UUID, targetLanguage string) (*StagingItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.pairIndex[m.key(originalID, targetLanguage)]
	if !ok {
		return nil, &NotFoundError{Resource: "staging_item", Key: originalID.String()}
	}
	return cloneItem(m.items[id]), nil
}

// UpdateItem replaces the stored item.
func (m *MemoryRepository) UpdateItem(_ context.Context, item *StagingItem) (*StagingItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.items[item.ID]; !ok {
		return nil, &NotFoundError{Resource: "staging_item", Key: item.ID.String()}
	}
	copied := cloneItem(item)
	m.items[copied.ID] = copied
	return cloneItem(copied), nil
}

// ListItems returns matching items, most recently touched first.
func (m *MemoryRepository) ListItems(_ context.Context, filter ListRequest) ([]*StagingItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	target := strings.ToLower(strings.TrimSpace(filter.TargetLanguage))
	statuses := make(map[Status]struct{}, len(filter.Statuses))
	for _, status := range filter.Statuses {
		statuses[status] = struct{}{}
	}

	out := make([]*StagingItem, 0, len(m.items))
	for _, item := range m.items {
		if target != "" && strings.ToLower(item.TargetLanguage) != target {
			continue
		}
		if len(statuses) > 0 {
			if _, ok := statuses[item.Status]; !ok {
				continue
			}
		}
		out = append(out, cloneItem(item))
	}

	sort.Slice(out, func(i, j int) bool {
		return syncTime(out[i]).After(syncTime(out[j]))
	})
	return out, nil
}

// ListMetadata returns the metadata entries for an item in position order.
func (m *MemoryRepository) ListMetadata(_ context.Context, itemID uuid.UUID) ([]*StagingMetadataEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entries := m.metadata[itemID]
	out := make([]*StagingMetadataEntry, 0, len(entries))
	for _, entry := range entries {
		local := *entry
		out = append(out, &local)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Position < out[j].Position
	})
	return out, nil
}

// DeleteSyncedBefore removes synced items older than the cutoff, cascading
// to their metadata. Sync log entries are never touched.
func (m *MemoryRepository) DeleteSyncedBefore(_ context.Context, cutoff time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, item := range m.items {
		if item.Status != StatusSynced {
			continue
		}
		if item.LastSyncDate == nil || !item.LastSyncDate.Before(cutoff) {
			continue
		}
		delete(m.items, id)
		delete(m.metadata, id)
		delete(m.pairIndex, m.key(item.OriginalID, item.TargetLanguage))
		removed++
	}
	return removed, nil
}

// AppendLog records a sync attempt.
func (m *MemoryRepository) AppendLog(_ context.Context, entry *SyncLogEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	local := *entry
	m.log = append(m.log, &local)
	return nil
}

// ListRecentLogs returns the newest log entries, optionally filtered by outcome.
func (m *MemoryRepository) ListRecentLogs(_ context.Context, outcome SyncOutcome, limit int) ([]*SyncLogEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*SyncLogEntry, 0, len(m.log))
	for _, entry := range m.log {
		if outcome != "" && entry.Outcome != outcome {
			continue
		}
		local := *entry
		out = append(out, &local)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].SyncDate.After(out[j].SyncDate)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// CountByStatus aggregates item counts per lifecycle status.
func (m *MemoryRepository) CountByStatus(_ context.Context) ([]StatusCount, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	counts := make(map[Status]int)
	for _, item := range m.items {
		counts[item.Status]++
	}

	out := make([]StatusCount, 0, len(counts))
	for _, status := range Statuses() {
		if count, ok := counts[status]; ok {
			out = append(out, StatusCount{Status: status, Count: count})
		}
	}
	return out, nil
}

// WorkloadByLanguage aggregates staged work per target language.
func (m *MemoryRepository) WorkloadByLanguage(_ context.Context) ([]LanguageWorkload, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	byLanguage := make(map[string]*LanguageWorkload)
	for _, item := range m.items {
		workload, ok := byLanguage[item.TargetLanguage]
		if !ok {
			workload = &LanguageWorkload{TargetLanguage: item.TargetLanguage}
			byLanguage[item.TargetLanguage] = workload
		}
		workload.Total++
		switch item.Status {
		case StatusPending:
			workload.Pending++
		case StatusInProgress:
			workload.InProgress++
		case StatusCompleted:
			workload.Completed++
		}
	}

	out := make([]LanguageWorkload, 0, len(byLanguage))
	for _, workload := range byLanguage {
		out = append(out, *workload)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].TargetLanguage < out[j].TargetLanguage
	})
	return out, nil
}

func cloneItem(src *StagingItem) *StagingItem {
	if src == nil {
		return nil
	}
	copied := *src
	if src.LastSyncDate != nil {
		ts := *src.LastSyncDate
		copied.LastSyncDate = &ts
	}
	if src.EditorUserID != nil {
		id := *src.EditorUserID
		copied.EditorUserID = &id
	}
	copied.Metadata = nil
	return &copied
}

func syncTime(item *StagingItem) time.Time {
	if item.LastSyncDate == nil {
		return time.Time{}
	}
	return *item.LastSyncDate
}
