package content

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/toolvizion/go-language-manager/pkg/interfaces"
)

type linkKey struct {
	contentID uuid.UUID
	language  string
}

// MemoryStore is an in-memory ContentStore for scaffolding and tests.
type MemoryStore struct {
	mu       sync.RWMutex
	records  map[uuid.UUID]*interfaces.ContentRecord
	links    map[linkKey]uuid.UUID
	metadata map[uuid.UUID][]interfaces.MetadataEntry
	id       func() uuid.UUID
}

var _ interfaces.ContentStore = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory content store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records:  make(map[uuid.UUID]*interfaces.ContentRecord),
		links:    make(map[linkKey]uuid.UUID),
		metadata: make(map[uuid.UUID][]interfaces.MetadataEntry),
		id:       uuid.New,
	}
}

func (m *MemoryStore) key(id uuid.UUID, language string) linkKey {
	return linkKey{contentID: id, language: strings.ToLower(strings.TrimSpace(language))}
}

// Put seeds or replaces a record, bypassing id generation. Intended for
// tests and embedded bootstrapping.
func (m *MemoryStore) Put(record *interfaces.ContentRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *record
	m.records[record.ID] = &copied
}

// Get returns the record for id or interfaces.ErrContentNotFound.
func (m *MemoryStore) Get(_ context.Context, id uuid.UUID) (*interfaces.ContentRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.records[id]
	if !ok {
		return nil, interfaces.ErrContentNotFound
	}
	copied := *record
	return &copied, nil
}

// GetLanguage reports the language tag of a record.
func (m *MemoryStore) GetLanguage(_ context.Context, id uuid.UUID) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.records[id]
	if !ok {
		return "", interfaces.ErrContentNotFound
	}
	return record.Language, nil
}

// GetTranslationLink resolves the linked translation for a language, or
// uuid.Nil when none is registered.
func (m *MemoryStore) GetTranslationLink(_ context.Context, id uuid.UUID, language string) (uuid.UUID, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	translated, ok := m.links[m.key(id, language)]
	if !ok {
		return uuid.Nil, nil
	}
	return translated, nil
}

// SetTranslationLink registers translated as the language translation of id.
func (m *MemoryStore) SetTranslationLink(_ context.Context, id uuid.UUID, language string, translated uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.records[id]; !ok {
		return interfaces.ErrContentNotFound
	}
	m.links[m.key(id, language)] = translated
	return nil
}

// Create inserts a new live record and returns its id.
func (m *MemoryStore) Create(_ context.Context, record *interfaces.ContentRecord) (uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := *record
	if copied.ID == uuid.Nil {
		copied.ID = m.id()
	}
	m.records[copied.ID] = &copied
	return copied.ID, nil
}

// Update overwrites the mutable fields of an existing record.
func (m *MemoryStore) Update(_ context.Context, record *interfaces.ContentRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.records[record.ID]
	if !ok {
		return interfaces.ErrContentNotFound
	}
	existing.Title = record.Title
	existing.Body = record.Body
	existing.ContentType = record.ContentType
	existing.Status = record.Status
	if record.Language != "" {
		existing.Language = record.Language
	}
	return nil
}

// ListMetadata returns the metadata entries of a record in storage order.
func (m *MemoryStore) ListMetadata(_ context.Context, id uuid.UUID) ([]interfaces.MetadataEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entries := m.metadata[id]
	out := make([]interfaces.MetadataEntry, len(entries))
	copy(out, entries)
	return out, nil
}

// SetMetadata appends a value under key; multi-valued keys accumulate.
func (m *MemoryStore) SetMetadata(_ context.Context, id uuid.UUID, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.records[id]; !ok {
		return interfaces.ErrContentNotFound
	}
	m.metadata[id] = append(m.metadata[id], interfaces.MetadataEntry{Key: key, Value: value})
	return nil
}

// ListByTypeAndLanguage returns records matching the type and language tag.
func (m *MemoryStore) ListByTypeAndLanguage(_ context.Context, contentType, language string) ([]*interfaces.ContentRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*interfaces.ContentRecord, 0)
	for _, record := range m.records {
		if !strings.EqualFold(record.ContentType, contentType) {
			continue
		}
		if !strings.EqualFold(record.Language, language) {
			continue
		}
		copied := *record
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Title < out[j].Title
	})
	return out, nil
}
