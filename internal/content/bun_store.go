package content

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/goliatone/go-slug"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/toolvizion/go-language-manager/pkg/interfaces"
)

// BunStore is a Bun-backed ContentStore. It serves deployments where the
// module owns its content tables; hosts with an existing CMS plug their own
// ContentStore in instead.
type BunStore struct {
	db *bun.DB
	id func() uuid.UUID
}

var _ interfaces.ContentStore = (*BunStore)(nil)

// NewBunStore constructs a Bun-backed content store.
func NewBunStore(db *bun.DB) *BunStore {
	return &BunStore{db: db, id: uuid.New}
}

// EnsureSchema creates the content tables when absent.
func EnsureSchema(ctx context.Context, db *bun.DB) error {
	models := []any{
		(*Content)(nil),
		(*TranslationLink)(nil),
		(*ContentMeta)(nil),
	}
	for _, model := range models {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("content: create table: %w", err)
		}
	}
	return nil
}

// Get returns the record for id or interfaces.ErrContentNotFound.
func (s *BunStore) Get(ctx context.Context, id uuid.UUID) (*interfaces.ContentRecord, error) {
	var model Content
	err := s.db.NewSelect().Model(&model).Where("c.id = ?", id).Scan(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, interfaces.ErrContentNotFound
		}
		return nil, err
	}
	return toRecord(&model), nil
}

// GetLanguage reports the language tag of a record.
func (s *BunStore) GetLanguage(ctx context.Context, id uuid.UUID) (string, error) {
	var language string
	err := s.db.NewSelect().
		Model((*Content)(nil)).
		Column("language").
		Where("id = ?", id).
		Scan(ctx, &language)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", interfaces.ErrContentNotFound
		}
		return "", err
	}
	return language, nil
}

// GetTranslationLink resolves the linked translation for a language, or
// uuid.Nil when none is registered.
func (s *BunStore) GetTranslationLink(ctx context.Context, id uuid.UUID, language string) (uuid.UUID, error) {
	var link TranslationLink
	err := s.db.NewSelect().
		Model(&link).
		Where("content_id = ?", id).
		Where("lower(language) = lower(?)", language).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return uuid.Nil, nil
		}
		return uuid.Nil, err
	}
	return link.TranslatedID, nil
}

// SetTranslationLink registers translated as the language translation of id,
// replacing any previous link for that pair.
func (s *BunStore) SetTranslationLink(ctx context.Context, id uuid.UUID, language string, translated uuid.UUID) error {
	return s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		var existing TranslationLink
		err := tx.NewSelect().
			Model(&existing).
			Where("content_id = ?", id).
			Where("lower(language) = lower(?)", language).
			Limit(1).
			Scan(ctx)
		switch {
		case err == nil:
			existing.TranslatedID = translated
			_, err = tx.NewUpdate().
				Model(&existing).
				Column("translated_id").
				WherePK().
				Exec(ctx)
			return err
		case err == sql.ErrNoRows:
			link := TranslationLink{
				ID:           s.id(),
				ContentID:    id,
				Language:     strings.ToLower(strings.TrimSpace(language)),
				TranslatedID: translated,
			}
			_, err = tx.NewInsert().Model(&link).Exec(ctx)
			return err
		default:
			return err
		}
	})
}

// Create inserts a new live record, deriving a slug from the title.
func (s *BunStore) Create(ctx context.Context, record *interfaces.ContentRecord) (uuid.UUID, error) {
	model := fromRecord(record)
	if model.ID == uuid.Nil {
		model.ID = s.id()
	}
	if model.Slug == "" {
		normalized, err := slug.Normalize(record.Title)
		if err != nil || normalized == "" {
			normalized = model.ID.String()
		}
		model.Slug = normalized
	}
	if _, err := s.db.NewInsert().Model(model).Exec(ctx); err != nil {
		return uuid.Nil, err
	}
	return model.ID, nil
}

// Update overwrites the mutable fields of an existing record.
func (s *BunStore) Update(ctx context.Context, record *interfaces.ContentRecord) error {
	model := fromRecord(record)
	result, err := s.db.NewUpdate().
		Model(model).
		Column("title", "body", "content_type", "status").
		Where("id = ?", model.ID).
		Exec(ctx)
	if err != nil {
		return err
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return interfaces.ErrContentNotFound
	}
	return nil
}

// ListMetadata returns the metadata entries of a record in storage order.
func (s *BunStore) ListMetadata(ctx context.Context, id uuid.UUID) ([]interfaces.MetadataEntry, error) {
	var rows []ContentMeta
	err := s.db.NewSelect().
		Model(&rows).
		Where("content_id = ?", id).
		Order("position ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]interfaces.MetadataEntry, 0, len(rows))
	for _, row := range rows {
		out = append(out, interfaces.MetadataEntry{Key: row.Key, Value: row.Value})
	}
	return out, nil
}

// SetMetadata appends a value under key; multi-valued keys accumulate.
func (s *BunStore) SetMetadata(ctx context.Context, id uuid.UUID, key, value string) error {
	var next int
	err := s.db.NewSelect().
		Model((*ContentMeta)(nil)).
		ColumnExpr("COALESCE(MAX(position), -1) + 1").
		Where("content_id = ?", id).
		Scan(ctx, &next)
	if err != nil && err != sql.ErrNoRows {
		return err
	}
	row := ContentMeta{
		ID:        s.id(),
		ContentID: id,
		Key:       key,
		Value:     value,
		Position:  next,
	}
	_, err = s.db.NewInsert().Model(&row).Exec(ctx)
	return err
}

// ListByTypeAndLanguage returns records matching the type and language tag.
func (s *BunStore) ListByTypeAndLanguage(ctx context.Context, contentType, language string) ([]*interfaces.ContentRecord, error) {
	var models []*Content
	err := s.db.NewSelect().
		Model(&models).
		Where("lower(content_type) = lower(?)", contentType).
		Where("lower(language) = lower(?)", language).
		Order("title ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*interfaces.ContentRecord, 0, len(models))
	for _, model := range models {
		out = append(out, toRecord(model))
	}
	return out, nil
}

func toRecord(model *Content) *interfaces.ContentRecord {
	return &interfaces.ContentRecord{
		ID:          model.ID,
		Title:       model.Title,
		Body:        model.Body,
		ContentType: model.ContentType,
		Language:    model.Language,
		Status:      model.Status,
		Slug:        model.Slug,
	}
}

func fromRecord(record *interfaces.ContentRecord) *Content {
	return &Content{
		ID:          record.ID,
		Title:       record.Title,
		Body:        record.Body,
		ContentType: record.ContentType,
		Language:    record.Language,
		Status:      record.Status,
		Slug:        record.Slug,
	}
}
