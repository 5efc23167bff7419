package content

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"github.com/toolvizion/go-language-manager/pkg/interfaces"
)

func newTestDB(t *testing.T, name string) *bun.DB {
	t.Helper()

	sqldb, err := sql.Open("sqlite3", "file:"+name+"?mode=memory&cache=shared&_fk=1")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = sqldb.Close() })

	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { _ = db.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := EnsureSchema(ctx, db); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}
	return db
}

func TestBunStoreCreateDerivesSlug(t *testing.T) {
	db := newTestDB(t, "content_create")
	store := NewBunStore(db)
	ctx := context.Background()

	id, err := store.Create(ctx, &interfaces.ContentRecord{
		Title:       "About Our Company",
		Body:        "<p>Welcome.</p>",
		ContentType: "page",
		Language:    "en",
		Status:      "publish",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	record, err := store.Get(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if record.Slug != "about-our-company" {
		t.Fatalf("expected derived slug, got %q", record.Slug)
	}
	if record.Language != "en" {
		t.Fatalf("unexpected language %q", record.Language)
	}

	language, err := store.GetLanguage(ctx, id)
	if err != nil || language != "en" {
		t.Fatalf("expected en language, got %q (%v)", language, err)
	}
}

func TestBunStoreGetMissing(t *testing.T) {
	db := newTestDB(t, "content_missing")
	store := NewBunStore(db)
	ctx := context.Background()

	if _, err := store.Get(ctx, uuid.New()); !errors.Is(err, interfaces.ErrContentNotFound) {
		t.Fatalf("expected content not found, got %v", err)
	}
	if _, err := store.GetLanguage(ctx, uuid.New()); !errors.Is(err, interfaces.ErrContentNotFound) {
		t.Fatalf("expected content not found, got %v", err)
	}
	if err := store.Update(ctx, &interfaces.ContentRecord{ID: uuid.New(), Title: "t"}); !errors.Is(err, interfaces.ErrContentNotFound) {
		t.Fatalf("expected update miss, got %v", err)
	}
}

func TestBunStoreTranslationLinks(t *testing.T) {
	db := newTestDB(t, "content_links")
	store := NewBunStore(db)
	ctx := context.Background()

	source, err := store.Create(ctx, &interfaces.ContentRecord{Title: "About", ContentType: "page", Language: "en"})
	if err != nil {
		t.Fatalf("create source: %v", err)
	}
	translated, err := store.Create(ctx, &interfaces.ContentRecord{Title: "Over ons", ContentType: "page", Language: "nl"})
	if err != nil {
		t.Fatalf("create translation: %v", err)
	}

	// No link registered yet: Nil without error.
	link, err := store.GetTranslationLink(ctx, source, "nl")
	if err != nil || link != uuid.Nil {
		t.Fatalf("expected empty link, got %s (%v)", link, err)
	}

	if err := store.SetTranslationLink(ctx, source, "nl", translated); err != nil {
		t.Fatalf("set link: %v", err)
	}
	link, err = store.GetTranslationLink(ctx, source, "NL")
	if err != nil || link != translated {
		t.Fatalf("expected %s, got %s (%v)", translated, link, err)
	}

	// Re-linking the same pair replaces the target.
	replacement, err := store.Create(ctx, &interfaces.ContentRecord{Title: "Over ons v2", ContentType: "page", Language: "nl"})
	if err != nil {
		t.Fatalf("create replacement: %v", err)
	}
	if err := store.SetTranslationLink(ctx, source, "nl", replacement); err != nil {
		t.Fatalf("replace link: %v", err)
	}
	link, err = store.GetTranslationLink(ctx, source, "nl")
	if err != nil || link != replacement {
		t.Fatalf("expected replacement %s, got %s (%v)", replacement, link, err)
	}
}

func TestBunStoreMetadataAccumulates(t *testing.T) {
	db := newTestDB(t, "content_meta")
	store := NewBunStore(db)
	ctx := context.Background()

	id, err := store.Create(ctx, &interfaces.ContentRecord{Title: "About", ContentType: "page", Language: "en"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	for _, pair := range [][2]string{{"tag", "company"}, {"tag", "about"}, {"seo_title", "About | Example"}} {
		if err := store.SetMetadata(ctx, id, pair[0], pair[1]); err != nil {
			t.Fatalf("set metadata: %v", err)
		}
	}

	entries, err := store.ListMetadata(ctx, id)
	if err != nil {
		t.Fatalf("list metadata: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	if entries[0].Value != "company" || entries[1].Value != "about" || entries[2].Key != "seo_title" {
		t.Fatalf("entries out of insertion order: %+v", entries)
	}
}

func TestBunStoreListByTypeAndLanguage(t *testing.T) {
	db := newTestDB(t, "content_list")
	store := NewBunStore(db)
	ctx := context.Background()

	seed := []struct {
		title, contentType, language string
	}{
		{"Beta", "page", "en"},
		{"Alpha", "page", "en"},
		{"Gamma", "post", "en"},
		{"Delta", "page", "nl"},
	}
	for _, item := range seed {
		if _, err := store.Create(ctx, &interfaces.ContentRecord{
			Title:       item.title,
			ContentType: item.contentType,
			Language:    item.language,
		}); err != nil {
			t.Fatalf("create %s: %v", item.title, err)
		}
	}

	records, err := store.ListByTypeAndLanguage(ctx, "page", "EN")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].Title != "Alpha" || records[1].Title != "Beta" {
		t.Fatalf("expected title order, got %+v", records)
	}
}
