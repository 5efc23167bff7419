package staging

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

func newBunItem(original uuid.UUID, target string, status Status, syncDate time.Time) *StagingItem {
	return &StagingItem{
		ID:             uuid.New(),
		OriginalID:     original,
		SourceLanguage: "en",
		TargetLanguage: target,
		Title:          "About us",
		Body:           "<p>Welcome.</p>",
		ContentType:    "page",
		Status:         status,
		LastSyncDate:   &syncDate,
	}
}

func TestBunRepositoryCreateAndFetch(t *testing.T) {
	db := newTestDB(t, "staging_create")
	repo := NewBunRepository(db)
	ctx := context.Background()

	original := uuid.New()
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	item := newBunItem(original, "nl", StatusPending, now)
	metadata := []*StagingMetadataEntry{
		{ID: uuid.New(), StagingItemID: item.ID, Key: "seo_title", Value: "About | Example", Position: 0},
		{ID: uuid.New(), StagingItemID: item.ID, Key: "tag", Value: "company", Position: 1},
		{ID: uuid.New(), StagingItemID: item.ID, Key: "tag", Value: "about", Position: 2},
	}

	created, err := repo.CreateItem(ctx, item, metadata)
	if err != nil {
		t.Fatalf("create item: %v", err)
	}
	if created.ID != item.ID {
		t.Fatalf("expected id %s, got %s", item.ID, created.ID)
	}

	fetched, err := repo.GetItem(ctx, item.ID)
	if err != nil {
		t.Fatalf("get item: %v", err)
	}
	if fetched.Title != "About us" || fetched.Status != StatusPending {
		t.Fatalf("unexpected item %+v", fetched)
	}

	found, err := repo.FindItem(ctx, original, "NL")
	if err != nil {
		t.Fatalf("find item: %v", err)
	}
	if found.ID != item.ID {
		t.Fatalf("expected find to match %s, got %s", item.ID, found.ID)
	}

	entries, err := repo.ListMetadata(ctx, item.ID)
	if err != nil {
		t.Fatalf("list metadata: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	if entries[1].Key != "tag" || entries[1].Value != "company" || entries[2].Value != "about" {
		t.Fatalf("multi-valued keys out of order: %+v", entries)
	}
}

func TestBunRepositoryRejectsDuplicatePair(t *testing.T) {
	db := newTestDB(t, "staging_duplicate")
	repo := NewBunRepository(db)
	ctx := context.Background()

	original := uuid.New()
	now := time.Now().UTC()
	if _, err := repo.CreateItem(ctx, newBunItem(original, "nl", StatusPending, now), nil); err != nil {
		t.Fatalf("create item: %v", err)
	}

	_, err := repo.CreateItem(ctx, newBunItem(original, "nl", StatusPending, now), nil)
	if !errors.Is(err, ErrAlreadyStaged) {
		t.Fatalf("expected already staged, got %v", err)
	}

	// Case differences still collide.
	if _, err := repo.CreateItem(ctx, newBunItem(original, "NL", StatusPending, now), nil); !errors.Is(err, ErrAlreadyStaged) {
		t.Fatalf("expected case-insensitive conflict, got %v", err)
	}

	if _, err := repo.CreateItem(ctx, newBunItem(original, "de", StatusPending, now), nil); err != nil {
		t.Fatalf("different language must stage: %v", err)
	}
}

func TestBunRepositoryGetItemNotFound(t *testing.T) {
	db := newTestDB(t, "staging_missing")
	repo := NewBunRepository(db)

	_, err := repo.GetItem(context.Background(), uuid.New())
	if !errors.Is(err, ErrItemNotFound) {
		t.Fatalf("expected item not found, got %v", err)
	}
	if _, err := repo.FindItem(context.Background(), uuid.New(), "nl"); !errors.Is(err, ErrItemNotFound) {
		t.Fatalf("expected find miss, got %v", err)
	}
}

func TestBunRepositoryUpdateItem(t *testing.T) {
	db := newTestDB(t, "staging_update")
	repo := NewBunRepository(db)
	ctx := context.Background()

	now := time.Now().UTC()
	item := newBunItem(uuid.New(), "nl", StatusPending, now)
	if _, err := repo.CreateItem(ctx, item, nil); err != nil {
		t.Fatalf("create item: %v", err)
	}

	item.Title = "Over ons"
	item.Status = StatusCompleted
	updated, err := repo.UpdateItem(ctx, item)
	if err != nil {
		t.Fatalf("update item: %v", err)
	}
	if updated.Title != "Over ons" || updated.Status != StatusCompleted {
		t.Fatalf("unexpected update %+v", updated)
	}
}

func TestBunRepositoryListItemsFilters(t *testing.T) {
	db := newTestDB(t, "staging_list")
	repo := NewBunRepository(db)
	ctx := context.Background()

	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	older := newBunItem(uuid.New(), "nl", StatusPending, base)
	newer := newBunItem(uuid.New(), "nl", StatusCompleted, base.AddDate(0, 0, 2))
	german := newBunItem(uuid.New(), "de", StatusPending, base.AddDate(0, 0, 1))
	for _, item := range []*StagingItem{older, newer, german} {
		if _, err := repo.CreateItem(ctx, item, nil); err != nil {
			t.Fatalf("create item: %v", err)
		}
	}

	all, err := repo.ListItems(ctx, ListRequest{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 items, got %d", len(all))
	}
	if all[0].ID != newer.ID {
		t.Fatalf("expected newest first, got %s", all[0].ID)
	}

	nl, err := repo.ListItems(ctx, ListRequest{TargetLanguage: "nl"})
	if err != nil {
		t.Fatalf("list nl: %v", err)
	}
	if len(nl) != 2 {
		t.Fatalf("expected 2 nl items, got %d", len(nl))
	}

	completed, err := repo.ListItems(ctx, ListRequest{Statuses: []Status{StatusCompleted}})
	if err != nil {
		t.Fatalf("list completed: %v", err)
	}
	if len(completed) != 1 || completed[0].ID != newer.ID {
		t.Fatalf("unexpected completed items %+v", completed)
	}
}

func TestBunRepositoryDeleteSyncedBefore(t *testing.T) {
	db := newTestDB(t, "staging_cleanup")
	repo := NewBunRepository(db)
	ctx := context.Background()

	base := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	aged := newBunItem(uuid.New(), "nl", StatusSynced, base)
	fresh := newBunItem(uuid.New(), "de", StatusSynced, base.AddDate(0, 0, 20))
	pending := newBunItem(uuid.New(), "fr", StatusPending, base)

	agedMeta := []*StagingMetadataEntry{
		{ID: uuid.New(), StagingItemID: aged.ID, Key: "seo_title", Value: "x", Position: 0},
	}
	if _, err := repo.CreateItem(ctx, aged, agedMeta); err != nil {
		t.Fatalf("create aged: %v", err)
	}
	for _, item := range []*StagingItem{fresh, pending} {
		if _, err := repo.CreateItem(ctx, item, nil); err != nil {
			t.Fatalf("create item: %v", err)
		}
	}

	removed, err := repo.DeleteSyncedBefore(ctx, base.AddDate(0, 0, 10))
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if removed != 1 {
		t.Fatalf("expected 1 removal, got %d", removed)
	}

	if _, err := repo.GetItem(ctx, aged.ID); !errors.Is(err, ErrItemNotFound) {
		t.Fatalf("expected aged removed, got %v", err)
	}
	if _, err := repo.GetItem(ctx, fresh.ID); err != nil {
		t.Fatalf("expected fresh kept: %v", err)
	}
	if _, err := repo.GetItem(ctx, pending.ID); err != nil {
		t.Fatalf("expected pending kept: %v", err)
	}

	// Metadata rows cascade with their item.
	orphaned, err := repo.ListMetadata(ctx, aged.ID)
	if err != nil {
		t.Fatalf("list metadata: %v", err)
	}
	if len(orphaned) != 0 {
		t.Fatalf("expected metadata cascade, got %d rows", len(orphaned))
	}
}

func TestBunRepositoryLogsAndAggregates(t *testing.T) {
	db := newTestDB(t, "staging_aggregates")
	repo := NewBunRepository(db)
	ctx := context.Background()

	base := time.Date(2025, 3, 5, 10, 0, 0, 0, time.UTC)
	items := []*StagingItem{
		newBunItem(uuid.New(), "nl", StatusPending, base),
		newBunItem(uuid.New(), "nl", StatusCompleted, base),
		newBunItem(uuid.New(), "de", StatusInProgress, base),
	}
	for _, item := range items {
		if _, err := repo.CreateItem(ctx, item, nil); err != nil {
			t.Fatalf("create item: %v", err)
		}
	}

	counts, err := repo.CountByStatus(ctx)
	if err != nil {
		t.Fatalf("counts: %v", err)
	}
	got := map[Status]int{}
	for _, row := range counts {
		got[row.Status] = row.Count
	}
	if got[StatusPending] != 1 || got[StatusCompleted] != 1 || got[StatusInProgress] != 1 {
		t.Fatalf("unexpected counts %+v", got)
	}

	workload, err := repo.WorkloadByLanguage(ctx)
	if err != nil {
		t.Fatalf("workload: %v", err)
	}
	if len(workload) != 2 {
		t.Fatalf("expected 2 languages, got %d", len(workload))
	}
	if workload[0].TargetLanguage != "de" || workload[0].InProgress != 1 {
		t.Fatalf("unexpected de workload %+v", workload[0])
	}
	if workload[1].TargetLanguage != "nl" || workload[1].Total != 2 || workload[1].Pending != 1 || workload[1].Completed != 1 {
		t.Fatalf("unexpected nl workload %+v", workload[1])
	}

	for i, outcome := range []SyncOutcome{SyncOutcomeSuccess, SyncOutcomeFailure, SyncOutcomeSuccess} {
		entry := &SyncLogEntry{
			ID:             uuid.New(),
			SyncDate:       base.Add(time.Duration(i) * time.Minute),
			ActorID:        uuid.New(),
			ContentType:    "page",
			ContentID:      uuid.New(),
			SourceLanguage: "en",
			TargetLanguage: "nl",
			Outcome:        outcome,
			Message:        "entry",
		}
		if err := repo.AppendLog(ctx, entry); err != nil {
			t.Fatalf("append log: %v", err)
		}
	}

	successes, err := repo.ListRecentLogs(ctx, SyncOutcomeSuccess, 10)
	if err != nil {
		t.Fatalf("list logs: %v", err)
	}
	if len(successes) != 2 {
		t.Fatalf("expected 2 successes, got %d", len(successes))
	}
	if !successes[0].SyncDate.After(successes[1].SyncDate) {
		t.Fatalf("expected newest first")
	}

	limited, err := repo.ListRecentLogs(ctx, "", 2)
	if err != nil {
		t.Fatalf("list limited: %v", err)
	}
	if len(limited) != 2 {
		t.Fatalf("expected limit applied, got %d", len(limited))
	}
}
