package staging

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/toolvizion/go-language-manager/internal/logging"
	"github.com/toolvizion/go-language-manager/pkg/interfaces"
)

// DefaultRetentionDays bounds how long synced items linger before cleanup.
const DefaultRetentionDays = 30

// copyMetaDenylist holds internal/transient metadata keys that never travel
// into staging (edit locks, last-editor markers, stale slug redirects).
var copyMetaDenylist = map[string]struct{}{
	"edit_lock":     {},
	"last_editor":   {},
	"previous_slug": {},
}

// Service exposes the staging engine use-cases.
type Service interface {
	Copy(ctx context.Context, req CopyRequest) (*StagingItem, error)
	BulkCopy(ctx context.Context, req BulkCopyRequest) (*BulkCopyResult, error)
	Update(ctx context.Context, req UpdateRequest) (*StagingItem, error)
	Sync(ctx context.Context, req SyncRequest) (uuid.UUID, error)
	Cleanup(ctx context.Context, req CleanupRequest) (int, error)
	List(ctx context.Context, req ListRequest) ([]*StagingItem, error)
	Get(ctx context.Context, id uuid.UUID) (*StagingItem, error)
}

// CopyRequest captures a single copy-to-staging operation.
type CopyRequest struct {
	OriginalID     uuid.UUID
	TargetLanguage string
	ActorID        uuid.UUID
}

// BulkCopyRequest stages every managed source-language item for a target language.
type BulkCopyRequest struct {
	TargetLanguage string
	ActorID        uuid.UUID
}

// BulkCopyResult aggregates the per-item outcomes of a bulk copy. Failed
// items never abort the batch; their messages are collected in Errors.
type BulkCopyResult struct {
	Copied  int      `json:"copied"`
	Skipped int      `json:"skipped"`
	Failed  int      `json:"failed"`
	Errors  []string `json:"errors,omitempty"`
}

// UpdateRequest overwrites the mutable fields of a staging item.
type UpdateRequest struct {
	ItemID  uuid.UUID
	Title   string
	Body    string
	Status  string
	ActorID uuid.UUID
}

// SyncRequest promotes a completed staging item to live content.
type SyncRequest struct {
	ItemID  uuid.UUID
	ActorID uuid.UUID
}

// CleanupRequest bounds retention cleanup. MaxAgeDays of zero applies
// DefaultRetentionDays.
type CleanupRequest struct {
	MaxAgeDays int
}

// ListRequest filters staged items. An empty TargetLanguage matches every
// language; an empty status list matches every status.
type ListRequest struct {
	TargetLanguage string
	Statuses       []Status
}

// StatusCount pairs a lifecycle status with its item count.
type StatusCount struct {
	Status Status `json:"status"`
	Count  int    `json:"count"`
}

// LanguageWorkload summarizes staged work per target language.
type LanguageWorkload struct {
	TargetLanguage string `json:"target_language"`
	Total          int    `json:"total"`
	Pending        int    `json:"pending"`
	InProgress     int    `json:"in_progress"`
	Completed      int    `json:"completed"`
}

// Repository abstracts the staging store. CreateItem must enforce the
// (original_id, target_language) uniqueness contract atomically and surface
// violations as AlreadyStagedError.
type Repository interface {
	CreateItem(ctx context.Context, item *StagingItem, metadata []*StagingMetadataEntry) (*StagingItem, error)
	GetItem(ctx context.Context, id uuid.UUID) (*StagingItem, error)
	FindItem(ctx context.Context, originalID uuid.UUID, targetLanguage string) (*StagingItem, error)
	UpdateItem(ctx context.Context, item *StagingItem) (*StagingItem, error)
	ListItems(ctx context.Context, filter ListRequest) ([]*StagingItem, error)
	ListMetadata(ctx context.Context, itemID uuid.UUID) ([]*StagingMetadataEntry, error)
	DeleteSyncedBefore(ctx context.Context, cutoff time.Time) (int, error)
	AppendLog(ctx context.Context, entry *SyncLogEntry) error
	ListRecentLogs(ctx context.Context, outcome SyncOutcome, limit int) ([]*SyncLogEntry, error)
	CountByStatus(ctx context.Context) ([]StatusCount, error)
	WorkloadByLanguage(ctx context.Context) ([]LanguageWorkload, error)
}

// ServiceOption configures the service at construction time.
type ServiceOption func(*service)

// WithClock overrides the clock used to stamp records.
func WithClock(clock func() time.Time) ServiceOption {
	return func(s *service) {
		if clock != nil {
			s.now = clock
		}
	}
}

// IDGenerator produces surrogate identifiers for new records.
type IDGenerator func() uuid.UUID

// WithIDGenerator overrides the identifier source.
func WithIDGenerator(generator IDGenerator) ServiceOption {
	return func(s *service) {
		if generator != nil {
			s.id = generator
		}
	}
}

// WithLogger injects the engine logger. Defaults to a no-op logger.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithManagedContentType sets the content type enumerated by bulk copy.
func WithManagedContentType(contentType string) ServiceOption {
	return func(s *service) {
		if trimmed := strings.TrimSpace(contentType); trimmed != "" {
			s.managedType = trimmed
		}
	}
}

// WithDefaultLanguage sets the source language used by bulk copy.
func WithDefaultLanguage(language string) ServiceOption {
	return func(s *service) {
		if trimmed := strings.TrimSpace(language); trimmed != "" {
			s.defaultLanguage = trimmed
		}
	}
}

// WithRetentionDays overrides the default cleanup window.
func WithRetentionDays(days int) ServiceOption {
	return func(s *service) {
		if days > 0 {
			s.retentionDays = days
		}
	}
}

type service struct {
	repo            Repository
	contents        interfaces.ContentStore
	logger          interfaces.Logger
	now             func() time.Time
	id              IDGenerator
	managedType     string
	defaultLanguage string
	retentionDays   int
}

// NewService constructs the staging engine with its injected collaborators.
func NewService(repo Repository, contents interfaces.ContentStore, opts ...ServiceOption) Service {
	s := &service{
		repo:            repo,
		contents:        contents,
		logger:          logging.NoOp(),
		now:             time.Now,
		id:              uuid.New,
		managedType:     "page",
		defaultLanguage: "en",
		retentionDays:   DefaultRetentionDays,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Copy stages the source item for translation into the target language.
func (s *service) Copy(ctx context.Context, req CopyRequest) (*StagingItem, error) {
	if req.OriginalID == uuid.Nil {
		return nil, ErrContentNotFound
	}
	target := strings.TrimSpace(req.TargetLanguage)
	if target == "" {
		return nil, ErrTargetRequired
	}

	source, err := s.contents.Get(ctx, req.OriginalID)
	if err != nil {
		if errors.Is(err, interfaces.ErrContentNotFound) {
			return nil, ErrContentNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrStoreFailed, err)
	}

	sourceLang, err := s.contents.GetLanguage(ctx, req.OriginalID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreFailed, err)
	}
	if strings.EqualFold(sourceLang, target) {
		return nil, ErrTargetIsSource
	}

	now := s.now().UTC()
	item := &StagingItem{
		ID:             s.id(),
		OriginalID:     req.OriginalID,
		SourceLanguage: sourceLang,
		TargetLanguage: target,
		Title:          source.Title,
		Body:           source.Body,
		ContentType:    source.ContentType,
		Status:         StatusPending,
		LastSyncDate:   &now,
	}
	if req.ActorID != uuid.Nil {
		actor := req.ActorID
		item.EditorUserID = &actor
	}

	metadata, err := s.stagedMetadata(ctx, source.ID, item.ID)
	if err != nil {
		return nil, err
	}

	created, err := s.repo.CreateItem(ctx, item, metadata)
	if err != nil {
		return nil, err
	}

	s.logger.Info("staging.copy.success",
		"staging_id", created.ID.String(),
		"original_id", req.OriginalID.String(),
		"target_language", target,
	)
	return created, nil
}

// stagedMetadata snapshots the source metadata, skipping denylisted keys and
// preserving the per-key value order.
func (s *service) stagedMetadata(ctx context.Context, sourceID, itemID uuid.UUID) ([]*StagingMetadataEntry, error) {
	entries, err := s.contents.ListMetadata(ctx, sourceID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreFailed, err)
	}

	out := make([]*StagingMetadataEntry, 0, len(entries))
	for i, entry := range entries {
		if _, excluded := copyMetaDenylist[entry.Key]; excluded {
			continue
		}
		out = append(out, &StagingMetadataEntry{
			ID:            s.id(),
			StagingItemID: itemID,
			Key:           entry.Key,
			Value:         entry.Value,
			Position:      i,
		})
	}
	return out, nil
}

// BulkCopy stages every managed default-language item for the target
// language, skipping pairs that are already staged. Per-item failures are
// aggregated and never abort the batch.
func (s *service) BulkCopy(ctx context.Context, req BulkCopyRequest) (*BulkCopyResult, error) {
	target := strings.TrimSpace(req.TargetLanguage)
	if target == "" {
		return nil, ErrTargetRequired
	}

	sources, err := s.contents.ListByTypeAndLanguage(ctx, s.managedType, s.defaultLanguage)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreFailed, err)
	}

	result := &BulkCopyResult{}
	for _, source := range sources {
		if source == nil {
			continue
		}
		if _, err := s.repo.FindItem(ctx, source.ID, target); err == nil {
			result.Skipped++
			continue
		} else if !errors.Is(err, ErrItemNotFound) {
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("failed to copy %q: %v", source.Title, err))
			continue
		}

		if _, err := s.Copy(ctx, CopyRequest{
			OriginalID:     source.ID,
			TargetLanguage: target,
			ActorID:        req.ActorID,
		}); err != nil {
			if errors.Is(err, ErrAlreadyStaged) {
				// Raced with a concurrent copy; the pair is staged either way.
				result.Skipped++
				continue
			}
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("failed to copy %q: %v", source.Title, err))
			continue
		}
		result.Copied++
	}

	s.logger.Info("staging.bulk_copy.done",
		"target_language", target,
		"copied", result.Copied,
		"skipped", result.Skipped,
		"failed", result.Failed,
	)
	return result, nil
}

// Update overwrites the title, body, and status of a staging item. Status
// moves among the non-terminal states are unrestricted so editors can
// correct mistakes; synced is rejected as a manual target.
func (s *service) Update(ctx context.Context, req UpdateRequest) (*StagingItem, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	if strings.TrimSpace(req.Body) == "" {
		return nil, ErrBodyRequired
	}
	status, err := ParseStatus(req.Status)
	if err != nil {
		return nil, err
	}
	if status == StatusSynced {
		return nil, ErrStatusReserved
	}

	item, err := s.repo.GetItem(ctx, req.ItemID)
	if err != nil {
		return nil, err
	}
	if !CanTransition(item.Status, status, true) {
		return nil, ErrItemImmutable
	}

	now := s.now().UTC()
	item.Title = title
	item.Body = req.Body
	item.Status = status
	item.LastSyncDate = &now
	if req.ActorID != uuid.Nil {
		actor := req.ActorID
		item.EditorUserID = &actor
	}

	return s.repo.UpdateItem(ctx, item)
}

// Sync promotes a completed staging item into live, language-linked content
// and appends an audit log entry for the attempt. The live content id is
// returned on success.
func (s *service) Sync(ctx context.Context, req SyncRequest) (uuid.UUID, error) {
	item, err := s.repo.GetItem(ctx, req.ItemID)
	if err != nil {
		return uuid.Nil, err
	}
	if item.Status != StatusCompleted {
		return uuid.Nil, &NotCompletedError{ItemID: item.ID, Status: item.Status}
	}

	liveID, err := s.publish(ctx, item)
	if err != nil {
		syncErr := &SyncFailedError{ItemID: item.ID, Cause: err}
		s.logger.Error("staging.sync.failed",
			"staging_id", item.ID.String(),
			"error", err,
		)
		s.appendLog(ctx, item, req.ActorID, liveID, SyncOutcomeFailure, syncErr.Error())
		return uuid.Nil, syncErr
	}

	now := s.now().UTC()
	item.Status = StatusSynced
	item.LastSyncDate = &now
	if req.ActorID != uuid.Nil {
		actor := req.ActorID
		item.EditorUserID = &actor
	}
	if _, err := s.repo.UpdateItem(ctx, item); err != nil {
		// The live write landed; a retried sync resolves via the translation
		// link and updates in place instead of duplicating content.
		return uuid.Nil, fmt.Errorf("%w: %v", ErrStoreFailed, err)
	}

	s.appendLog(ctx, item, req.ActorID, liveID, SyncOutcomeSuccess,
		fmt.Sprintf("successfully synced translation for content %s", item.OriginalID))

	s.logger.Info("staging.sync.success",
		"staging_id", item.ID.String(),
		"content_id", liveID.String(),
		"target_language", item.TargetLanguage,
	)
	return liveID, nil
}

// publish writes the staged translation into the content store, creating and
// linking a new record when no translation exists yet.
func (s *service) publish(ctx context.Context, item *StagingItem) (uuid.UUID, error) {
	liveID, err := s.contents.GetTranslationLink(ctx, item.OriginalID, item.TargetLanguage)
	if err != nil {
		return uuid.Nil, err
	}

	record := &interfaces.ContentRecord{
		ID:          liveID,
		Title:       item.Title,
		Body:        item.Body,
		ContentType: item.ContentType,
		Language:    item.TargetLanguage,
		Status:      "published",
	}

	if liveID != uuid.Nil {
		if err := s.contents.Update(ctx, record); err != nil {
			return uuid.Nil, err
		}
	} else {
		created, err := s.contents.Create(ctx, record)
		if err != nil {
			return uuid.Nil, err
		}
		liveID = created
		if err := s.contents.SetTranslationLink(ctx, item.OriginalID, item.TargetLanguage, liveID); err != nil {
			return liveID, err
		}
		if err := s.contents.SetTranslationLink(ctx, liveID, item.SourceLanguage, item.OriginalID); err != nil {
			return liveID, err
		}
	}

	metadata, err := s.repo.ListMetadata(ctx, item.ID)
	if err != nil {
		return liveID, err
	}
	for _, entry := range metadata {
		if err := s.contents.SetMetadata(ctx, liveID, entry.Key, entry.Value); err != nil {
			return liveID, err
		}
	}
	return liveID, nil
}

// appendLog records one sync attempt. Audit writes are best effort on the
// failure path so a log error never masks the sync error itself.
func (s *service) appendLog(ctx context.Context, item *StagingItem, actor, contentID uuid.UUID, outcome SyncOutcome, message string) {
	entry := &SyncLogEntry{
		ID:             s.id(),
		SyncDate:       s.now().UTC(),
		ActorID:        actor,
		ContentType:    item.ContentType,
		ContentID:      contentID,
		SourceLanguage: item.SourceLanguage,
		TargetLanguage: item.TargetLanguage,
		Outcome:        outcome,
		Message:        message,
	}
	if err := s.repo.AppendLog(ctx, entry); err != nil {
		s.logger.Warn("staging.sync.log_append_failed",
			"staging_id", item.ID.String(),
			"error", err,
		)
	}
}

// Cleanup deletes synced items older than the retention window together with
// their metadata. Sync log rows are left untouched.
func (s *service) Cleanup(ctx context.Context, req CleanupRequest) (int, error) {
	days := req.MaxAgeDays
	if days <= 0 {
		days = s.retentionDays
	}
	cutoff := s.now().UTC().AddDate(0, 0, -days)

	removed, err := s.repo.DeleteSyncedBefore(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrStoreFailed, err)
	}
	if removed > 0 {
		s.logger.Info("staging.cleanup.done", "removed", removed, "max_age_days", days)
	}
	return removed, nil
}

// List returns staged items matching the filter, most recently touched first.
func (s *service) List(ctx context.Context, req ListRequest) ([]*StagingItem, error) {
	for _, status := range req.Statuses {
		if !status.IsValid() {
			return nil, &StatusInvalidError{Value: string(status)}
		}
	}
	return s.repo.ListItems(ctx, req)
}

// Get returns a single staging item by id.
func (s *service) Get(ctx context.Context, id uuid.UUID) (*StagingItem, error) {
	return s.repo.GetItem(ctx, id)
}
