package reporting

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/toolvizion/go-language-manager/internal/logging"
	"github.com/toolvizion/go-language-manager/internal/staging"
	"github.com/toolvizion/go-language-manager/pkg/interfaces"
)

// RecentSync is one promoted translation with its actor resolved for display.
type RecentSync struct {
	SyncDate       string `json:"sync_date"`
	ActorID        string `json:"actor_id"`
	ActorName      string `json:"actor_name"`
	ContentType    string `json:"content_type"`
	ContentID      string `json:"content_id"`
	SourceLanguage string `json:"source_language"`
	TargetLanguage string `json:"target_language"`
	Message        string `json:"message,omitempty"`
}

// OverviewRow annotates one source content item with its staging status for
// a target language. Status is empty when the item has never been staged.
type OverviewRow struct {
	Content *interfaces.ContentRecord `json:"content"`
	Staged  bool                      `json:"staged"`
	Status  staging.Status            `json:"status,omitempty"`
}

// Service derives dashboard aggregates from the staging store and the
// content store. It is read-only and holds no state of its own.
type Service interface {
	StatusCounts(ctx context.Context) ([]staging.StatusCount, error)
	LanguageWorkload(ctx context.Context) ([]staging.LanguageWorkload, error)
	UntranslatedContent(ctx context.Context, targetLanguage string) ([]*interfaces.ContentRecord, error)
	AvailableTargetLanguages(ctx context.Context) ([]string, error)
	RecentSyncs(ctx context.Context, limit int) ([]RecentSync, error)
	StagingOverview(ctx context.Context, targetLanguage string) ([]OverviewRow, error)
}

// ServiceOption configures the reporting service.
type ServiceOption func(*service)

// WithLogger injects the reporting logger. Defaults to a no-op logger.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithUserDirectory injects the actor display-name resolver.
func WithUserDirectory(users interfaces.UserDirectory) ServiceOption {
	return func(s *service) {
		s.users = users
	}
}

// WithManagedContentType sets the content type scanned for untranslated items.
func WithManagedContentType(contentType string) ServiceOption {
	return func(s *service) {
		if trimmed := strings.TrimSpace(contentType); trimmed != "" {
			s.managedType = trimmed
		}
	}
}

// WithDefaultLanguage sets the source language for untranslated scans.
func WithDefaultLanguage(language string) ServiceOption {
	return func(s *service) {
		if trimmed := strings.TrimSpace(language); trimmed != "" {
			s.defaultLanguage = trimmed
		}
	}
}

// WithLanguages sets the configured language tags the installation serves.
func WithLanguages(languages []string) ServiceOption {
	return func(s *service) {
		s.languages = append([]string(nil), languages...)
	}
}

type service struct {
	repo            staging.Repository
	contents        interfaces.ContentStore
	users           interfaces.UserDirectory
	logger          interfaces.Logger
	managedType     string
	defaultLanguage string
	languages       []string
}

// NewService constructs the reporting service.
func NewService(repo staging.Repository, contents interfaces.ContentStore, opts ...ServiceOption) Service {
	s := &service{
		repo:            repo,
		contents:        contents,
		logger:          logging.NoOp(),
		managedType:     "page",
		defaultLanguage: "en",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// StatusCounts returns per-status item counts across all staged work.
func (s *service) StatusCounts(ctx context.Context) ([]staging.StatusCount, error) {
	return s.repo.CountByStatus(ctx)
}

// LanguageWorkload returns the per-target-language staging breakdown.
func (s *service) LanguageWorkload(ctx context.Context) ([]staging.LanguageWorkload, error) {
	return s.repo.WorkloadByLanguage(ctx)
}

// UntranslatedContent lists default-language items with no translation link
// for the target language. Staged-but-unsynced items still count as
// untranslated: only a live link removes an item from this set.
func (s *service) UntranslatedContent(ctx context.Context, targetLanguage string) ([]*interfaces.ContentRecord, error) {
	target := strings.TrimSpace(targetLanguage)
	if target == "" {
		return nil, staging.ErrTargetRequired
	}

	sources, err := s.contents.ListByTypeAndLanguage(ctx, s.managedType, s.defaultLanguage)
	if err != nil {
		s.logger.Error("reporting.untranslated.store_failed",
			"content_type", s.managedType,
			"error", err,
		)
		return nil, fmt.Errorf("%w: %v", staging.ErrStoreFailed, err)
	}

	out := make([]*interfaces.ContentRecord, 0, len(sources))
	for _, source := range sources {
		linked, err := s.contents.GetTranslationLink(ctx, source.ID, target)
		if err != nil {
			s.logger.Error("reporting.untranslated.link_lookup_failed",
				"content_id", source.ID.String(),
				"target_language", target,
				"error", err,
			)
			return nil, fmt.Errorf("%w: %v", staging.ErrStoreFailed, err)
		}
		if linked == uuid.Nil {
			out = append(out, source)
		}
	}
	return out, nil
}

// AvailableTargetLanguages returns the configured languages minus the
// default source language.
func (s *service) AvailableTargetLanguages(_ context.Context) ([]string, error) {
	out := make([]string, 0, len(s.languages))
	for _, language := range s.languages {
		if strings.EqualFold(language, s.defaultLanguage) {
			continue
		}
		out = append(out, language)
	}
	return out, nil
}

// RecentSyncs returns the newest successful promotions with actor display
// names. Unknown actors fall back to the raw identifier.
func (s *service) RecentSyncs(ctx context.Context, limit int) ([]RecentSync, error) {
	entries, err := s.repo.ListRecentLogs(ctx, staging.SyncOutcomeSuccess, limit)
	if err != nil {
		return nil, err
	}

	out := make([]RecentSync, 0, len(entries))
	for _, entry := range entries {
		name := entry.ActorID.String()
		if s.users != nil {
			if resolved, ok := s.users.DisplayName(ctx, entry.ActorID); ok {
				name = resolved
			}
		}
		out = append(out, RecentSync{
			SyncDate:       entry.SyncDate.Format("2006-01-02 15:04:05"),
			ActorID:        entry.ActorID.String(),
			ActorName:      name,
			ContentType:    entry.ContentType,
			ContentID:      entry.ContentID.String(),
			SourceLanguage: entry.SourceLanguage,
			TargetLanguage: entry.TargetLanguage,
			Message:        entry.Message,
		})
	}
	return out, nil
}

// StagingOverview annotates every source item with its staging status for
// the target language.
func (s *service) StagingOverview(ctx context.Context, targetLanguage string) ([]OverviewRow, error) {
	target := strings.TrimSpace(targetLanguage)
	if target == "" {
		return nil, staging.ErrTargetRequired
	}

	sources, err := s.contents.ListByTypeAndLanguage(ctx, s.managedType, s.defaultLanguage)
	if err != nil {
		s.logger.Error("reporting.overview.store_failed",
			"content_type", s.managedType,
			"error", err,
		)
		return nil, fmt.Errorf("%w: %v", staging.ErrStoreFailed, err)
	}

	staged, err := s.repo.ListItems(ctx, staging.ListRequest{TargetLanguage: target})
	if err != nil {
		return nil, err
	}
	byOriginal := make(map[uuid.UUID]staging.Status, len(staged))
	for _, item := range staged {
		byOriginal[item.OriginalID] = item.Status
	}

	out := make([]OverviewRow, 0, len(sources))
	for _, source := range sources {
		row := OverviewRow{Content: source}
		if status, ok := byOriginal[source.ID]; ok {
			row.Staged = true
			row.Status = status
		}
		out = append(out, row)
	}
	return out, nil
}
