// Package langmanager stages translations of live content, tracks their
// editorial lifecycle, and promotes completed work back to the content
// repository. Hosts construct a Module per installation and drive it through
// the staging and reporting services or the command handlers.
package langmanager

import (
	"context"

	"github.com/toolvizion/go-language-manager/internal/di"
	"github.com/toolvizion/go-language-manager/internal/jobs"
	"github.com/toolvizion/go-language-manager/internal/reporting"
	"github.com/toolvizion/go-language-manager/internal/staging"
	"github.com/toolvizion/go-language-manager/pkg/interfaces"
)

// StagingService exports the staging engine contract.
type StagingService = staging.Service

// ReportingService exports the read-only query layer contract.
type ReportingService = reporting.Service

// ContentStore exports the live content collaborator contract.
type ContentStore = interfaces.ContentStore

// ContentRecord exports the live content DTO.
type ContentRecord = interfaces.ContentRecord

// MetadataEntry exports the live content metadata DTO.
type MetadataEntry = interfaces.MetadataEntry

// UserDirectory exports the actor display-name resolver contract.
type UserDirectory = interfaces.UserDirectory

// StagingItem exports the staged translation record.
type StagingItem = staging.StagingItem

// SyncLogEntry exports the sync audit record.
type SyncLogEntry = staging.SyncLogEntry

// Status exports the staging lifecycle enumeration.
type Status = staging.Status

// Lifecycle statuses of a staged translation.
const (
	StatusPending    = staging.StatusPending
	StatusInProgress = staging.StatusInProgress
	StatusCompleted  = staging.StatusCompleted
	StatusSynced     = staging.StatusSynced
)

type (
	CopyRequest      = staging.CopyRequest
	BulkCopyRequest  = staging.BulkCopyRequest
	BulkCopyResult   = staging.BulkCopyResult
	UpdateRequest    = staging.UpdateRequest
	SyncRequest      = staging.SyncRequest
	CleanupRequest   = staging.CleanupRequest
	ListRequest      = staging.ListRequest
	StatusCount      = staging.StatusCount
	LanguageWorkload = staging.LanguageWorkload
	RecentSync       = reporting.RecentSync
	OverviewRow      = reporting.OverviewRow
)

// ErrorKind classifies engine failures for request boundaries.
type ErrorKind = staging.Kind

const (
	KindNotFound        = staging.KindNotFound
	KindConflict        = staging.KindConflict
	KindInvalidArgument = staging.KindInvalidArgument
	KindInvalidState    = staging.KindInvalidState
	KindSyncFailed      = staging.KindSyncFailed
	KindStoreError      = staging.KindStoreError
)

// KindOf maps an engine error to its boundary classification.
func KindOf(err error) ErrorKind {
	return staging.KindOf(err)
}

// Module is the top level language manager runtime façade.
type Module struct {
	container *di.Container
}

// New constructs a module using the provided configuration and optional DI overrides.
func New(ctx context.Context, cfg Config, opts ...di.Option) (*Module, error) {
	container, err := di.NewContainer(ctx, cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Staging returns the configured staging engine.
func (m *Module) Staging() StagingService {
	return m.container.Staging()
}

// Reporting returns the configured query layer.
func (m *Module) Reporting() ReportingService {
	return m.container.Reporting()
}

// Content returns the live content collaborator.
func (m *Module) Content() ContentStore {
	return m.container.ContentStore()
}

// RetentionWorker returns the cleanup worker for host schedulers.
func (m *Module) RetentionWorker() *jobs.RetentionWorker {
	return m.container.RetentionWorker()
}

// Close releases resources held by the module.
func (m *Module) Close() error {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.Close()
}
