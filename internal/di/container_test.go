package di

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	stagingcmd "github.com/toolvizion/go-language-manager/internal/commands/staging"
	"github.com/toolvizion/go-language-manager/internal/content"
	"github.com/toolvizion/go-language-manager/internal/logging"
	"github.com/toolvizion/go-language-manager/internal/runtimeconfig"
	"github.com/toolvizion/go-language-manager/internal/staging"
	"github.com/toolvizion/go-language-manager/pkg/interfaces"
)

func memoryConfig() runtimeconfig.Config {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Storage.Driver = "memory"
	cfg.Storage.DSN = ""
	cfg.Languages = []string{"en", "nl"}
	return cfg
}

func TestNewContainerValidatesConfig(t *testing.T) {
	cfg := memoryConfig()
	cfg.DefaultLanguage = ""
	if _, err := NewContainer(context.Background(), cfg); !errors.Is(err, runtimeconfig.ErrDefaultLanguageRequired) {
		t.Fatalf("expected config rejection, got %v", err)
	}
}

func TestNewContainerWiresMemoryServices(t *testing.T) {
	ctx := context.Background()
	container, err := NewContainer(ctx, memoryConfig())
	if err != nil {
		t.Fatalf("new container: %v", err)
	}
	t.Cleanup(func() { _ = container.Close() })

	if container.DB() != nil {
		t.Fatalf("memory driver must not open a database")
	}
	if container.Staging() == nil || container.Reporting() == nil {
		t.Fatalf("expected services wired")
	}
	for name, handler := range map[string]any{
		"copy":     container.CopyHandler(),
		"bulk":     container.BulkCopyHandler(),
		"update":   container.UpdateItemHandler(),
		"sync":     container.SyncItemHandler(),
		"cleanup":  container.CleanupHandler(),
		"retainer": container.RetentionWorker(),
	} {
		if handler == nil {
			t.Fatalf("expected %s handler wired", name)
		}
	}
}

func TestNewContainerSqliteEndToEnd(t *testing.T) {
	ctx := context.Background()
	cfg := memoryConfig()
	cfg.Storage.Driver = "sqlite"
	cfg.Storage.DSN = "file:di_container_test?mode=memory&cache=shared&_fk=1"

	container, err := NewContainer(ctx, cfg, WithClock(func() time.Time {
		return time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	}))
	if err != nil {
		t.Fatalf("new container: %v", err)
	}
	t.Cleanup(func() { _ = container.Close() })

	if container.DB() == nil {
		t.Fatalf("expected database handle")
	}

	sourceID, err := container.ContentStore().Create(ctx, &interfaces.ContentRecord{
		Title:       "About us",
		Body:        "<p>Welcome.</p>",
		ContentType: "page",
		Language:    "en",
		Status:      "publish",
	})
	if err != nil {
		t.Fatalf("seed content: %v", err)
	}

	if err := container.CopyHandler().Execute(ctx, stagingcmd.CopyCommand{
		OriginalID:     sourceID,
		TargetLanguage: "nl",
		ActorID:        uuid.New(),
	}); err != nil {
		t.Fatalf("copy command: %v", err)
	}

	items, err := container.Staging().List(ctx, staging.ListRequest{TargetLanguage: "nl"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 1 || items[0].Status != staging.StatusPending {
		t.Fatalf("unexpected staged items %+v", items)
	}
}

type namedLoggerProvider struct {
	names map[string]bool
}

func (p *namedLoggerProvider) GetLogger(name string) interfaces.Logger {
	p.names[name] = true
	return logging.NoOp()
}

func TestNewContainerScopesLoggers(t *testing.T) {
	provider := &namedLoggerProvider{names: map[string]bool{}}

	container, err := NewContainer(context.Background(), memoryConfig(), WithLoggerProvider(provider))
	if err != nil {
		t.Fatalf("new container: %v", err)
	}
	t.Cleanup(func() { _ = container.Close() })

	for _, name := range []string{
		"langmanager.staging",
		"langmanager.reporting",
		"langmanager.jobs",
		"langmanager.commands.staging",
	} {
		if !provider.names[name] {
			t.Fatalf("expected logger %q requested, got %v", name, provider.names)
		}
	}
}

func TestNewContainerHonorsOverrides(t *testing.T) {
	ctx := context.Background()
	repo := staging.NewMemoryRepository()
	store := content.NewMemoryStore()

	container, err := NewContainer(ctx, memoryConfig(),
		WithStagingRepository(repo),
		WithContentStore(store),
	)
	if err != nil {
		t.Fatalf("new container: %v", err)
	}
	t.Cleanup(func() { _ = container.Close() })

	if container.StagingRepository() != staging.Repository(repo) {
		t.Fatalf("expected injected repository")
	}
	if container.ContentStore() != interfaces.ContentStore(store) {
		t.Fatalf("expected injected content store")
	}
}
