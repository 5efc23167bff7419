package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/caarlos0/env/v11"
	"github.com/google/uuid"

	langmanager "github.com/toolvizion/go-language-manager"
	"github.com/toolvizion/go-language-manager/internal/di"
	"github.com/toolvizion/go-language-manager/internal/logging/gologger"
	"github.com/toolvizion/go-language-manager/pkg/interfaces"
)

type staticDirectory map[uuid.UUID]string

func (d staticDirectory) DisplayName(_ context.Context, id uuid.UUID) (string, bool) {
	name, ok := d[id]
	return name, ok
}

func main() {
	ctx := context.Background()

	cfg := langmanager.DefaultConfig()
	cfg.Languages = []string{"en", "nl", "de"}
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("parse env: %v", err)
	}

	provider, err := gologger.NewProvider(gologger.Config{
		Level:     cfg.Logging.Level,
		Format:    "console",
		AddSource: cfg.Logging.AddSource,
	})
	if err != nil {
		log.Fatalf("logging: %v", err)
	}

	editorID := uuid.New()
	module, err := langmanager.New(ctx, cfg,
		di.WithLoggerProvider(provider),
		di.WithUserDirectory(staticDirectory{editorID: "Maria de Vries"}),
	)
	if err != nil {
		log.Fatalf("langmanager: %v", err)
	}
	defer module.Close()

	sourceID := seedSourceContent(ctx, module.Content())

	fmt.Println("== copy to staging ==")
	item, err := module.Staging().Copy(ctx, langmanager.CopyRequest{
		OriginalID:     sourceID,
		TargetLanguage: "nl",
		ActorID:        editorID,
	})
	if err != nil {
		log.Fatalf("copy: %v", err)
	}
	printJSON(item)

	// A second copy for the same pair must conflict.
	if _, err := module.Staging().Copy(ctx, langmanager.CopyRequest{
		OriginalID:     sourceID,
		TargetLanguage: "nl",
		ActorID:        editorID,
	}); err != nil {
		fmt.Printf("duplicate copy rejected: kind=%s err=%v\n", langmanager.KindOf(err), err)
	}

	fmt.Println("== translate and complete ==")
	for _, status := range []langmanager.Status{langmanager.StatusInProgress, langmanager.StatusCompleted} {
		item, err = module.Staging().Update(ctx, langmanager.UpdateRequest{
			ItemID:  item.ID,
			Title:   "Over ons",
			Body:    "<p>Welkom bij ons bedrijf.</p>",
			Status:  string(status),
			ActorID: editorID,
		})
		if err != nil {
			log.Fatalf("update: %v", err)
		}
	}
	printJSON(item)

	fmt.Println("== sync to live ==")
	liveID, err := module.Staging().Sync(ctx, langmanager.SyncRequest{
		ItemID:  item.ID,
		ActorID: editorID,
	})
	if err != nil {
		log.Fatalf("sync: %v", err)
	}
	live, err := module.Content().Get(ctx, liveID)
	if err != nil {
		log.Fatalf("fetch live translation: %v", err)
	}
	printJSON(live)

	fmt.Println("== bulk copy for German ==")
	bulk, err := module.Staging().BulkCopy(ctx, langmanager.BulkCopyRequest{
		TargetLanguage: "de",
		ActorID:        editorID,
	})
	if err != nil {
		log.Fatalf("bulk copy: %v", err)
	}
	printJSON(bulk)

	fmt.Println("== dashboard ==")
	counts, err := module.Reporting().StatusCounts(ctx)
	if err != nil {
		log.Fatalf("status counts: %v", err)
	}
	printJSON(counts)

	workload, err := module.Reporting().LanguageWorkload(ctx)
	if err != nil {
		log.Fatalf("workload: %v", err)
	}
	printJSON(workload)

	recent, err := module.Reporting().RecentSyncs(ctx, 5)
	if err != nil {
		log.Fatalf("recent syncs: %v", err)
	}
	printJSON(recent)

	untranslated, err := module.Reporting().UntranslatedContent(ctx, "de")
	if err != nil {
		log.Fatalf("untranslated: %v", err)
	}
	fmt.Printf("untranslated for de: %d item(s)\n", len(untranslated))

	fmt.Println("== retention sweep ==")
	removed, err := module.Staging().Cleanup(ctx, langmanager.CleanupRequest{
		MaxAgeDays: cfg.Retention.MaxAgeDays,
	})
	if err != nil {
		log.Fatalf("cleanup: %v", err)
	}
	fmt.Printf("removed %d aged synced item(s)\n", removed)
}

func seedSourceContent(ctx context.Context, store langmanager.ContentStore) uuid.UUID {
	source := &interfaces.ContentRecord{
		Title:       "About us",
		Body:        "<p>Welcome to our company.</p>",
		ContentType: "page",
		Language:    "en",
		Status:      "publish",
	}
	createdID, err := store.Create(ctx, source)
	if err != nil {
		log.Fatalf("seed content: %v", err)
	}
	if err := store.SetMetadata(ctx, createdID, "seo_title", "About us | Example"); err != nil {
		log.Fatalf("seed metadata: %v", err)
	}
	return createdID
}

func printJSON(v any) {
	payload, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Fatalf("marshal: %v", err)
	}
	fmt.Println(string(payload))
}
