package stagingcmd

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/toolvizion/go-language-manager/internal/commands"
	"github.com/toolvizion/go-language-manager/internal/staging"
	"github.com/toolvizion/go-language-manager/pkg/interfaces"
)

const syncItemMessageType = "langmanager.staging.sync_item"

// SyncItemCommand promotes a completed staging item to live content.
type SyncItemCommand struct {
	ItemID  uuid.UUID `json:"item_id"`
	ActorID uuid.UUID `json:"actor_id"`
}

// Type implements command.Message.
func (SyncItemCommand) Type() string { return syncItemMessageType }

// Validate ensures the message identifies an item.
func (m SyncItemCommand) Validate() error {
	errs := validation.Errors{}
	if m.ItemID == uuid.Nil {
		errs["item_id"] = validation.NewError("langmanager.staging.sync_item.id_required", "item_id is required")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// SyncItemHandler promotes items via the staging service.
type SyncItemHandler struct {
	inner *commands.Handler[SyncItemCommand]
}

// NewSyncItemHandler constructs a handler wired to the provided staging service.
func NewSyncItemHandler(service staging.Service, logger interfaces.Logger, opts ...commands.HandlerOption[SyncItemCommand]) *SyncItemHandler {
	exec := func(ctx context.Context, msg SyncItemCommand) error {
		_, err := service.Sync(ctx, staging.SyncRequest{
			ItemID:  msg.ItemID,
			ActorID: msg.ActorID,
		})
		return err
	}

	handlerOpts := []commands.HandlerOption[SyncItemCommand]{
		commands.WithLogger[SyncItemCommand](logger),
		commands.WithOperation[SyncItemCommand]("staging.sync_item"),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &SyncItemHandler{
		inner: commands.NewHandler[SyncItemCommand](exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[SyncItemCommand].Execute.
func (h *SyncItemHandler) Execute(ctx context.Context, msg SyncItemCommand) error {
	return h.inner.Execute(ctx, msg)
}
