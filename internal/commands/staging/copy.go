package stagingcmd

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/toolvizion/go-language-manager/internal/commands"
	"github.com/toolvizion/go-language-manager/internal/staging"
	"github.com/toolvizion/go-language-manager/pkg/interfaces"
)

const (
	copyMessageType     = "langmanager.staging.copy"
	bulkCopyMessageType = "langmanager.staging.copy_bulk"
)

// CopyCommand stages one source item for translation into a target language.
type CopyCommand struct {
	OriginalID     uuid.UUID `json:"original_id"`
	TargetLanguage string    `json:"target_language"`
	ActorID        uuid.UUID `json:"actor_id"`
}

// Type implements command.Message.
func (CopyCommand) Type() string { return copyMessageType }

// Validate ensures the message carries the required fields before reaching handlers.
func (m CopyCommand) Validate() error {
	errs := validation.Errors{}
	if m.OriginalID == uuid.Nil {
		errs["original_id"] = validation.NewError("langmanager.staging.copy.original_required", "original_id is required")
	}
	if err := validation.Validate(m.TargetLanguage, validation.Required); err != nil {
		errs["target_language"] = validation.NewError("langmanager.staging.copy.target_required", "target_language is required")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// CopyHandler stages single items via the staging service.
type CopyHandler struct {
	inner *commands.Handler[CopyCommand]
}

// NewCopyHandler constructs a handler wired to the provided staging service.
func NewCopyHandler(service staging.Service, logger interfaces.Logger, opts ...commands.HandlerOption[CopyCommand]) *CopyHandler {
	exec := func(ctx context.Context, msg CopyCommand) error {
		_, err := service.Copy(ctx, staging.CopyRequest{
			OriginalID:     msg.OriginalID,
			TargetLanguage: msg.TargetLanguage,
			ActorID:        msg.ActorID,
		})
		return err
	}

	handlerOpts := []commands.HandlerOption[CopyCommand]{
		commands.WithLogger[CopyCommand](logger),
		commands.WithOperation[CopyCommand]("staging.copy"),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &CopyHandler{
		inner: commands.NewHandler[CopyCommand](exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[CopyCommand].Execute.
func (h *CopyHandler) Execute(ctx context.Context, msg CopyCommand) error {
	return h.inner.Execute(ctx, msg)
}

// BulkCopyCommand stages every managed source item for a target language.
type BulkCopyCommand struct {
	TargetLanguage string    `json:"target_language"`
	ActorID        uuid.UUID `json:"actor_id"`
}

// Type implements command.Message.
func (BulkCopyCommand) Type() string { return bulkCopyMessageType }

// Validate ensures a target language was supplied.
func (m BulkCopyCommand) Validate() error {
	errs := validation.Errors{}
	if err := validation.Validate(m.TargetLanguage, validation.Required); err != nil {
		errs["target_language"] = validation.NewError("langmanager.staging.copy_bulk.target_required", "target_language is required")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// BulkCopyHandler runs bulk staging via the staging service.
type BulkCopyHandler struct {
	inner *commands.Handler[BulkCopyCommand]
}

// NewBulkCopyHandler constructs a handler wired to the provided staging service.
func NewBulkCopyHandler(service staging.Service, logger interfaces.Logger, opts ...commands.HandlerOption[BulkCopyCommand]) *BulkCopyHandler {
	exec := func(ctx context.Context, msg BulkCopyCommand) error {
		_, err := service.BulkCopy(ctx, staging.BulkCopyRequest{
			TargetLanguage: msg.TargetLanguage,
			ActorID:        msg.ActorID,
		})
		return err
	}

	handlerOpts := []commands.HandlerOption[BulkCopyCommand]{
		commands.WithLogger[BulkCopyCommand](logger),
		commands.WithOperation[BulkCopyCommand]("staging.copy_bulk"),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &BulkCopyHandler{
		inner: commands.NewHandler[BulkCopyCommand](exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[BulkCopyCommand].Execute.
func (h *BulkCopyHandler) Execute(ctx context.Context, msg BulkCopyCommand) error {
	return h.inner.Execute(ctx, msg)
}
