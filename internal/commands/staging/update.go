package stagingcmd

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/toolvizion/go-language-manager/internal/commands"
	"github.com/toolvizion/go-language-manager/internal/staging"
	"github.com/toolvizion/go-language-manager/pkg/interfaces"
)

const updateItemMessageType = "langmanager.staging.update_item"

// UpdateItemCommand overwrites the editable fields of a staging item.
type UpdateItemCommand struct {
	ItemID  uuid.UUID `json:"item_id"`
	Title   string    `json:"title"`
	Body    string    `json:"body"`
	Status  string    `json:"status"`
	ActorID uuid.UUID `json:"actor_id"`
}

// Type implements command.Message.
func (UpdateItemCommand) Type() string { return updateItemMessageType }

// Validate ensures the message carries the required fields. Status values
// are vetted again by the engine; the boundary only rejects empties.
func (m UpdateItemCommand) Validate() error {
	errs := validation.Errors{}
	if m.ItemID == uuid.Nil {
		errs["item_id"] = validation.NewError("langmanager.staging.update_item.id_required", "item_id is required")
	}
	if err := validation.Validate(m.Title, validation.Required); err != nil {
		errs["title"] = validation.NewError("langmanager.staging.update_item.title_required", "title is required")
	}
	if err := validation.Validate(m.Body, validation.Required); err != nil {
		errs["body"] = validation.NewError("langmanager.staging.update_item.body_required", "body is required")
	}
	if err := validation.Validate(m.Status, validation.Required); err != nil {
		errs["status"] = validation.NewError("langmanager.staging.update_item.status_required", "status is required")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// UpdateItemHandler applies item updates via the staging service.
type UpdateItemHandler struct {
	inner *commands.Handler[UpdateItemCommand]
}

// NewUpdateItemHandler constructs a handler wired to the provided staging service.
func NewUpdateItemHandler(service staging.Service, logger interfaces.Logger, opts ...commands.HandlerOption[UpdateItemCommand]) *UpdateItemHandler {
	exec := func(ctx context.Context, msg UpdateItemCommand) error {
		_, err := service.Update(ctx, staging.UpdateRequest{
			ItemID:  msg.ItemID,
			Title:   msg.Title,
			Body:    msg.Body,
			Status:  msg.Status,
			ActorID: msg.ActorID,
		})
		return err
	}

	handlerOpts := []commands.HandlerOption[UpdateItemCommand]{
		commands.WithLogger[UpdateItemCommand](logger),
		commands.WithOperation[UpdateItemCommand]("staging.update_item"),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &UpdateItemHandler{
		inner: commands.NewHandler[UpdateItemCommand](exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[UpdateItemCommand].Execute.
func (h *UpdateItemHandler) Execute(ctx context.Context, msg UpdateItemCommand) error {
	return h.inner.Execute(ctx, msg)
}
