package stagingcmd

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/toolvizion/go-language-manager/internal/commands"
	"github.com/toolvizion/go-language-manager/internal/staging"
	"github.com/toolvizion/go-language-manager/pkg/interfaces"
)

const cleanupMessageType = "langmanager.staging.cleanup"

// CleanupCommand removes synced staging items older than MaxAgeDays.
// Zero applies the engine's configured retention window.
type CleanupCommand struct {
	MaxAgeDays int `json:"max_age_days"`
}

// Type implements command.Message.
func (CleanupCommand) Type() string { return cleanupMessageType }

// Validate rejects negative retention windows.
func (m CleanupCommand) Validate() error {
	errs := validation.Errors{}
	if err := validation.Validate(m.MaxAgeDays, validation.Min(0)); err != nil {
		errs["max_age_days"] = validation.NewError("langmanager.staging.cleanup.age_invalid", "max_age_days must not be negative")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// CleanupHandler runs retention cleanup via the staging service.
type CleanupHandler struct {
	inner *commands.Handler[CleanupCommand]
}

// NewCleanupHandler constructs a handler wired to the provided staging service.
func NewCleanupHandler(service staging.Service, logger interfaces.Logger, opts ...commands.HandlerOption[CleanupCommand]) *CleanupHandler {
	exec := func(ctx context.Context, msg CleanupCommand) error {
		_, err := service.Cleanup(ctx, staging.CleanupRequest{
			MaxAgeDays: msg.MaxAgeDays,
		})
		return err
	}

	handlerOpts := []commands.HandlerOption[CleanupCommand]{
		commands.WithLogger[CleanupCommand](logger),
		commands.WithOperation[CleanupCommand]("staging.cleanup"),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &CleanupHandler{
		inner: commands.NewHandler[CleanupCommand](exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[CleanupCommand].Execute.
func (h *CleanupHandler) Execute(ctx context.Context, msg CleanupCommand) error {
	return h.inner.Execute(ctx, msg)
}
