package interfaces

import (
	"context"

	"github.com/google/uuid"
)

// UserDirectory resolves actor ids to display names for reporting surfaces.
// The host CMS owns user identity; implementations should return ok=false
// for unknown ids so callers can fall back to the raw identifier.
type UserDirectory interface {
	DisplayName(ctx context.Context, id uuid.UUID) (name string, ok bool)
}
