package staging

import "errors"

// Kind classifies engine errors for the request boundary, which reports
// every failure as a structured {kind, message} payload.
type Kind string

const (
	KindNotFound        Kind = "not_found"
	KindConflict        Kind = "conflict"
	KindInvalidArgument Kind = "invalid_argument"
	KindInvalidState    Kind = "invalid_state"
	KindSyncFailed      Kind = "sync_failed"
	KindStoreError      Kind = "store_error"
)

// KindOf maps an engine error to its boundary kind. Unrecognized errors
// classify as store errors so nothing surfaces unstructured.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrItemNotFound), errors.Is(err, ErrContentNotFound):
		return KindNotFound
	case errors.Is(err, ErrAlreadyStaged):
		return KindConflict
	case errors.Is(err, ErrTitleRequired),
		errors.Is(err, ErrBodyRequired),
		errors.Is(err, ErrTargetRequired),
		errors.Is(err, ErrTargetIsSource),
		errors.Is(err, ErrStatusInvalid),
		errors.Is(err, ErrStatusReserved):
		return KindInvalidArgument
	case errors.Is(err, ErrNotCompleted), errors.Is(err, ErrItemImmutable):
		return KindInvalidState
	case errors.Is(err, ErrSyncFailed):
		return KindSyncFailed
	default:
		return KindStoreError
	}
}
