package staging

import "strings"

// Status represents the translation lifecycle state of a staging item.
type Status string

const (
	// StatusPending indicates a fresh copy awaiting translation work.
	StatusPending Status = "pending"
	// StatusInProgress indicates a translator has picked the item up.
	StatusInProgress Status = "in_progress"
	// StatusCompleted indicates the translation is ready to sync.
	StatusCompleted Status = "completed"
	// StatusSynced indicates the item has been promoted to live content.
	// It is only ever assigned by a successful sync, never by manual update.
	StatusSynced Status = "synced"
)

// Statuses lists every valid status in lifecycle order.
func Statuses() []Status {
	return []Status{StatusPending, StatusInProgress, StatusCompleted, StatusSynced}
}

// ParseStatus normalizes and validates a status string.
func ParseStatus(input string) (Status, error) {
	status := Status(strings.ToLower(strings.TrimSpace(input)))
	switch status {
	case StatusPending, StatusInProgress, StatusCompleted, StatusSynced:
		return status, nil
	default:
		return "", &StatusInvalidError{Value: input}
	}
}

// IsValid reports whether the status is one of the known lifecycle states.
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusSynced:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether the status ends the staging lifecycle.
func (s Status) IsTerminal() bool {
	return s == StatusSynced
}

// Label returns the human-readable form used by reporting surfaces.
func (s Status) Label() string {
	switch s {
	case StatusPending:
		return "Pending"
	case StatusInProgress:
		return "In Progress"
	case StatusCompleted:
		return "Completed"
	case StatusSynced:
		return "Synced"
	default:
		return string(s)
	}
}

// CanTransition centralizes the transition rule: manual updates may move
// freely among the non-terminal states, while synced is reachable only
// through the sync operation and is never left once entered.
func CanTransition(from, to Status, manual bool) bool {
	if !from.IsValid() || !to.IsValid() {
		return false
	}
	if from == StatusSynced {
		return false
	}
	if to == StatusSynced {
		return !manual && from == StatusCompleted
	}
	return true
}
