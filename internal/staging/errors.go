package staging

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrItemNotFound    = errors.New("staging: staging item not found")
	ErrContentNotFound = errors.New("staging: source content not found")
	ErrAlreadyStaged   = errors.New("staging: content already staged for this language")
	ErrTitleRequired   = errors.New("staging: title is required")
	ErrBodyRequired    = errors.New("staging: body is required")
	ErrTargetRequired  = errors.New("staging: target language is required")
	ErrTargetIsSource  = errors.New("staging: target language matches the source language")
	ErrStatusInvalid   = errors.New("staging: status is invalid")
	ErrStatusReserved  = errors.New("staging: synced status is assigned by sync only")
	ErrItemImmutable   = errors.New("staging: synced items can no longer be edited")
	ErrNotCompleted    = errors.New("staging: translation must be marked as completed before syncing")
	ErrSyncFailed      = errors.New("staging: sync to live content failed")
	ErrStoreFailed     = errors.New("staging: staging store operation failed")
)

// AlreadyStagedError captures duplicate staging conflicts for one
// (original, target language) pair.
type AlreadyStagedError struct {
	OriginalID     uuid.UUID
	TargetLanguage string
	ExistingID     uuid.UUID
}

func (e *AlreadyStagedError) Error() string {
	if e == nil {
		return ErrAlreadyStaged.Error()
	}
	target := strings.TrimSpace(e.TargetLanguage)
	if target != "" {
		return fmt.Sprintf("%s: language=%s", ErrAlreadyStaged.Error(), target)
	}
	return ErrAlreadyStaged.Error()
}

func (e *AlreadyStagedError) Unwrap() error {
	return ErrAlreadyStaged
}

// StatusInvalidError captures rejected status values on update requests.
type StatusInvalidError struct {
	Value string
}

func (e *StatusInvalidError) Error() string {
	if e == nil {
		return ErrStatusInvalid.Error()
	}
	value := strings.TrimSpace(e.Value)
	if value != "" {
		return fmt.Sprintf("%s: %q", ErrStatusInvalid.Error(), value)
	}
	return ErrStatusInvalid.Error()
}

func (e *StatusInvalidError) Unwrap() error {
	return ErrStatusInvalid
}

// NotCompletedError captures sync attempts outside the completed state.
type NotCompletedError struct {
	ItemID uuid.UUID
	Status Status
}

func (e *NotCompletedError) Error() string {
	if e == nil {
		return ErrNotCompleted.Error()
	}
	return fmt.Sprintf("%s: status=%s", ErrNotCompleted.Error(), e.Status)
}

func (e *NotCompletedError) Unwrap() error {
	return ErrNotCompleted
}

// SyncFailedError wraps a downstream content store failure during sync.
type SyncFailedError struct {
	ItemID uuid.UUID
	Cause  error
}

func (e *SyncFailedError) Error() string {
	if e == nil || e.Cause == nil {
		return ErrSyncFailed.Error()
	}
	return fmt.Sprintf("%s: %v", ErrSyncFailed.Error(), e.Cause)
}

func (e *SyncFailedError) Unwrap() error {
	return ErrSyncFailed
}

// NotFoundError represents missing records from repository lookups.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %q not found", e.Resource, e.Key)
}

func (e *NotFoundError) Unwrap() error {
	if e != nil && e.Resource == "staging_item" {
		return ErrItemNotFound
	}
	return nil
}
