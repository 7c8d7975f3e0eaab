// Package common defines shared constants and sentinel errors used across
// vidpress components. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound           = errors.New("not found")
	ErrStorageUnavailable = errors.New("storage unavailable")

	// Transaction lifecycle errors.
	ErrTransactionStartFailed = errors.New("transaction start failed")
	ErrCommitFailed           = errors.New("commit failed")
	ErrTransactionClosed      = errors.New("transaction already closed")

	// Upload-session lifecycle errors (terminal, not retryable).
	ErrSessionExpired          = errors.New("upload session expired")
	ErrSessionAlreadyFinalized = errors.New("upload session already finalized")

	// Auth / access errors.
	ErrInvalidToken = errors.New("invalid token")
	ErrAccessDenied = errors.New("access denied")

	// Search index errors (non-fatal, retried internally).
	ErrIndexSyncFailed = errors.New("index sync failed")

	// Generic internal flow control.
	ErrInternal = errors.New("internal error")
)
