package domain

import "errors"

// Domain errors.
var (
	ErrTaskNotFound      = errors.New("task not found")
	ErrSubtaskNotFound   = errors.New("subtask not found")
	ErrEmptyTitle        = errors.New("title cannot be empty")
	ErrInvalidPriority   = errors.New("invalid priority (use high, medium or low)")
	ErrInvalidStatus     = errors.New("invalid status (use pending, in_progress or completed)")
	ErrInvalidDuration   = errors.New("duration must be positive")
	ErrSessionRunning    = errors.New("focus session already running")
	ErrNoSession         = errors.New("no active focus session")
	ErrSessionFinished   = errors.New("focus session already finished")
	ErrNoCredential      = errors.New("no completion service credential configured")
	ErrMalformedResponse = errors.New("malformed completion response")
	ErrNoFieldsToUpdate  = errors.New("no fields to update")
	ErrStoreUnavailable  = errors.New("store unavailable")
	ErrUnknownBackend    = errors.New("unknown store backend")
	ErrConfigExists      = errors.New("config file already exists")
)
