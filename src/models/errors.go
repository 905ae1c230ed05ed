package models

import "errors"

// Domain-level sentinel errors for business logic
// These errors should not contain HTTP-specific information

var (
	// ErrSessionNotFound indicates that no active session with the given ID exists
	ErrSessionNotFound = errors.New("session not found")

	// ErrTutorNotFound indicates that a tutor with the given ID does not exist
	ErrTutorNotFound = errors.New("tutor not found")

	// ErrNotWaiting indicates that the identity holds no waiting entry in its queue
	ErrNotWaiting = errors.New("not waiting in queue")

	// ErrAlreadyActive indicates that a session insert collided with an
	// existing active session for the same party
	ErrAlreadyActive = errors.New("active session already exists")

	// ErrPersistenceUnavailable indicates a session store or broker timeout;
	// the in-memory queue state is left untouched so a retry is safe
	ErrPersistenceUnavailable = errors.New("persistence unavailable")
)
