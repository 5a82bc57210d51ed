package services

import "errors"

// Sentinel errors shared across services. Handlers map these to HTTP
// statuses with errors.Is; services wrap them with context via fmt.Errorf.
var (
	// ErrValidation covers empty message text, empty escalation reason,
	// and missing required fields. Raised before any persistence occurs.
	ErrValidation = errors.New("input validation failed")

	// ErrUnauthorized is returned when a caller references a conversation
	// they do not own. Checked before any message is appended.
	ErrUnauthorized = errors.New("unauthorized access to conversation")
)
