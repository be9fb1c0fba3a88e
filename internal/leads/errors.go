package leads

import "errors"

var (
	// ErrNotIdentified is returned when a candidate has neither a
	// client name nor an email.
	ErrNotIdentified = errors.New("lead needs a client name or an email")

	// ErrLeadNotFound is returned when a lead is not found.
	ErrLeadNotFound = errors.New("lead not found")

	// ErrEmptyBatch is returned when a batch submission carries no candidates.
	ErrEmptyBatch = errors.New("batch contains no candidates")
)
