package campaigns

import "errors"

var (
	// ErrInvalidTransition is returned when a lifecycle event is not
	// legal from the campaign's current status.
	ErrInvalidTransition = errors.New("invalid campaign status transition")

	// ErrNotIngestible is returned when leads are added to a completed
	// or archived campaign.
	ErrNotIngestible = errors.New("campaign is not accepting leads")

	// ErrNotFound is returned when a campaign does not exist in the org scope.
	ErrNotFound = errors.New("campaign not found")

	// ErrStructureLocked is returned for structural edits outside draft/paused.
	ErrStructureLocked = errors.New("campaign structure can only be edited while draft or paused")

	// ErrArchived is returned for any mutation of an archived campaign.
	ErrArchived = errors.New("campaign is archived")

	// ErrPercentageImbalance marks manual assignee shares that do not sum to 100.
	ErrPercentageImbalance = errors.New("assignee percentages do not sum to 100")

	ErrMissingOrgID          = errors.New("org id is required")
	ErrNameRequired          = errors.New("campaign name is required")
	ErrInvalidMethod         = errors.New("unknown acquisition method")
	ErrInvalidPriority       = errors.New("unknown priority")
	ErrInvalidAssignmentRule = errors.New("unknown assignment rule")
	ErrNegativeExpectedCount = errors.New("expected count must not be negative")
	ErrInvalidRole           = errors.New("unknown assignee role")
	ErrAssigneeNotFound      = errors.New("assignee not found on campaign")
)
