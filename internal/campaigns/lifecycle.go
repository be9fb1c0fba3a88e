package campaigns

import "fmt"

// Status of a campaign. Campaigns start in draft and end in archived.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusActive    Status = "active"
	StatusPaused    Status = "paused"
	StatusCompleted Status = "completed"
	StatusArchived  Status = "archived"
)

func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusActive, StatusPaused, StatusCompleted, StatusArchived:
		return true
	}
	return false
}

// Event is a lifecycle transition request.
type Event string

const (
	EventPublish  Event = "publish"
	EventPause    Event = "pause"
	EventResume   Event = "resume"
	EventComplete Event = "complete"
	EventArchive  Event = "archive"
)

// transitions is the closed table of legal lifecycle moves. Archived
// has no outgoing rows; completed can only be archived.
var transitions = map[Status]map[Event]Status{
	StatusDraft: {
		EventPublish: StatusActive,
		EventArchive: StatusArchived,
	},
	StatusActive: {
		EventPause:    StatusPaused,
		EventComplete: StatusCompleted,
		EventArchive:  StatusArchived,
	},
	StatusPaused: {
		EventResume:   StatusActive,
		EventComplete: StatusCompleted,
		EventArchive:  StatusArchived,
	},
	StatusCompleted: {
		EventArchive: StatusArchived,
	},
}

// Transition returns the status reached by applying event to current,
// or ErrInvalidTransition when the table has no row for the pair.
func Transition(current Status, event Event) (Status, error) {
	next, ok := transitions[current][event]
	if !ok {
		return current, fmt.Errorf("%w: %q from %q", ErrInvalidTransition, event, current)
	}
	return next, nil
}

// CanIngest reports whether leads may be added in the given status.
func CanIngest(s Status) bool {
	switch s {
	case StatusDraft, StatusActive, StatusPaused:
		return true
	}
	return false
}

// CanEditStructure reports whether structural fields (name, method,
// category, tags, assignees, assignment rule) may be changed.
func CanEditStructure(s Status) bool {
	return s == StatusDraft || s == StatusPaused
}
