package domain

// Action is the triage verdict for a single message.
type Action string

const (
	ActionKeep   Action = "keep"
	ActionTrash  Action = "trash"
	ActionReview Action = "review"
)

// ParseAction maps a free-form action string to a known Action, falling back
// to ActionReview for anything unrecognized.
func ParseAction(s string) Action {
	switch Action(s) {
	case ActionKeep, ActionTrash, ActionReview:
		return Action(s)
	}
	return ActionReview
}

// Decision is the classifier's verdict for one message. ID always matches the
// owning message after merge.
type Decision struct {
	ID       string `json:"id"`
	Action   Action `json:"action"`
	Category string `json:"category"`
	Summary  string `json:"summary"`
	Reason   string `json:"reason"`
}

// DefaultDecision is the verdict attached to a message the classifier said
// nothing about.
func DefaultDecision(id string) Decision {
	return Decision{
		ID:       id,
		Action:   ActionReview,
		Category: "other",
		Reason:   "no decision",
	}
}
